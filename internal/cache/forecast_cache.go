package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stocksense/backend-go/internal/config"
	"github.com/stocksense/backend-go/internal/domain"
)

const (
	forecastKeyPrefix   = "forecast"
	forecastScanBatches = 100
)

// ForecastCache caches PredictStockouts output per (org, lead time,
// buffer). Consumption and settings writes invalidate the whole org.
type ForecastCache interface {
	Get(ctx context.Context, orgID int64, leadTimeDays, bufferDays int) (*domain.StockoutForecast, bool, error)
	Set(ctx context.Context, orgID int64, leadTimeDays, bufferDays int, forecast *domain.StockoutForecast) error
	InvalidateOrg(ctx context.Context, orgID int64) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, orgID int64, leadTimeDays, bufferDays int) (*domain.StockoutForecast, bool, error) {
	payload, err := c.client.Get(ctx, forecastKey(orgID, leadTimeDays, bufferDays)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecast domain.StockoutForecast
	if err := json.Unmarshal(payload, &forecast); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return &forecast, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, orgID int64, leadTimeDays, bufferDays int, forecast *domain.StockoutForecast) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, forecastKey(orgID, leadTimeDays, bufferDays), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateOrg(ctx context.Context, orgID int64) error {
	prefix := fmt.Sprintf("%s:%d:", forecastKeyPrefix, orgID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, forecastScanBatches)
}

func (n *noopForecastCache) Get(ctx context.Context, orgID int64, leadTimeDays, bufferDays int) (*domain.StockoutForecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, orgID int64, leadTimeDays, bufferDays int, forecast *domain.StockoutForecast) error {
	return nil
}

func (n *noopForecastCache) InvalidateOrg(ctx context.Context, orgID int64) error {
	return nil
}

func forecastKey(orgID int64, leadTimeDays, bufferDays int) string {
	return fmt.Sprintf("%s:%d:lead=%d|buffer=%d", forecastKeyPrefix, orgID, leadTimeDays, bufferDays)
}
