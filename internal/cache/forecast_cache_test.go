package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/backend-go/internal/config"
)

func TestForecastKey_StablePerParameters(t *testing.T) {
	assert.Equal(t, "forecast:7:lead=3|buffer=2", forecastKey(7, 3, 2))
	assert.Equal(t, forecastKey(7, 3, 2), forecastKey(7, 3, 2))
	assert.NotEqual(t, forecastKey(7, 3, 2), forecastKey(7, 5, 2))
	assert.NotEqual(t, forecastKey(7, 3, 2), forecastKey(8, 3, 2))
}

func TestNewForecastCache_DisabledIsNoop(t *testing.T) {
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	forecast, ok, err := c.Get(context.Background(), 1, 3, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, forecast)

	assert.NoError(t, c.Set(context.Background(), 1, 3, 2, nil))
	assert.NoError(t, c.InvalidateOrg(context.Background(), 1))
}
