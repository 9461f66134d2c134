package repository

import (
	"context"

	"github.com/stocksense/backend-go/internal/domain"
)

// SettingsRepository stores per-organization forecasting settings.
type SettingsRepository interface {
	// Get returns nil (no error) when the org has no stored settings.
	Get(ctx context.Context, orgID int64) (*domain.OrgSettings, error)
	Upsert(ctx context.Context, s *domain.OrgSettings) error
}
