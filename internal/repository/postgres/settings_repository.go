package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/repository"
)

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, orgID int64) (*domain.OrgSettings, error) {
	query := `
		SELECT org_id, lead_time_days, low_stock_buffer_days
		FROM org_settings
		WHERE org_id = $1
	`
	var s domain.OrgSettings
	if err := r.db.GetContext(ctx, &s, query, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get org settings: %w", err)
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *domain.OrgSettings) error {
	query := `
		INSERT INTO org_settings (org_id, lead_time_days, low_stock_buffer_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id)
		DO UPDATE SET
			lead_time_days = EXCLUDED.lead_time_days,
			low_stock_buffer_days = EXCLUDED.low_stock_buffer_days
	`
	if _, err := r.db.ExecContext(ctx, query, s.OrgID, s.LeadTimeDays, s.LowStockBufferDays); err != nil {
		return fmt.Errorf("failed to upsert org settings: %w", err)
	}
	return nil
}
