package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"pairbook/internal/models"
)

// GetSettings returns the household settings, zero-valued when never saved.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := &models.Settings{}
	err := s.db.QueryRowContext(ctx,
		"SELECT monthly_budget FROM settings WHERE id = 1",
	).Scan(&settings.MonthlyBudget)

	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// SaveSettings replaces the household settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, monthly_budget) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET monthly_budget = excluded.monthly_budget`,
		settings.MonthlyBudget,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
