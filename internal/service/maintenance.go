package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/recruitdesk/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the TUI and CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all records and restores the default field sets. It keeps the
// schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"job_applications",
			"candidates",
			"positions",
			"accounts",
			"users",
			"settings_variants",
			"field_sets",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return database.SeedDefaults(ctx, s.DB)
}
