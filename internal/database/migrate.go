package database

import (
	"fmt"

	"github.com/Ariet2003/codigma-sub000/internal/migrations"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates every table, then applies the versioned migrations.
// On postgres tables are created first and foreign keys added in a second
// pass; other dialects get a single pass.
func Migrate(db *gorm.DB) error {
	tableModels := models.All()
	postgres := db.Dialector.Name() == "postgres"

	if postgres {
		db.Config.DisableForeignKeyConstraintWhenMigrating = true
	}
	for _, m := range tableModels {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	if postgres {
		db.Config.DisableForeignKeyConstraintWhenMigrating = false
		if err := db.AutoMigrate(tableModels...); err != nil {
			return fmt.Errorf("add constraints: %w", err)
		}
	}

	if err := migrations.NewMigrator(db).Run(); err != nil {
		return err
	}
	logger.Info().Int("tables", len(tableModels)).Msg("Database migrations complete")
	return nil
}
