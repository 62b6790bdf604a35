package migrations

import (
	"fmt"
	"time"

	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID        string // Unique identifier (e.g., "001_submission_indexes")
	Name      string // Human-readable name
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string // IDs of migrations this depends on

	// PostgresOnly migrations are recorded but skipped on other dialects.
	PostgresOnly bool
}

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoUpdateTime:nano"`
}

// TableName overrides the table name
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a new migrator
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}
	out := make(map[string]bool, len(records))
	for _, r := range records {
		out[r.ID] = true
	}
	return out, nil
}

// Run executes all pending migrations
func (m *Migrator) Run() error {
	appliedMap, err := m.applied()
	if err != nil {
		return err
	}
	postgres := m.db.Dialector.Name() == "postgres"

	for _, migration := range m.migrations {
		if appliedMap[migration.ID] {
			continue
		}

		for _, dep := range migration.DependsOn {
			if !appliedMap[dep] {
				return fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		skip := migration.PostgresOnly && !postgres
		if skip {
			logger.Debug().Str("migration", migration.ID).Msg("Skipping postgres-only migration")
		} else {
			logger.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("Running migration")
		}

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if !skip {
				if err := migration.Up(tx); err != nil {
					return err
				}
			}
			return tx.Create(&MigrationRecord{
				ID:   migration.ID,
				Name: migration.Name,
			}).Error
		}); err != nil {
			logger.Error().Err(err).Str("migration", migration.ID).Msg("Migration failed")
			return fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}

		appliedMap[migration.ID] = true
	}

	return nil
}

// Pending lists migrations that have not been recorded yet.
func (m *Migrator) Pending() ([]Migration, error) {
	appliedMap, err := m.applied()
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, migration := range m.migrations {
		if !appliedMap[migration.ID] {
			out = append(out, migration)
		}
	}
	return out, nil
}

// Rollback runs Down for the most recently registered applied migration.
func (m *Migrator) Rollback() (string, error) {
	appliedMap, err := m.applied()
	if err != nil {
		return "", err
	}
	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if !appliedMap[migration.ID] {
			continue
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if migration.Down != nil && (!migration.PostgresOnly || tx.Dialector.Name() == "postgres") {
				if err := migration.Down(tx); err != nil {
					return err
				}
			}
			return tx.Delete(&MigrationRecord{}, "id = ?", migration.ID).Error
		})
		return migration.ID, err
	}
	return "", nil
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001SubmissionIndexes(),
		Migration002TaskTagsIndex(),
		Migration003HackathonDateCheck(),
	}
}
