package migrations

import (
	"gorm.io/gorm"
)

// Migration003HackathonDateCheck enforces end_date > start_date in the database
// as well as in request validation.
func Migration003HackathonDateCheck() Migration {
	return Migration{
		ID:           "003_hackathon_date_check",
		Name:         "Add check constraint on hackathon dates",
		PostgresOnly: true,
		DependsOn:    []string{"001_submission_indexes"},
		Up: func(db *gorm.DB) error {
			var count int64
			if err := db.Raw(`
				SELECT COUNT(*)
				FROM information_schema.table_constraints
				WHERE constraint_name = 'chk_hackathons_dates'
				AND table_name = 'hackathons'
			`).Scan(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			return db.Exec(`
				ALTER TABLE hackathons
				ADD CONSTRAINT chk_hackathons_dates CHECK (end_date > start_date)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`ALTER TABLE hackathons DROP CONSTRAINT IF EXISTS chk_hackathons_dates`).Error
		},
	}
}
