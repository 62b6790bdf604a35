package migrations

import (
	"gorm.io/gorm"
)

// Migration002TaskTagsIndex indexes the tags array for `? = ANY(tags)` filters.
func Migration002TaskTagsIndex() Migration {
	return Migration{
		ID:           "002_task_tags_index",
		Name:         "Add GIN index on tasks.tags",
		PostgresOnly: true,
		Up: func(db *gorm.DB) error {
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_tasks_tags ON tasks USING GIN (tags)`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_tasks_tags`).Error
		},
	}
}
