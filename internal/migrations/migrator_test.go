package migrations

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func indexExists(t *testing.T, db *gorm.DB, name string) bool {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name).Scan(&n).Error)
	return n > 0
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db)

	pending, err := m.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, len(GetMigrations()))

	require.NoError(t, m.Run())
	require.NoError(t, m.Run())

	pending, err = m.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	var records []MigrationRecord
	require.NoError(t, db.Order("id").Find(&records).Error)
	require.Len(t, records, 3)
	assert.Equal(t, "001_submission_indexes", records[0].ID)

	for _, idx := range submissionIndexes {
		assert.True(t, indexExists(t, db, idx.name), idx.name)
	}
	// postgres-only migrations are recorded without running
	assert.False(t, indexExists(t, db, "idx_tasks_tags"))
}

func TestMigrator_Rollback(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db)
	require.NoError(t, m.Run())

	id, err := m.Rollback()
	require.NoError(t, err)
	assert.Equal(t, "003_hackathon_date_check", id)

	id, err = m.Rollback()
	require.NoError(t, err)
	assert.Equal(t, "002_task_tags_index", id)

	id, err = m.Rollback()
	require.NoError(t, err)
	assert.Equal(t, "001_submission_indexes", id)
	assert.False(t, indexExists(t, db, "idx_task_submissions_user_task_status"))

	id, err = m.Rollback()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMigrator_MissingDependency(t *testing.T) {
	db := openTestDB(t)
	m := &Migrator{db: db, migrations: []Migration{Migration003HackathonDateCheck()}}

	err := m.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depends on 001_submission_indexes")
}
