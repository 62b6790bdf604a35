package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB gives each test its own in-memory SQLite database with the
// full schema and points database.DB at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type judgeFunc func(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)

func (f judgeFunc) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	return f(ctx, req)
}

// echoJudge accepts when stdin equals the expected output and reports the
// given time and memory for every case.
func echoJudge(timeMs, memoryKB float64) judgeFunc {
	return func(_ context.Context, req ExecuteRequest) (*ExecuteResult, error) {
		status := models.StatusWrongAnswer
		if OutputsMatch(req.Stdin, req.ExpectedOutput) {
			status = models.StatusAccepted
		}
		return &ExecuteResult{Status: status, Stdout: req.Stdin, TimeMs: timeMs, MemoryKB: memoryKB}, nil
	}
}

func createUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	u := models.User{ID: id, Username: id, Email: id + "@example.com", Name: strings.ToUpper(id), Role: models.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createTask(t *testing.T, db *gorm.DB, id string, difficulty models.Difficulty, cases ...models.TestCase) models.Task {
	t.Helper()
	task := models.Task{ID: id, Title: id, Slug: id, Difficulty: difficulty, TimeLimit: 2, MemoryLimit: 128000, IsPublished: true}
	require.NoError(t, db.Create(&task).Error)
	for i, tc := range cases {
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("%s-case-%d", id, i)
		}
		tc.TaskID = id
		tc.Position = i
		require.NoError(t, db.Create(&tc).Error)
	}
	return task
}

// createHackathon creates an open hackathon that started an hour ago and
// runs for another hour, linked to the given tasks.
func createHackathon(t *testing.T, db *gorm.DB, id string, taskIDs ...string) models.Hackathon {
	t.Helper()
	now := time.Now()
	h := models.Hackathon{
		ID:        id,
		Title:     id,
		Slug:      id,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsOpen:    true,
	}
	require.NoError(t, db.Create(&h).Error)
	require.NoError(t, SetHackathonTasks(db, id, taskIDs))
	return h
}

func participates(t *testing.T, db *gorm.DB, hackathonID, userID string) bool {
	t.Helper()
	ok, err := IsParticipant(db, hackathonID, userID)
	require.NoError(t, err)
	return ok
}

func linked(t *testing.T, db *gorm.DB, hackathonID, taskID string) bool {
	t.Helper()
	ok, err := HackathonHasTask(db, hackathonID, taskID)
	require.NoError(t, err)
	return ok
}
