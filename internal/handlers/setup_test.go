package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB points database.DB at a fresh in-memory SQLite database with
// the full schema. Each test gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345", FrontendURL: "http://localhost:5173"}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	database.Redis = nil
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fakeJudge accepts a case when the submitted code equals its expected output.
type fakeJudge struct {
	timeMs   float64
	memoryKB float64
	calls    int
}

func (f *fakeJudge) Execute(_ context.Context, req services.ExecuteRequest) (*services.ExecuteResult, error) {
	f.calls++
	status := models.StatusWrongAnswer
	if services.OutputsMatch(req.SourceCode, req.ExpectedOutput) {
		status = models.StatusAccepted
	}
	return &services.ExecuteResult{Status: status, Stdout: req.SourceCode, TimeMs: f.timeMs, MemoryKB: f.memoryKB}, nil
}

func useFakeJudge(t *testing.T, timeMs, memoryKB float64) *fakeJudge {
	t.Helper()
	prev := services.DefaultJudge
	j := &fakeJudge{timeMs: timeMs, memoryKB: memoryKB}
	services.DefaultJudge = j
	t.Cleanup(func() { services.DefaultJudge = prev })
	return j
}

// perform runs one request against handler mounted at pattern, as userID
// with the given role. An empty userID makes the request anonymous.
func perform(t *testing.T, method, pattern, path string, body interface{}, userID string, role models.Role, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.Handle(method, pattern, func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
			c.Set("role", string(role))
		}
		c.Next()
	}, handler)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func seedUser(t *testing.T, db *gorm.DB, id string, role models.Role) models.User {
	t.Helper()
	u := models.User{ID: id, Username: id, Email: id + "@example.com", Name: id, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedTask(t *testing.T, db *gorm.DB, id string, difficulty models.Difficulty, cases ...models.TestCase) models.Task {
	t.Helper()
	task := models.Task{ID: id, Title: id, Slug: id, Difficulty: difficulty, TimeLimit: 2, MemoryLimit: 128000, IsPublished: true}
	require.NoError(t, db.Create(&task).Error)
	for i, tc := range cases {
		tc.ID = fmt.Sprintf("%s-tc%d", id, i)
		tc.TaskID = id
		tc.Position = i
		require.NoError(t, db.Create(&tc).Error)
	}
	return task
}

// seedHackathon creates a hackathon running from start to end with the tasks linked in order.
func seedHackathon(t *testing.T, db *gorm.DB, id string, start, end time.Time, open bool, taskIDs ...string) models.Hackathon {
	t.Helper()
	h := models.Hackathon{ID: id, Title: id, Slug: id, StartDate: start, EndDate: end, IsOpen: open}
	require.NoError(t, db.Select("*").Create(&h).Error)
	require.NoError(t, services.SetHackathonTasks(db, id, taskIDs))
	return h
}

func participates(t *testing.T, db *gorm.DB, hackathonID, userID string) bool {
	t.Helper()
	ok, err := services.IsParticipant(db, hackathonID, userID)
	require.NoError(t, err)
	return ok
}

func linked(t *testing.T, db *gorm.DB, hackathonID, taskID string) bool {
	t.Helper()
	ok, err := services.HackathonHasTask(db, hackathonID, taskID)
	require.NoError(t, err)
	return ok
}
