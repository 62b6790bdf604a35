package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	results := Table{
		Sheet:   "Results",
		Headers: []string{"Rank", "Username"},
		Rows:    [][]interface{}{{1, "alice"}, {2, "bob"}},
	}
	users := Table{Sheet: "Users", Headers: []string{"Username"}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, results, users))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Results", "Users"}, f.GetSheetList())

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Rank", "Username"}, {"1", "alice"}, {"2", "bob"}}, rows)
}

func TestBuildHackathonReport(t *testing.T) {
	db := setupTestDB(t)

	createUser(t, db, "alice")
	createUser(t, db, "bob")
	createTask(t, db, "easy", models.DifficultyEasy)
	h := createHackathon(t, db, "report-cup", "easy")
	_, err := AddParticipant(db, h.ID, "alice")
	require.NoError(t, err)
	_, err = AddParticipant(db, h.ID, "bob")
	require.NoError(t, err)

	hid := h.ID
	for _, status := range []models.SubmissionStatus{models.StatusWrongAnswer, models.StatusAccepted} {
		require.NoError(t, db.Create(&models.TaskSubmission{
			ID: utils.GenerateID(), TaskID: "easy", UserID: "bob", HackathonID: &hid,
			Status: status, ExecutionTime: 100, Memory: 1000, CreatedAt: time.Now(),
		}).Error)
	}
	_, err = RecomputeHackathonScores(db, h.ID)
	require.NoError(t, err)

	report, err := BuildHackathonReport(db, h.ID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	top := report.Rows[0]
	assert.Equal(t, "bob", top.Username)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "bob@example.com", top.Email)
	assert.EqualValues(t, 2, top.Submissions)
	assert.EqualValues(t, 1, top.Accepted)
	assert.Equal(t, 1, top.Solved)
	assert.InDelta(t, 3.5, top.TotalScore, 1e-9)

	table := report.Table()
	assert.Equal(t, "Results", table.Sheet)
	assert.Equal(t, "3.5000", table.Rows[0][4])
}

func TestBuildTaskStatsReport(t *testing.T) {
	db := setupTestDB(t)

	createUser(t, db, "alice")
	createTask(t, db, "solved", models.DifficultyMedium)
	createTask(t, db, "untouched", models.DifficultyHard)

	for i, status := range []models.SubmissionStatus{models.StatusAccepted, models.StatusWrongAnswer, models.StatusAccepted, models.StatusRuntimeError} {
		require.NoError(t, db.Create(&models.TaskSubmission{
			ID: utils.GenerateID(), TaskID: "solved", UserID: "alice",
			Status: status, ExecutionTime: float64(10 * (i + 1)), Memory: 500, CreatedAt: time.Now(),
		}).Error)
	}

	report, err := BuildTaskStatsReport(db)
	require.NoError(t, err)

	byID := map[string]TaskStatRow{}
	for _, r := range report.Rows {
		byID[r.TaskID] = r
	}
	solved := byID["solved"]
	assert.EqualValues(t, 4, solved.Attempts)
	assert.EqualValues(t, 2, solved.Accepted)
	assert.EqualValues(t, 1, solved.UniqueSolvers)
	assert.InDelta(t, 50, solved.AcceptanceRate, 1e-9)
	assert.InDelta(t, 20, solved.AvgTimeMs, 1e-9)

	untouched := byID["untouched"]
	assert.Zero(t, untouched.Attempts)
	assert.Zero(t, untouched.AcceptanceRate)
}

func TestBuildUserActivityReport(t *testing.T) {
	db := setupTestDB(t)

	createUser(t, db, "alice")
	createTask(t, db, "easy", models.DifficultyEasy)
	require.NoError(t, db.Create(&models.TaskSubmission{
		ID: utils.GenerateID(), TaskID: "easy", UserID: "alice",
		Status: models.StatusAccepted, CreatedAt: time.Now(),
	}).Error)

	report, err := BuildUserActivityReport(db)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.EqualValues(t, 1, report.Rows[0].Submissions)
	assert.EqualValues(t, 1, report.Rows[0].Accepted)
	assert.Len(t, report.Table().Headers, 7)
}
