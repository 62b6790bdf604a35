package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitSolution_Practice(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	task := createTask(t, db, "echo", models.DifficultyEasy,
		models.TestCase{Input: "1", ExpectedOutput: "1"},
		models.TestCase{Input: "2", ExpectedOutput: "2", IsHidden: true},
	)
	ctx := context.Background()

	out, err := SubmitSolution(ctx, db, echoJudge(100, 1000), "alice", &task, nil, "python", "print(input())")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, out.Submission.Status)
	assert.True(t, out.FirstSolve)
	assert.Nil(t, out.Score)
	assert.Equal(t, 2, out.Submission.PassedCount)

	out, err = SubmitSolution(ctx, db, echoJudge(50, 500), "alice", &task, nil, "python", "print(input())")
	require.NoError(t, err)
	assert.False(t, out.FirstSolve)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", "alice").Error)
	assert.Equal(t, 1, u.TasksSolved)

	var n int64
	db.Model(&models.TaskSubmission{}).Where("user_id = ?", "alice").Count(&n)
	assert.EqualValues(t, 2, n)
}

func TestSubmitSolution_FailureIsStored(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	task := createTask(t, db, "echo", models.DifficultyEasy, models.TestCase{Input: "1", ExpectedOutput: "2"})

	out, err := SubmitSolution(context.Background(), db, echoJudge(10, 10), "alice", &task, nil, "go", "package main")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWrongAnswer, out.Submission.Status)
	assert.False(t, out.FirstSolve)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", "alice").Error)
	assert.Zero(t, u.TasksSolved)
}

func TestSubmitSolution_LongOutputStaysValidUTF8(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	task := createTask(t, db, "echo", models.DifficultyEasy, models.TestCase{Input: "1", ExpectedOutput: "1"})

	noisy := "a" + strings.Repeat("я", 3000)
	judge := judgeFunc(func(_ context.Context, _ ExecuteRequest) (*ExecuteResult, error) {
		return &ExecuteResult{Status: models.StatusWrongAnswer, Stdout: noisy, Stderr: noisy, TimeMs: 1, MemoryKB: 1}, nil
	})

	out, err := SubmitSolution(context.Background(), db, judge, "alice", &task, nil, "cpp", "int main(){}")
	require.NoError(t, err)

	var stored models.TaskSubmission
	require.NoError(t, db.First(&stored, "id = ?", out.Submission.ID).Error)
	assert.True(t, utf8.ValidString(stored.Stdout))
	assert.True(t, utf8.ValidString(stored.Stderr))
	assert.LessOrEqual(t, len(stored.Stdout), 4096)
	assert.Greater(t, len(stored.Stdout), 4090)
}

func TestSubmitSolution_HackathonRescores(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	task := createTask(t, db, "echo", models.DifficultyHard, models.TestCase{Input: "x", ExpectedOutput: "x"})
	h := createHackathon(t, db, "rescore-cup", task.ID)
	_, err := AddParticipant(db, h.ID, "alice")
	require.NoError(t, err)

	hid := h.ID
	out, err := SubmitSolution(context.Background(), db, echoJudge(4, 2500), "alice", &task, &hid, "cpp", "int main(){}")
	require.NoError(t, err)
	require.NotNil(t, out.Score)
	assert.InDelta(t, math.Log10(3e6)-2, *out.Score, 1e-9)

	// a slower resubmission replaces the earlier result
	out, err = SubmitSolution(context.Background(), db, echoJudge(100, 10000), "alice", &task, &hid, "cpp", "int main(){}")
	require.NoError(t, err)
	require.NotNil(t, out.Score)
	assert.InDelta(t, math.Log10(3e6)-3, *out.Score, 1e-9)

	var p models.HackathonParticipant
	require.NoError(t, db.First(&p, "hackathon_id = ? AND user_id = ?", h.ID, "alice").Error)
	assert.InDelta(t, *out.Score, p.TotalScore, 1e-9)
}

func TestSubmitSolution_JudgeDown(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	task := createTask(t, db, "echo", models.DifficultyEasy, models.TestCase{Input: "1", ExpectedOutput: "1"})

	down := judgeFunc(func(context.Context, ExecuteRequest) (*ExecuteResult, error) {
		return nil, ErrJudgeUnavailable
	})
	_, err := SubmitSolution(context.Background(), db, down, "alice", &task, nil, "python", "")
	assert.ErrorIs(t, err, ErrJudgeUnavailable)

	var n int64
	db.Model(&models.TaskSubmission{}).Count(&n)
	assert.Zero(t, n, "nothing stored when judging fails")
}
