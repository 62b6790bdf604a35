package handlers

import (
	"net/http"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasks_OnlyPublished(t *testing.T) {
	db := SetupTestDB(t)

	seedTask(t, db, "two-sum", models.DifficultyEasy)
	seedTask(t, db, "graph-walk", models.DifficultyHard)
	draft := seedTask(t, db, "draft", models.DifficultyEasy)
	require.NoError(t, db.Model(&draft).Update("is_published", false).Error)

	w := perform(t, http.MethodGet, "/tasks", "/tasks?difficulty=easy", nil, "", "", ListTasks)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []struct {
			ID         string `json:"id"`
			Difficulty string `json:"difficulty"`
		} `json:"tasks"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "two-sum", resp.Tasks[0].ID)
	assert.EqualValues(t, 1, resp.Pagination.Total)

	w = perform(t, http.MethodGet, "/tasks/:id", "/tasks/draft", nil, "", "", GetTask)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTask_HidesHiddenCases(t *testing.T) {
	db := SetupTestDB(t)
	seedTask(t, db, "echo", models.DifficultyEasy,
		models.TestCase{Input: "1", ExpectedOutput: "1"},
		models.TestCase{Input: "secret", ExpectedOutput: "secret", IsHidden: true},
	)
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", "echo").
		Update("description", "Print **the** input.<script>alert(1)</script>").Error)

	w := perform(t, http.MethodGet, "/tasks/:id", "/tasks/echo", nil, "", "", GetTask)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Task struct {
			DescriptionHTML string `json:"descriptionHtml"`
			TestCases       []struct {
				Input string `json:"input"`
			} `json:"testCases"`
		} `json:"task"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Task.TestCases, 1)
	assert.Equal(t, "1", resp.Task.TestCases[0].Input)
	assert.Contains(t, resp.Task.DescriptionHTML, "<strong>the</strong>")
	assert.NotContains(t, resp.Task.DescriptionHTML, "<script>")
}

func TestSubmitTask_Practice(t *testing.T) {
	db := SetupTestDB(t)
	seedUser(t, db, "alice", models.RoleUser)
	seedTask(t, db, "echo", models.DifficultyEasy,
		models.TestCase{Input: "", ExpectedOutput: "42"},
		models.TestCase{Input: "", ExpectedOutput: "42", IsHidden: true},
	)
	judge := useFakeJudge(t, 12, 3000)

	w := perform(t, http.MethodPost, "/tasks/:id/submit", "/tasks/echo/submit",
		map[string]string{"code": "42", "language": "py"}, "alice", models.RoleUser, SubmitTask)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2, judge.calls)

	var resp struct {
		Submission models.TaskSubmission `json:"submission"`
		FirstSolve bool                  `json:"firstSolve"`
	}
	decode(t, w, &resp)
	assert.Equal(t, models.StatusAccepted, resp.Submission.Status)
	assert.Equal(t, "python", resp.Submission.Language)
	assert.True(t, resp.FirstSolve)

	var alice models.User
	require.NoError(t, database.DB.First(&alice, "id = ?", "alice").Error)
	assert.Equal(t, 1, alice.TasksSolved)

	w = perform(t, http.MethodPost, "/tasks/:id/submit", "/tasks/echo/submit",
		map[string]string{"code": "42", "language": "cobol"}, "alice", models.RoleUser, SubmitTask)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunTask_CustomInput(t *testing.T) {
	db := SetupTestDB(t)
	seedTask(t, db, "echo", models.DifficultyEasy, models.TestCase{ExpectedOutput: "1"})
	judge := useFakeJudge(t, 1, 1)

	stdin := "hello"
	w := perform(t, http.MethodPost, "/tasks/:id/run", "/tasks/echo/run",
		gin.H{"code": "print(input())", "language": "python", "stdin": stdin}, "alice", models.RoleUser, RunTask)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, judge.calls)

	var resp struct {
		Type string `json:"type"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "custom", resp.Type)

	var n int64
	db.Model(&models.TaskSubmission{}).Count(&n)
	assert.Zero(t, n, "runs are not stored")
}

func TestRunTask_JudgeUnavailable(t *testing.T) {
	db := SetupTestDB(t)
	seedTask(t, db, "echo", models.DifficultyEasy, models.TestCase{ExpectedOutput: "1"})

	prev := services.DefaultJudge
	services.DefaultJudge = nil
	defer func() { services.DefaultJudge = prev }()

	w := perform(t, http.MethodPost, "/tasks/:id/run", "/tasks/echo/run",
		map[string]string{"code": "1", "language": "python"}, "alice", models.RoleUser, RunTask)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
