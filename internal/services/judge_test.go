package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestJudge0Client_Execute(t *testing.T) {
	var got judge0Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			// Judge0 wraps long base64 output
			"stdout": b64("3 \n")[:4] + "\n" + b64("3 \n")[4:],
			"time":   "0.025",
			"memory": 2048,
			"status": map[string]interface{}{"id": 4, "description": "Wrong Answer"},
		})
	}))
	defer srv.Close()

	client := &Judge0Client{BaseURL: srv.URL, AuthToken: "secret", HTTP: srv.Client()}
	res, err := client.Execute(context.Background(), ExecuteRequest{
		Language:       "python",
		SourceCode:     "print(3)",
		Stdin:          "1 2",
		ExpectedOutput: "3",
		TimeLimit:      60,
		MemoryLimit:    128000,
	})
	require.NoError(t, err)

	assert.Equal(t, 71, got.LanguageID)
	assert.Equal(t, b64("print(3)"), got.SourceCode)
	assert.Equal(t, b64("1 2"), got.Stdin)
	assert.Equal(t, maxCPUTimeLimit, got.CPUTimeLimit)
	assert.Equal(t, 128000, got.MemoryLimit)

	// trailing whitespace differences are accepted
	assert.Equal(t, models.StatusAccepted, res.Status)
	assert.Equal(t, 4, res.StatusID)
	assert.Equal(t, "3 \n", res.Stdout)
	assert.InDelta(t, 25, res.TimeMs, 1e-9)
	assert.InDelta(t, 2048, res.MemoryKB, 1e-9)
}

func TestJudge0Client_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := &Judge0Client{BaseURL: srv.URL, HTTP: srv.Client()}

	_, err := client.Execute(context.Background(), ExecuteRequest{Language: "cobol"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = client.Execute(context.Background(), ExecuteRequest{Language: "go", SourceCode: "package main"})
	assert.ErrorIs(t, err, ErrJudgeUnavailable)
}

func TestMapJudge0Status(t *testing.T) {
	expected := map[int]models.SubmissionStatus{
		1:  models.StatusPending,
		2:  models.StatusPending,
		3:  models.StatusAccepted,
		4:  models.StatusWrongAnswer,
		5:  models.StatusTimeLimitExceeded,
		6:  models.StatusCompilationError,
		7:  models.StatusRuntimeError,
		12: models.StatusRuntimeError,
		13: models.StatusInternalError,
		14: models.StatusInternalError,
	}
	for id, status := range expected {
		assert.Equal(t, status, MapJudge0Status(id), "status id %d", id)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	lang, ok := NormalizeLanguage(" Python3 ")
	assert.True(t, ok)
	assert.Equal(t, "python", lang)

	lang, ok = NormalizeLanguage("C++")
	assert.True(t, ok)
	assert.Equal(t, "cpp", lang)

	_, ok = NormalizeLanguage("brainfuck")
	assert.False(t, ok)
}

func TestOutputsMatch(t *testing.T) {
	assert.True(t, OutputsMatch("1 2\r\n3  \n\n", "1 2\n3"))
	assert.False(t, OutputsMatch("1 2", "1  2"))
}

func TestJudgeTask(t *testing.T) {
	task := &models.Task{ID: "t", TimeLimit: 1, MemoryLimit: 1000}
	cases := []models.TestCase{
		{ID: "c1", Input: "a", ExpectedOutput: "a"},
		{ID: "c2", Input: "b", ExpectedOutput: "x", IsHidden: true},
		{ID: "c3", Input: "c", ExpectedOutput: "c"},
	}

	calls := 0
	judge := judgeFunc(func(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
		calls++
		res, _ := echoJudge(float64(calls*10), float64(1000-calls))(ctx, req)
		return res, nil
	})

	v, err := JudgeTask(context.Background(), judge, task, cases, "python", "code")
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "every case runs")
	assert.Equal(t, models.StatusWrongAnswer, v.Status)
	assert.Equal(t, 2, v.Passed)
	assert.Equal(t, 1, v.Failed)
	assert.Equal(t, 3, v.Total)
	assert.InDelta(t, 30, v.ExecutionTime, 1e-9)
	assert.InDelta(t, 999, v.Memory, 1e-9)

	require.Len(t, v.Cases, 3)
	assert.Equal(t, "a", v.Cases[0].Input)
	assert.True(t, v.Cases[1].Hidden)
	assert.Empty(t, v.Cases[1].Input)
	assert.Empty(t, v.Cases[1].Actual)
	assert.Empty(t, v.Stdout, "hidden failing output is not echoed")
}

func TestJudgeTask_CompilationErrorStops(t *testing.T) {
	task := &models.Task{ID: "t"}
	cases := []models.TestCase{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	calls := 0
	judge := judgeFunc(func(context.Context, ExecuteRequest) (*ExecuteResult, error) {
		calls++
		return &ExecuteResult{Status: models.StatusCompilationError, CompileOutput: "syntax error"}, nil
	})

	v, err := JudgeTask(context.Background(), judge, task, cases, "cpp", "int main(")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, models.StatusCompilationError, v.Status)
	assert.Equal(t, "syntax error", v.CompileOutput)
	assert.Equal(t, 3, v.Failed)
	assert.Zero(t, v.Passed)
}

func TestJudgeTask_Preconditions(t *testing.T) {
	task := &models.Task{ID: "t"}

	_, err := JudgeTask(context.Background(), nil, task, []models.TestCase{{ID: "c"}}, "go", "")
	assert.ErrorIs(t, err, ErrJudgeUnavailable)

	_, err = JudgeTask(context.Background(), echoJudge(1, 1), task, nil, "go", "")
	assert.ErrorIs(t, err, ErrNoTestCases)
}
