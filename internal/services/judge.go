package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

var (
	ErrJudgeUnavailable    = errors.New("judge service unavailable")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoTestCases         = errors.New("task has no test cases")
)

// Judge0 language ids for the languages the editor offers.
var judge0Languages = map[string]int{
	"python":     71,
	"javascript": 63,
	"typescript": 74,
	"java":       62,
	"cpp":        54,
	"c":          50,
	"go":         60,
	"csharp":     51,
	"rust":       73,
	"kotlin":     78,
}

var languageAliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"js":      "javascript",
	"node":    "javascript",
	"ts":      "typescript",
	"c++":     "cpp",
	"golang":  "go",
	"cs":      "csharp",
	"c#":      "csharp",
	"kt":      "kotlin",
}

// NormalizeLanguage converts frontend language names to the canonical slug.
// The second return is false for languages the judge cannot run.
func NormalizeLanguage(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		lang = alias
	}
	_, ok := judge0Languages[lang]
	return lang, ok
}

func SupportedLanguages() []string {
	return []string{"python", "javascript", "typescript", "java", "cpp", "c", "go", "csharp", "rust", "kotlin"}
}

type ExecuteRequest struct {
	Language       string
	SourceCode     string
	Stdin          string
	ExpectedOutput string
	TimeLimit      float64 // seconds
	MemoryLimit    int     // KB
}

type ExecuteResult struct {
	Status        models.SubmissionStatus `json:"status"`
	StatusID      int                     `json:"statusId"`
	Description   string                  `json:"description"`
	Stdout        string                  `json:"stdout"`
	Stderr        string                  `json:"stderr"`
	CompileOutput string                  `json:"compileOutput"`
	TimeMs        float64                 `json:"time"`
	MemoryKB      float64                 `json:"memory"`
}

// Judge runs a single program against a single input.
type Judge interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
}

// DefaultJudge is what handlers use. Tests swap it for a fake.
var DefaultJudge Judge

func InitJudge() {
	DefaultJudge = NewJudge0Client(config.AppConfig)
}

type Judge0Client struct {
	BaseURL   string
	APIKey    string
	APIHost   string
	AuthToken string
	HTTP      *http.Client
}

func NewJudge0Client(cfg *config.Config) *Judge0Client {
	timeout := time.Duration(cfg.Judge0TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Judge0Client{
		BaseURL:   strings.TrimRight(cfg.Judge0URL, "/"),
		APIKey:    cfg.Judge0APIKey,
		APIHost:   cfg.Judge0APIHost,
		AuthToken: cfg.Judge0AuthToken,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

type judge0Submission struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin,omitempty"`
	ExpectedOutput string  `json:"expected_output,omitempty"`
	CPUTimeLimit   float64 `json:"cpu_time_limit,omitempty"`
	MemoryLimit    int     `json:"memory_limit,omitempty"`
}

type judge0Response struct {
	Stdout        *string  `json:"stdout"`
	Stderr        *string  `json:"stderr"`
	CompileOutput *string  `json:"compile_output"`
	Message       *string  `json:"message"`
	Time          *string  `json:"time"`
	Memory        *float64 `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Judge0 caps submissions at these unless the instance is reconfigured.
const (
	maxCPUTimeLimit = 15.0
	maxMemoryLimit  = 512000
)

func (j *Judge0Client) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	langID, ok := judge0Languages[req.Language]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	body := judge0Submission{
		SourceCode:     encode64(req.SourceCode),
		LanguageID:     langID,
		Stdin:          encode64(req.Stdin),
		ExpectedOutput: encode64(req.ExpectedOutput),
		CPUTimeLimit:   clampFloat(req.TimeLimit, maxCPUTimeLimit),
		MemoryLimit:    clampInt(req.MemoryLimit, maxMemoryLimit),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := j.BaseURL + "/submissions?base64_encoded=true&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if j.APIKey != "" {
		httpReq.Header.Set("X-RapidAPI-Key", j.APIKey)
		if j.APIHost != "" {
			httpReq.Header.Set("X-RapidAPI-Host", j.APIHost)
		}
	}
	if j.AuthToken != "" {
		httpReq.Header.Set("X-Auth-Token", j.AuthToken)
	}

	start := time.Now()
	resp, err := j.HTTP.Do(httpReq)
	if err != nil {
		logger.Error().Err(err).Str("lang", req.Language).Msg("Judge0 request failed")
		return nil, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("Judge0 returned non-2xx")
		return nil, fmt.Errorf("%w: status %d", ErrJudgeUnavailable, resp.StatusCode)
	}

	var out judge0Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrJudgeUnavailable, err)
	}

	result := &ExecuteResult{
		Status:        MapJudge0Status(out.Status.ID),
		StatusID:      out.Status.ID,
		Description:   out.Status.Description,
		Stdout:        decode64(out.Stdout),
		Stderr:        decode64(out.Stderr),
		CompileOutput: decode64(out.CompileOutput),
		TimeMs:        parseSeconds(out.Time),
	}
	if out.Memory != nil {
		result.MemoryKB = *out.Memory
	}
	if result.Stderr == "" && out.Message != nil {
		result.Stderr = decode64(out.Message)
	}

	// Judge0 compares byte-for-byte; trailing whitespace differences are not wrong answers here.
	if result.Status == models.StatusWrongAnswer && req.ExpectedOutput != "" &&
		OutputsMatch(result.Stdout, req.ExpectedOutput) {
		result.Status = models.StatusAccepted
	}

	logger.Info().
		Str("lang", req.Language).
		Int("status_id", out.Status.ID).
		Dur("latency", time.Since(start)).
		Msg("Executed code via Judge0")

	return result, nil
}

// MapJudge0Status converts a Judge0 status id into a submission status.
func MapJudge0Status(id int) models.SubmissionStatus {
	switch {
	case id == 1 || id == 2:
		return models.StatusPending
	case id == 3:
		return models.StatusAccepted
	case id == 4:
		return models.StatusWrongAnswer
	case id == 5:
		return models.StatusTimeLimitExceeded
	case id == 6:
		return models.StatusCompilationError
	case id >= 7 && id <= 12:
		return models.StatusRuntimeError
	default:
		return models.StatusInternalError
	}
}

// OutputsMatch compares program output ignoring CRLF and trailing whitespace on each line.
func OutputsMatch(actual, expected string) bool {
	return normalizeOutput(actual) == normalizeOutput(expected)
}

func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(s, "\n "), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

func encode64(s string) string {
	if s == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Judge0 wraps base64 output at 60 columns.
func decode64(s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	clean := strings.NewReplacer("\n", "", "\r", "").Replace(*s)
	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return *s
	}
	return string(raw)
}

// parseSeconds turns Judge0's "0.012" into milliseconds.
func parseSeconds(s *string) float64 {
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 0
	}
	return v * 1000
}

func clampFloat(v, max float64) float64 {
	if v <= 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, max int) int {
	if v <= 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// CaseResult is one test case outcome. Input and outputs are blanked for hidden cases.
type CaseResult struct {
	TestCaseID string                  `json:"testCaseId"`
	Status     models.SubmissionStatus `json:"status"`
	Hidden     bool                    `json:"hidden"`
	Input      string                  `json:"input,omitempty"`
	Expected   string                  `json:"expectedOutput,omitempty"`
	Actual     string                  `json:"actualOutput,omitempty"`
	TimeMs     float64                 `json:"time"`
	MemoryKB   float64                 `json:"memory"`
}

// Verdict aggregates a full judging run. ExecutionTime and Memory are the
// maxima over the cases that ran.
type Verdict struct {
	Status        models.SubmissionStatus `json:"status"`
	ExecutionTime float64                 `json:"executionTime"`
	Memory        float64                 `json:"memory"`
	Passed        int                     `json:"passedCount"`
	Failed        int                     `json:"failedCount"`
	Total         int                     `json:"totalCount"`
	Stdout        string                  `json:"stdout,omitempty"`
	Stderr        string                  `json:"stderr,omitempty"`
	CompileOutput string                  `json:"compileOutput,omitempty"`
	Cases         []CaseResult            `json:"results"`
}

// JudgeTask runs code against every test case in order. A compilation error
// fails the remaining cases without calling the judge again. The verdict
// status is ACCEPTED only when every case passed, otherwise the status of the
// first failing case.
func JudgeTask(ctx context.Context, judge Judge, task *models.Task, cases []models.TestCase, language, code string) (*Verdict, error) {
	if judge == nil {
		return nil, ErrJudgeUnavailable
	}
	if len(cases) == 0 {
		return nil, ErrNoTestCases
	}

	v := &Verdict{Status: models.StatusAccepted, Total: len(cases)}
	for i, tc := range cases {
		res, err := judge.Execute(ctx, ExecuteRequest{
			Language:       language,
			SourceCode:     code,
			Stdin:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			TimeLimit:      task.TimeLimit,
			MemoryLimit:    task.MemoryLimit,
		})
		if err != nil {
			return nil, err
		}

		if res.TimeMs > v.ExecutionTime {
			v.ExecutionTime = res.TimeMs
		}
		if res.MemoryKB > v.Memory {
			v.Memory = res.MemoryKB
		}

		cr := CaseResult{
			TestCaseID: tc.ID,
			Status:     res.Status,
			Hidden:     tc.IsHidden,
			TimeMs:     res.TimeMs,
			MemoryKB:   res.MemoryKB,
		}
		if !tc.IsHidden {
			cr.Input = tc.Input
			cr.Expected = tc.ExpectedOutput
			cr.Actual = res.Stdout
		}
		v.Cases = append(v.Cases, cr)

		if res.Status == models.StatusAccepted {
			v.Passed++
			continue
		}

		v.Failed++
		if v.Status == models.StatusAccepted {
			v.Status = res.Status
			v.Stderr = res.Stderr
			v.CompileOutput = res.CompileOutput
			if !tc.IsHidden {
				v.Stdout = res.Stdout
			}
		}
		if res.Status == models.StatusCompilationError {
			v.Failed += len(cases) - i - 1
			break
		}
	}
	return v, nil
}
