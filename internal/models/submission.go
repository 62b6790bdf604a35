package models

import "time"

type SubmissionStatus string

const (
	StatusPending           SubmissionStatus = "PENDING"
	StatusAccepted          SubmissionStatus = "ACCEPTED"
	StatusWrongAnswer       SubmissionStatus = "WRONG_ANSWER"
	StatusTimeLimitExceeded SubmissionStatus = "TIME_LIMIT_EXCEEDED"
	StatusCompilationError  SubmissionStatus = "COMPILATION_ERROR"
	StatusRuntimeError      SubmissionStatus = "RUNTIME_ERROR"
	StatusInternalError     SubmissionStatus = "INTERNAL_ERROR"
)

type TaskSubmission struct {
	ID     string `gorm:"primaryKey;type:text" json:"id"`
	UserID string `gorm:"index" json:"userId"`
	TaskID string `gorm:"index" json:"taskId"`
	// nil for practice submissions
	HackathonID *string `gorm:"index" json:"hackathonId"`

	Code     string           `json:"code"`
	Language string           `gorm:"index" json:"language"`
	Status   SubmissionStatus `gorm:"type:text;index" json:"status"`

	ExecutionTime float64 `json:"executionTime"` // ms
	Memory        float64 `json:"memory"`        // KB

	PassedCount int `json:"passedCount"`
	FailedCount int `json:"failedCount"`
	TotalCount  int `json:"totalCount"`

	Stdout        string `json:"stdout,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	CompileOutput string `json:"compileOutput,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
