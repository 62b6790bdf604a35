package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty accepts any casing ("easy", "Easy", "EASY").
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// TaskParam describes one argument of the function a solution must implement.
// Type is one of int, float, string, bool, int[], float[], string[].
type TaskParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `json:"title"`
	Slug        string     `gorm:"uniqueIndex" json:"slug"`
	Description string     `json:"description"` // Markdown
	Difficulty  Difficulty `gorm:"type:text;index;default:'EASY'" json:"difficulty"`

	FunctionName  string                                `json:"functionName"`
	InputParams   datatypes.JSONType[[]TaskParam]       `json:"inputParams"`
	OutputType    string                                `json:"outputType"`
	CodeTemplates datatypes.JSONType[map[string]string] `json:"codeTemplates"`
	Tags          pq.StringArray                        `gorm:"type:text[]" json:"tags"`

	TimeLimit   float64 `gorm:"default:2" json:"timeLimit"`        // seconds
	MemoryLimit int     `gorm:"default:128000" json:"memoryLimit"` // KB

	IsPublished bool   `gorm:"default:true;index" json:"isPublished"`
	CreatedBy   string `json:"createdBy"`

	TestCases []TestCase `gorm:"foreignKey:TaskID" json:"testCases,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TestCase struct {
	ID             string `gorm:"primaryKey;type:text" json:"id"`
	TaskID         string `gorm:"index" json:"taskId"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsHidden       bool   `gorm:"default:false" json:"isHidden"`
	Position       int    `gorm:"default:0" json:"position"`
}
