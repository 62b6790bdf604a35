package services

import (
	"context"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"gorm.io/gorm"
)

// SubmissionOutcome is what a submit endpoint returns.
type SubmissionOutcome struct {
	Submission *models.TaskSubmission `json:"submission"`
	Verdict    *Verdict               `json:"verdict"`
	FirstSolve bool                   `json:"firstSolve"`
	Score      *float64               `json:"score,omitempty"`
}

// LoadTestCases returns a task's test cases in display order. Hidden cases
// are dropped unless includeHidden is set.
func LoadTestCases(db *gorm.DB, taskID string, includeHidden bool) ([]models.TestCase, error) {
	q := db.Where("task_id = ?", taskID)
	if !includeHidden {
		q = q.Where("is_hidden = ?", false)
	}
	var cases []models.TestCase
	err := q.Order("position ASC").Order("id ASC").Find(&cases).Error
	return cases, err
}

// SubmitSolution judges code against all of the task's test cases and
// records the attempt. hackathonID is nil for practice. An accepted
// hackathon submission rescores the participant in the same transaction.
func SubmitSolution(ctx context.Context, db *gorm.DB, judge Judge, userID string, task *models.Task, hackathonID *string, language, code string) (*SubmissionOutcome, error) {
	cases, err := LoadTestCases(db, task.ID, true)
	if err != nil {
		return nil, err
	}

	verdict, err := JudgeTask(ctx, judge, task, cases, language, code)
	if err != nil {
		return nil, err
	}

	sub := &models.TaskSubmission{
		ID:            utils.GenerateID(),
		UserID:        userID,
		TaskID:        task.ID,
		HackathonID:   hackathonID,
		Code:          code,
		Language:      language,
		Status:        verdict.Status,
		ExecutionTime: verdict.ExecutionTime,
		Memory:        verdict.Memory,
		PassedCount:   verdict.Passed,
		FailedCount:   verdict.Failed,
		TotalCount:    verdict.Total,
		Stdout:        utils.TruncateString(verdict.Stdout, 4096),
		Stderr:        utils.TruncateString(verdict.Stderr, 4096),
		CompileOutput: utils.TruncateString(verdict.CompileOutput, 4096),
		CreatedAt:     time.Now(),
	}
	out := &SubmissionOutcome{Submission: sub, Verdict: verdict}

	err = db.Transaction(func(tx *gorm.DB) error {
		var prior int64
		if sub.Status == models.StatusAccepted {
			if err := tx.Model(&models.TaskSubmission{}).
				Where("user_id = ? AND task_id = ? AND status = ?", userID, task.ID, models.StatusAccepted).
				Count(&prior).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		if sub.Status != models.StatusAccepted {
			return nil
		}
		if prior == 0 {
			out.FirstSolve = true
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("tasks_solved", gorm.Expr("tasks_solved + 1")).Error; err != nil {
				return err
			}
		}
		if hackathonID != nil {
			score, err := RecomputeParticipantScore(tx, *hackathonID, userID)
			if err != nil {
				return err
			}
			out.Score = &score
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.FirstSolve {
		InvalidateGlobalLeaderboard()
	}
	if hackathonID != nil && sub.Status == models.StatusAccepted {
		InvalidateLeaderboardCache(*hackathonID)
	}

	logger.Info().
		Str("user_id", userID).
		Str("task_id", task.ID).
		Str("lang", language).
		Str("status", string(sub.Status)).
		Bool("hackathon", hackathonID != nil).
		Msg("Submission judged")

	return out, nil
}
