package services

import (
	"math"
	"sort"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Per-difficulty numerator of the score formula.
var difficultyConstants = map[models.Difficulty]float64{
	models.DifficultyEasy:   1e6,
	models.DifficultyMedium: 2e6,
	models.DifficultyHard:   3e6,
}

// TaskContribution scores one solved task:
//
//	log10(C) - log10(sqrt(executionTime * memory))
//
// executionTime is in milliseconds and memory in kilobytes. Non-positive
// measurements count as 1 and the result never goes below zero.
func TaskContribution(difficulty models.Difficulty, executionTimeMs, memoryKB float64) float64 {
	c, ok := difficultyConstants[difficulty]
	if !ok {
		c = difficultyConstants[models.DifficultyEasy]
	}
	if executionTimeMs <= 0 || math.IsNaN(executionTimeMs) {
		executionTimeMs = 1
	}
	if memoryKB <= 0 || math.IsNaN(memoryKB) {
		memoryKB = 1
	}

	v := math.Log10(c) - math.Log10(math.Sqrt(executionTimeMs*memoryKB))
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// LatestAccepted picks the most recent ACCEPTED submission for every task in
// tasks. Ties on CreatedAt are broken by the larger ID so the choice is stable.
func LatestAccepted(subs []models.TaskSubmission, tasks map[string]models.Difficulty) map[string]models.TaskSubmission {
	latest := make(map[string]models.TaskSubmission)
	for _, s := range subs {
		if s.Status != models.StatusAccepted {
			continue
		}
		if _, ok := tasks[s.TaskID]; !ok {
			continue
		}
		cur, seen := latest[s.TaskID]
		if !seen || s.CreatedAt.After(cur.CreatedAt) || (s.CreatedAt.Equal(cur.CreatedAt) && s.ID > cur.ID) {
			latest[s.TaskID] = s
		}
	}
	return latest
}

// ParticipantScore sums the contributions of the latest accepted submission
// per task and clamps the total at zero. It also returns the solved count.
func ParticipantScore(subs []models.TaskSubmission, tasks map[string]models.Difficulty) (float64, int) {
	latest := LatestAccepted(subs, tasks)

	// Summation order fixed so equal inputs give bit-identical totals.
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := 0.0
	for _, id := range ids {
		s := latest[id]
		total += TaskContribution(tasks[id], s.ExecutionTime, s.Memory)
	}
	return math.Max(0, total), len(latest)
}

// hackathonDifficulties maps each task of the hackathon to its difficulty.
func hackathonDifficulties(db *gorm.DB, hackathonID string) (map[string]models.Difficulty, error) {
	var rows []struct {
		TaskID     string
		Difficulty models.Difficulty
	}
	err := db.Table("hackathon_tasks").
		Select("hackathon_tasks.task_id, tasks.difficulty").
		Joins("JOIN tasks ON tasks.id = hackathon_tasks.task_id").
		Where("hackathon_tasks.hackathon_id = ?", hackathonID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.Difficulty, len(rows))
	for _, r := range rows {
		out[r.TaskID] = r.Difficulty
	}
	return out, nil
}

// RecomputeParticipantScore rescans one participant's accepted submissions in
// the hackathon and stores the new total.
func RecomputeParticipantScore(db *gorm.DB, hackathonID, userID string) (float64, error) {
	tasks, err := hackathonDifficulties(db, hackathonID)
	if err != nil {
		return 0, err
	}

	var subs []models.TaskSubmission
	if err := db.Where("hackathon_id = ? AND user_id = ? AND status = ?", hackathonID, userID, models.StatusAccepted).
		Find(&subs).Error; err != nil {
		return 0, err
	}

	score, _ := ParticipantScore(subs, tasks)
	now := time.Now()
	if err := db.Model(&models.HackathonParticipant{}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Updates(map[string]interface{}{"total_score": score, "last_scored_at": now}).Error; err != nil {
		return 0, err
	}

	InvalidateLeaderboardCache(hackathonID)
	return score, nil
}

// RecomputeHackathonScores rescores every participant of the hackathon in a
// single transaction. Once the hackathon has ended the scores are marked final.
// It returns the number of participants scored.
func RecomputeHackathonScores(db *gorm.DB, hackathonID string) (int, error) {
	start := time.Now()
	scored := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		var hackathon models.Hackathon
		if err := tx.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
			return err
		}

		tasks, err := hackathonDifficulties(tx, hackathonID)
		if err != nil {
			return err
		}

		var participants []models.HackathonParticipant
		if err := tx.Where("hackathon_id = ?", hackathonID).Find(&participants).Error; err != nil {
			return err
		}

		var subs []models.TaskSubmission
		if err := tx.Where("hackathon_id = ? AND status = ?", hackathonID, models.StatusAccepted).
			Find(&subs).Error; err != nil {
			return err
		}
		byUser := make(map[string][]models.TaskSubmission)
		for _, s := range subs {
			byUser[s.UserID] = append(byUser[s.UserID], s)
		}

		now := time.Now()
		for _, p := range participants {
			score, _ := ParticipantScore(byUser[p.UserID], tasks)
			if err := tx.Model(&models.HackathonParticipant{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{"total_score": score, "last_scored_at": now}).Error; err != nil {
				return err
			}
			scored++
		}

		if hackathon.StatusAt(now) == models.HackathonEnded {
			if err := tx.Model(&models.Hackathon{}).Where("id = ?", hackathonID).
				Update("scores_finalized", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	InvalidateLeaderboardCache(hackathonID)
	logger.Info().
		Str("hackathon_id", hackathonID).
		Int("participants", scored).
		Dur("latency", time.Since(start)).
		Msg("Recomputed hackathon scores")
	return scored, nil
}

// FinalizeIfEnded runs the completion recompute the first time an ended
// hackathon is read. Errors are logged, not returned, so reads never fail on it.
func FinalizeIfEnded(db *gorm.DB, h *models.Hackathon) {
	if h.ScoresFinalized || h.StatusAt(time.Now()) != models.HackathonEnded {
		return
	}
	if _, err := RecomputeHackathonScores(db, h.ID); err != nil {
		logger.Error().Err(err).Str("hackathon_id", h.ID).Msg("Failed to finalize hackathon scores")
		return
	}
	h.ScoresFinalized = true
}
