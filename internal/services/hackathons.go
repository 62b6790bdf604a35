package services

import (
	"errors"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"gorm.io/gorm"
)

var (
	ErrAlreadyParticipant = errors.New("already participating in this hackathon")
	ErrNotParticipant     = errors.New("not a participant of this hackathon")
	ErrHackathonClosed    = errors.New("hackathon is closed, request to participate instead")
	ErrHackathonOpen      = errors.New("hackathon is open, join it directly")
	ErrHackathonEnded     = errors.New("hackathon has ended")
	ErrHackathonNotActive = errors.New("hackathon is not active")
	ErrHackathonStarted   = errors.New("hackathon has already started and can no longer be edited")
	ErrRequestExists      = errors.New("participation request already submitted")
	ErrRequestReviewed    = errors.New("participation request was already reviewed")
	ErrTaskNotInHackathon = errors.New("task is not part of this hackathon")
	ErrDuplicateTask      = errors.New("task listed more than once")
	ErrUnknownTask        = errors.New("one or more tasks do not exist")
)

// AddParticipant enrolls the user and bumps their participation counter.
func AddParticipant(tx *gorm.DB, hackathonID, userID string) (*models.HackathonParticipant, error) {
	var existing int64
	if err := tx.Model(&models.HackathonParticipant{}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyParticipant
	}

	p := models.HackathonParticipant{
		ID:          utils.GenerateID(),
		HackathonID: hackathonID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("hackathons_participated", gorm.Expr("hackathons_participated + 1")).Error; err != nil {
		return nil, err
	}

	InvalidateLeaderboardCache(hackathonID)
	return &p, nil
}

// JoinHackathon is the direct-join path for open hackathons.
func JoinHackathon(tx *gorm.DB, h *models.Hackathon, userID string, now time.Time) (*models.HackathonParticipant, error) {
	if h.StatusAt(now) == models.HackathonEnded {
		return nil, ErrHackathonEnded
	}
	if !h.IsOpen {
		return nil, ErrHackathonClosed
	}
	return AddParticipant(tx, h.ID, userID)
}

// RequestParticipation files a PENDING request for a closed hackathon. A
// previously rejected request is reopened.
func RequestParticipation(tx *gorm.DB, h *models.Hackathon, userID, message string, now time.Time) (*models.ParticipationRequest, error) {
	if h.StatusAt(now) == models.HackathonEnded {
		return nil, ErrHackathonEnded
	}
	if h.IsOpen {
		return nil, ErrHackathonOpen
	}

	member, err := IsParticipant(tx, h.ID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyParticipant
	}

	var req models.ParticipationRequest
	err = tx.Where("hackathon_id = ? AND user_id = ?", h.ID, userID).First(&req).Error
	switch {
	case err == nil:
		if req.Status != models.RequestRejected {
			return nil, ErrRequestExists
		}
		req.Status = models.RequestPending
		req.Message = message
		req.ReviewedBy = nil
		req.ReviewedAt = nil
		if err := tx.Save(&req).Error; err != nil {
			return nil, err
		}
		return &req, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		req = models.ParticipationRequest{
			ID:          utils.GenerateID(),
			HackathonID: h.ID,
			UserID:      userID,
			Status:      models.RequestPending,
			Message:     message,
			CreatedAt:   now,
		}
		if err := tx.Create(&req).Error; err != nil {
			return nil, err
		}
		return &req, nil
	default:
		return nil, err
	}
}

// ReviewRequest approves or rejects a pending request. Approval enrolls the user.
func ReviewRequest(tx *gorm.DB, requestID, adminID string, approve bool) (*models.ParticipationRequest, error) {
	var req models.ParticipationRequest
	if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
		return nil, err
	}
	if req.Status != models.RequestPending {
		return nil, ErrRequestReviewed
	}

	now := time.Now()
	req.ReviewedBy = &adminID
	req.ReviewedAt = &now
	req.Status = models.RequestRejected
	if approve {
		req.Status = models.RequestApproved
		if _, err := AddParticipant(tx, req.HackathonID, req.UserID); err != nil && !errors.Is(err, ErrAlreadyParticipant) {
			return nil, err
		}
	}
	if err := tx.Save(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// SetHackathonTasks replaces the hackathon's task list; Position follows the slice order.
func SetHackathonTasks(tx *gorm.DB, hackathonID string, taskIDs []string) error {
	seen := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		if seen[id] {
			return ErrDuplicateTask
		}
		seen[id] = true
	}
	if len(taskIDs) > 0 {
		var found int64
		if err := tx.Model(&models.Task{}).Where("id IN ?", taskIDs).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(taskIDs) {
			return ErrUnknownTask
		}
	}

	if err := tx.Where("hackathon_id = ?", hackathonID).Delete(&models.HackathonTask{}).Error; err != nil {
		return err
	}
	for i, id := range taskIDs {
		link := models.HackathonTask{HackathonID: hackathonID, TaskID: id, Position: i}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteHackathonCascade removes a hackathon with its submissions, requests,
// task links and participants. Each affected user's participation counter
// drops by one, never below zero. Tasks a user solved only inside this
// hackathon come off their solved counter too. Must run inside a transaction; returns the
// number of participants removed.
func DeleteHackathonCascade(tx *gorm.DB, hackathonID string) (int, error) {
	var userIDs []string
	if err := tx.Model(&models.HackathonParticipant{}).
		Where("hackathon_id = ?", hackathonID).
		Distinct().
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, err
	}

	lostSolves, err := solvesOnlyIn(tx, hackathonID)
	if err != nil {
		return 0, err
	}

	steps := []interface{}{
		&models.TaskSubmission{},
		&models.ParticipationRequest{},
		&models.HackathonTask{},
		&models.HackathonParticipant{},
	}
	for _, m := range steps {
		if err := tx.Where("hackathon_id = ?", hackathonID).Delete(m).Error; err != nil {
			return 0, err
		}
	}

	if len(userIDs) > 0 {
		if err := tx.Unscoped().Model(&models.User{}).
			Where("id IN ?", userIDs).
			UpdateColumn("hackathons_participated",
				gorm.Expr("CASE WHEN hackathons_participated > 0 THEN hackathons_participated - 1 ELSE 0 END")).Error; err != nil {
			return 0, err
		}
	}

	for userID, n := range lostSolves {
		if err := tx.Unscoped().Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("tasks_solved",
				gorm.Expr("CASE WHEN tasks_solved > ? THEN tasks_solved - ? ELSE 0 END", n, n)).Error; err != nil {
			return 0, err
		}
	}

	res := tx.Where("id = ?", hackathonID).Delete(&models.Hackathon{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	InvalidateLeaderboardCache(hackathonID)
	return len(userIDs), nil
}

// solvesOnlyIn counts, per user, the tasks whose accepted submissions all
// belong to the given hackathon.
func solvesOnlyIn(tx *gorm.DB, hackathonID string) (map[string]int, error) {
	type pair struct {
		UserID string
		TaskID string
	}

	var inside []pair
	if err := tx.Model(&models.TaskSubmission{}).
		Select("user_id, task_id").
		Where("hackathon_id = ? AND status = ?", hackathonID, models.StatusAccepted).
		Group("user_id, task_id").
		Scan(&inside).Error; err != nil {
		return nil, err
	}
	if len(inside) == 0 {
		return nil, nil
	}

	userIDs := make([]string, 0, len(inside))
	for _, p := range inside {
		userIDs = append(userIDs, p.UserID)
	}
	var elsewhere []pair
	if err := tx.Model(&models.TaskSubmission{}).
		Select("user_id, task_id").
		Where("user_id IN ? AND status = ?", userIDs, models.StatusAccepted).
		Where("hackathon_id IS NULL OR hackathon_id <> ?", hackathonID).
		Group("user_id, task_id").
		Scan(&elsewhere).Error; err != nil {
		return nil, err
	}
	kept := make(map[pair]bool, len(elsewhere))
	for _, p := range elsewhere {
		kept[p] = true
	}

	lost := make(map[string]int)
	for _, p := range inside {
		if !kept[p] {
			lost[p.UserID]++
		}
	}
	return lost, nil
}

// HackathonHasTask reports whether taskID is linked into the hackathon.
func HackathonHasTask(db *gorm.DB, hackathonID, taskID string) (bool, error) {
	var n int64
	err := db.Model(&models.HackathonTask{}).Where("hackathon_id = ? AND task_id = ?", hackathonID, taskID).Count(&n).Error
	return n > 0, err
}

func IsParticipant(db *gorm.DB, hackathonID, userID string) (bool, error) {
	var n int64
	err := db.Model(&models.HackathonParticipant{}).Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).Count(&n).Error
	return n > 0, err
}
