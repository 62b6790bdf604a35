package services

import (
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func participationCount(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var u models.User
	require.NoError(t, db.Unscoped().First(&u, "id = ?", userID).Error)
	return u.HackathonsParticipated
}

func TestJoinHackathon(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	h := createHackathon(t, db, "open-cup")
	now := time.Now()

	p, err := JoinHackathon(db, &h, "alice", now)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, 1, participationCount(t, db, "alice"))
	assert.True(t, participates(t, db, h.ID, "alice"))

	_, err = JoinHackathon(db, &h, "alice", now)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)
	assert.Equal(t, 1, participationCount(t, db, "alice"))

	_, err = JoinHackathon(db, &h, "alice", h.EndDate)
	assert.ErrorIs(t, err, ErrHackathonEnded)

	h.IsOpen = false
	_, err = JoinHackathon(db, &h, "bob", now)
	assert.ErrorIs(t, err, ErrHackathonClosed)
}

func TestRequestParticipation_LookupFailure(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	h := createHackathon(t, db, "broken-cup")
	h.IsOpen = false
	require.NoError(t, db.Migrator().DropTable(&models.HackathonParticipant{}))

	_, err := RequestParticipation(db, &h, "alice", "please", time.Now())
	require.Error(t, err)

	var n int64
	db.Model(&models.ParticipationRequest{}).Count(&n)
	assert.Zero(t, n, "no request filed when membership is unknown")

	_, err = IsParticipant(db, h.ID, "alice")
	assert.Error(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.HackathonTask{}))
	_, err = HackathonHasTask(db, h.ID, "any")
	assert.Error(t, err)
}

func TestRequestAndReview(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	createUser(t, db, "admin")
	h := createHackathon(t, db, "closed-cup")
	require.NoError(t, db.Model(&h).Update("is_open", false).Error)
	h.IsOpen = false
	now := time.Now()

	req, err := RequestParticipation(db, &h, "alice", "please", now)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)

	_, err = RequestParticipation(db, &h, "alice", "again", now)
	assert.ErrorIs(t, err, ErrRequestExists)

	rejected, err := ReviewRequest(db, req.ID, "admin", false)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.False(t, participates(t, db, h.ID, "alice"))

	_, err = ReviewRequest(db, req.ID, "admin", true)
	assert.ErrorIs(t, err, ErrRequestReviewed)

	// a rejected request can be filed again
	reopened, err := RequestParticipation(db, &h, "alice", "second try", now)
	require.NoError(t, err)
	assert.Equal(t, req.ID, reopened.ID)
	assert.Equal(t, models.RequestPending, reopened.Status)
	assert.Nil(t, reopened.ReviewedBy)

	approved, err := ReviewRequest(db, req.ID, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "admin", *approved.ReviewedBy)
	assert.True(t, participates(t, db, h.ID, "alice"))
	assert.Equal(t, 1, participationCount(t, db, "alice"))

	_, err = RequestParticipation(db, &h, "alice", "", now)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	h.IsOpen = true
	_, err = RequestParticipation(db, &h, "bob", "", now)
	assert.ErrorIs(t, err, ErrHackathonOpen)
}

func TestSetHackathonTasks(t *testing.T) {
	db := setupTestDB(t)
	createTask(t, db, "a", models.DifficultyEasy)
	createTask(t, db, "b", models.DifficultyMedium)
	h := createHackathon(t, db, "ordered", "a")

	require.NoError(t, SetHackathonTasks(db, h.ID, []string{"b", "a"}))

	var links []models.HackathonTask
	require.NoError(t, db.Where("hackathon_id = ?", h.ID).Order("position").Find(&links).Error)
	require.Len(t, links, 2)
	assert.Equal(t, "b", links[0].TaskID)
	assert.Equal(t, "a", links[1].TaskID)

	assert.ErrorIs(t, SetHackathonTasks(db, h.ID, []string{"a", "a"}), ErrDuplicateTask)
	assert.ErrorIs(t, SetHackathonTasks(db, h.ID, []string{"a", "missing"}), ErrUnknownTask)

	// failed replacements leave the list alone
	assert.True(t, linked(t, db, h.ID, "b"))

	require.NoError(t, SetHackathonTasks(db, h.ID, nil))
	assert.False(t, linked(t, db, h.ID, "a"))
}

func TestDeleteHackathonCascade(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "alice")
	createUser(t, db, "bob")
	createTask(t, db, "easy", models.DifficultyEasy)
	createTask(t, db, "hard", models.DifficultyHard)
	h := createHackathon(t, db, "doomed", "easy", "hard")
	other := createHackathon(t, db, "survivor", "easy")

	for _, id := range []string{"alice", "bob"} {
		_, err := AddParticipant(db, h.ID, id)
		require.NoError(t, err)
	}
	_, err := AddParticipant(db, other.ID, "alice")
	require.NoError(t, err)

	// a stale counter must not go negative
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "bob").Update("hackathons_participated", 0).Error)

	hid := h.ID
	require.NoError(t, db.Create(&models.TaskSubmission{
		ID: utils.GenerateID(), TaskID: "easy", UserID: "alice", HackathonID: &hid,
		Status: models.StatusAccepted, CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.TaskSubmission{
		ID: utils.GenerateID(), TaskID: "easy", UserID: "alice",
		Status: models.StatusAccepted, CreatedAt: time.Now(),
	}).Error)

	// bob's only solves live in the doomed hackathon; alice also solved "easy" in practice
	for _, taskID := range []string{"easy", "hard"} {
		require.NoError(t, db.Create(&models.TaskSubmission{
			ID: utils.GenerateID(), TaskID: taskID, UserID: "bob", HackathonID: &hid,
			Status: models.StatusAccepted, CreatedAt: time.Now(),
		}).Error)
	}
	require.NoError(t, db.Create(&models.TaskSubmission{
		ID: utils.GenerateID(), TaskID: "hard", UserID: "alice", HackathonID: &hid,
		Status: models.StatusWrongAnswer, CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "alice").Update("tasks_solved", 1).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "bob").Update("tasks_solved", 2).Error)

	var removed int
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = DeleteHackathonCascade(tx, h.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.Equal(t, 1, participationCount(t, db, "alice"))
	assert.Equal(t, 0, participationCount(t, db, "bob"))

	var alice, bob models.User
	require.NoError(t, db.First(&alice, "id = ?", "alice").Error)
	require.NoError(t, db.First(&bob, "id = ?", "bob").Error)
	assert.Equal(t, 1, alice.TasksSolved, "practice solve still counts")
	assert.Equal(t, 0, bob.TasksSolved)

	var n int64
	db.Model(&models.Hackathon{}).Where("id = ?", h.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.HackathonParticipant{}).Where("hackathon_id = ?", h.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.HackathonTask{}).Where("hackathon_id = ?", h.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.TaskSubmission{}).Count(&n)
	assert.EqualValues(t, 1, n, "practice submission survives")
	assert.True(t, participates(t, db, other.ID, "alice"))

	_, err = DeleteHackathonCascade(db, h.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
