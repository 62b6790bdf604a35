package services

import (
	"testing"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHackathonLeaderboard_TieBreaks(t *testing.T) {
	db := setupTestDB(t)
	createTask(t, db, "t1", models.DifficultyEasy)
	createTask(t, db, "t2", models.DifficultyEasy)
	h := createHackathon(t, db, "tiebreak-cup", "t1", "t2")
	InvalidateLeaderboardCache(h.ID)
	t.Cleanup(func() { InvalidateLeaderboardCache(h.ID) })

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, p := range []struct {
		user  string
		score float64
	}{
		{"ann", 5},
		{"cat", 5},
		{"ben", 5},
		{"dan", 7},
	} {
		createUser(t, db, p.user)
		require.NoError(t, db.Create(&models.HackathonParticipant{
			ID: utils.GenerateID(), HackathonID: h.ID, UserID: p.user,
			TotalScore: p.score, JoinedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	hid := h.ID
	submit := func(user, task string, status models.SubmissionStatus) {
		require.NoError(t, db.Create(&models.TaskSubmission{
			ID: utils.GenerateID(), UserID: user, TaskID: task, HackathonID: &hid,
			Status: status, CreatedAt: time.Now(),
		}).Error)
	}
	submit("ann", "t1", models.StatusAccepted)
	submit("ann", "t2", models.StatusWrongAnswer)
	submit("cat", "t1", models.StatusAccepted)
	submit("cat", "t1", models.StatusAccepted)
	submit("cat", "t2", models.StatusAccepted)
	submit("ben", "t1", models.StatusAccepted)
	submit("ben", "t2", models.StatusAccepted)

	board, err := GetHackathonLeaderboard(h.ID)
	require.NoError(t, err)
	require.Len(t, board, 4)

	// dan leads on score; cat and ben tie on score and solved, cat joined first
	var order []string
	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
		order = append(order, e.UserID)
	}
	assert.Equal(t, []string{"dan", "cat", "ben", "ann"}, order)
	assert.Equal(t, 2, board[1].SolvedCount)
	assert.Equal(t, 1, board[3].SolvedCount)
	assert.Zero(t, board[0].SolvedCount)

	// served from cache until invalidated
	require.NoError(t, db.Model(&models.HackathonParticipant{}).
		Where("hackathon_id = ? AND user_id = ?", h.ID, "dan").
		Update("total_score", 0).Error)
	board, err = GetHackathonLeaderboard(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "dan", board[0].UserID)

	InvalidateLeaderboardCache(h.ID)
	board, err = GetHackathonLeaderboard(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat", board[0].UserID)
	assert.Equal(t, "dan", board[3].UserID)
}

func TestGetGlobalLeaderboard_PagesAndCaches(t *testing.T) {
	db := setupTestDB(t)
	mr := setupTestRedis(t)

	base := time.Now().Add(-24 * time.Hour)
	for i, u := range []struct {
		id         string
		solved     int
		hackathons int
		blocked    bool
	}{
		{"u1", 5, 0, false},
		{"u2", 5, 2, false},
		{"u3", 1, 0, false},
		{"u4", 10, 3, true},
		{"u5", 0, 0, false},
	} {
		createUser(t, db, u.id)
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.id).Updates(map[string]interface{}{
			"tasks_solved":            u.solved,
			"hackathons_participated": u.hackathons,
			"is_blocked":              u.blocked,
			"created_at":              base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	first, err := GetGlobalLeaderboard(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, first.Total)
	require.Len(t, first.Entries, 2)
	assert.Equal(t, "u2", first.Entries[0].UserID)
	assert.Equal(t, "u1", first.Entries[1].UserID)
	assert.Equal(t, 2, first.Entries[1].Rank)

	second, err := GetGlobalLeaderboard(2, 2)
	require.NoError(t, err)
	require.Len(t, second.Entries, 2)
	assert.Equal(t, "u3", second.Entries[0].UserID)
	assert.Equal(t, 3, second.Entries[0].Rank)
	assert.Equal(t, "u5", second.Entries[1].UserID)
	assert.Equal(t, 4, second.Entries[1].Rank)

	key := "leaderboard:global:1:2"
	require.True(t, mr.Exists(key))
	assert.Equal(t, globalLeaderboardTTL, mr.TTL(key))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "u3").Update("tasks_solved", 100).Error)
	cached, err := GetGlobalLeaderboard(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "u2", cached.Entries[0].UserID)

	InvalidateGlobalLeaderboard()
	assert.False(t, mr.Exists(key))
	fresh, err := GetGlobalLeaderboard(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "u3", fresh.Entries[0].UserID)
}
