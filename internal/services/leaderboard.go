package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	TotalScore  float64   `json:"totalScore"`
	SolvedCount int       `json:"solvedCount"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// In-memory cache: HackathonID -> {Entries, Expiry}
type cachedLeaderboard struct {
	Entries   []LeaderboardEntry
	ExpiresAt time.Time
}

var (
	leaderboardCache = make(map[string]cachedLeaderboard)
	lbMutex          sync.RWMutex
	lbTTL            = 10 * time.Second
)

// InvalidateLeaderboardCache drops the cached standings of a hackathon (call after rescoring)
func InvalidateLeaderboardCache(hackathonID string) {
	lbMutex.Lock()
	defer lbMutex.Unlock()
	delete(leaderboardCache, hackathonID)
}

// GetHackathonLeaderboard ranks participants by total score, then solved
// count, then earliest join.
func GetHackathonLeaderboard(hackathonID string) ([]LeaderboardEntry, error) {
	lbMutex.RLock()
	if cached, ok := leaderboardCache[hackathonID]; ok && time.Now().Before(cached.ExpiresAt) {
		lbMutex.RUnlock()
		return cached.Entries, nil
	}
	lbMutex.RUnlock()

	var participants []models.HackathonParticipant
	if err := database.DB.Preload("User").
		Where("hackathon_id = ?", hackathonID).
		Find(&participants).Error; err != nil {
		return nil, err
	}

	var solved []struct {
		UserID string
		Solved int
	}
	if err := database.DB.Model(&models.TaskSubmission{}).
		Select("user_id, COUNT(DISTINCT task_id) AS solved").
		Where("hackathon_id = ? AND status = ?", hackathonID, models.StatusAccepted).
		Group("user_id").
		Scan(&solved).Error; err != nil {
		return nil, err
	}
	solvedByUser := make(map[string]int, len(solved))
	for _, s := range solved {
		solvedByUser[s.UserID] = s.Solved
	}

	leaderboard := make([]LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		leaderboard = append(leaderboard, LeaderboardEntry{
			UserID:      p.UserID,
			Username:    p.User.Username,
			Name:        p.User.Name,
			Avatar:      p.User.Image,
			TotalScore:  p.TotalScore,
			SolvedCount: solvedByUser[p.UserID],
			JoinedAt:    p.JoinedAt,
		})
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		if leaderboard[i].TotalScore != leaderboard[j].TotalScore {
			return leaderboard[i].TotalScore > leaderboard[j].TotalScore
		}
		if leaderboard[i].SolvedCount != leaderboard[j].SolvedCount {
			return leaderboard[i].SolvedCount > leaderboard[j].SolvedCount
		}
		return leaderboard[i].JoinedAt.Before(leaderboard[j].JoinedAt)
	})

	for i := range leaderboard {
		leaderboard[i].Rank = i + 1
	}

	lbMutex.Lock()
	leaderboardCache[hackathonID] = cachedLeaderboard{
		Entries:   leaderboard,
		ExpiresAt: time.Now().Add(lbTTL),
	}
	lbMutex.Unlock()

	return leaderboard, nil
}

type GlobalEntry struct {
	Rank                   int    `json:"rank"`
	UserID                 string `json:"userId"`
	Username               string `json:"username"`
	Name                   string `json:"name"`
	Avatar                 string `json:"avatar"`
	TasksSolved            int    `json:"tasksSolved"`
	HackathonsParticipated int    `json:"hackathonsParticipated"`
}

type GlobalPage struct {
	Entries []GlobalEntry `json:"entries"`
	Total   int64         `json:"total"`
}

const globalLeaderboardTTL = 60 * time.Second

// GetGlobalLeaderboard pages through all users by solved tasks. Pages are
// cached in Redis when it is reachable.
func GetGlobalLeaderboard(page, limit int) (*GlobalPage, error) {
	key := fmt.Sprintf("leaderboard:global:%d:%d", page, limit)

	var cached GlobalPage
	if err := database.CacheGet(key, &cached); err == nil {
		return &cached, nil
	}

	var total int64
	if err := database.DB.Model(&models.User{}).Where("is_blocked = ?", false).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	offset := (page - 1) * limit
	if err := database.DB.Where("is_blocked = ?", false).
		Order("tasks_solved DESC").
		Order("hackathons_participated DESC").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	out := &GlobalPage{Entries: make([]GlobalEntry, 0, len(users)), Total: total}
	for i, u := range users {
		out.Entries = append(out.Entries, GlobalEntry{
			Rank:                   offset + i + 1,
			UserID:                 u.ID,
			Username:               u.Username,
			Name:                   u.Name,
			Avatar:                 u.Image,
			TasksSolved:            u.TasksSolved,
			HackathonsParticipated: u.HackathonsParticipated,
		})
	}

	if err := database.CacheSet(key, out, globalLeaderboardTTL); err != nil {
		logger.Debug().Err(err).Msg("Global leaderboard not cached")
	}
	return out, nil
}

func InvalidateGlobalLeaderboard() {
	if err := database.CacheInvalidate("leaderboard:global:*"); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate global leaderboard cache")
	}
}
