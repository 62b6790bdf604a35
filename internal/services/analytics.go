package services

import (
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"gorm.io/gorm"
)

const activityWindowDays = 14

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type Dashboard struct {
	Metrics            models.DashboardMetrics `json:"metrics"`
	SubmissionsPerDay  []DayCount              `json:"submissionsPerDay"`
	Languages          []LabelCount            `json:"languages"`
	SolvedByDifficulty []LabelCount            `json:"solvedByDifficulty"`
}

// BuildDashboard collects the admin analytics overview.
func BuildDashboard(db *gorm.DB, now time.Time) (*Dashboard, error) {
	d := &Dashboard{}
	m := &d.Metrics

	db.Model(&models.User{}).Count(&m.TotalUsers)
	db.Model(&models.User{}).Where("is_blocked = ?", true).Count(&m.BlockedUsers)
	db.Model(&models.Task{}).Count(&m.TotalTasks)
	db.Model(&models.Hackathon{}).Count(&m.TotalHackathons)
	db.Model(&models.Hackathon{}).Where("start_date <= ? AND end_date > ?", now, now).Count(&m.ActiveHackathons)
	db.Model(&models.TaskSubmission{}).Count(&m.TotalSubmissions)
	db.Model(&models.TaskSubmission{}).Where("status = ?", models.StatusAccepted).Count(&m.AcceptedCount)
	db.Model(&models.ParticipationRequest{}).Where("status = ?", models.RequestPending).Count(&m.PendingRequests)
	if m.TotalSubmissions > 0 {
		m.AcceptanceRate = float64(m.AcceptedCount) / float64(m.TotalSubmissions) * 100
	}

	// Bucketed in Go: DATE() returns different types on postgres and sqlite.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(activityWindowDays - 1))
	var stamps []time.Time
	if err := db.Model(&models.TaskSubmission{}).Where("created_at >= ?", since).Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}
	d.SubmissionsPerDay = bucketByDay(stamps, since, activityWindowDays)

	if err := db.Model(&models.TaskSubmission{}).
		Select("language AS label, COUNT(*) AS count").
		Group("language").
		Order("count DESC").
		Scan(&d.Languages).Error; err != nil {
		return nil, err
	}

	if err := db.Table("task_submissions").
		Select("tasks.difficulty AS label, COUNT(DISTINCT task_submissions.task_id) AS count").
		Joins("JOIN tasks ON tasks.id = task_submissions.task_id").
		Where("task_submissions.status = ?", models.StatusAccepted).
		Group("tasks.difficulty").
		Scan(&d.SolvedByDifficulty).Error; err != nil {
		return nil, err
	}

	return d, nil
}

func bucketByDay(stamps []time.Time, since time.Time, days int) []DayCount {
	out := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = DayCount{Date: day}
		index[day] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.In(since.Location()).Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out
}
