package main

import (
	"flag"
	"fmt"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

type counterRow struct {
	ID                     string
	Username               string
	TasksSolved            int
	HackathonsParticipated int
	ActualSolved           int
	ActualHackathons       int
}

// Compares the denormalized user counters with what the tables say.
func main() {
	fix := flag.Bool("fix", false, "overwrite drifted counters with the actual values")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.AppConfig.GoEnv)
	database.Connect()

	var rows []counterRow
	err := database.DB.Raw(`
		SELECT u.id, u.username, u.tasks_solved, u.hackathons_participated,
			(SELECT COUNT(DISTINCT s.task_id) FROM task_submissions s
				WHERE s.user_id = u.id AND s.status = ?) AS actual_solved,
			(SELECT COUNT(*) FROM hackathon_participants p
				WHERE p.user_id = u.id) AS actual_hackathons
		FROM users u
		WHERE u.deleted_at IS NULL
	`, models.StatusAccepted).Scan(&rows).Error
	if err != nil {
		logger.Fatal().Err(err).Msg("Counter query failed")
	}

	drifted := 0
	for _, r := range rows {
		if r.TasksSolved == r.ActualSolved && r.HackathonsParticipated == r.ActualHackathons {
			continue
		}
		drifted++
		fmt.Printf("%-20s solved %d (actual %d)  hackathons %d (actual %d)\n",
			r.Username, r.TasksSolved, r.ActualSolved, r.HackathonsParticipated, r.ActualHackathons)

		if *fix {
			if err := database.DB.Model(&models.User{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
				"tasks_solved":            r.ActualSolved,
				"hackathons_participated": r.ActualHackathons,
			}).Error; err != nil {
				logger.Error().Err(err).Str("user_id", r.ID).Msg("Failed to fix counters")
			}
		}
	}
	fmt.Printf("%d users checked, %d drifted\n", len(rows), drifted)
}
