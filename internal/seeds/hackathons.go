package seeds

import (
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"gorm.io/gorm"
)

// SeedHackathons creates one active open hackathon and one upcoming closed
// one, each using a slice of tasks. participants join the active one.
func SeedHackathons(creator models.User, tasks []models.Task, participants []models.User) {
	if len(tasks) == 0 {
		logger.Warn().Msg("No tasks to attach, skipping hackathons")
		return
	}
	now := time.Now()

	active := models.Hackathon{
		ID:          utils.GenerateID(),
		Title:       "Spring Warmup",
		Slug:        "spring-warmup",
		Description: "A two day open warmup. Join and solve as many tasks as you can.",
		StartDate:   now.Add(-2 * time.Hour),
		EndDate:     now.Add(46 * time.Hour),
		IsOpen:      true,
		CreatedBy:   creator.ID,
	}
	upcoming := models.Hackathon{
		ID:          utils.GenerateID(),
		Title:       "Invitational Cup",
		Slug:        "invitational-cup",
		Description: "Closed event. **Request to participate** and wait for approval.",
		StartDate:   now.Add(7 * 24 * time.Hour),
		EndDate:     now.Add(7*24*time.Hour + 3*time.Hour),
		IsOpen:      false,
		CreatedBy:   creator.ID,
	}

	for _, h := range []struct {
		hackathon models.Hackathon
		tasks     []models.Task
		users     []models.User
	}{
		{active, tasks, participants},
		{upcoming, tasks[len(tasks)/2:], nil},
	} {
		var existing int64
		database.DB.Model(&models.Hackathon{}).Where("slug = ?", h.hackathon.Slug).Count(&existing)
		if existing > 0 {
			logger.Info().Str("hackathon", h.hackathon.Slug).Msg("Hackathon already exists")
			continue
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Select("*").Create(&h.hackathon).Error; err != nil {
				return err
			}
			ids := make([]string, len(h.tasks))
			for i, t := range h.tasks {
				ids[i] = t.ID
			}
			if err := services.SetHackathonTasks(tx, h.hackathon.ID, ids); err != nil {
				return err
			}
			for _, u := range h.users {
				if _, err := services.AddParticipant(tx, h.hackathon.ID, u.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Str("hackathon", h.hackathon.Title).Msg("Failed to seed hackathon")
			continue
		}
		logger.Info().Str("hackathon", h.hackathon.Title).Int("tasks", len(h.tasks)).Msg("Hackathon created")
	}
}
