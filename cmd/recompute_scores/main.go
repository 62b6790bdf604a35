package main

import (
	"flag"
	"fmt"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

// Rebuilds hackathon scores from stored submissions. Without -hackathon every
// hackathon is recomputed.
func main() {
	hackathonID := flag.String("hackathon", "", "hackathon id (default: all)")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.AppConfig.GoEnv)
	database.Connect()

	var ids []string
	if *hackathonID != "" {
		ids = []string{*hackathonID}
	} else if err := database.DB.Model(&models.Hackathon{}).Order("start_date").Pluck("id", &ids).Error; err != nil {
		logger.Fatal().Err(err).Msg("Failed to list hackathons")
	}

	failed := 0
	for _, id := range ids {
		n, err := services.RecomputeHackathonScores(database.DB, id)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("hackathon_id", id).Msg("Recompute failed")
			continue
		}
		fmt.Printf("%s: %d participants rescored\n", id, n)
	}
	if failed > 0 {
		logger.Fatal().Int("failed", failed).Msg("Some hackathons were not rescored")
	}
}
