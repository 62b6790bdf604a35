package main

import (
	"flag"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/seeds"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

func main() {
	withDemo := flag.Bool("demo", true, "create demo users and hackathons")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.AppConfig.GoEnv)
	database.Connect()

	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Migration failed")
	}
	if err := seeds.SeedSettings(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed settings")
	}

	admin, err := seeds.GetOrCreateSystemUser(config.AppConfig.SeedPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create system user")
	}
	logger.Info().Str("username", admin.Username).Str("id", admin.ID).Msg("Using creator")

	tasks := seeds.SeedTasks(admin)

	if *withDemo {
		users := seeds.SeedDemoUsers(config.AppConfig.SeedPassword)
		seeds.SeedHackathons(admin, tasks, users)
	}

	logger.Info().Int("tasks", len(tasks)).Msg("Seeding complete")
}
