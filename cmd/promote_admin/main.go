package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	demote := flag.Bool("demote", false, "set the role back to USER")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: promote_admin -email user@example.com [-demote]")
		os.Exit(2)
	}

	config.LoadConfig()
	logger.Init(config.AppConfig.GoEnv)
	database.Connect()

	var user models.User
	if err := database.DB.Where("email = ?", *email).First(&user).Error; err != nil {
		logger.Fatal().Err(err).Str("email", *email).Msg("User not found")
	}

	role := models.RoleAdmin
	if *demote {
		role = models.RoleUser
	}
	if err := database.DB.Model(&user).Update("role", role).Error; err != nil {
		logger.Fatal().Err(err).Msg("Failed to update user role")
	}

	fmt.Printf("Set role of %s (%s) to %s.\n", user.Username, user.Email, role)
}
