package seeds

import (
	"errors"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetOrCreateSystemUser returns the admin account that owns seeded content.
func GetOrCreateSystemUser(password string) (models.User, error) {
	var user models.User
	err := database.DB.Where("username = ?", "codigma").First(&user).Error
	if err == nil {
		logger.Info().Str("username", user.Username).Msg("System user found")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user = models.User{
		ID:       utils.GenerateID(),
		Username: "codigma",
		Email:    "admin@codigma.dev",
		Password: string(hash),
		Role:     models.RoleAdmin,
		Name:     "Codigma Team",
		Bio:      "Official account. Tasks and hackathons.",
		Image:    "https://api.dicebear.com/7.x/identicon/svg?seed=codigma",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	logger.Info().Str("username", user.Username).Msg("System user created")
	return user, nil
}

// SeedDemoUsers creates a handful of regular accounts for local testing.
func SeedDemoUsers(password string) []models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	names := []struct{ username, name string }{
		{"alice", "Alice Demo"},
		{"bob", "Bob Demo"},
		{"carol", "Carol Demo"},
	}

	var users []models.User
	for _, n := range names {
		var existing models.User
		if err := database.DB.Where("username = ?", n.username).First(&existing).Error; err == nil {
			users = append(users, existing)
			continue
		}
		u := models.User{
			ID:       utils.GenerateID(),
			Username: n.username,
			Email:    n.username + "@example.com",
			Password: string(hash),
			Role:     models.RoleUser,
			Name:     n.name,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=" + n.username,
		}
		if err := database.DB.Create(&u).Error; err != nil {
			logger.Warn().Err(err).Str("username", n.username).Msg("Failed to create demo user")
			continue
		}
		users = append(users, u)
	}
	return users
}
