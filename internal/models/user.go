package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string `json:"name"`
	Email     string `gorm:"uniqueIndex" json:"email"`
	Username  string `gorm:"uniqueIndex" json:"username"`
	Image     string `json:"image"`
	Bio       string `json:"bio"`
	IsBlocked bool   `gorm:"default:false" json:"isBlocked"`

	Role Role `gorm:"type:text;default:'USER'" json:"role"`

	// Denormalized counters, maintained by join/approve/delete and first-accept paths.
	HackathonsParticipated int `gorm:"default:0" json:"hackathonsParticipated"`
	TasksSolved            int `gorm:"default:0" json:"tasksSolved"`

	Password string `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the subset of User shown to other users.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Username: u.Username, Image: u.Image}
}
