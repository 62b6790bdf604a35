package models

import "time"

// SystemSettings stores global configuration toggles
type SystemSettings struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	SettingMaintenanceMode    = "maintenance_mode"
	SettingSubmissionsEnabled = "submissions_enabled"
	SettingRegistrationOpen   = "registration_open"
	SettingHackathonsEnabled  = "hackathons_enabled"
	SettingDefaultLanguage    = "default_language"
)

// SettingDefaults lists every writable setting with its initial value.
var SettingDefaults = map[string]string{
	SettingMaintenanceMode:    "false",
	SettingSubmissionsEnabled: "true",
	SettingRegistrationOpen:   "true",
	SettingHackathonsEnabled:  "true",
	SettingDefaultLanguage:    "python",
}

// DashboardMetrics is the totals block of the admin analytics response (not persisted)
type DashboardMetrics struct {
	TotalUsers       int64   `json:"totalUsers"`
	BlockedUsers     int64   `json:"blockedUsers"`
	TotalTasks       int64   `json:"totalTasks"`
	TotalHackathons  int64   `json:"totalHackathons"`
	ActiveHackathons int64   `json:"activeHackathons"`
	TotalSubmissions int64   `json:"totalSubmissions"`
	AcceptedCount    int64   `json:"acceptedSubmissions"`
	AcceptanceRate   float64 `json:"acceptanceRate"`
	PendingRequests  int64   `json:"pendingRequests"`
}
