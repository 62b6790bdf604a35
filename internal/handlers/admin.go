package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================
// SYSTEM CONTROLS
// ============================================

// settingsMap merges stored settings over their defaults.
func settingsMap(db *gorm.DB) map[string]string {
	out := make(map[string]string, len(models.SettingDefaults))
	for k, v := range models.SettingDefaults {
		out[k] = v
	}
	var settings []models.SystemSettings
	db.Where("key IN ?", settingKeys()).Find(&settings)
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out
}

func settingKeys() []string {
	keys := make([]string, 0, len(models.SettingDefaults))
	for k := range models.SettingDefaults {
		keys = append(keys, k)
	}
	return keys
}

// validSettingValue checks a value against the kind of setting it is for.
func validSettingValue(key, value string) bool {
	if key == models.SettingDefaultLanguage {
		_, ok := services.NormalizeLanguage(value)
		return ok
	}
	return value == "true" || value == "false"
}

// AdminGetSystemSettings returns all system settings
func AdminGetSystemSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": settingsMap(database.DB)})
}

// AdminUpdateSystemSettings updates a system setting
func AdminUpdateSystemSettings(c *gin.Context) {
	adminID := getAdminID(c)

	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := models.SettingDefaults[req.Key]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setting key"})
		return
	}
	req.Value = strings.TrimSpace(req.Value)
	if !validSettingValue(req.Key, req.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for " + req.Key})
		return
	}

	setting := models.SystemSettings{
		Key:       req.Key,
		Value:     req.Value,
		UpdatedBy: adminID,
		UpdatedAt: time.Now(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Upsert
		if err := tx.Where("key = ?", req.Key).Assign(setting).FirstOrCreate(&setting).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionManageSystem, req.Key, "system", "Changed to: "+req.Value)
	})
	if err != nil {
		respondError(c, err, "Setting")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setting updated", "setting": setting})
}

// PublicGetSystemStatus returns the feature toggles the UI needs before login.
func PublicGetSystemStatus(c *gin.Context) {
	settings := settingsMap(database.DB)
	c.JSON(http.StatusOK, gin.H{
		"settings":  settings,
		"languages": services.SupportedLanguages(),
		"judge":     services.DefaultJudge != nil,
	})
}

// PublicGetPlatformStats returns headline numbers for the landing page.
func PublicGetPlatformStats(c *gin.Context) {
	var stats struct {
		TotalUsers       int64              `json:"totalUsers"`
		TotalTasks       int64              `json:"totalTasks"`
		TotalSubmissions int64              `json:"totalSubmissions"`
		TotalHackathons  int64              `json:"totalHackathons"`
		Upcoming         []models.Hackathon `json:"upcomingHackathons"`
	}

	database.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&models.Task{}).Where("is_published = ?", true).Count(&stats.TotalTasks)
	database.DB.Model(&models.TaskSubmission{}).Count(&stats.TotalSubmissions)
	database.DB.Model(&models.Hackathon{}).Count(&stats.TotalHackathons)

	database.DB.Where("start_date > ?", time.Now()).
		Order("start_date asc").
		Limit(3).
		Find(&stats.Upcoming)

	c.JSON(http.StatusOK, stats)
}

// ============================================
// AUDIT & SUBMISSIONS
// ============================================

func AdminGetAuditLogs(c *gin.Context) {
	q := parseListQuery(c, map[string]string{"createdAt": "created_at"}, "createdAt", true)

	db := database.DB.Model(&models.AdminAction{})
	if action := c.Query("action"); action != "" {
		db = db.Where("action = ?", strings.ToUpper(action))
	}
	if adminID := c.Query("adminId"); adminID != "" {
		db = db.Where("admin_id = ?", adminID)
	}
	if targetType := c.Query("targetType"); targetType != "" {
		db = db.Where("target_type = ?", targetType)
	}

	var total int64
	db.Count(&total)

	var logs []models.AdminAction
	if err := q.apply(db).Preload("Admin", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	}).Find(&logs).Error; err != nil {
		respondError(c, err, "Audit log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "pagination": q.meta(total)})
}

// AdminListSubmissions lists submissions across the platform with filters
// for user, task, hackathon and status.
func AdminListSubmissions(c *gin.Context) {
	q := parseListQuery(c, map[string]string{
		"createdAt":     "created_at",
		"executionTime": "execution_time",
	}, "createdAt", true)

	db := database.DB.Model(&models.TaskSubmission{})
	for param, col := range map[string]string{
		"userId":      "user_id",
		"taskId":      "task_id",
		"hackathonId": "hackathon_id",
		"language":    "language",
	} {
		if v := c.Query(param); v != "" {
			db = db.Where(col+" = ?", v)
		}
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	db.Count(&total)

	var subs []models.TaskSubmission
	if err := q.apply(db).Omit("code").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Task").
		Find(&subs).Error; err != nil {
		respondError(c, err, "Submission")
		return
	}

	items := make([]gin.H, 0, len(subs))
	for _, s := range subs {
		items = append(items, gin.H{
			"id":            s.ID,
			"status":        s.Status,
			"language":      s.Language,
			"executionTime": s.ExecutionTime,
			"memory":        s.Memory,
			"passedCount":   s.PassedCount,
			"totalCount":    s.TotalCount,
			"hackathonId":   s.HackathonID,
			"createdAt":     s.CreatedAt,
			"user":          s.User.Public(),
			"task":          gin.H{"id": s.Task.ID, "title": s.Task.Title, "difficulty": s.Task.Difficulty},
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": items, "pagination": q.meta(total)})
}

// AdminGetSubmission returns one submission with its code.
func AdminGetSubmission(c *gin.Context) {
	var sub models.TaskSubmission
	if err := database.DB.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Task").
		First(&sub, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, err, "Submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}
