package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

func GetMe(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileInput struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Username *string `json:"username"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Image    *string `json:"image" binding:"omitempty,url"`
}

func UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.Username != nil {
		if !utils.ValidateUsername(*input.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters of letters, numbers, underscores or hyphens"})
			return
		}
		var taken int64
		database.DB.Unscoped().Model(&models.User{}).Where("username = ? AND id <> ?", *input.Username, userID).Count(&taken)
		if taken > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "This username is already taken"})
			return
		}
		updates["username"] = *input.Username
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		respondError(c, err, "User")
		return
	}
	GetMe(c)
}

// GetPublicProfile returns a user's public card with solve statistics.
func GetPublicProfile(c *gin.Context) {
	var user models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		respondError(c, err, "User")
		return
	}

	var submissions, accepted int64
	database.DB.Model(&models.TaskSubmission{}).Where("user_id = ?", user.ID).Count(&submissions)
	database.DB.Model(&models.TaskSubmission{}).Where("user_id = ? AND status = ?", user.ID, models.StatusAccepted).Count(&accepted)

	var byDifficulty []struct {
		Difficulty models.Difficulty `json:"difficulty"`
		Count      int64             `json:"count"`
	}
	database.DB.Table("task_submissions").
		Select("tasks.difficulty AS difficulty, COUNT(DISTINCT task_submissions.task_id) AS count").
		Joins("JOIN tasks ON tasks.id = task_submissions.task_id").
		Where("task_submissions.user_id = ? AND task_submissions.status = ?", user.ID, models.StatusAccepted).
		Group("tasks.difficulty").
		Scan(&byDifficulty)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                     user.ID,
			"name":                   user.Name,
			"username":               user.Username,
			"image":                  user.Image,
			"bio":                    user.Bio,
			"createdAt":              user.CreatedAt,
			"tasksSolved":            user.TasksSolved,
			"hackathonsParticipated": user.HackathonsParticipated,
		},
		"stats": gin.H{
			"submissions":  submissions,
			"accepted":     accepted,
			"byDifficulty": byDifficulty,
		},
	})
}

// GetMyHackathons lists the hackathons the caller takes part in, with their
// score, plus pending and rejected requests.
func GetMyHackathons(c *gin.Context) {
	userID := currentUserID(c)

	var participations []models.HackathonParticipant
	if err := database.DB.Where("user_id = ?", userID).Order("joined_at DESC").Find(&participations).Error; err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	ids := make([]string, len(participations))
	for i, p := range participations {
		ids[i] = p.HackathonID
	}
	var hackathons []models.Hackathon
	if len(ids) > 0 {
		database.DB.Where("id IN ?", ids).Find(&hackathons)
	}
	byID := make(map[string]models.Hackathon, len(hackathons))
	for _, h := range hackathons {
		byID[h.ID] = h
	}

	items := make([]gin.H, 0, len(participations))
	for _, p := range participations {
		h := byID[p.HackathonID]
		items = append(items, gin.H{
			"hackathon":  hackathonSummary(&h),
			"totalScore": p.TotalScore,
			"joinedAt":   p.JoinedAt,
		})
	}

	var requests []models.ParticipationRequest
	database.DB.Preload("Hackathon").
		Where("user_id = ? AND status <> ?", userID, models.RequestApproved).
		Order("created_at DESC").
		Find(&requests)

	c.JSON(http.StatusOK, gin.H{"participations": items, "requests": requests})
}

func GetGlobalLeaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 50
	}

	board, err := services.GetGlobalLeaderboard(page, limit)
	if err != nil {
		respondError(c, err, "Leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": board.Entries,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      board.Total,
			"totalPages": (board.Total + int64(limit) - 1) / int64(limit),
		},
	})
}
