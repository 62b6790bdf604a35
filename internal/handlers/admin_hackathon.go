package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Hackathon Management ---

type HackathonInput struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
	IsOpen      *bool     `json:"isOpen"`
	TaskIDs     []string  `json:"taskIds"`
}

func AdminListHackathons(c *gin.Context) {
	q := parseListQuery(c, hackathonSortColumns, "createdAt", true)

	db := whereStatus(database.DB.Model(&models.Hackathon{}), c.Query("status"), time.Now())
	if q.Search != "" {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '\\'", utils.SanitizeSearchQuery(q.Search))
	}

	var total int64
	db.Count(&total)

	var hackathons []models.Hackathon
	if err := q.apply(db).Find(&hackathons).Error; err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	ids := make([]string, len(hackathons))
	for i, h := range hackathons {
		ids[i] = h.ID
	}
	counts := participantCounts(ids)

	var pending []struct {
		HackathonID string
		N           int64
	}
	if len(ids) > 0 {
		database.DB.Model(&models.ParticipationRequest{}).
			Select("hackathon_id, COUNT(*) AS n").
			Where("hackathon_id IN ? AND status = ?", ids, models.RequestPending).
			Group("hackathon_id").
			Scan(&pending)
	}
	pendingByID := make(map[string]int64, len(pending))
	for _, p := range pending {
		pendingByID[p.HackathonID] = p.N
	}

	items := make([]gin.H, 0, len(hackathons))
	for i := range hackathons {
		item := hackathonSummary(&hackathons[i])
		item["participantCount"] = counts[hackathons[i].ID]
		item["pendingRequests"] = pendingByID[hackathons[i].ID]
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": items, "pagination": q.meta(total)})
}

func AdminGetHackathon(c *gin.Context) {
	var h models.Hackathon
	if err := database.DB.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Tasks.Task").First(&h, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hackathon":        h,
		"status":           h.StatusAt(time.Now()),
		"participantCount": participantCounts([]string{h.ID})[h.ID],
	})
}

func AdminCreateHackathon(c *gin.Context) {
	adminID := getAdminID(c)

	var req HackathonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h := models.Hackathon{
		ID:          utils.GenerateID(),
		Title:       strings.TrimSpace(req.Title),
		Slug:        utils.UniqueSlug(req.Title, slugTaken(database.DB, "hackathons")),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsOpen:      true,
		CreatedBy:   adminID,
	}
	if req.IsOpen != nil {
		h.IsOpen = *req.IsOpen
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// IsOpen=false would be dropped as a zero value by Create.
		if err := tx.Select("*").Create(&h).Error; err != nil {
			return err
		}
		if err := services.SetHackathonTasks(tx, h.ID, req.TaskIDs); err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionCreateHackathon, h.ID, "hackathon", "Created hackathon: "+h.Title)
	})
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	if err := services.ClearDraft(adminID, services.DraftFormHackathon); err != nil {
		logger.Warn().Err(err).Str("user_id", adminID).Msg("Failed to clear hackathon draft")
	}

	c.JSON(http.StatusCreated, gin.H{"hackathon": h})
}

// AdminUpdateHackathon edits a hackathon that has not started yet.
func AdminUpdateHackathon(c *gin.Context) {
	adminID := getAdminID(c)

	var req HackathonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var h models.Hackathon
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&h, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if h.HasStarted(time.Now()) {
			return services.ErrHackathonStarted
		}

		title := strings.TrimSpace(req.Title)
		if title != h.Title {
			h.Slug = utils.UniqueSlug(title, slugTaken(tx, "hackathons"))
		}
		h.Title = title
		h.Description = req.Description
		h.StartDate = req.StartDate
		h.EndDate = req.EndDate
		if req.IsOpen != nil {
			h.IsOpen = *req.IsOpen
		}
		if err := tx.Save(&h).Error; err != nil {
			return err
		}
		if req.TaskIDs != nil {
			if err := services.SetHackathonTasks(tx, h.ID, req.TaskIDs); err != nil {
				return err
			}
		}
		return logAdminAction(tx, adminID, models.ActionUpdateHackathon, h.ID, "hackathon", "Updated hackathon: "+h.Title)
	})
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathon": h})
}

// AdminDeleteHackathon removes the hackathon and everything hanging off it.
func AdminDeleteHackathon(c *gin.Context) {
	adminID := getAdminID(c)
	hackathonID := c.Param("id")

	var removed int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var h models.Hackathon
		if err := tx.Select("id", "title").First(&h, "id = ?", hackathonID).Error; err != nil {
			return err
		}
		var err error
		removed, err = services.DeleteHackathonCascade(tx, hackathonID)
		if err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionDeleteHackathon, hackathonID, "hackathon", "Deleted hackathon: "+h.Title)
	})
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	services.InvalidateLeaderboardCache(hackathonID)
	services.InvalidateGlobalLeaderboard()

	logger.Info().
		Str("hackathon_id", hackathonID).
		Int("participants", removed).
		Msg("Hackathon deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Hackathon deleted", "participantsRemoved": removed})
}

type HackathonTasksInput struct {
	TaskIDs []string `json:"taskIds" binding:"required"`
}

// AdminSetHackathonTasks replaces the ordered task list. The order of
// taskIds is the display order.
func AdminSetHackathonTasks(c *gin.Context) {
	adminID := getAdminID(c)

	var req HackathonTasksInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var h models.Hackathon
		if err := tx.First(&h, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if h.HasStarted(time.Now()) {
			return services.ErrHackathonStarted
		}
		if err := services.SetHackathonTasks(tx, h.ID, req.TaskIDs); err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionReorderTasks, h.ID, "hackathon", "Set hackathon tasks")
	})
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskIds": req.TaskIDs})
}

// AdminCompleteHackathon recomputes every participant's score from stored
// submissions. Once the hackathon has ended the scores are marked final.
func AdminCompleteHackathon(c *gin.Context) {
	adminID := getAdminID(c)

	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	scored, err := services.RecomputeHackathonScores(database.DB, h.ID)
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	if err := logAdminAction(database.DB, adminID, models.ActionCompleteHackathon, h.ID, "hackathon", "Recomputed scores"); err != nil {
		logger.Warn().Err(err).Msg("Failed to write audit log")
	}

	board, err := services.GetHackathonLeaderboard(h.ID)
	if err != nil {
		respondError(c, err, "Leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"participantsScored": scored,
		"finalized":          h.StatusAt(time.Now()) == models.HackathonEnded,
		"leaderboard":        board,
	})
}

// --- Participation requests ---

func AdminListRequests(c *gin.Context) {
	q := parseListQuery(c, map[string]string{"createdAt": "created_at"}, "createdAt", false)

	db := database.DB.Model(&models.ParticipationRequest{}).Where("hackathon_id = ?", c.Param("id"))
	if status := strings.ToUpper(c.Query("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var requests []models.ParticipationRequest
	if err := q.apply(db).Preload("User").Find(&requests).Error; err != nil {
		respondError(c, err, "Participation request")
		return
	}

	items := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		items = append(items, gin.H{
			"id":         r.ID,
			"status":     r.Status,
			"message":    r.Message,
			"createdAt":  r.CreatedAt,
			"reviewedAt": r.ReviewedAt,
			"user":       r.User.Public(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": items, "pagination": q.meta(total)})
}

func reviewRequest(c *gin.Context, approve bool) {
	adminID := getAdminID(c)
	action, verb := models.ActionRejectRequest, "Rejected"
	if approve {
		action, verb = models.ActionApproveRequest, "Approved"
	}

	var req *models.ParticipationRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		req, err = services.ReviewRequest(tx, c.Param("id"), adminID, approve)
		if err != nil {
			return err
		}
		return logAdminAction(tx, adminID, action, req.ID, "request", verb+" participation of user "+req.UserID)
	})
	if err != nil {
		respondError(c, err, "Participation request")
		return
	}
	if approve {
		services.InvalidateLeaderboardCache(req.HackathonID)
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func AdminApproveRequest(c *gin.Context) { reviewRequest(c, true) }

func AdminRejectRequest(c *gin.Context) { reviewRequest(c, false) }

func AdminListParticipants(c *gin.Context) {
	q := parseListQuery(c, map[string]string{
		"joinedAt":   "joined_at",
		"totalScore": "total_score",
	}, "totalScore", true)

	db := database.DB.Model(&models.HackathonParticipant{}).Where("hackathon_id = ?", c.Param("id"))

	var total int64
	db.Count(&total)

	var participants []models.HackathonParticipant
	if err := q.apply(db).Preload("User").Find(&participants).Error; err != nil {
		respondError(c, err, "Participant")
		return
	}

	items := make([]gin.H, 0, len(participants))
	for _, p := range participants {
		items = append(items, gin.H{
			"id":           p.ID,
			"totalScore":   p.TotalScore,
			"joinedAt":     p.JoinedAt,
			"lastScoredAt": p.LastScoredAt,
			"user":         p.User.Public(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"participants": items, "pagination": q.meta(total)})
}
