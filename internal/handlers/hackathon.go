package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var hackathonSortColumns = map[string]string{
	"startDate": "start_date",
	"endDate":   "end_date",
	"createdAt": "created_at",
	"title":     "title",
}

func findHackathon(db *gorm.DB, idOrSlug string) (*models.Hackathon, error) {
	var h models.Hackathon
	if err := db.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func hackathonSummary(h *models.Hackathon) gin.H {
	return gin.H{
		"id":              h.ID,
		"title":           h.Title,
		"slug":            h.Slug,
		"startDate":       h.StartDate,
		"endDate":         h.EndDate,
		"isOpen":          h.IsOpen,
		"status":          h.StatusAt(time.Now()),
		"scoresFinalized": h.ScoresFinalized,
	}
}

// whereStatus narrows a hackathon query to one derived phase.
func whereStatus(db *gorm.DB, status string, now time.Time) *gorm.DB {
	switch models.HackathonStatus(strings.ToUpper(status)) {
	case models.HackathonUpcoming:
		return db.Where("start_date > ?", now)
	case models.HackathonActive:
		return db.Where("start_date <= ? AND end_date > ?", now, now)
	case models.HackathonEnded:
		return db.Where("end_date <= ?", now)
	}
	return db
}

// ListHackathons returns hackathons filtered by ?status=upcoming|active|ended.
func ListHackathons(c *gin.Context) {
	q := parseListQuery(c, hackathonSortColumns, "startDate", true)
	now := time.Now()

	db := whereStatus(database.DB.Model(&models.Hackathon{}), c.Query("status"), now)
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

	items := make([]gin.H, 0, len(hackathons))
	for i := range hackathons {
		item := hackathonSummary(&hackathons[i])
		item["participantCount"] = counts[hackathons[i].ID]
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": items, "pagination": q.meta(total)})
}

func participantCounts(hackathonIDs []string) map[string]int64 {
	out := make(map[string]int64, len(hackathonIDs))
	if len(hackathonIDs) == 0 {
		return out
	}
	var rows []struct {
		HackathonID string
		N           int64
	}
	database.DB.Model(&models.HackathonParticipant{}).
		Select("hackathon_id, COUNT(*) AS n").
		Where("hackathon_id IN ?", hackathonIDs).
		Group("hackathon_id").
		Scan(&rows)
	for _, r := range rows {
		out[r.HackathonID] = r.N
	}
	return out
}

// GetHackathon returns the hackathon with the caller's participation state.
// Tasks are listed once the hackathon has started, or to admins.
func GetHackathon(c *gin.Context) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	services.FinalizeIfEnded(database.DB, h)

	now := time.Now()
	userID := currentUserID(c)
	isAdmin := c.GetString("role") == string(models.RoleAdmin)

	detail := hackathonSummary(h)
	detail["description"] = h.Description
	detail["descriptionHtml"] = services.MustRenderMarkdown(h.Description)
	detail["participantCount"] = participantCounts([]string{h.ID})[h.ID]

	if userID != "" {
		member, err := services.IsParticipant(database.DB, h.ID, userID)
		if err != nil {
			respondError(c, err, "Hackathon")
			return
		}
		detail["isParticipant"] = member
		var req models.ParticipationRequest
		if err := database.DB.Where("hackathon_id = ? AND user_id = ?", h.ID, userID).First(&req).Error; err == nil {
			detail["requestStatus"] = req.Status
		}
	}

	if h.HasStarted(now) || isAdmin {
		var links []models.HackathonTask
		database.DB.Preload("Task").Where("hackathon_id = ?", h.ID).Order("position ASC").Find(&links)

		ids := make([]string, len(links))
		for i, l := range links {
			ids[i] = l.TaskID
		}
		solved := hackathonSolvedSet(h.ID, userID, ids)

		tasks := make([]gin.H, 0, len(links))
		for i := range links {
			item := taskSummary(&links[i].Task, solved[links[i].TaskID])
			item["position"] = links[i].Position
			tasks = append(tasks, item)
		}
		detail["tasks"] = tasks
	}

	c.JSON(http.StatusOK, gin.H{"hackathon": detail})
}

func hackathonSolvedSet(hackathonID, userID string, taskIDs []string) map[string]bool {
	out := make(map[string]bool)
	if userID == "" || len(taskIDs) == 0 {
		return out
	}
	var solved []string
	database.DB.Model(&models.TaskSubmission{}).
		Where("hackathon_id = ? AND user_id = ? AND status = ? AND task_id IN ?", hackathonID, userID, models.StatusAccepted, taskIDs).
		Distinct().
		Pluck("task_id", &solved)
	for _, id := range solved {
		out[id] = true
	}
	return out
}

func JoinHackathon(c *gin.Context) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	var participant *models.HackathonParticipant
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		participant, err = services.JoinHackathon(tx, h, currentUserID(c), time.Now())
		return err
	})
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"participant": participant})
}

type ParticipationRequestInput struct {
	Message string `json:"message" binding:"max=1000"`
}

// RequestToJoin files a participation request for a closed hackathon.
func RequestToJoin(c *gin.Context) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	var input ParticipationRequestInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var req *models.ParticipationRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		req, err = services.RequestParticipation(tx, h, currentUserID(c), strings.TrimSpace(input.Message), time.Now())
		return err
	})
	if err != nil {
		respondError(c, err, "Participation request")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// hackathonTaskAccess loads the hackathon task a participant is working on.
// Admins may preview tasks without joining.
func hackathonTaskAccess(c *gin.Context) (*models.Hackathon, *models.Task, bool) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return nil, nil, false
	}
	isAdmin := c.GetString("role") == string(models.RoleAdmin)
	if !isAdmin {
		if !h.HasStarted(time.Now()) {
			respondError(c, services.ErrHackathonNotActive, "Hackathon")
			return nil, nil, false
		}
		member, err := services.IsParticipant(database.DB, h.ID, currentUserID(c))
		if err != nil {
			respondError(c, err, "Hackathon")
			return nil, nil, false
		}
		if !member {
			respondError(c, services.ErrNotParticipant, "Hackathon")
			return nil, nil, false
		}
	}

	task, err := findTask(database.DB, c.Param("taskId"))
	if err != nil {
		respondError(c, err, "Task")
		return nil, nil, false
	}
	inHackathon, err := services.HackathonHasTask(database.DB, h.ID, task.ID)
	if err != nil {
		respondError(c, err, "Task")
		return nil, nil, false
	}
	if !inHackathon {
		respondError(c, services.ErrTaskNotInHackathon, "Task")
		return nil, nil, false
	}
	return h, task, true
}

func GetHackathonTask(c *gin.Context) {
	h, task, ok := hackathonTaskAccess(c)
	if !ok {
		return
	}
	cases, err := services.LoadTestCases(database.DB, task.ID, false)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	detail := taskDetail(task, cases)
	detail["isSolved"] = hackathonSolvedSet(h.ID, currentUserID(c), []string{task.ID})[task.ID]
	c.JSON(http.StatusOK, gin.H{"task": detail, "hackathon": hackathonSummary(h)})
}

func RunHackathonTask(c *gin.Context) {
	_, task, ok := hackathonTaskAccess(c)
	if !ok {
		return
	}
	runTask(c, task)
}

// SubmitHackathonTask judges a submission inside an active hackathon and
// rescores the participant when it is accepted.
func SubmitHackathonTask(c *gin.Context) {
	h, task, ok := hackathonTaskAccess(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	if h.StatusAt(time.Now()) != models.HackathonActive {
		respondError(c, services.ErrHackathonNotActive, "Hackathon")
		return
	}
	member, err := services.IsParticipant(database.DB, h.ID, userID)
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	if !member {
		respondError(c, services.ErrNotParticipant, "Hackathon")
		return
	}

	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang, _ := services.NormalizeLanguage(input.Language)

	ctx, cancel := context.WithTimeout(c.Request.Context(), judgeRequestTimeout)
	defer cancel()

	hackathonID := h.ID
	outcome, err := services.SubmitSolution(ctx, database.DB, services.DefaultJudge, userID, task, &hackathonID, lang, input.Code)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

func GetHackathonLeaderboard(c *gin.Context) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	services.FinalizeIfEnded(database.DB, h)

	board, err := services.GetHackathonLeaderboard(h.ID)
	if err != nil {
		respondError(c, err, "Leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hackathon":   hackathonSummary(h),
		"leaderboard": board,
	})
}

// ListMyHackathonSubmissions returns the caller's submissions in a hackathon,
// optionally narrowed to one task.
func ListMyHackathonSubmissions(c *gin.Context) {
	h, err := findHackathon(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	q := parseListQuery(c, map[string]string{"createdAt": "created_at"}, "createdAt", true)
	db := database.DB.Model(&models.TaskSubmission{}).
		Where("hackathon_id = ? AND user_id = ?", h.ID, currentUserID(c))
	if taskID := c.Query("taskId"); taskID != "" {
		db = db.Where("task_id = ?", taskID)
	}

	var total int64
	db.Count(&total)

	var subs []models.TaskSubmission
	if err := q.apply(db).Omit("code").Find(&subs).Error; err != nil {
		respondError(c, err, "Submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "pagination": q.meta(total)})
}
