package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Upper bound for one run or submit including every judge round trip.
const judgeRequestTimeout = 2 * time.Minute

var taskSortColumns = map[string]string{
	"createdAt":  "created_at",
	"title":      "title",
	"difficulty": "difficulty",
}

// findTask loads a task by id or slug.
func findTask(db *gorm.DB, idOrSlug string) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// whereHasTag filters on the tags array column. sqlite (tests) stores the
// array in its text form.
func whereHasTag(db *gorm.DB, tag string) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Where("? = ANY(tags)", tag)
	}
	return db.Where("tags LIKE ? ESCAPE '\\'", "%"+utils.EscapeSQLWildcards(tag)+"%")
}

// solvedSet returns which of taskIDs the user has an accepted submission for.
func solvedSet(userID string, taskIDs []string) map[string]bool {
	out := make(map[string]bool)
	if userID == "" || len(taskIDs) == 0 {
		return out
	}
	var solved []string
	database.DB.Model(&models.TaskSubmission{}).
		Where("user_id = ? AND status = ? AND task_id IN ?", userID, models.StatusAccepted, taskIDs).
		Distinct().
		Pluck("task_id", &solved)
	for _, id := range solved {
		out[id] = true
	}
	return out
}

func taskSummary(t *models.Task, solved bool) gin.H {
	return gin.H{
		"id":          t.ID,
		"title":       t.Title,
		"slug":        t.Slug,
		"difficulty":  t.Difficulty,
		"tags":        t.Tags,
		"isPublished": t.IsPublished,
		"isSolved":    solved,
		"createdAt":   t.CreatedAt,
	}
}

// taskDetail is the editor view of a task. Hidden test cases are never included.
func taskDetail(t *models.Task, publicCases []models.TestCase) gin.H {
	cases := make([]gin.H, 0, len(publicCases))
	for _, tc := range publicCases {
		cases = append(cases, gin.H{"id": tc.ID, "input": tc.Input, "expectedOutput": tc.ExpectedOutput})
	}
	return gin.H{
		"id":              t.ID,
		"title":           t.Title,
		"slug":            t.Slug,
		"description":     t.Description,
		"descriptionHtml": services.MustRenderMarkdown(t.Description),
		"difficulty":      t.Difficulty,
		"functionName":    t.FunctionName,
		"inputParams":     t.InputParams,
		"outputType":      t.OutputType,
		"codeTemplates":   t.CodeTemplates,
		"tags":            t.Tags,
		"timeLimit":       t.TimeLimit,
		"memoryLimit":     t.MemoryLimit,
		"testCases":       cases,
	}
}

// ListTasks returns published practice tasks with filters, sorting and pagination.
func ListTasks(c *gin.Context) {
	q := parseListQuery(c, taskSortColumns, "createdAt", true)

	db := database.DB.Model(&models.Task{}).Where("is_published = ?", true)
	if d, ok := models.ParseDifficulty(c.Query("difficulty")); ok {
		db = db.Where("difficulty = ?", d)
	}
	if q.Search != "" {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '\\'", utils.SanitizeSearchQuery(q.Search))
	}
	if tag := c.Query("tag"); tag != "" {
		db = whereHasTag(db, tag)
	}

	var total int64
	db.Count(&total)

	var tasks []models.Task
	if err := q.apply(db).Find(&tasks).Error; err != nil {
		respondError(c, err, "Task")
		return
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	solved := solvedSet(currentUserID(c), ids)

	items := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskSummary(&tasks[i], solved[tasks[i].ID]))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items, "pagination": q.meta(total)})
}

func GetTask(c *gin.Context) {
	task, err := findTask(database.DB, c.Param("id"))
	if err != nil || !task.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	cases, err := services.LoadTestCases(database.DB, task.ID, false)
	if err != nil {
		respondError(c, err, "Task")
		return
	}

	detail := taskDetail(task, cases)
	detail["isSolved"] = solvedSet(currentUserID(c), []string{task.ID})[task.ID]
	c.JSON(http.StatusOK, gin.H{"task": detail})
}

type RunInput struct {
	Code     string  `json:"code" binding:"required,max=65536"`
	Language string  `json:"language" binding:"required,language"`
	Stdin    *string `json:"stdin"`
}

// runTask executes code on the public test cases, or on custom stdin when
// given. Nothing is stored.
func runTask(c *gin.Context, task *models.Task) {
	var input RunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang, _ := services.NormalizeLanguage(input.Language)

	ctx, cancel := context.WithTimeout(c.Request.Context(), judgeRequestTimeout)
	defer cancel()

	if input.Stdin != nil {
		if services.DefaultJudge == nil {
			respondError(c, services.ErrJudgeUnavailable, "Task")
			return
		}
		res, err := services.DefaultJudge.Execute(ctx, services.ExecuteRequest{
			Language:    lang,
			SourceCode:  input.Code,
			Stdin:       *input.Stdin,
			TimeLimit:   task.TimeLimit,
			MemoryLimit: task.MemoryLimit,
		})
		if err != nil {
			respondError(c, err, "Task")
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": "custom", "result": res})
		return
	}

	cases, err := services.LoadTestCases(database.DB, task.ID, false)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	if len(cases) == 0 {
		c.JSON(http.StatusOK, gin.H{"type": "run", "results": []interface{}{}, "status": "NO_SAMPLE_TESTS"})
		return
	}

	verdict, err := services.JudgeTask(ctx, services.DefaultJudge, task, cases, lang, input.Code)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": "run", "verdict": verdict})
}

func RunTask(c *gin.Context) {
	task, err := findTask(database.DB, c.Param("id"))
	if err != nil || !task.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	runTask(c, task)
}

type SubmitInput struct {
	Code     string `json:"code" binding:"required,max=65536"`
	Language string `json:"language" binding:"required,language"`
}

// SubmitTask judges a practice submission against every test case.
func SubmitTask(c *gin.Context) {
	task, err := findTask(database.DB, c.Param("id"))
	if err != nil || !task.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
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

	outcome, err := services.SubmitSolution(ctx, database.DB, services.DefaultJudge, currentUserID(c), task, nil, lang, input.Code)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// ListMyTaskSubmissions returns the caller's submissions on one task, newest first.
func ListMyTaskSubmissions(c *gin.Context) {
	task, err := findTask(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Task")
		return
	}

	q := parseListQuery(c, map[string]string{"createdAt": "created_at"}, "createdAt", true)
	db := database.DB.Model(&models.TaskSubmission{}).Where("user_id = ? AND task_id = ?", currentUserID(c), task.ID)

	var total int64
	db.Count(&total)

	var subs []models.TaskSubmission
	if err := q.apply(db).Find(&subs).Error; err != nil {
		respondError(c, err, "Submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "pagination": q.meta(total)})
}

// GetSubmission returns one of the caller's submissions; admins can read any.
func GetSubmission(c *gin.Context) {
	var sub models.TaskSubmission
	if err := database.DB.First(&sub, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, err, "Submission")
		return
	}
	if sub.UserID != currentUserID(c) && c.GetString("role") != string(models.RoleAdmin) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

func ListTags(c *gin.Context) {
	var tasks []models.Task
	if err := database.DB.Select("tags").Where("is_published = ?", true).Find(&tasks).Error; err != nil {
		respondError(c, err, "Task")
		return
	}
	counts := make(map[string]int)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			counts[tag]++
		}
	}
	c.JSON(http.StatusOK, gin.H{"tags": counts})
}
