package handlers

import (
	"net/http"
	"strings"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- Task Management ---

type TestCaseInput struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput" binding:"required"`
	IsHidden       bool   `json:"isHidden"`
}

type ParamInput struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,paramtype"`
}

type TaskInput struct {
	Title         string            `json:"title" binding:"required,max=200"`
	Description   string            `json:"description" binding:"required"`
	Difficulty    string            `json:"difficulty" binding:"required,difficulty"`
	FunctionName  string            `json:"functionName" binding:"required"`
	InputParams   []ParamInput      `json:"inputParams" binding:"dive"`
	OutputType    string            `json:"outputType" binding:"required,paramtype"`
	CodeTemplates map[string]string `json:"codeTemplates"`
	Tags          []string          `json:"tags" binding:"max=10,dive,max=40"`
	TimeLimit     float64           `json:"timeLimit" binding:"omitempty,gt=0,lte=15"`
	MemoryLimit   int               `json:"memoryLimit" binding:"omitempty,gte=16000,lte=512000"`
	IsPublished   *bool             `json:"isPublished"`
	TestCases     []TestCaseInput   `json:"testCases" binding:"omitempty,dive"`
}

func (in *TaskInput) params() []models.TaskParam {
	out := make([]models.TaskParam, len(in.InputParams))
	for i, p := range in.InputParams {
		out[i] = models.TaskParam{Name: p.Name, Type: p.Type}
	}
	return out
}

func normalizeTags(tags []string) pq.StringArray {
	seen := make(map[string]bool)
	out := pq.StringArray{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// applyTo copies the input onto task and regenerates code templates for any
// language the admin left empty.
func (in *TaskInput) applyTo(task *models.Task) error {
	params := in.params()
	generated, err := services.GenerateTemplates(in.FunctionName, params, in.OutputType)
	if err != nil {
		return err
	}

	difficulty, _ := models.ParseDifficulty(in.Difficulty)
	task.Title = strings.TrimSpace(in.Title)
	task.Description = in.Description
	task.Difficulty = difficulty
	task.FunctionName = in.FunctionName
	task.InputParams = datatypes.NewJSONType(params)
	task.OutputType = in.OutputType
	task.CodeTemplates = datatypes.NewJSONType(services.MergeTemplates(generated, in.CodeTemplates))
	task.Tags = normalizeTags(in.Tags)
	if in.TimeLimit > 0 {
		task.TimeLimit = in.TimeLimit
	}
	if in.MemoryLimit > 0 {
		task.MemoryLimit = in.MemoryLimit
	}
	if in.IsPublished != nil {
		task.IsPublished = *in.IsPublished
	}
	return nil
}

func replaceTestCases(tx *gorm.DB, taskID string, cases []TestCaseInput) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TestCase{}).Error; err != nil {
		return err
	}
	for i, tc := range cases {
		row := models.TestCase{
			ID:             utils.GenerateID(),
			TaskID:         taskID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			IsHidden:       tc.IsHidden,
			Position:       i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func slugTaken(db *gorm.DB, table string) func(string) bool {
	return func(s string) bool {
		var n int64
		db.Table(table).Where("slug = ?", s).Count(&n)
		return n > 0
	}
}

var adminTaskSortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"title":      "title",
	"difficulty": "difficulty",
}

// AdminListTasks lists every task, published or not.
func AdminListTasks(c *gin.Context) {
	q := parseListQuery(c, adminTaskSortColumns, "createdAt", true)

	db := database.DB.Model(&models.Task{})
	if d, ok := models.ParseDifficulty(c.Query("difficulty")); ok {
		db = db.Where("difficulty = ?", d)
	}
	switch c.Query("published") {
	case "true":
		db = db.Where("is_published = ?", true)
	case "false":
		db = db.Where("is_published = ?", false)
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
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "pagination": q.meta(total)})
}

// AdminGetTask returns the full task including hidden test cases.
func AdminGetTask(c *gin.Context) {
	var task models.Task
	if err := database.DB.Preload("TestCases", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&task, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, err, "Task")
		return
	}

	var hackathonIDs []string
	database.DB.Model(&models.HackathonTask{}).Where("task_id = ?", task.ID).Pluck("hackathon_id", &hackathonIDs)

	c.JSON(http.StatusOK, gin.H{
		"task":            task,
		"descriptionHtml": services.MustRenderMarkdown(task.Description),
		"hackathonIds":    hackathonIDs,
	})
}

func AdminCreateTask(c *gin.Context) {
	adminID := getAdminID(c)

	var req TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		ID:          utils.GenerateID(),
		Slug:        utils.UniqueSlug(req.Title, slugTaken(database.DB, "tasks")),
		TimeLimit:   2,
		MemoryLimit: 128000,
		IsPublished: true,
		CreatedBy:   adminID,
	}
	if err := req.applyTo(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("*").Create(&task).Error; err != nil {
			return err
		}
		if err := replaceTestCases(tx, task.ID, req.TestCases); err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionCreateTask, task.ID, "task", "Created task: "+task.Title)
	})
	if err != nil {
		respondError(c, err, "Task")
		return
	}

	if err := services.ClearDraft(adminID, services.DraftFormTask); err != nil {
		logger.Warn().Err(err).Str("user_id", adminID).Msg("Failed to clear task draft")
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// AdminUpdateTask replaces the task's editable fields. Test cases are
// replaced only when the body includes them.
func AdminUpdateTask(c *gin.Context) {
	adminID := getAdminID(c)

	var req TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		oldTitle := task.Title
		if err := req.applyTo(&task); err != nil {
			return err
		}
		if task.Title != oldTitle {
			task.Slug = utils.UniqueSlug(task.Title, slugTaken(tx, "tasks"))
		}
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		if req.TestCases != nil {
			if err := replaceTestCases(tx, task.ID, req.TestCases); err != nil {
				return err
			}
		}
		return logAdminAction(tx, adminID, models.ActionUpdateTask, task.ID, "task", "Updated task: "+task.Title)
	})
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// AdminDeleteTask removes a task with its test cases and practice
// submissions. Tasks used by a hackathon must be unlinked first.
func AdminDeleteTask(c *gin.Context) {
	adminID := getAdminID(c)
	taskID := c.Param("id")

	var links int64
	database.DB.Model(&models.HackathonTask{}).Where("task_id = ?", taskID).Count(&links)
	if links > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is used by a hackathon; remove it from the hackathon first"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TestCase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&task).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionDeleteTask, taskID, "task", "Deleted task: "+task.Title)
	})
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// --- Test cases ---

func AdminAddTestCase(c *gin.Context) {
	adminID := getAdminID(c)
	taskID := c.Param("id")

	var req TestCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tc models.TestCase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Select("id").First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		var count int64
		tx.Model(&models.TestCase{}).Where("task_id = ?", taskID).Count(&count)

		tc = models.TestCase{
			ID:             utils.GenerateID(),
			TaskID:         taskID,
			Input:          req.Input,
			ExpectedOutput: req.ExpectedOutput,
			IsHidden:       req.IsHidden,
			Position:       int(count),
		}
		if err := tx.Create(&tc).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionEditTestCase, taskID, "task", "Added test case")
	})
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"testCase": tc})
}

func AdminUpdateTestCase(c *gin.Context) {
	adminID := getAdminID(c)

	var req TestCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tc models.TestCase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tc, "id = ?", c.Param("tcId")).Error; err != nil {
			return err
		}
		tc.Input = req.Input
		tc.ExpectedOutput = req.ExpectedOutput
		tc.IsHidden = req.IsHidden
		if err := tx.Save(&tc).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionEditTestCase, tc.TaskID, "task", "Updated test case "+tc.ID)
	})
	if err != nil {
		respondError(c, err, "Test case")
		return
	}
	c.JSON(http.StatusOK, gin.H{"testCase": tc})
}

func AdminDeleteTestCase(c *gin.Context) {
	adminID := getAdminID(c)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var tc models.TestCase
		if err := tx.First(&tc, "id = ?", c.Param("tcId")).Error; err != nil {
			return err
		}
		if err := tx.Delete(&tc).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionEditTestCase, tc.TaskID, "task", "Deleted test case "+tc.ID)
	})
	if err != nil {
		respondError(c, err, "Test case")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test case deleted"})
}

// --- Templates ---

type SignatureInput struct {
	FunctionName string       `json:"functionName" binding:"required"`
	InputParams  []ParamInput `json:"inputParams" binding:"dive"`
	OutputType   string       `json:"outputType" binding:"required,paramtype"`
}

// AdminPreviewTemplates renders starter code for a signature without saving,
// for the live preview in the task form.
func AdminPreviewTemplates(c *gin.Context) {
	var req SignatureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := make([]models.TaskParam, len(req.InputParams))
	for i, p := range req.InputParams {
		params[i] = models.TaskParam{Name: p.Name, Type: p.Type}
	}
	templates, err := services.GenerateTemplates(req.FunctionName, params, req.OutputType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codeTemplates": templates})
}

// AdminRegenerateTemplates rebuilds the generated languages from the stored
// signature, keeping templates for languages the generator does not cover.
func AdminRegenerateTemplates(c *gin.Context) {
	adminID := getAdminID(c)

	var task models.Task
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		generated, err := services.GenerateTemplates(task.FunctionName, task.InputParams.Data(), task.OutputType)
		if err != nil {
			return err
		}
		merged := services.MergeTemplates(task.CodeTemplates.Data(), generated)
		task.CodeTemplates = datatypes.NewJSONType(merged)
		if err := tx.Model(&task).Update("code_templates", task.CodeTemplates).Error; err != nil {
			return err
		}
		return logAdminAction(tx, adminID, models.ActionUpdateTask, task.ID, "task", "Regenerated code templates")
	})
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"codeTemplates": task.CodeTemplates})
}
