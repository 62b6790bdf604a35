package services

import (
	"fmt"
	"io"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Table is the sheet form of a report.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// Hackathon results

type HackathonResultRow struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	TotalScore  float64   `json:"totalScore"`
	Solved      int       `json:"solved"`
	Submissions int64     `json:"submissions"`
	Accepted    int64     `json:"accepted"`
	JoinedAt    time.Time `json:"joinedAt"`
}

type HackathonReport struct {
	HackathonID string               `json:"hackathonId"`
	Title       string               `json:"title"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Finalized   bool                 `json:"scoresFinalized"`
	Rows        []HackathonResultRow `json:"rows"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

type submissionCounts struct {
	UserID      string
	Submissions int64
	Accepted    int64
}

func BuildHackathonReport(db *gorm.DB, hackathonID string) (*HackathonReport, error) {
	var hackathon models.Hackathon
	if err := db.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		return nil, err
	}

	board, err := GetHackathonLeaderboard(hackathonID)
	if err != nil {
		return nil, err
	}

	var counts []submissionCounts
	if err := db.Model(&models.TaskSubmission{}).
		Select("user_id, COUNT(*) AS submissions, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS accepted", models.StatusAccepted).
		Where("hackathon_id = ?", hackathonID).
		Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byUser := make(map[string]submissionCounts, len(counts))
	for _, c := range counts {
		byUser[c.UserID] = c
	}

	emails := make(map[string]string)
	var users []models.User
	if len(board) > 0 {
		ids := make([]string, len(board))
		for i, e := range board {
			ids[i] = e.UserID
		}
		if err := db.Select("id", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			emails[u.ID] = u.Email
		}
	}

	report := &HackathonReport{
		HackathonID: hackathon.ID,
		Title:       hackathon.Title,
		StartDate:   hackathon.StartDate,
		EndDate:     hackathon.EndDate,
		Finalized:   hackathon.ScoresFinalized,
		GeneratedAt: time.Now(),
	}
	for _, e := range board {
		c := byUser[e.UserID]
		report.Rows = append(report.Rows, HackathonResultRow{
			Rank:        e.Rank,
			UserID:      e.UserID,
			Username:    e.Username,
			Name:        e.Name,
			Email:       emails[e.UserID],
			TotalScore:  e.TotalScore,
			Solved:      e.SolvedCount,
			Submissions: c.Submissions,
			Accepted:    c.Accepted,
			JoinedAt:    e.JoinedAt,
		})
	}
	return report, nil
}

func (r *HackathonReport) Table() Table {
	t := Table{
		Sheet:   "Results",
		Headers: []string{"Rank", "Username", "Name", "Email", "Total Score", "Solved", "Submissions", "Accepted", "Joined At"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []interface{}{
			row.Rank, row.Username, row.Name, row.Email,
			fmt.Sprintf("%.4f", row.TotalScore), row.Solved, row.Submissions, row.Accepted,
			row.JoinedAt.Format(time.RFC3339),
		})
	}
	return t
}

// Task statistics

type TaskStatRow struct {
	TaskID         string            `json:"taskId"`
	Title          string            `json:"title"`
	Difficulty     models.Difficulty `json:"difficulty"`
	Attempts       int64             `json:"attempts"`
	Accepted       int64             `json:"accepted"`
	AcceptanceRate float64           `json:"acceptanceRate"`
	UniqueSolvers  int64             `json:"uniqueSolvers"`
	AvgTimeMs      float64           `json:"avgExecutionTime"`
	AvgMemoryKB    float64           `json:"avgMemory"`
}

type TaskStatsReport struct {
	Rows        []TaskStatRow `json:"rows"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

func BuildTaskStatsReport(db *gorm.DB) (*TaskStatsReport, error) {
	var tasks []models.Task
	if err := db.Select("id", "title", "difficulty").Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	var agg []struct {
		TaskID    string
		Attempts  int64
		Accepted  int64
		Solvers   int64
		AvgTime   *float64
		AvgMemory *float64
	}
	accepted := models.StatusAccepted
	if err := db.Model(&models.TaskSubmission{}).
		Select(`task_id,
			COUNT(*) AS attempts,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS accepted,
			COUNT(DISTINCT CASE WHEN status = ? THEN user_id END) AS solvers,
			AVG(CASE WHEN status = ? THEN execution_time END) AS avg_time,
			AVG(CASE WHEN status = ? THEN memory END) AS avg_memory`, accepted, accepted, accepted, accepted).
		Group("task_id").
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	byTask := make(map[string]int, len(agg))
	for i, a := range agg {
		byTask[a.TaskID] = i
	}

	report := &TaskStatsReport{GeneratedAt: time.Now()}
	for _, t := range tasks {
		row := TaskStatRow{TaskID: t.ID, Title: t.Title, Difficulty: t.Difficulty}
		if i, ok := byTask[t.ID]; ok {
			a := agg[i]
			row.Attempts = a.Attempts
			row.Accepted = a.Accepted
			row.UniqueSolvers = a.Solvers
			if a.Attempts > 0 {
				row.AcceptanceRate = float64(a.Accepted) / float64(a.Attempts) * 100
			}
			if a.AvgTime != nil {
				row.AvgTimeMs = *a.AvgTime
			}
			if a.AvgMemory != nil {
				row.AvgMemoryKB = *a.AvgMemory
			}
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (r *TaskStatsReport) Table() Table {
	t := Table{
		Sheet:   "Tasks",
		Headers: []string{"Task", "Difficulty", "Attempts", "Accepted", "Acceptance %", "Unique Solvers", "Avg Time (ms)", "Avg Memory (KB)"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []interface{}{
			row.Title, string(row.Difficulty), row.Attempts, row.Accepted,
			fmt.Sprintf("%.1f", row.AcceptanceRate), row.UniqueSolvers,
			fmt.Sprintf("%.1f", row.AvgTimeMs), fmt.Sprintf("%.0f", row.AvgMemoryKB),
		})
	}
	return t
}

// User activity

type UserActivityRow struct {
	UserID                 string    `json:"userId"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
	Submissions            int64     `json:"submissions"`
	Accepted               int64     `json:"accepted"`
	TasksSolved            int       `json:"tasksSolved"`
	HackathonsParticipated int       `json:"hackathonsParticipated"`
	JoinedAt               time.Time `json:"joinedAt"`
}

type UserActivityReport struct {
	Rows        []UserActivityRow `json:"rows"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

func BuildUserActivityReport(db *gorm.DB) (*UserActivityReport, error) {
	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	var counts []submissionCounts
	if err := db.Model(&models.TaskSubmission{}).
		Select("user_id, COUNT(*) AS submissions, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS accepted", models.StatusAccepted).
		Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byUser := make(map[string]submissionCounts, len(counts))
	for _, c := range counts {
		byUser[c.UserID] = c
	}

	report := &UserActivityReport{GeneratedAt: time.Now()}
	for _, u := range users {
		c := byUser[u.ID]
		report.Rows = append(report.Rows, UserActivityRow{
			UserID:                 u.ID,
			Username:               u.Username,
			Email:                  u.Email,
			Submissions:            c.Submissions,
			Accepted:               c.Accepted,
			TasksSolved:            u.TasksSolved,
			HackathonsParticipated: u.HackathonsParticipated,
			JoinedAt:               u.CreatedAt,
		})
	}
	return report, nil
}

func (r *UserActivityReport) Table() Table {
	t := Table{
		Sheet:   "Users",
		Headers: []string{"Username", "Email", "Submissions", "Accepted", "Tasks Solved", "Hackathons", "Joined At"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []interface{}{
			row.Username, row.Email, row.Submissions, row.Accepted,
			row.TasksSolved, row.HackathonsParticipated, row.JoinedAt.Format(time.RFC3339),
		})
	}
	return t
}

// Workbook export

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildWorkbook renders tables into one workbook, one sheet each, with a bold header row.
func BuildWorkbook(tables ...Table) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return nil, err
		}

		for col, h := range t.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(t.Sheet, cell, h); err != nil {
				return nil, err
			}
		}
		if len(t.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
			if err := f.SetCellStyle(t.Sheet, "A1", last, bold); err != nil {
				return nil, err
			}
			lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
			_ = f.SetColWidth(t.Sheet, "A", lastCol, 18)
		}

		for r, row := range t.Rows {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(t.Sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}
	return f, nil
}

// WriteWorkbook streams the workbook for tables to w.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	f, err := BuildWorkbook(tables...)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
