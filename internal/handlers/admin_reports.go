package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

// --- Reports ---

type tabular interface {
	Table() services.Table
}

// writeReport answers with JSON, or with an xlsx attachment for ?format=xlsx.
func writeReport(c *gin.Context, report tabular, filename string) {
	if c.Query("format") != "xlsx" {
		c.JSON(http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteWorkbook(&buf, report.Table()); err != nil {
		respondError(c, err, "Report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

func reportFilename(base string) string {
	return fmt.Sprintf("%s-%s", base, time.Now().Format("2006-01-02"))
}

func AdminHackathonReport(c *gin.Context) {
	report, err := services.BuildHackathonReport(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}
	writeReport(c, report, reportFilename("hackathon-"+utils.GenerateSlug(report.Title)))
}

func AdminTaskStatsReport(c *gin.Context) {
	report, err := services.BuildTaskStatsReport(database.DB)
	if err != nil {
		respondError(c, err, "Report")
		return
	}
	writeReport(c, report, reportFilename("tasks"))
}

func AdminUserActivityReport(c *gin.Context) {
	report, err := services.BuildUserActivityReport(database.DB)
	if err != nil {
		respondError(c, err, "Report")
		return
	}
	writeReport(c, report, reportFilename("users"))
}

// AdminExportHackathonReport stores the hackathon results workbook in object
// storage and returns its URL.
func AdminExportHackathonReport(c *gin.Context) {
	adminID := getAdminID(c)

	if services.DefaultStore == nil {
		respondError(c, services.ErrStorageNotConfigured, "Report")
		return
	}

	report, err := services.BuildHackathonReport(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "Hackathon")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteWorkbook(&buf, report.Table()); err != nil {
		respondError(c, err, "Report")
		return
	}

	key := fmt.Sprintf("reports/hackathons/%s/%s.xlsx", report.HackathonID, utils.GenerateID())
	url, err := services.DefaultStore.Put(c.Request.Context(), key, services.XLSXContentType, buf.Bytes())
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Report upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload report"})
		return
	}

	if err := logAdminAction(database.DB, adminID, models.ActionExportReport, report.HackathonID, "hackathon", "Exported results to "+key); err != nil {
		logger.Warn().Err(err).Msg("Failed to write audit log")
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "key": key, "rows": len(report.Rows)})
}
