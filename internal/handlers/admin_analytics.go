package handlers

import (
	"net/http"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

// ============================================
// ANALYTICS
// ============================================

// AdminGetAnalytics returns platform totals, the 14 day submission curve,
// and language and solved-difficulty distributions.
func AdminGetAnalytics(c *gin.Context) {
	dashboard, err := services.BuildDashboard(database.DB, time.Now())
	if err != nil {
		respondError(c, err, "Analytics")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
