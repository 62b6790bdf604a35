package routes

import (
	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())

	// Analytics
	admin.GET("/analytics", handlers.AdminGetAnalytics)

	// Task Management
	admin.GET("/tasks", handlers.AdminListTasks)
	admin.GET("/tasks/:id", handlers.AdminGetTask)
	admin.POST("/tasks", handlers.AdminCreateTask)
	admin.PUT("/tasks/:id", handlers.AdminUpdateTask)
	admin.DELETE("/tasks/:id", handlers.AdminDeleteTask)
	admin.POST("/tasks/:id/templates", handlers.AdminRegenerateTemplates)
	admin.POST("/templates/preview", handlers.AdminPreviewTemplates)

	// Test Case Management
	admin.POST("/tasks/:id/testcases", handlers.AdminAddTestCase)
	admin.PUT("/testcases/:tcId", handlers.AdminUpdateTestCase)
	admin.DELETE("/testcases/:tcId", handlers.AdminDeleteTestCase)

	// Hackathon Management
	admin.GET("/hackathons", handlers.AdminListHackathons)
	admin.GET("/hackathons/:id", handlers.AdminGetHackathon)
	admin.POST("/hackathons", handlers.AdminCreateHackathon)
	admin.PUT("/hackathons/:id", handlers.AdminUpdateHackathon)
	admin.DELETE("/hackathons/:id", handlers.AdminDeleteHackathon)
	admin.PUT("/hackathons/:id/tasks", handlers.AdminSetHackathonTasks)
	admin.POST("/hackathons/:id/complete", handlers.AdminCompleteHackathon)
	admin.GET("/hackathons/:id/participants", handlers.AdminListParticipants)

	// Participation Requests
	admin.GET("/hackathons/:id/requests", handlers.AdminListRequests)
	admin.POST("/requests/:id/approve", handlers.AdminApproveRequest)
	admin.POST("/requests/:id/reject", handlers.AdminRejectRequest)

	// User Management
	admin.GET("/users", handlers.AdminListUsers)
	admin.PUT("/users/:id/role", handlers.AdminUpdateUserRole)
	admin.POST("/users/:id/block", handlers.AdminBlockUser)
	admin.POST("/users/:id/unblock", handlers.AdminUnblockUser)
	admin.DELETE("/users/:id", handlers.AdminDeleteUser)

	// Submissions
	admin.GET("/submissions", handlers.AdminListSubmissions)
	admin.GET("/submissions/:id", handlers.AdminGetSubmission)

	// Reports
	admin.GET("/reports/hackathons/:id", handlers.AdminHackathonReport)
	admin.POST("/reports/hackathons/:id/export", handlers.AdminExportHackathonReport)
	admin.GET("/reports/tasks", handlers.AdminTaskStatsReport)
	admin.GET("/reports/users", handlers.AdminUserActivityReport)

	// Drafts
	admin.GET("/drafts/:form", handlers.GetDraft)
	admin.PUT("/drafts/:form", handlers.SaveDraft)
	admin.DELETE("/drafts/:form", handlers.DeleteDraft)

	// System Settings
	admin.GET("/settings", handlers.AdminGetSystemSettings)
	admin.PUT("/settings", handlers.AdminUpdateSystemSettings)

	// Audit
	admin.GET("/audit-logs", handlers.AdminGetAuditLogs)
}
