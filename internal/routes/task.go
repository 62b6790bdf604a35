package routes

import (
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterTaskRoutes sets up the practice task endpoints. Listing is public;
// OptionalAuthMiddleware upstream fills in solve status.
func RegisterTaskRoutes(r gin.IRouter) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", handlers.ListTasks)
		tasks.GET("/tags", handlers.ListTags)
		tasks.GET("/:id", handlers.GetTask)

		protected := tasks.Group("/:id")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/run", middleware.RequireSubmissionsEnabled(), middleware.RunRateLimit(), handlers.RunTask)
			protected.POST("/submit",
				middleware.RequireSubmissionsEnabled(),
				middleware.SubmitRateLimit(),
				middleware.SharedSubmitQuota(30, time.Minute),
				handlers.SubmitTask,
			)
			protected.GET("/submissions", handlers.ListMyTaskSubmissions)
		}
	}

	r.GET("/submissions/:id", middleware.AuthMiddleware(), handlers.GetSubmission)
}
