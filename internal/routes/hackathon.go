package routes

import (
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterHackathonRoutes(r gin.IRouter) {
	hackathons := r.Group("/hackathons")
	hackathons.Use(middleware.RequireHackathonsEnabled())
	{
		// Public
		hackathons.GET("", handlers.ListHackathons)
		hackathons.GET("/:id", handlers.GetHackathon)
		hackathons.GET("/:id/leaderboard", handlers.GetHackathonLeaderboard)

		// Participants
		protected := hackathons.Group("/:id")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/join", handlers.JoinHackathon)
			protected.POST("/requests", handlers.RequestToJoin)
			protected.GET("/submissions", handlers.ListMyHackathonSubmissions)

			protected.GET("/tasks/:taskId", handlers.GetHackathonTask)
			protected.POST("/tasks/:taskId/run", middleware.RequireSubmissionsEnabled(), middleware.RunRateLimit(), handlers.RunHackathonTask)
			protected.POST("/tasks/:taskId/submit",
				middleware.RequireSubmissionsEnabled(),
				middleware.SubmitRateLimit(),
				middleware.SharedSubmitQuota(30, time.Minute),
				handlers.SubmitHackathonTask,
			)
		}
	}
}
