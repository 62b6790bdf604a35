package routes

import (
	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		// Protected (specific paths first)
		me := users.Group("/me")
		me.Use(middleware.AuthMiddleware())
		{
			me.GET("", handlers.GetMe)
			me.PUT("", handlers.UpdateMe)
			me.GET("/hackathons", handlers.GetMyHackathons)
			me.POST("/avatar", handlers.UploadAvatar)
		}

		// Public (wildcard last)
		users.GET("/:username", handlers.GetPublicProfile)
	}

	r.GET("/leaderboard", handlers.GetGlobalLeaderboard)
	r.GET("/stats", handlers.PublicGetPlatformStats)
	r.POST("/markdown/preview", middleware.AuthMiddleware(), handlers.PreviewMarkdown)
}
