package routes

import (
	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.RequireRegistrationOpen(), handlers.Register)
	r.POST("/login", handlers.Login)
	// Logout needs the token claims to blacklist its jti
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)

	// OAuth
	r.GET("/google/login", handlers.GoogleLogin)
	r.GET("/google/callback", handlers.GoogleCallback)

	r.GET("/github/login", handlers.GithubLogin)
	r.GET("/github/callback", handlers.GithubCallback)
}
