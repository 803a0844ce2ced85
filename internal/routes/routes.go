package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lumanotes/session-backend/internal/controllers"
)

// SetupRoutes registers all application routes.
func SetupRoutes(
	router *gin.Engine,
	authController *controllers.AuthController,
	sessionController *controllers.SessionController,
	userController *controllers.UserController,
	sessionMiddleware gin.HandlerFunc,
	requireAuth gin.HandlerFunc,
) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	api.Use(sessionMiddleware)

	// Auth routes: /auth/*
	authGroup := api.Group("/auth")
	RegisterAuthRoutes(authGroup, authController)

	// Current user: /user
	userGroup := api.Group("/user")
	userGroup.Use(requireAuth)
	{
		userGroup.GET("", userController.Me)
	}

	// Session management: /sessions/*, /memberships/*
	RegisterSessionRoutes(api, sessionController, requireAuth)
}
