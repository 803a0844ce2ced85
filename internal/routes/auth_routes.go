package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lumanotes/session-backend/internal/controllers"
)

func RegisterAuthRoutes(router *gin.RouterGroup, authController *controllers.AuthController) {
	// POST /auth/login - Authenticate an existing user
	router.POST("/login", authController.Login)

	// POST /auth/join - Register a new user and log them in
	router.POST("/join", authController.Join)

	// POST /auth/logout - Destroy the current session
	router.POST("/logout", authController.Logout)
}
