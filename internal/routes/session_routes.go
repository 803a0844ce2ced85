package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lumanotes/session-backend/internal/controllers"
)

func RegisterSessionRoutes(router *gin.RouterGroup, sessionController *controllers.SessionController, requireAuth gin.HandlerFunc) {
	sessionsGroup := router.Group("/sessions")
	sessionsGroup.Use(requireAuth)
	{
		// GET /sessions - List sessions with current-device flagging
		sessionsGroup.GET("", sessionController.List)

		// POST /sessions/:id/logout - Remote device logout
		sessionsGroup.POST("/:id/logout", sessionController.LogoutOne)

		// POST /sessions/logout-all - Log out everywhere else (step-up check)
		sessionsGroup.POST("/logout-all", sessionController.LogoutAll)
	}

	membershipsGroup := router.Group("/memberships")
	membershipsGroup.Use(requireAuth)
	{
		// POST /memberships/switch - Change the session's tenant context
		membershipsGroup.POST("/switch", sessionController.SwitchMembership)
	}
}
