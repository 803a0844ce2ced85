package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/middleware"
	"github.com/lumanotes/session-backend/internal/services"
)

// SessionController exposes multi-device session management: listing with
// current-device flagging, remote logout, bulk logout, and tenant switching.
type SessionController struct {
	sessions    *services.SessionService
	memberships *services.MembershipService
}

func NewSessionController(sessions *services.SessionService, memberships *services.MembershipService) *SessionController {
	return &SessionController{sessions: sessions, memberships: memberships}
}

// List returns the user's sessions ordered by last_active descending, each
// flagged with is_current_device.
// GET /sessions
func (sc *SessionController) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}
	currentID, _ := middleware.SessionID(c)

	infos, err := sc.sessions.ListSessions(c.Request.Context(), userID, currentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to list sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": infos})
}

// LogoutOne logs out a single device by session id.
// POST /sessions/:id/logout
func (sc *SessionController) LogoutOne(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Invalid session id",
		})
		return
	}

	if err := sc.sessions.LogoutUserSession(c.Request.Context(), userID, sessionID); err != nil {
		if errors.Is(err, services.ErrNotSessionOwner) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Session belongs to another user",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to log out session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session logged out"})
}

type logoutAllRequest struct {
	Password string `form:"password" json:"password" binding:"required"`
}

// LogoutAll deletes every session except the current one. Bulk logout is
// destructive, so it demands a fresh password as a step-up check.
// POST /sessions/logout-all
func (sc *SessionController) LogoutAll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}
	currentID, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	var req logoutAllRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Password is required",
		})
		return
	}

	verified, err := sc.sessions.VerifyPassword(c.Request.Context(), userID, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to verify password",
		})
		return
	}
	if !verified {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "Password verification failed",
		})
		return
	}

	if err := sc.sessions.LogoutOtherSessions(c.Request.Context(), userID, currentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to log out other sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out everywhere else"})
}

type switchMembershipRequest struct {
	MembershipID string `form:"membership_id" json:"membership_id"`
}

// SwitchMembership changes the tenant context of the current session. An
// empty membership id is a no-op.
// POST /memberships/switch
func (sc *SessionController) SwitchMembership(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	var req switchMembershipRequest
	if err := c.ShouldBind(&req); err != nil || req.MembershipID == "" {
		c.JSON(http.StatusOK, gin.H{"message": "No membership change"})
		return
	}

	membershipID, err := uuid.Parse(req.MembershipID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "Invalid membership id",
		})
		return
	}

	if err := sc.memberships.SwitchMembership(c.Request.Context(), sessionID, userID, membershipID); err != nil {
		if errors.Is(err, services.ErrMembershipNotOwned) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Membership belongs to another user",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to switch membership",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership switched"})
}
