package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumanotes/session-backend/internal/middleware"
	"github.com/lumanotes/session-backend/internal/services"
)

// UserController serves the current-user contract consumed by page loaders:
// the user plus the active membership of their session.
type UserController struct {
	creds       *services.CredentialService
	memberships *services.MembershipService

	cookieName    string
	secureCookies bool
}

func NewUserController(
	creds *services.CredentialService,
	memberships *services.MembershipService,
	cookieName string,
	secureCookies bool,
) *UserController {
	return &UserController{
		creds:         creds,
		memberships:   memberships,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// Me returns the authenticated user and their active membership.
// GET /user
func (uc *UserController) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	user, err := uc.creds.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to retrieve user",
		})
		return
	}
	if user == nil {
		// Session points at a deleted user: force logout.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(uc.cookieName, "", -1, "/", "", uc.secureCookies, true)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	activeMembership, err := uc.memberships.GetActiveMembership(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoMembership) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "User has no memberships",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Unable to resolve membership",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":              user,
		"active_membership": activeMembership,
	})
}
