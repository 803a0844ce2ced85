package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/services"
)

// Context keys populated for authenticated requests.
const (
	ContextUserID       = "userID"
	ContextSessionID    = "sessionID"
	ContextMembershipID = "membershipID"
)

// Session resolves the request cookie into the authenticated user, session,
// and active membership. A validly signed cookie whose session row is gone is
// treated as an invalidated session: the cookie is cleared and the request is
// redirected home rather than failing silently.
func Session(sessions *services.SessionService, codec *services.SessionTokenCodec, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(cookieName)
		if err != nil || value == "" {
			c.Next()
			return
		}

		sessionID, ok := codec.Parse(value)
		if !ok {
			// Unverifiable cookie, treat as anonymous.
			c.Next()
			return
		}

		resolution, err := sessions.Resolve(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Unable to resolve session",
			})
			return
		}

		switch resolution.State {
		case services.StateStale:
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, "", -1, "/", "", secure, true)
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		case services.StateAuthenticated:
			c.Set(ContextUserID, resolution.UserID)
			c.Set(ContextSessionID, resolution.SessionID)
			c.Set(ContextMembershipID, resolution.MembershipID)
		}

		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page, carrying the
// original path so the user lands back where they started.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			redirectTo := c.Request.URL.Path
			c.Redirect(http.StatusSeeOther, "/login?redirectTo="+url.QueryEscape(redirectTo))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the request context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// SessionID returns the current request's session id, when authenticated.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextSessionID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
