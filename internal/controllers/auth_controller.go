package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lumanotes/session-backend/internal/middleware"
	"github.com/lumanotes/session-backend/internal/services"
)

// AuthController handles login, join, and logout. Both login and join share
// the same shape: structural validation, strategy dispatch, session creation,
// cookie commit, redirect.
type AuthController struct {
	strategies *services.StrategyRegistry
	creds      *services.CredentialService
	sessions   *services.SessionService
	codec      *services.SessionTokenCodec

	cookieName     string
	secureCookies  bool
	rememberMaxAge time.Duration
}

func NewAuthController(
	strategies *services.StrategyRegistry,
	creds *services.CredentialService,
	sessions *services.SessionService,
	codec *services.SessionTokenCodec,
	cookieName string,
	secureCookies bool,
	rememberMaxAge time.Duration,
) *AuthController {
	return &AuthController{
		strategies:     strategies,
		creds:          creds,
		sessions:       sessions,
		codec:          codec,
		cookieName:     cookieName,
		secureCookies:  secureCookies,
		rememberMaxAge: rememberMaxAge,
	}
}

type authRequest struct {
	Email      string `form:"email" json:"email" binding:"required,email"`
	Password   string `form:"password" json:"password" binding:"required,min=8"`
	Remember   bool   `form:"remember" json:"remember"`
	RedirectTo string `form:"redirectTo" json:"redirectTo"`
}

// Login authenticates an existing user. Credential failures always render the
// same generic message so the response does not reveal whether the email
// exists.
// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBind(&req); err != nil {
		respondFieldErrors(c, err)
		return
	}

	identity, err := ac.strategies.Authenticate(c.Request.Context(), "form", services.Credentials{
		Action:    services.ActionLogin,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"email": "Invalid email or password", "password": nil},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Login failed",
		})
		return
	}

	ac.commitSession(c, identity, req.Remember, req.RedirectTo)
}

// Join registers a new user and logs them in. The duplicate-email case is a
// field-scoped validation error, not a credential error.
// POST /auth/join
func (ac *AuthController) Join(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBind(&req); err != nil {
		respondFieldErrors(c, err)
		return
	}

	exists, err := ac.creds.UserExists(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Registration failed",
		})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": gin.H{"email": "A user already exists with this email", "password": nil},
		})
		return
	}

	identity, err := ac.strategies.Authenticate(c.Request.Context(), "form", services.Credentials{
		Action:    services.ActionJoin,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		// The uniqueness check above races with concurrent joins; the unique
		// index is the backstop.
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"email": "A user already exists with this email", "password": nil},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Registration failed",
		})
		return
	}

	ac.commitSession(c, identity, req.Remember, req.RedirectTo)
}

// Logout destroys the current session and clears the cookie.
// POST /auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if sessionID, ok := middleware.SessionID(c); ok {
		if err := ac.sessions.LogoutSession(c.Request.Context(), sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Logout failed",
			})
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookieName, "", -1, "/", "", ac.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (ac *AuthController) commitSession(c *gin.Context, identity *services.Identity, remember bool, redirectTo string) {
	session, err := ac.sessions.Create(c.Request.Context(), identity.UserID, identity.Device)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to create session",
		})
		return
	}

	var ttl time.Duration
	maxAge := 0
	if remember {
		ttl = ac.rememberMaxAge
		maxAge = int(ttl.Seconds())
	}

	token, err := ac.codec.Sign(session.ID, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Failed to create session",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookieName, token, maxAge, "/", "", ac.secureCookies, true)
	c.Redirect(http.StatusSeeOther, safeRedirect(redirectTo))
}

// safeRedirect only accepts site-relative paths, guarding against open
// redirects through absolute or protocol-relative URLs.
func safeRedirect(to string) string {
	if to == "" || !strings.HasPrefix(to, "/") {
		return "/"
	}
	if strings.HasPrefix(to, "//") || strings.Contains(to, "\\") {
		return "/"
	}
	return to
}

// respondFieldErrors maps binding failures to the field-scoped error payload
// the form renders inline.
func respondFieldErrors(c *gin.Context, err error) {
	fields := gin.H{"email": nil, "password": nil}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Email":
				fields["email"] = "Email is invalid"
			case "Password":
				if fe.Tag() == "min" {
					fields["password"] = "Password is too short"
				} else {
					fields["password"] = "Password is required"
				}
			}
		}
	} else {
		fields["email"] = "Email is invalid"
	}

	c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}
