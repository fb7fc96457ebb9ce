package handlers

import (
	"context"
	"net/http"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/middleware"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type AuthHandler struct {
	auth     Authenticator
	sessions *services.SessionManager
	cookie   middleware.CookieConfig
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func NewAuthHandler(auth Authenticator, sessions *services.SessionManager, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.sessions.Issue(user.Identity())
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, token, h.sessions.TTL())
	logger.Infof("user %d signed in", user.ID)
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cookie)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Session describes the caller's current session.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		respondError(c, errs.Unauthorized("authentication required"))
		return
	}
	c.JSON(http.StatusOK, session)
}
