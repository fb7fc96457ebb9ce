package middleware

import (
	"net/http"
	"strings"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	sessionKey  = "session"

	LoginPath         = "/login"
	UserDashboardPath = "/dashboard/user"
)

var (
	protectedPrefixes = []string{"/dashboard", "/api/tasks", "/api/users", "/api/auth/session"}
	adminPrefixes     = []string{"/dashboard/admin", "/api/users"}
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return "session_token"
	}
	return c.Name
}

// SetSessionCookie writes an HttpOnly session cookie living for ttl.
func SetSessionCookie(c *gin.Context, config CookieConfig, token string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.name(), token, maxAge, "/", "", config.Secure, true)
}

func ClearSessionCookie(c *gin.Context, config CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.name(), "", -1, "/", "", config.Secure, true)
}

// SessionToken reads the token from the session cookie or a Bearer header.
func SessionToken(c *gin.Context, config CookieConfig) string {
	if token, err := c.Cookie(config.name()); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// WithIdentity stores the caller on the request context.
func WithIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the caller resolved by the route gate, or nil.
func CurrentIdentity(c *gin.Context) *models.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := value.(models.Identity)
	if !ok {
		return nil
	}
	return &identity
}

// CurrentSession returns the session resolved by the route gate, or nil.
func CurrentSession(c *gin.Context) *services.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*services.Session)
	return session
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// RouteGate requires a valid session on protected paths and an ADMIN
// session on admin paths. API requests are refused with JSON; page
// requests are redirected. Stale sessions are re-issued on the way through.
func RouteGate(sessions *services.SessionManager, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !hasPrefix(path, protectedPrefixes) {
			c.Next()
			return
		}

		session, err := sessions.Resolve(SessionToken(c, cookie))
		if err != nil {
			logger.Debugf("gate rejected %s %s: %v", c.Request.Method, path, err)
			if isAPI(path) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errs.Message(err)})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, LoginPath)
			c.Abort()
			return
		}

		if hasPrefix(path, adminPrefixes) && session.Identity.Role != models.RoleAdmin {
			if isAPI(path) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, UserDashboardPath)
			c.Abort()
			return
		}

		if sessions.NeedsRefresh(session) {
			token, expiresAt, err := sessions.Issue(session.Identity)
			if err != nil {
				logger.Warningf("session refresh failed for user %d: %v", session.Identity.UserID, err)
			} else {
				SetSessionCookie(c, cookie, token, sessions.TTL())
				session.ExpiresAt = expiresAt
			}
		}

		WithIdentity(c, session.Identity)
		c.Set(sessionKey, session)
		c.Next()
	}
}
