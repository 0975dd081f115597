// Package handlers exposes the stub storefront API over gin. Routes,
// payloads, and status codes follow the contract the client consumes:
// cookie sessions, a CSRF double-submit token on mutating requests,
// and paginated {count, results} listing envelopes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/services"
)

const (
	SessionCookie = "sessionid"
	CSRFCookie    = "csrftoken"

	csrfHeader = "X-CSRFToken"

	ctxUserKey = "user"
	ctxCSRFKey = "csrf"
)

// SessionMiddleware resolves the session cookie into the current user
// and the session's CSRF token. Requests without a valid session pass
// through anonymous.
func SessionMiddleware(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid, err := c.Cookie(SessionCookie); err == nil && sid != "" {
			if user, csrf, ok := accounts.ResolveSession(sid); ok {
				c.Set(ctxUserKey, *user)
				c.Set(ctxCSRFKey, csrf)
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	return v.(models.User), true
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		c.Next()
	}
}

// RequireCSRF enforces the token on mutating requests from
// authenticated sessions. Anonymous requests (login, register) carry
// no session to forge and pass through.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		expected, ok := c.Get(ctxCSRFKey)
		if !ok {
			c.Next()
			return
		}
		if c.GetHeader(csrfHeader) != expected.(string) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "CSRF Failed: CSRF token missing or incorrect.",
			})
			return
		}
		c.Next()
	}
}
