package middlewares

import (
	"net/http"
	"strings"

	"github.com/dkovalenko/todohub/internal/auth"
	"github.com/gin-gonic/gin"
)

// TokenVerifier is kept as a small interface so tests can fake it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware is the single point of identity resolution: every
// protected handler reads the caller's identity from the context values
// this middleware sets, never from raw request input.
type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
