package middleware

import (
	"net/http"
	"strings"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// Requests without a valid bearer token are rejected with 401. When
// OptionalAuth already identified the caller the token is not parsed again.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) != "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") == "" {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		if !authenticate(c, authService) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still a 401.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, authService) {
			return
		}
		c.Next()
	}
}

// authenticate validates the bearer token and stores the caller in the
// context. It aborts the request and returns false on failure.
func authenticate(c *gin.Context, authService service.AuthService) bool {
	// format: "Bearer <token>"
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		unauthorized(c, "Invalid authorization header format.")
		return false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		unauthorized(c, "Given token not valid for any token type.")
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	return true
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// Actor returns the authenticated caller, or the anonymous actor.
func Actor(c *gin.Context) access.Actor {
	return access.Actor{UserID: c.GetString(ContextUserID)}
}
