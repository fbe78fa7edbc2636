package middleware

import (
	"net/http"
	"strings"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	ParseAccessToken(token string) (model.Session, error)
	ParseRefreshToken(token string) (int, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.Request.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func AccessTokenMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing or malformed"})
			return
		}

		session, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
			return
		}

		c.Set(sessionKey, session)
		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// RoleMiddleware lets the request through only for the given roles. It must
// run after AccessTokenMiddleware.
func RoleMiddleware(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := Session(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			return
		}
		if !session.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func RefreshTokenMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is missing or malformed"})
			return
		}

		userID, err := tokens.ParseRefreshToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token: " + apperr.Message(err)})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// Session returns the session stored by AccessTokenMiddleware.
func Session(c *gin.Context) (model.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.Session{}, false
	}
	s, ok := v.(model.Session)
	return s, ok
}

// UserID returns the user id stored by either token middleware.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
