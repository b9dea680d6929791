package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/services"
	"civicsync-dashboard/session"
	authUtils "civicsync-dashboard/utils"
)

const (
	AuthCookieName = "auth_token"

	sessionKey = "session"
	userIDKey  = "user_id"
)

// AuthMiddleware resolves the bearer token (or auth_token cookie) to a live
// session and stores it on the context.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		sess, err := auth.Resolve(c.Request.Context(), tokenString)
		switch {
		case errors.Is(err, authUtils.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		case errors.Is(err, session.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			c.Abort()
			return
		case err != nil:
			slog.Error("session lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set(userIDKey, sess.User.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.Request.Header.Get("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentSession returns the session AuthMiddleware attached to c.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}
