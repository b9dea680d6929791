package middlewares

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// IssueRateLimiter caps the number of issue updates each user may make per
// window. It must run after AuthMiddleware.
func IssueRateLimiter(counter Counter, queuePrefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		// one key per user
		userKey := queuePrefix + ":" + userID

		count, retryAfter, err := counter.Hit(c.Request.Context(), userKey, window)
		if err != nil {
			slog.Error("rate limiter unavailable", "key", userKey, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
			c.Abort()
			return
		}

		if count > int64(limit) {
			seconds := math.Ceil(retryAfter.Seconds())
			c.Header("Retry-After", strconv.Itoa(int(max(seconds, 0))))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": seconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
