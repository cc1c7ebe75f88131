package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/config"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// RateLimiter limits every client IP to cfg.RateLimitRequests per
// cfg.RateLimitDuration. Without Redis the limiter is bypassed.
func RateLimiter(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return fixedWindow(redisClient, "rate_limit", cfg.RateLimitRequests, cfg.RateLimitDuration)
}

// AuthRateLimit is the stricter limit for login, register and refresh.
func AuthRateLimit(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return fixedWindow(redisClient, "auth_limit", cfg.AuthRateLimitRequests, cfg.AuthRateLimitDuration)
}

func fixedWindow(redisClient *redis.Client, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", prefix, c.ClientIP())

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("limiter", prefix).Msg("Redis not available for rate limiting")
			c.Next()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("limiter", prefix).Msg("Rate limiter failed to set expiry")
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if count > int64(limit) {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			metrics.RateLimited.WithLabelValues(prefix).Inc()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      "error",
				"message":     "Too many requests",
				"retry_after": ttl.Seconds(),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
		c.Next()
	}
}
