package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

// RateLimitMiddleware throttles requests per key. Redis outages fail open:
// a limiter that cannot be reached never locks users out.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			if strings.Contains(err.Error(), "rate limit exceeded") {
				rejectRateLimited(c, rateLimiter, key, limit, window, err.Error())
				return
			}
			c.Next()
			return
		}

		if !allowed {
			rejectRateLimited(c, rateLimiter, key, limit, window, "Rate limit exceeded")
			return
		}

		remaining, _ := rateLimiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, rateLimiter *service.RateLimiter, key string, limit int, window time.Duration, message string) {
	remaining, _ := rateLimiter.Remaining(c.Request.Context(), key, limit, window)
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
		Message: message,
		Error:   http.StatusText(http.StatusTooManyRequests),
	})
	c.Abort()
}

// IPBasedKey keys rate limits by client IP. The first hop in X-Forwarded-For
// wins when a proxy sits in front.
func IPBasedKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	return c.ClientIP()
}
