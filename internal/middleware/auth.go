package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"micro-casino-engine/internal/services"
)

func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			// Browsers cannot set headers on a websocket handshake.
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

type rateRule struct {
	action string
	limit  int
	window time.Duration
}

// rateRuleFor picks the budget for a mutating game endpoint. Reads are not
// limited.
func rateRuleFor(method, path string) (rateRule, bool) {
	if method != http.MethodPost {
		return rateRule{}, false
	}
	switch {
	case strings.HasSuffix(path, "/cashout"):
		return rateRule{action: "cashout", limit: services.DefaultRateLimitCashout, window: time.Minute}, true
	case strings.HasSuffix(path, "/action"):
		return rateRule{action: "action", limit: 120, window: time.Minute}, true
	case strings.Contains(path, "/games/"), strings.Contains(path, "/sports/"):
		return rateRule{action: "bet", limit: services.DefaultRateLimitBets, window: time.Minute}, true
	}
	return rateRule{}, false
}

func RateLimitMiddleware(limiter services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}

		rule, ok := rateRuleFor(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(userID.(int64), rule.action, rule.limit, rule.window)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": rule.window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
