package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mealplan/auth"
)

// Cookie names for the two principal kinds.
const (
	CustomerCookie = "token"
	AdminCookie    = "admin_token"
)

// customerToken pulls the customer token from the `token` cookie or the
// Authorization header, cookie first.
func customerToken(c *gin.Context) string {
	if token, err := c.Cookie(CustomerCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// adminToken pulls the admin token from the `admin_token` cookie or the
// Authorization header.
func adminToken(c *gin.Context) string {
	if token, err := c.Cookie(AdminCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware requires a valid customer token and stores the customer id
// in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := customerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "login required",
			})
			c.Abort()
			return
		}

		claims, err := auth.VerifyCustomerToken(token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, auth.ErrForbidden) {
				status = http.StatusForbidden
			}
			c.JSON(status, gin.H{
				"success": false,
				"message": "token is invalid or expired",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.ID)
		c.Next()
	}
}

// AdminMiddleware requires a valid admin token. A customer token presented
// here is a 403, an absent or broken token a 401.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := adminToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "admin login required",
			})
			c.Abort()
			return
		}

		if err := auth.VerifyAdminToken(token); err != nil {
			if errors.Is(err, auth.ErrForbidden) {
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "admin access required",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "token is invalid or expired",
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.ClientIP()).
			Msg("http request")
	}
}
