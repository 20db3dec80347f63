package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/models"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

const userIDKey = "userID"

// AuthMiddleware validates JWT tokens and sets user context
func AuthMiddleware(authService service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := log.WithField("path", c.Request.URL.Path)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			entry.Debug("[Auth] Missing Authorization header")
			abortUnauthorized(c, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			entry.Debug("[Auth] Invalid header format")
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		token, err := authService.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			entry.WithError(err).Debug("[Auth] Invalid token")
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := authService.GetUserIDFromToken(token)
		if err != nil {
			entry.WithError(err).Warn("[Auth] Failed to extract userID")
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: message})
}

// RequestLogger logs every request once it completes, plus any errors the
// handlers attached to the context.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": time.Since(start),
		})
		if userID := GetUserID(c); userID != "" {
			entry = entry.WithField("user_id", userID)
		}

		for _, e := range c.Errors {
			entry.WithError(e.Err).Error("[Error] Request failed")
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("[HTTP] Request")
		case status >= http.StatusBadRequest:
			entry.Warn("[HTTP] Request")
		default:
			entry.Info("[HTTP] Request")
		}
	}
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) string {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	s, _ := userID.(string)
	return s
}

// RequireUserID writes a 401 when no user is authenticated.
func RequireUserID(c *gin.Context) (string, bool) {
	userID := GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "User not authenticated"})
		return "", false
	}
	return userID, true
}
