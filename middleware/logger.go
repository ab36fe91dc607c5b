package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mist/models"
	"mist/utils"
)

// RequestLogger logs all incoming HTTP requests with structured fields.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := logrus.InfoLevel
		if status >= 500 {
			level = logrus.ErrorLevel
		} else if status >= 400 {
			level = logrus.WarnLevel
		}

		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"query":       c.Request.URL.RawQuery,
		}
		if user, exists := c.Get(UserKey); exists {
			if u, ok := user.(models.AuthUser); ok {
				fields["user_id"] = u.ID
			}
		}

		utils.Log.WithFields(fields).Log(level, "HTTP Request")
	}
}
