package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabin/memeforge/internal/logger"
)

// LoggerMiddleware returns a Gin middleware that injects a request-scoped
// logger carrying a generated request ID, and logs request start/completion
// with metric fields.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := uuid.New().String()

		ctx := c.Request.Context()
		ctx = logger.WithFields(ctx, logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: "api",
		})
		c.Request = c.Request.WithContext(ctx)

		c.Set("logger", logger.FromContext(ctx))
		c.Header("X-Request-ID", requestID)

		logger.CtxInfo(ctx, "Request started: method=%s, path=%s, client_ip=%s",
			c.Request.Method, path, c.ClientIP())

		c.Next()

		latency := time.Since(start)
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}

		logger.With(logger.Fields{
			logger.FieldStatus:     c.Writer.Status(),
			logger.FieldDurationMs: latency.Milliseconds(),
			logger.FieldSize:       c.Writer.Size(),
		}).Info(ctx, "Request completed: method=%s, path=%s", c.Request.Method, fullPath)
	}
}

// GetLogger extracts the request-scoped logger from a Gin context.
func GetLogger(c *gin.Context) *logger.Logger {
	if l, exists := c.Get("logger"); exists {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.FromContext(c.Request.Context())
}
