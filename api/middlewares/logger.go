package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	l "github.com/inference-gateway/calendar-assistant/logger"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

type Logger interface {
	Middleware() gin.HandlerFunc
}

type LoggerImpl struct {
	logger l.Logger
}

func NewLoggerMiddleware(logger l.Logger) (Logger, error) {
	return &LoggerImpl{
		logger: logger,
	}, nil
}

func (m *LoggerImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			m.logger.Error("request failed", c.Errors.Last(), fields...)
			return
		}
		m.logger.Info("request completed", fields...)
	}
}
