package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inference-gateway/calendar-assistant/config"
	"github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/otel"
)

type Telemetry interface {
	Middleware() gin.HandlerFunc
}

type TelemetryImpl struct {
	cfg       config.Config
	telemetry otel.OpenTelemetry
	logger    logger.Logger
}

func NewTelemetryMiddleware(cfg config.Config, telemetry otel.OpenTelemetry, logger logger.Logger) (Telemetry, error) {
	if telemetry == nil {
		telemetry = otel.NewNoopTelemetry()
	}
	return &TelemetryImpl{
		cfg:       cfg,
		telemetry: telemetry,
		logger:    logger,
	}, nil
}

func (t *TelemetryImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// Post middleware begins
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)
		t.logger.Debug("Request measured", "route", route, "status", c.Writer.Status(), "duration", duration.String())
		t.telemetry.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), duration)
	}
}
