package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	AgentIDHeader   = "X-Agent-ID"
)

// RequestContext tags each request with a request ID and a scoped logger, and records the
// calling agent. Handlers read the logger under "logger" and the agent under "agentID".
func RequestContext(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		logger := base.With(
			zap.String("requestId", requestID),
			zap.String("ip", getClientIP(c)))
		c.Set("logger", logger)
		c.Set("requestID", requestID)
		if agent := c.GetHeader(AgentIDHeader); agent != "" {
			c.Set("agentID", agent)
		}

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
