package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "orders-service"

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Ready handles GET /ready. Every registered dependency must answer.
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			ready = false
			checks[name] = err.Error()
			if h.logger != nil {
				h.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			}
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": serviceName,
		"checks":  checks,
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
