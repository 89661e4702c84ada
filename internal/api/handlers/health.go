package handlers

import (
	"net/http"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/health"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/gin-gonic/gin"
)

const serviceName = "mentor-backend"

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HandleHealth reports the last known status of each dependency. It
// answers 503 while any of them is unhealthy.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	overall := h.checker.Current(c.Request.Context())

	services := make(map[string]string, len(overall.Services))
	for _, s := range overall.Services {
		services[s.Name] = s.Status
	}

	code := http.StatusOK
	if overall.Status == models.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, models.HealthResponse{
		Status:    overall.Status,
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}
