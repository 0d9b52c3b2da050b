package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wakatake-dev/faqbot/internal/health"
	"github.com/wakatake-dev/faqbot/internal/models"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) HandleHealth(c *gin.Context) {
	overall := h.checker.CheckAll(c.Request.Context())

	services := make(map[string]string, len(overall.Services))
	for _, svc := range overall.Services {
		services[svc.Name] = svc.Status
	}

	code := http.StatusOK
	if overall.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, models.HealthResponse{
		Status:    overall.Status,
		Service:   "faqbot",
		Timestamp: time.Now().Format(time.RFC3339),
		Services:  services,
	})
}
