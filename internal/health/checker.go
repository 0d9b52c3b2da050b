package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/database"
	"github.com/wakatake-dev/faqbot/internal/models"
)

// Checker probes the bot's dependencies: the relational store, the cache
// and the remote answer table.
type Checker struct {
	dbManager  *database.Manager
	healthRepo models.SystemHealthRepository
	client     *http.Client
	logger     *logrus.Logger
	tableURL   string
	startedAt  time.Time
}

func NewChecker(dbManager *database.Manager, healthRepo models.SystemHealthRepository, logger *logrus.Logger, tableURL string) *Checker {
	return &Checker{
		dbManager:  dbManager,
		healthRepo: healthRepo,
		client:     &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
		tableURL:   tableURL,
		startedAt:  time.Now(),
	}
}

// ServiceHealth is one dependency's probe result.
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth aggregates all probes.
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

func (h *Checker) record(name string, err error, start time.Time) ServiceHealth {
	responseTime := int(time.Since(start).Milliseconds())
	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", name).Error("Health check failed")
	}
	if h.healthRepo != nil {
		if repoErr := h.healthRepo.UpdateServiceHealth(name, status, responseTime, errorMsg); repoErr != nil {
			h.logger.WithError(repoErr).Warn("Failed to persist health status")
		}
	}
	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

func (h *Checker) CheckPostgres() ServiceHealth {
	start := time.Now()
	var err error
	if h.dbManager == nil {
		err = fmt.Errorf("database not configured")
	} else {
		err = h.dbManager.PingDatabase()
	}
	return h.record("postgresql", err, start)
}

func (h *Checker) CheckRedis() ServiceHealth {
	start := time.Now()
	var err error
	if h.dbManager == nil {
		err = fmt.Errorf("redis not configured")
	} else {
		err = h.dbManager.PingRedis()
	}
	return h.record("redis", err, start)
}

// CheckAnswerTable verifies the published answer table is reachable. The
// body is not parsed here; reachability is the useful signal.
func (h *Checker) CheckAnswerTable(ctx context.Context) ServiceHealth {
	start := time.Now()
	err := h.probeTable(ctx)
	return h.record("answer_table", err, start)
}

func (h *Checker) probeTable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.tableURL, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("answer table returned status %d", resp.StatusCode)
	}
	return nil
}

// CheckAll runs every probe and derives the overall status. Any unhealthy
// dependency marks the whole system degraded; an unreachable answer table
// marks it unhealthy because answering is impossible without it.
func (h *Checker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{
		h.CheckPostgres(),
		h.CheckRedis(),
		h.CheckAnswerTable(ctx),
	}

	status := "healthy"
	for _, svc := range services {
		if svc.Status != "unhealthy" {
			continue
		}
		if svc.Name == "answer_table" {
			status = "unhealthy"
			break
		}
		status = "degraded"
	}

	return OverallHealth{
		Status:   status,
		Services: services,
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
	}
}
