package health

import (
	"context"
	"errors"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/llm"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	ServiceDatabase = "database"
	ServiceRedis    = "redis"
	ServiceLLM      = "llm"
)

// Backend is the storage the checker pings. *database.Manager satisfies it.
type Backend interface {
	PingDatabase(ctx context.Context) error
	PingRedis(ctx context.Context) error
	CacheEnabled() bool
}

// StatusCache keeps the latest check results. *database.Cache satisfies it.
type StatusCache interface {
	CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error
	GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error)
}

// HealthChecker manages health checks for all services
type HealthChecker struct {
	backend    Backend
	cache      StatusCache
	healthRepo models.SystemHealthRepository
	provider   llm.Provider
	probeLLM   bool
	logger     *logrus.Logger
	startTime  time.Time
}

// NewHealthChecker builds a checker. cache and provider may be nil.
func NewHealthChecker(
	backend Backend,
	cache StatusCache,
	healthRepo models.SystemHealthRepository,
	provider llm.Provider,
	probeLLM bool,
	logger *logrus.Logger,
) *HealthChecker {
	return &HealthChecker{
		backend:    backend,
		cache:      cache,
		healthRepo: healthRepo,
		provider:   provider,
		probeLLM:   probeLLM,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

func (h *HealthChecker) CheckDatabase(ctx context.Context) ServiceHealth {
	return h.run(ctx, ServiceDatabase, models.StatusUnhealthy, h.backend.PingDatabase)
}

// CheckRedis reports ok=false when the cache is disabled.
func (h *HealthChecker) CheckRedis(ctx context.Context) (ServiceHealth, bool) {
	if !h.backend.CacheEnabled() {
		return ServiceHealth{}, false
	}
	// Without the cache the tutor still answers, only slower.
	return h.run(ctx, ServiceRedis, models.StatusDegraded, h.backend.PingRedis), true
}

// CheckLLM probes the provider with a one-token request when probing is
// enabled; otherwise it only reports that a provider is configured.
func (h *HealthChecker) CheckLLM(ctx context.Context) ServiceHealth {
	return h.run(ctx, ServiceLLM, models.StatusUnhealthy, func(ctx context.Context) error {
		if h.provider == nil {
			return errors.New("no LLM provider configured")
		}
		if !h.probeLLM {
			return nil
		}
		_, err := h.provider.Generate(llm.WithPurpose(ctx, "health"), llm.UserMessage("", "ping", 1, 0))
		return err
	})
}

func (h *HealthChecker) run(ctx context.Context, name, failStatus string, check func(context.Context) error) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	responseTime := int(time.Since(start).Milliseconds())

	status := models.StatusHealthy
	errorMsg := ""
	if err != nil {
		status = failStatus
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", name).Error("Health check failed")
	}

	if err := h.healthRepo.UpdateServiceHealth(ctx, name, status, responseTime, errorMsg); err != nil {
		h.logger.WithError(err).WithField("service", name).Warn("Failed to record health status")
	}

	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().UTC().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{h.CheckDatabase(ctx)}
	if redis, ok := h.CheckRedis(ctx); ok {
		services = append(services, redis)
	}
	services = append(services, h.CheckLLM(ctx))

	return OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.uptime(),
	}
}

// Current returns the cached status, else the last recorded one, else a
// fresh check.
func (h *HealthChecker) Current(ctx context.Context) OverallHealth {
	if h.cache != nil {
		if cached, err := h.cache.GetCachedSystemHealth(ctx); err == nil && len(cached) > 0 {
			return h.fromModels(cached)
		}
	}

	recorded, err := h.healthRepo.GetAllServicesHealth(ctx)
	if err == nil && len(recorded) > 0 {
		return h.fromModels(recorded)
	}
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load recorded health status")
	}

	return h.CheckAll(ctx)
}

func (h *HealthChecker) fromModels(rows []models.SystemHealth) OverallHealth {
	services := make([]ServiceHealth, len(rows))
	for i, row := range rows {
		services[i] = ServiceHealth{
			Name:         row.ServiceName,
			Status:       row.Status,
			ResponseTime: row.ResponseTimeMs,
			Error:        row.ErrorMessage,
			LastChecked:  row.CheckedAt.UTC().Format(time.RFC3339),
		}
	}
	return OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.uptime(),
	}
}

func overallStatus(services []ServiceHealth) string {
	status := models.StatusHealthy
	for _, service := range services {
		if service.Status == models.StatusUnhealthy {
			return models.StatusUnhealthy
		}
		if service.Status == models.StatusDegraded {
			status = models.StatusDegraded
		}
	}
	return status
}

func (h *HealthChecker) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

// PeriodicHealthCheck checks immediately and then every interval until ctx
// is cancelled, caching each result for two intervals.
func (h *HealthChecker) PeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		h.checkAndCache(ctx, interval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *HealthChecker) checkAndCache(ctx context.Context, interval time.Duration) {
	health := h.CheckAll(ctx)

	if h.cache != nil {
		healthModels := make([]models.SystemHealth, len(health.Services))
		for i, service := range health.Services {
			checkedAt, _ := time.Parse(time.RFC3339, service.LastChecked)
			healthModels[i] = models.SystemHealth{
				ServiceName:    service.Name,
				Status:         service.Status,
				ResponseTimeMs: service.ResponseTime,
				ErrorMessage:   service.Error,
				CheckedAt:      checkedAt,
			}
		}

		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := h.cache.CacheSystemHealth(cacheCtx, healthModels, 2*interval); err != nil {
			h.logger.WithError(err).Error("Failed to cache health status")
		}
		cancel()
	}

	h.logger.WithField("status", health.Status).Debug("Periodic health check completed")
}
