package monitoring

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthChecker aggregates the readiness probes behind /ready. The server
// registers one probe per dependency (currently the board store); probes
// also run on their own interval so a store outage shows up in the logs
// before the next readiness request notices it.
type HealthChecker struct {
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	checks []HealthCheck
}

// HealthCheck is a single named probe with its own cadence and deadline.
type HealthCheck struct {
	Name     string
	Check    func(ctx context.Context) (bool, error)
	Interval time.Duration
	Timeout  time.Duration
}

// HealthStatus is the /ready response body.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func NewHealthChecker(logger *zap.SugaredLogger) *HealthChecker {
	return &HealthChecker{logger: logger}
}

func (h *HealthChecker) AddCheck(name string, check func(ctx context.Context) (bool, error), interval, timeout time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.checks = append(h.checks, HealthCheck{
		Name:     name,
		Check:    check,
		Interval: interval,
		Timeout:  timeout,
	})
}

// CheckAll runs every registered probe once. Any failure marks the whole
// status unhealthy; /ready turns that into a 503.
func (h *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	for _, check := range h.checks {
		healthy, err := h.runCheck(ctx, check)
		switch {
		case err != nil:
			status.Status = "unhealthy"
			status.Checks[check.Name] = err.Error()
		case !healthy:
			status.Status = "unhealthy"
			status.Checks[check.Name] = "check failed"
		default:
			status.Checks[check.Name] = "healthy"
		}
	}

	return status
}

// StartBackgroundChecks keeps every registered probe running on its
// interval until ctx is cancelled. Failures are logged only; /ready
// still probes synchronously for its answer.
func (h *HealthChecker) StartBackgroundChecks(ctx context.Context) {
	h.mu.RLock()
	checks := make([]HealthCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	for _, check := range checks {
		go h.runPeriodically(ctx, check)
	}
}

func (h *HealthChecker) runPeriodically(ctx context.Context, check HealthCheck) {
	ticker := time.NewTicker(check.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthy, err := h.runCheck(ctx, check)
			if err != nil {
				h.logger.Warnw("health check failed", "check", check.Name, "error", err)
			} else if !healthy {
				h.logger.Warnw("health check unhealthy", "check", check.Name)
			}
		}
	}
}

func (h *HealthChecker) runCheck(ctx context.Context, check HealthCheck) (bool, error) {
	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()
	return check.Check(checkCtx)
}
