package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/bookstore/internal/middleware"
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are
// reachable, for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler registers the checks named in the observability config.
// "database" pings the connection pool; unknown names are ignored.
func NewHealthHandler(s *server.Server) *HealthHandler {
	cfg := s.Config.Observability.HealthChecks
	h := &HealthHandler{
		Handler: NewHandler(s),
		checks:  make(map[string]HealthCheck),
		timeout: cfg.Timeout,
	}

	if !cfg.Enabled {
		return h
	}

	for _, name := range cfg.Checks {
		switch name {
		case "database":
			if s.DB != nil {
				h.checks[name] = s.DB.Pool.Ping
			}
		}
	}

	return h
}

// CheckHealth returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	isHealthy := true

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check(ctx)
		cancel()

		if err != nil {
			isHealthy = false
			checks[name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(checkStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", name).
				Dur("response_time", time.Since(checkStart)).
				Msg("health check failed")

			h.recordFailure(name, err, time.Since(checkStart))
			continue
		}

		checks[name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(checkStart).String(),
		}
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, err error, elapsed time.Duration) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        "health_check",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
