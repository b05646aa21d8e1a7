package ports

import "context"

// Component health values, ordered from best to worst
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthChecker reports the health of one component. Implementations must not
// call the weather API.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthStatus is the health report of a single component
type HealthStatus struct {
	Component string                 `json:"component"`
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// SystemHealthChecker reports every component keyed by name
type SystemHealthChecker interface {
	CheckAll(ctx context.Context) map[string]HealthStatus
}
