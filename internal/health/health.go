// Package health models per-store connectivity probes and their aggregate.
package health

import "time"

// State is the probe outcome for one store or for the whole system.
type State string

const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

// Status is one probe result.
type Status struct {
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Healthy builds a passing status.
func Healthy(message string) Status {
	return Status{State: StateHealthy, Message: message, CheckedAt: time.Now()}
}

// Unhealthy builds a failing status.
func Unhealthy(message string) Status {
	return Status{State: StateUnhealthy, Message: message, CheckedAt: time.Now()}
}

// Report aggregates every adapter probe: healthy when all pass, unhealthy
// when all fail, degraded otherwise.
type Report struct {
	State     State             `json:"state"`
	Stores    map[string]Status `json:"stores"`
	Version   string            `json:"version"`
	CheckedAt time.Time         `json:"checked_at"`
}

// Aggregate combines named store probes into a report.
func Aggregate(version string, stores map[string]Status) Report {
	report := Report{
		Stores:    stores,
		Version:   version,
		CheckedAt: time.Now(),
	}

	passing := 0
	for _, s := range stores {
		if s.State == StateHealthy {
			passing++
		}
	}
	switch {
	case len(stores) == 0 || passing == len(stores):
		report.State = StateHealthy
	case passing == 0:
		report.State = StateUnhealthy
	default:
		report.State = StateDegraded
	}
	return report
}
