package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		stores map[string]Status
		want   State
	}{
		{
			name: "all passing",
			stores: map[string]Status{
				"graph":    Healthy("ok"),
				"document": Healthy("ok"),
			},
			want: StateHealthy,
		},
		{
			name: "one failing",
			stores: map[string]Status{
				"graph":    Healthy("ok"),
				"document": Unhealthy("connection refused"),
			},
			want: StateDegraded,
		},
		{
			name: "all failing",
			stores: map[string]Status{
				"graph":    Unhealthy("down"),
				"document": Unhealthy("down"),
			},
			want: StateUnhealthy,
		},
		{
			name:   "no stores",
			stores: map[string]Status{},
			want:   StateHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate("0.1.0", tt.stores)
			assert.Equal(t, tt.want, report.State)
			assert.Equal(t, "0.1.0", report.Version)
			assert.False(t, report.CheckedAt.IsZero())
		})
	}
}
