package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the dispatch system.
type Metrics struct {
	// StatusCounts maps delivery status name to count of log entries in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// ActiveWebhooks is the number of configurations currently enabled
	ActiveWebhooks int64 `json:"active_webhooks"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the stores.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns the count of delivery log entries by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetActiveWebhooks returns the number of enabled configurations
	GetActiveWebhooks(ctx context.Context) (int64, error)
}
