package metrics

import (
	"context"
	"fmt"
	"time"
)

/* The collector depends on narrow local interfaces rather than the domain
 * repositories, so any backend (or a fake in tests) can satisfy it
 */

// StatusCounter counts delivery log entries by status
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ActiveCounter counts enabled webhook configurations
type ActiveCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// StoreCollector implements Collector over the configuration and log stores
type StoreCollector struct {
	Logs    StatusCounter
	Configs ActiveCounter
}

// NewStoreCollector creates a store-backed metrics collector
func NewStoreCollector(logs StatusCounter, configs ActiveCounter) *StoreCollector {
	return &StoreCollector{
		Logs:    logs,
		Configs: configs,
	}
}

// Collect gathers all metrics from the stores
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	active, err := c.GetActiveWebhooks(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active webhooks: %w", err)
	}

	return Metrics{
		StatusCounts:   statusCounts,
		ActiveWebhooks: active,
		Timestamp:      time.Now(),
	}, nil
}

// GetStatusCounts returns delivery log counts grouped by status
func (c *StoreCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := c.Logs.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting logs by status: %w", err)
	}
	return counts, nil
}

// GetActiveWebhooks returns the number of enabled configurations
func (c *StoreCollector) GetActiveWebhooks(ctx context.Context) (int64, error) {
	active, err := c.Configs.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting active webhooks: %w", err)
	}
	return active, nil
}
