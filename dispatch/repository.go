package dispatch

import "context"

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// ConfigReader provides read operations for webhook configurations
type ConfigReader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (Webhook, error)
	// GetByURL resolves a configuration by exact URL match; ErrNotFound if absent
	GetByURL(ctx context.Context, url string) (Webhook, error)
	List(ctx context.Context, companyID string) ([]Webhook, error)
	// CountActive returns the number of configurations with IsActive set
	CountActive(ctx context.Context) (int64, error)
}

// ConfigWriter provides write operations for webhook configurations
type ConfigWriter interface {
	Create(ctx context.Context, wh Webhook) (string, error)
	Update(ctx context.Context, id string, patch WebhookPatch) error
}

// LogReader provides read operations for delivery log entries
type LogReader interface {
	GetLog(ctx context.Context, id string) (DeliveryLog, error)
	ListByWebhook(ctx context.Context, webhookID string, limit int) ([]DeliveryLog, error)
	// CountByStatus returns delivery log counts keyed by status name
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// LogWriter provides write operations for delivery log entries
type LogWriter interface {
	/* CreateLog persists the entry before any network call is made
	 * UpdateLog writes the terminal outcome exactly once
	 */
	CreateLog(ctx context.Context, entry DeliveryLog) (string, error)
	UpdateLog(ctx context.Context, id string, patch LogPatch) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */

// ConfigRepository is the full configuration store contract
type ConfigRepository interface {
	ConfigReader
	ConfigWriter
}

// LogRepository is the full delivery log store contract
type LogRepository interface {
	LogReader
	LogWriter
}

// Repository combines both stores; backends implement it over one connection
type Repository interface {
	ConfigRepository
	LogRepository
	Close(ctx context.Context) error
}
