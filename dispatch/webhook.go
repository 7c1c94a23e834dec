package dispatch

import "time"

/* Webhook is a tenant's registration of a destination URL for one event type
 * Uses value semantics as it represents data, not behavior
 */
type Webhook struct {
	ID        string
	CompanyID string // tenant association, empty for configs created by test calls
	URL       string
	EventType EventType
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

/* WebhookPatch carries a partial update to a configuration
 * Nil fields are left untouched by the store
 */
type WebhookPatch struct {
	IsActive  *bool
	EventType *EventType
	URL       *string
}
