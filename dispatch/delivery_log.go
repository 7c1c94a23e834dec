package dispatch

import (
	"encoding/json"
	"time"
)

/* DeliveryLog records one dispatch or test attempt and its outcome
 * WebhookID is a weak reference: the log outlives configuration changes,
 * and EventType is copied at creation time rather than joined
 */
type DeliveryLog struct {
	ID        string
	WebhookID string
	EventType EventType
	Payload   json.RawMessage
	Status    Status
	Attempts  int
	Error     string // last failure detail, empty on success and skip
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LogPatch carries the terminal update of a delivery log entry
type LogPatch struct {
	Status   Status
	Attempts int
	Error    string
}
