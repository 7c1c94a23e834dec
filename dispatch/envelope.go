package dispatch

import (
	"encoding/json"
	"time"
)

/* Envelope is the JSON body sent to the third-party endpoint
 * Retry is present only on retry attempts (value = attempt number)
 * Test is present only on test invocations
 */
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	Retry     int             `json:"retry,omitempty"`
	Test      bool            `json:"test,omitempty"`
}

// NewEnvelope builds the outbound body for an event and its payload
func NewEnvelope(eventType EventType, payload json.RawMessage) Envelope {
	return Envelope{
		Event:     eventType.String(),
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// testMessage is the synthesized payload body for test calls without one
const testMessage = "This is a test webhook event"

// DefaultTestPayload synthesizes the payload used when a test call supplies none
func DefaultTestPayload() json.RawMessage {
	data, _ := json.Marshal(map[string]interface{}{
		"test":      true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   testMessage,
	})
	return data
}
