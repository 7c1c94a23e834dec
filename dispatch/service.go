package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agendae/webhook-dispatch/metrics"
	"github.com/google/uuid"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the business operations for webhook dispatch
type UseCase interface {
	Dispatch(ctx context.Context, req DispatchRequest) (Outcome, error)
	TestDeliver(ctx context.Context, req TestRequest) (Outcome, error)
	GetWebhook(ctx context.Context, id string) (Webhook, error)
	ListWebhooks(ctx context.Context, companyID string) ([]Webhook, error)
	SetActive(ctx context.Context, id string, active bool) error
	ListLogs(ctx context.Context, webhookID string, limit int) ([]DeliveryLog, error)
}

// DispatchRequest is the input for delivering a domain event to a registered webhook
type DispatchRequest struct {
	WebhookID string
	EventType string
	Payload   json.RawMessage
}

// TestRequest is the input for a one-shot test delivery to a raw URL
type TestRequest struct {
	URL       string
	EventType string
	Payload   json.RawMessage
}

/* Outcome is the caller-facing result of a dispatch or test call
 * Delivery failure is reported here, never as an error: the caller learns
 * what was attempted, not whether the third party behaved
 */
type Outcome struct {
	Success   bool
	Message   string
	LogID     string
	WebhookID string
}

type Service struct {
	Configs ConfigRepository
	Logs    LogRepository
	Sender  Sender

	// MaxAttempts bounds the dispatch retry loop (total attempts, not retries)
	MaxAttempts int
	// BaseDelay is the wait before attempt 2; doubles for each further attempt
	BaseDelay time.Duration
	// Sleep suspends between attempts; swapped out by tests
	Sleep func(d time.Duration)
}

// NewService creates a dispatch service with the default retry policy
func NewService(configs ConfigRepository, logs LogRepository, sender Sender) *Service {
	return &Service{
		Configs:     configs,
		Logs:        logs,
		Sender:      sender,
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Sleep:       time.Sleep,
	}
}

// Dispatch delivers a domain event to a registered webhook with bounded retry
func (s *Service) Dispatch(ctx context.Context, req DispatchRequest) (Outcome, error) {
	if req.WebhookID == "" {
		return Outcome{}, &ValidationError{Field: "webhook_id", Reason: "is required"}
	}
	if req.EventType == "" {
		return Outcome{}, &ValidationError{Field: "event_type", Reason: "is required"}
	}
	eventType, err := ParseEventType(req.EventType)
	if err != nil {
		return Outcome{}, &ValidationError{Field: "event_type", Reason: err.Error()}
	}
	if len(req.Payload) == 0 {
		return Outcome{}, &ValidationError{Field: "payload", Reason: "is required"}
	}

	wh, err := s.Configs.Get(ctx, req.WebhookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Outcome{}, ErrNotFound
		}
		return Outcome{}, fmt.Errorf("loading webhook configuration: %w", err)
	}

	if !wh.IsActive {
		logID, err := s.Logs.CreateLog(ctx, newLogEntry(wh.ID, eventType, req.Payload, Skipped, 0))
		if err != nil {
			return Outcome{}, fmt.Errorf("logging skipped delivery: %w", err)
		}
		metrics.DeliveriesTotal.WithLabelValues(eventType.String(), Skipped.String()).Inc()
		return Outcome{
			Success:   false,
			Message:   "Webhook is inactive",
			LogID:     logID,
			WebhookID: wh.ID,
		}, nil
	}

	// The first attempt is accounted for before it happens
	logID, err := s.Logs.CreateLog(ctx, newLogEntry(wh.ID, eventType, req.Payload, Pending, 1))
	if err != nil {
		return Outcome{}, fmt.Errorf("logging pending delivery: %w", err)
	}

	start := time.Now()
	attempts, last := s.deliverWithRetry(ctx, wh.URL, logID, eventType, req.Payload)
	metrics.DeliveryDuration.WithLabelValues(eventType.String()).Observe(time.Since(start).Seconds())

	status := Failed
	message := fmt.Sprintf("Webhook delivery failed after %d attempts", attempts)
	errDetail := ""
	if last.OK {
		status = Success
		message = "Webhook delivered successfully"
	} else if last.Err != nil {
		errDetail = last.Err.Error()
	}

	if err := s.Logs.UpdateLog(ctx, logID, LogPatch{Status: status, Attempts: attempts, Error: errDetail}); err != nil {
		return Outcome{}, fmt.Errorf("updating delivery log: %w", err)
	}
	metrics.DeliveriesTotal.WithLabelValues(eventType.String(), status.String()).Inc()

	return Outcome{
		Success:   last.OK,
		Message:   message,
		LogID:     logID,
		WebhookID: wh.ID,
	}, nil
}

/* deliverWithRetry runs the bounded delivery loop
 * Before attempt n (n >= 2) it waits BaseDelay * 2^(n-2), and the retry
 * envelope carries the attempt number so the receiver can tell retries apart
 * Returns the number of attempts actually made and the last result
 */
func (s *Service) deliverWithRetry(ctx context.Context, url, deliveryID string, eventType EventType, payload json.RawMessage) (int, Result) {
	var last Result
	attempts := 0

	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		env := NewEnvelope(eventType, payload)
		if attempt > 1 {
			env.Retry = attempt
			s.Sleep(s.BaseDelay << (attempt - 2))
			metrics.RetriesTotal.WithLabelValues(eventType.String()).Inc()
		}

		attempts = attempt
		last = s.Sender.Send(ctx, url, deliveryID, env)
		if last.OK {
			break
		}
	}

	return attempts, last
}

// TestDeliver performs a one-shot delivery to a raw URL, creating a
// configuration for it if none exists. Never retries.
func (s *Service) TestDeliver(ctx context.Context, req TestRequest) (Outcome, error) {
	if req.URL == "" {
		return Outcome{}, &ValidationError{Field: "url", Reason: "is required"}
	}
	if req.EventType == "" {
		return Outcome{}, &ValidationError{Field: "event_type", Reason: "is required"}
	}
	eventType, err := ParseEventType(req.EventType)
	if err != nil {
		return Outcome{}, &ValidationError{Field: "event_type", Reason: err.Error()}
	}

	/* Find-or-create by URL. An existing configuration is reused as-is,
	 * including its current IsActive and EventType. Concurrent first-time
	 * calls for the same URL can race; the Postgres backend surfaces the
	 * duplicate via its unique index on url
	 */
	wh, err := s.Configs.GetByURL(ctx, req.URL)
	switch {
	case errors.Is(err, ErrNotFound):
		now := time.Now().UTC()
		wh = Webhook{
			ID:        uuid.New().String(),
			URL:       req.URL,
			EventType: eventType,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.Configs.Create(ctx, wh); err != nil {
			return Outcome{}, fmt.Errorf("creating webhook configuration: %w", err)
		}
	case err != nil:
		return Outcome{}, fmt.Errorf("resolving webhook by url: %w", err)
	}

	payload := req.Payload
	if len(payload) == 0 {
		payload = DefaultTestPayload()
	}

	// Unlike Dispatch, the initial entry predates incrementing attempts
	logID, err := s.Logs.CreateLog(ctx, newLogEntry(wh.ID, eventType, payload, Pending, 0))
	if err != nil {
		return Outcome{}, fmt.Errorf("logging pending delivery: %w", err)
	}

	env := NewEnvelope(eventType, payload)
	env.Test = true
	res := s.Sender.Send(ctx, wh.URL, logID, env)

	status := Success
	message := "Test webhook delivered successfully"
	errDetail := ""
	if !res.OK {
		status = Failed
		message = "Test webhook delivery failed"
		if res.Err != nil {
			errDetail = res.Err.Error()
		}
	}

	if err := s.Logs.UpdateLog(ctx, logID, LogPatch{Status: status, Attempts: 1, Error: errDetail}); err != nil {
		return Outcome{}, fmt.Errorf("updating delivery log: %w", err)
	}
	metrics.DeliveriesTotal.WithLabelValues(eventType.String(), status.String()).Inc()

	return Outcome{
		Success:   res.OK,
		Message:   message,
		LogID:     logID,
		WebhookID: wh.ID,
	}, nil
}

// GetWebhook returns a single configuration
func (s *Service) GetWebhook(ctx context.Context, id string) (Webhook, error) {
	wh, err := s.Configs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Webhook{}, ErrNotFound
		}
		return Webhook{}, fmt.Errorf("loading webhook configuration: %w", err)
	}
	return wh, nil
}

// ListWebhooks returns configurations, optionally scoped to one company
func (s *Service) ListWebhooks(ctx context.Context, companyID string) ([]Webhook, error) {
	all, err := s.Configs.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing webhook configurations: %w", err)
	}
	return all, nil
}

// SetActive toggles a configuration's active flag
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.Configs.Update(ctx, id, WebhookPatch{IsActive: &active}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("updating webhook configuration: %w", err)
	}
	return nil
}

// ListLogs returns the most recent delivery log entries for a webhook
func (s *Service) ListLogs(ctx context.Context, webhookID string, limit int) ([]DeliveryLog, error) {
	entries, err := s.Logs.ListByWebhook(ctx, webhookID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing delivery logs: %w", err)
	}
	return entries, nil
}

// newLogEntry builds a delivery log entry in its initial state
func newLogEntry(webhookID string, eventType EventType, payload json.RawMessage, status Status, attempts int) DeliveryLog {
	now := time.Now().UTC()
	return DeliveryLog{
		ID:        uuid.New().String(),
		WebhookID: webhookID,
		EventType: eventType,
		Payload:   payload,
		Status:    status,
		Attempts:  attempts,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
