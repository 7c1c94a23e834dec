package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch/signature"
)

// Result is the outcome of a single outbound delivery attempt
type Result struct {
	OK         bool
	StatusCode int
	Err        error
}

// Sender performs one delivery attempt; both retry policies funnel through it
type Sender interface {
	Send(ctx context.Context, url, deliveryID string, env Envelope) Result
}

/* HTTPSender delivers envelopes as JSON POST requests
 * Any 2xx response counts as delivered; everything else is a failure
 * When a signing secret is configured, each request carries the
 * Standard Webhooks headers: webhook-id, webhook-timestamp, webhook-signature
 */
type HTTPSender struct {
	Client *http.Client
	Secret signature.Secret
}

// NewHTTPSender creates a sender with the given per-attempt timeout
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		Client: &http.Client{Timeout: timeout},
	}
}

// NewSigningHTTPSender creates a sender that signs every request
func NewSigningHTTPSender(timeout time.Duration, secret signature.Secret) *HTTPSender {
	return &HTTPSender{
		Client: &http.Client{Timeout: timeout},
		Secret: secret,
	}
}

// Send performs one HTTP POST of the envelope to url
func (s *HTTPSender) Send(ctx context.Context, url, deliveryID string, env Envelope) Result {
	body, err := json.Marshal(env)
	if err != nil {
		return Result{Err: fmt.Errorf("marshaling envelope: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	if !s.Secret.IsZero() {
		now := time.Now().UTC()
		sig, err := signature.Sign(s.Secret, deliveryID, now, body)
		if err != nil {
			return Result{Err: fmt.Errorf("signing webhook: %w", err)}
		}
		req.Header.Set("webhook-id", deliveryID)
		req.Header.Set("webhook-timestamp", fmt.Sprintf("%d", now.Unix()))
		req.Header.Set("webhook-signature", sig)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("delivering webhook: %w", err)}
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{OK: true, StatusCode: resp.StatusCode}
	}
	return Result{
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("endpoint returned status %d", resp.StatusCode),
	}
}
