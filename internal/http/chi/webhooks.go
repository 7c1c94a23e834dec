package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/go-chi/chi/v5"
)

/* HTTP layer DTOs for the webhook API
 * Separate from domain entities to avoid leaking internal structure
 * Field spellings mirror what the admin dashboard sends and expects
 */

// dispatchRequest is the body for POST /v1/webhooks/dispatch
type dispatchRequest struct {
	WebhookID string          `json:"webhookId"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
}

// testRequest is the body for POST /v1/webhooks/test
type testRequest struct {
	URL       string          `json:"url"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// outcomeResponse reports what was attempted, for both dispatch and test calls
type outcomeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LogID     string `json:"logId,omitempty"`
	WebhookID string `json:"webhookId,omitempty"`
}

// webhookResponse represents a configuration in the admin API
type webhookResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	URL       string    `json:"url"`
	EventType string    `json:"event_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// logResponse represents a delivery log entry in the admin API
type logResponse struct {
	ID        string          `json:"id"`
	WebhookID string          `json:"webhook_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// patchWebhookRequest is the body for PATCH /v1/webhooks/:webhook_id
type patchWebhookRequest struct {
	IsActive *bool `json:"is_active"`
}

// postDispatch handles POST /v1/webhooks/dispatch
func postDispatch(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		outcome, err := service.Dispatch(r.Context(), dispatch.DispatchRequest{
			WebhookID: req.WebhookID,
			EventType: req.EventType,
			Payload:   req.Payload,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, outcomeResponse{
			Success: outcome.Success,
			Message: outcome.Message,
			LogID:   outcome.LogID,
		})
	})
}

// postTest handles POST /v1/webhooks/test
func postTest(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req testRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		outcome, err := service.TestDeliver(r.Context(), dispatch.TestRequest{
			URL:       req.URL,
			EventType: req.EventType,
			Payload:   req.Payload,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, outcomeResponse{
			Success:   outcome.Success,
			Message:   outcome.Message,
			LogID:     outcome.LogID,
			WebhookID: outcome.WebhookID,
		})
	})
}

// getWebhooks handles GET /v1/webhooks
func getWebhooks(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhooks, err := service.ListWebhooks(r.Context(), r.URL.Query().Get("company_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		responses := make([]webhookResponse, 0, len(webhooks))
		for _, wh := range webhooks {
			responses = append(responses, toWebhookResponse(wh))
		}

		writeJSON(w, http.StatusOK, responses)
	})
}

// getWebhook handles GET /v1/webhooks/:webhook_id
func getWebhook(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "webhook_id")
		wh, err := service.GetWebhook(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWebhookResponse(wh))
	})
}

// patchWebhook handles PATCH /v1/webhooks/:webhook_id
func patchWebhook(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "webhook_id")

		var req patchWebhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.IsActive == nil {
			writeError(w, http.StatusBadRequest, "is_active is required")
			return
		}

		if err := service.SetActive(r.Context(), id, *req.IsActive); err != nil {
			writeServiceError(w, err)
			return
		}

		wh, err := service.GetWebhook(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWebhookResponse(wh))
	})
}

// getWebhookLogs handles GET /v1/webhooks/:webhook_id/logs
func getWebhookLogs(service dispatch.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "webhook_id")

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		entries, err := service.ListLogs(r.Context(), id, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		responses := make([]logResponse, 0, len(entries))
		for _, entry := range entries {
			responses = append(responses, logResponse{
				ID:        entry.ID,
				WebhookID: entry.WebhookID,
				EventType: entry.EventType.String(),
				Payload:   entry.Payload,
				Status:    entry.Status.String(),
				Attempts:  entry.Attempts,
				Error:     entry.Error,
				CreatedAt: entry.CreatedAt,
				UpdatedAt: entry.UpdatedAt,
			})
		}

		writeJSON(w, http.StatusOK, responses)
	})
}

func toWebhookResponse(wh dispatch.Webhook) webhookResponse {
	return webhookResponse{
		ID:        wh.ID,
		CompanyID: wh.CompanyID,
		URL:       wh.URL,
		EventType: wh.EventType.String(),
		IsActive:  wh.IsActive,
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
	}
}

/* writeServiceError translates domain errors into HTTP status codes:
 * validation -> 400, unknown webhook -> 404, everything else -> 500
 * Delivery failures never reach here; they are reported in the outcome
 */
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case dispatch.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dispatch.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
