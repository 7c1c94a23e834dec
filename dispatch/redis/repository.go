package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of dispatch.Repository
 * Uses Redis Hashes for configuration and log records plus two
 * secondary indexes: a string key per URL for find-or-create lookups
 * and a list per webhook for its delivery history
 */

const (
	configPrefix  = "webhookcfg"  // Hash naming: webhookcfg:{webhook_id}
	urlPrefix     = "webhookurl"  // Index naming: webhookurl:{url} -> webhook_id
	logPrefix     = "webhooklog"  // Hash naming: webhooklog:{log_id}
	historyPrefix = "webhookhist" // List naming: webhookhist:{webhook_id} -> log ids
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Get retrieves a configuration by ID
func (r *Repository) Get(ctx context.Context, id string) (dispatch.Webhook, error) {
	data, err := r.client.HGetAll(ctx, fmt.Sprintf("%s:%s", configPrefix, id)).Result()
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("getting webhook: %w", err)
	}
	if len(data) == 0 {
		return dispatch.Webhook{}, dispatch.ErrNotFound
	}

	return parseWebhook(data)
}

// GetByURL resolves a configuration through the URL index key
func (r *Repository) GetByURL(ctx context.Context, url string) (dispatch.Webhook, error) {
	id, err := r.client.Get(ctx, fmt.Sprintf("%s:%s", urlPrefix, url)).Result()
	if err == redis.Nil {
		return dispatch.Webhook{}, dispatch.ErrNotFound
	}
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("resolving url index: %w", err)
	}

	return r.Get(ctx, id)
}

// List returns configurations, optionally filtered by company
func (r *Repository) List(ctx context.Context, companyID string) ([]dispatch.Webhook, error) {
	keys, err := r.scanKeys(ctx, configPrefix+":*")
	if err != nil {
		return nil, fmt.Errorf("scanning webhook keys: %w", err)
	}

	var webhooks []dispatch.Webhook
	for _, key := range keys {
		data, err := r.client.HGetAll(ctx, key).Result()
		if err != nil || len(data) == 0 {
			continue
		}
		wh, err := parseWebhook(data)
		if err != nil {
			continue
		}
		if companyID != "" && wh.CompanyID != companyID {
			continue
		}
		webhooks = append(webhooks, wh)
	}

	return webhooks, nil
}

// CountActive returns the number of enabled configurations
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	keys, err := r.scanKeys(ctx, configPrefix+":*")
	if err != nil {
		return 0, fmt.Errorf("scanning webhook keys: %w", err)
	}

	var count int64
	for _, key := range keys {
		active, err := r.client.HGet(ctx, key, "is_active").Result()
		if err != nil {
			continue
		}
		if active == "1" {
			count++
		}
	}

	return count, nil
}

// Create stores a new configuration and its URL index entry
func (r *Repository) Create(ctx context.Context, wh dispatch.Webhook) (string, error) {
	hashKey := fmt.Sprintf("%s:%s", configPrefix, wh.ID)

	err := r.client.HSet(ctx, hashKey, map[string]interface{}{
		"id":         wh.ID,
		"company_id": wh.CompanyID,
		"url":        wh.URL,
		"event_type": wh.EventType.String(),
		"is_active":  boolField(wh.IsActive),
		"created_at": wh.CreatedAt.Unix(),
		"updated_at": wh.UpdatedAt.Unix(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("storing webhook: %w", err)
	}

	err = r.client.Set(ctx, fmt.Sprintf("%s:%s", urlPrefix, wh.URL), wh.ID, 0).Err()
	if err != nil {
		return "", fmt.Errorf("storing url index: %w", err)
	}

	return wh.ID, nil
}

// Update applies a partial update to a configuration
func (r *Repository) Update(ctx context.Context, id string, patch dispatch.WebhookPatch) error {
	hashKey := fmt.Sprintf("%s:%s", configPrefix, id)

	exists, err := r.client.Exists(ctx, hashKey).Result()
	if err != nil {
		return fmt.Errorf("checking webhook: %w", err)
	}
	if exists == 0 {
		return dispatch.ErrNotFound
	}

	fields := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if patch.IsActive != nil {
		fields["is_active"] = boolField(*patch.IsActive)
	}
	if patch.EventType != nil {
		fields["event_type"] = patch.EventType.String()
	}
	if patch.URL != nil {
		// Move the URL index along with the record
		oldURL, err := r.client.HGet(ctx, hashKey, "url").Result()
		if err == nil && oldURL != *patch.URL {
			r.client.Del(ctx, fmt.Sprintf("%s:%s", urlPrefix, oldURL))
			r.client.Set(ctx, fmt.Sprintf("%s:%s", urlPrefix, *patch.URL), id, 0)
		}
		fields["url"] = *patch.URL
	}

	if err := r.client.HSet(ctx, hashKey, fields).Err(); err != nil {
		return fmt.Errorf("updating webhook: %w", err)
	}

	return nil
}

// GetLog retrieves a delivery log entry by ID
func (r *Repository) GetLog(ctx context.Context, id string) (dispatch.DeliveryLog, error) {
	data, err := r.client.HGetAll(ctx, fmt.Sprintf("%s:%s", logPrefix, id)).Result()
	if err != nil {
		return dispatch.DeliveryLog{}, fmt.Errorf("getting log: %w", err)
	}
	if len(data) == 0 {
		return dispatch.DeliveryLog{}, dispatch.ErrNotFound
	}

	return parseLog(data)
}

// ListByWebhook returns the most recent delivery log entries for a webhook
func (r *Repository) ListByWebhook(ctx context.Context, webhookID string, limit int) ([]dispatch.DeliveryLog, error) {
	if limit <= 0 {
		limit = 50
	}

	ids, err := r.client.LRange(ctx, fmt.Sprintf("%s:%s", historyPrefix, webhookID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading delivery history: %w", err)
	}

	var entries []dispatch.DeliveryLog
	for _, id := range ids {
		entry, err := r.GetLog(ctx, id)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// CountByStatus returns delivery log counts grouped by status
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{
		"pending": 0,
		"success": 0,
		"failed":  0,
		"skipped": 0,
	}

	keys, err := r.scanKeys(ctx, logPrefix+":*")
	if err != nil {
		return nil, fmt.Errorf("scanning log keys: %w", err)
	}

	// Batch get status for all entries
	if len(keys) == 0 {
		return counts, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGet(ctx, key, "status")
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("reading log statuses: %w", err)
	}

	for _, cmd := range cmds {
		status, err := cmd.Result()
		if err != nil {
			continue
		}
		counts[status]++
	}

	return counts, nil
}

// CreateLog stores a delivery log entry and pushes it onto the webhook's history
func (r *Repository) CreateLog(ctx context.Context, entry dispatch.DeliveryLog) (string, error) {
	hashKey := fmt.Sprintf("%s:%s", logPrefix, entry.ID)

	err := r.client.HSet(ctx, hashKey, map[string]interface{}{
		"id":         entry.ID,
		"webhook_id": entry.WebhookID,
		"event_type": entry.EventType.String(),
		"payload":    string(entry.Payload),
		"status":     entry.Status.String(),
		"attempts":   entry.Attempts,
		"error":      entry.Error,
		"created_at": entry.CreatedAt.Unix(),
		"updated_at": entry.UpdatedAt.Unix(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("storing log: %w", err)
	}

	err = r.client.LPush(ctx, fmt.Sprintf("%s:%s", historyPrefix, entry.WebhookID), entry.ID).Err()
	if err != nil {
		return "", fmt.Errorf("pushing delivery history: %w", err)
	}

	return entry.ID, nil
}

// UpdateLog writes the terminal outcome of a delivery log entry
func (r *Repository) UpdateLog(ctx context.Context, id string, patch dispatch.LogPatch) error {
	hashKey := fmt.Sprintf("%s:%s", logPrefix, id)

	exists, err := r.client.Exists(ctx, hashKey).Result()
	if err != nil {
		return fmt.Errorf("checking log: %w", err)
	}
	if exists == 0 {
		return dispatch.ErrNotFound
	}

	err = r.client.HSet(ctx, hashKey, map[string]interface{}{
		"status":     patch.Status.String(),
		"attempts":   patch.Attempts,
		"error":      patch.Error,
		"updated_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("updating log: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// scanKeys collects all keys matching pattern via SCAN
func (r *Repository) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error

		scanKeys, cursor, err = r.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return nil, err
		}

		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func parseWebhook(data map[string]string) (dispatch.Webhook, error) {
	eventType, err := dispatch.ParseEventType(data["event_type"])
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("parsing event type: %w", err)
	}

	return dispatch.Webhook{
		ID:        data["id"],
		CompanyID: data["company_id"],
		URL:       data["url"],
		EventType: eventType,
		IsActive:  data["is_active"] == "1",
		CreatedAt: time.Unix(parseInt64(data["created_at"]), 0),
		UpdatedAt: time.Unix(parseInt64(data["updated_at"]), 0),
	}, nil
}

func parseLog(data map[string]string) (dispatch.DeliveryLog, error) {
	eventType, err := dispatch.ParseEventType(data["event_type"])
	if err != nil {
		return dispatch.DeliveryLog{}, fmt.Errorf("parsing event type: %w", err)
	}

	var payload []byte
	if data["payload"] != "" {
		payload = []byte(data["payload"])
	}

	return dispatch.DeliveryLog{
		ID:        data["id"],
		WebhookID: data["webhook_id"],
		EventType: eventType,
		Payload:   payload,
		Status:    dispatch.NewStatus(data["status"]),
		Attempts:  int(parseInt64(data["attempts"])),
		Error:     data["error"],
		CreatedAt: time.Unix(parseInt64(data["created_at"]), 0),
		UpdatedAt: time.Unix(parseInt64(data["updated_at"]), 0),
	}, nil
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
