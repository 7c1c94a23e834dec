package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch"
	_ "github.com/lib/pq" // PostgreSQL driver
)

/* PostgreSQL implementation of dispatch.Repository
 * Two tables: webhooks (configurations) and webhook_logs (delivery attempts)
 * webhooks.url carries a UNIQUE constraint so concurrent find-or-create
 * calls for the same new URL surface as an insert error instead of a
 * silent duplicate row
 */

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a PostgreSQL repository with a custom pool.
// maxOpenConns: maximum simultaneous connections (0 = unlimited)
// maxIdleConns: maximum idle connections kept in the pool
// maxLifeMinutes: maximum minutes a connection may be reused
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Get fetches a configuration by ID
func (r *Repository) Get(ctx context.Context, id string) (dispatch.Webhook, error) {
	query := "SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE id = $1"

	wh, err := r.scanWebhook(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return dispatch.Webhook{}, dispatch.ErrNotFound
	}
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("selecting webhook: %w", err)
	}

	return wh, nil
}

// GetByURL fetches a configuration by exact URL match
func (r *Repository) GetByURL(ctx context.Context, url string) (dispatch.Webhook, error) {
	query := "SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE url = $1"

	wh, err := r.scanWebhook(r.DB.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return dispatch.Webhook{}, dispatch.ErrNotFound
	}
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("selecting webhook by url: %w", err)
	}

	return wh, nil
}

// List returns configurations, optionally filtered by company
func (r *Repository) List(ctx context.Context, companyID string) ([]dispatch.Webhook, error) {
	query := "SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks ORDER BY created_at"
	args := []interface{}{}
	if companyID != "" {
		query = "SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE company_id = $1 ORDER BY created_at"
		args = append(args, companyID)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []dispatch.Webhook
	for rows.Next() {
		wh, err := r.scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning webhook: %w", err)
		}
		webhooks = append(webhooks, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhooks: %w", err)
	}

	return webhooks, nil
}

// CountActive returns the number of enabled configurations
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM webhooks WHERE is_active").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active webhooks: %w", err)
	}
	return count, nil
}

// Create inserts a new configuration and returns its ID
func (r *Repository) Create(ctx context.Context, wh dispatch.Webhook) (string, error) {
	query := `
		INSERT INTO webhooks (id, company_id, url, event_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id string
	err := r.DB.QueryRowContext(ctx, query,
		wh.ID,
		nullString(wh.CompanyID),
		wh.URL,
		wh.EventType.String(),
		wh.IsActive,
		wh.CreatedAt,
		wh.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting webhook: %w", err)
	}

	return id, nil
}

// Update applies a partial update to a configuration
func (r *Repository) Update(ctx context.Context, id string, patch dispatch.WebhookPatch) error {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}

	if patch.IsActive != nil {
		args = append(args, *patch.IsActive)
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if patch.EventType != nil {
		args = append(args, patch.EventType.String())
		sets = append(sets, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if patch.URL != nil {
		args = append(args, *patch.URL)
		sets = append(sets, fmt.Sprintf("url = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE webhooks SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating webhook: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return dispatch.ErrNotFound
	}

	return nil
}

// GetLog fetches a delivery log entry by ID
func (r *Repository) GetLog(ctx context.Context, id string) (dispatch.DeliveryLog, error) {
	query := "SELECT id, webhook_id, event_type, payload, status, attempts, error, created_at, updated_at FROM webhook_logs WHERE id = $1"

	entry, err := r.scanLog(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return dispatch.DeliveryLog{}, dispatch.ErrNotFound
	}
	if err != nil {
		return dispatch.DeliveryLog{}, fmt.Errorf("selecting log: %w", err)
	}

	return entry, nil
}

// ListByWebhook returns the most recent delivery log entries for a webhook
func (r *Repository) ListByWebhook(ctx context.Context, webhookID string, limit int) ([]dispatch.DeliveryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, webhook_id, event_type, payload, status, attempts, error, created_at, updated_at
		FROM webhook_logs
		WHERE webhook_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, webhookID, limit)
	if err != nil {
		return nil, fmt.Errorf("selecting logs: %w", err)
	}
	defer rows.Close()

	var entries []dispatch.DeliveryLog
	for rows.Next() {
		entry, err := r.scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating logs: %w", err)
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

	rows, err := r.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM webhook_logs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("counting logs by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	return counts, nil
}

// CreateLog inserts a delivery log entry in its initial state
func (r *Repository) CreateLog(ctx context.Context, entry dispatch.DeliveryLog) (string, error) {
	query := `
		INSERT INTO webhook_logs (id, webhook_id, event_type, payload, status, attempts, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := r.DB.QueryRowContext(ctx, query,
		entry.ID,
		entry.WebhookID,
		entry.EventType.String(),
		[]byte(entry.Payload),
		entry.Status.String(),
		entry.Attempts,
		nullString(entry.Error),
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting log: %w", err)
	}

	return id, nil
}

// UpdateLog writes the terminal outcome of a delivery log entry
func (r *Repository) UpdateLog(ctx context.Context, id string, patch dispatch.LogPatch) error {
	query := `
		UPDATE webhook_logs
		SET status = $1, attempts = $2, error = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.DB.ExecContext(ctx, query,
		patch.Status.String(),
		patch.Attempts,
		nullString(patch.Error),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return dispatch.ErrNotFound
	}

	return nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTables creates both tables (useful for tests and first boot)
func (r *Repository) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS webhooks (
			id UUID PRIMARY KEY,
			company_id UUID,
			url TEXT NOT NULL UNIQUE,
			event_type TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_logs (
			id UUID PRIMARY KEY,
			webhook_id UUID NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_logs_webhook_id ON webhook_logs (webhook_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := r.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}

	return nil
}

// DropTables removes both tables (useful for tests)
func (r *Repository) DropTables(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS webhook_logs, webhooks CASCADE"

	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanWebhook(row scanner) (dispatch.Webhook, error) {
	var wh dispatch.Webhook
	var companyID sql.NullString
	var eventType string

	err := row.Scan(
		&wh.ID,
		&companyID,
		&wh.URL,
		&eventType,
		&wh.IsActive,
		&wh.CreatedAt,
		&wh.UpdatedAt,
	)
	if err != nil {
		return dispatch.Webhook{}, err
	}

	wh.CompanyID = companyID.String
	et, err := dispatch.ParseEventType(eventType)
	if err != nil {
		return dispatch.Webhook{}, fmt.Errorf("parsing event type: %w", err)
	}
	wh.EventType = et

	return wh, nil
}

func (r *Repository) scanLog(row scanner) (dispatch.DeliveryLog, error) {
	var entry dispatch.DeliveryLog
	var eventType, status string
	var payload []byte
	var errDetail sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.WebhookID,
		&eventType,
		&payload,
		&status,
		&entry.Attempts,
		&errDetail,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return dispatch.DeliveryLog{}, err
	}

	entry.Payload = payload
	entry.Status = dispatch.NewStatus(status)
	entry.Error = errDetail.String
	et, err := dispatch.ParseEventType(eventType)
	if err != nil {
		return dispatch.DeliveryLog{}, fmt.Errorf("parsing event type: %w", err)
	}
	entry.EventType = et

	return entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
