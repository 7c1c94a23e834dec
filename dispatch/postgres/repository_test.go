//go:build !integration

package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* Unit tests with sqlmock: fast, no containers, they exercise the SQL
 * and scanning logic rather than real database behavior
 */

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Repository{DB: db}, mock
}

func webhookColumns() []string {
	return []string{"id", "company_id", "url", "event_type", "is_active", "created_at", "updated_at"}
}

func logColumns() []string {
	return []string{"id", "webhook_id", "event_type", "payload", "status", "attempts", "error", "created_at", "updated_at"}
}

func TestRepository_Get(t *testing.T) {
	t.Run("existing webhook", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		ctx := context.Background()
		now := time.Now()

		rows := sqlmock.NewRows(webhookColumns()).
			AddRow("w1", "c1", "https://good.example", "appointment_created", true, now, now)
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE id = $1",
		)).WithArgs("w1").WillReturnRows(rows)

		wh, err := repo.Get(ctx, "w1")

		require.NoError(t, err)
		assert.Equal(t, "w1", wh.ID)
		assert.Equal(t, "c1", wh.CompanyID)
		assert.Equal(t, dispatch.AppointmentCreated, wh.EventType)
		assert.True(t, wh.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing webhook", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		ctx := context.Background()

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE id = $1",
		)).WithArgs("missing").WillReturnRows(sqlmock.NewRows(webhookColumns()))

		_, err := repo.Get(ctx, "missing")

		require.ErrorIs(t, err, dispatch.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByURL(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(webhookColumns()).
		AddRow("w2", nil, "https://new.example", "service_created", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, company_id, url, event_type, is_active, created_at, updated_at FROM webhooks WHERE url = $1",
	)).WithArgs("https://new.example").WillReturnRows(rows)

	wh, err := repo.GetByURL(ctx, "https://new.example")

	require.NoError(t, err)
	assert.Equal(t, "w2", wh.ID)
	assert.Empty(t, wh.CompanyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	wh := dispatch.Webhook{
		ID:        "w3",
		URL:       "https://created.example",
		EventType: dispatch.ProfessionalCreated,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO webhooks").
		WithArgs("w3", sqlmock.AnyArg(), "https://created.example", "professional_created", true, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("w3"))

	id, err := repo.Create(ctx, wh)

	require.NoError(t, err)
	assert.Equal(t, "w3", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	t.Run("toggle is_active", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		ctx := context.Background()
		active := false

		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE webhooks SET updated_at = $1, is_active = $2 WHERE id = $3",
		)).WithArgs(sqlmock.AnyArg(), false, "w1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, "w1", dispatch.WebhookPatch{IsActive: &active})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing webhook", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		ctx := context.Background()
		active := true

		mock.ExpectExec("UPDATE webhooks SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, "missing", dispatch.WebhookPatch{IsActive: &active})

		require.ErrorIs(t, err, dispatch.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CreateLog(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := dispatch.DeliveryLog{
		ID:        "l1",
		WebhookID: "w1",
		EventType: dispatch.AppointmentCreated,
		Payload:   []byte(`{"id":"a1"}`),
		Status:    dispatch.Pending,
		Attempts:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO webhook_logs").
		WithArgs("l1", "w1", "appointment_created", []byte(`{"id":"a1"}`), "pending", 1, sqlmock.AnyArg(), now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("l1"))

	id, err := repo.CreateLog(ctx, entry)

	require.NoError(t, err)
	assert.Equal(t, "l1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateLog(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE webhook_logs").
		WithArgs("failed", 3, sqlmock.AnyArg(), sqlmock.AnyArg(), "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLog(ctx, "l1", dispatch.LogPatch{
		Status:   dispatch.Failed,
		Attempts: 3,
		Error:    "endpoint returned status 500",
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByWebhook(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(logColumns()).
		AddRow("l2", "w1", "appointment_created", []byte(`{"id":"a2"}`), "success", 1, nil, now, now).
		AddRow("l1", "w1", "appointment_created", []byte(`{"id":"a1"}`), "failed", 3, "endpoint returned status 500", now, now)
	mock.ExpectQuery("SELECT (.+) FROM webhook_logs").
		WithArgs("w1", 50).
		WillReturnRows(rows)

	entries, err := repo.ListByWebhook(ctx, "w1", 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, dispatch.Success, entries[0].Status)
	assert.Equal(t, dispatch.Failed, entries[1].Status)
	assert.Equal(t, 3, entries[1].Attempts)
	assert.Equal(t, "endpoint returned status 500", entries[1].Error)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("success", 7).
		AddRow("failed", 2)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, COUNT(*) FROM webhook_logs GROUP BY status",
	)).WillReturnRows(rows)

	counts, err := repo.CountByStatus(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), counts["success"])
	assert.Equal(t, int64(2), counts["failed"])
	// Absent statuses are reported as zero
	assert.Equal(t, int64(0), counts["pending"])
	assert.Equal(t, int64(0), counts["skipped"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountActive(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM webhooks WHERE is_active",
	)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountActive(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
