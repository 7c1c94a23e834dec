//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWebhook(id, url string) dispatch.Webhook {
	now := time.Now().UTC().Truncate(time.Second)
	return dispatch.Webhook{
		ID:        id,
		CompanyID: "company-1",
		URL:       url,
		EventType: dispatch.AppointmentCreated,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepository_Configs_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("create and retrieve by id and url", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		wh := testWebhook("w1", "https://tenant.example/hooks")

		id, err := repo.Create(ctx, wh)
		require.NoError(t, err)
		assert.Equal(t, "w1", id)

		byID, err := repo.Get(ctx, "w1")
		require.NoError(t, err)
		assert.Equal(t, wh.URL, byID.URL)
		assert.Equal(t, wh.EventType, byID.EventType)
		assert.True(t, byID.IsActive)

		byURL, err := repo.GetByURL(ctx, wh.URL)
		require.NoError(t, err)
		assert.Equal(t, "w1", byURL.ID)
	})

	t.Run("unknown id and url", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		_, err := repo.Get(ctx, "missing")
		require.ErrorIs(t, err, dispatch.ErrNotFound)

		_, err = repo.GetByURL(ctx, "https://unregistered.example")
		require.ErrorIs(t, err, dispatch.ErrNotFound)
	})

	t.Run("update toggles the active flag", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		wh := testWebhook("w2", "https://toggle.example")
		_, err := repo.Create(ctx, wh)
		require.NoError(t, err)

		inactive := false
		require.NoError(t, repo.Update(ctx, "w2", dispatch.WebhookPatch{IsActive: &inactive}))

		updated, err := repo.Get(ctx, "w2")
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		count, err := repo.CountActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestRepository_Logs_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("create, update and list by webhook", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		now := time.Now().UTC().Truncate(time.Second)
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

		_, err := repo.CreateLog(ctx, entry)
		require.NoError(t, err)

		err = repo.UpdateLog(ctx, "l1", dispatch.LogPatch{
			Status:   dispatch.Failed,
			Attempts: 3,
			Error:    "endpoint returned status 500",
		})
		require.NoError(t, err)

		final, err := repo.GetLog(ctx, "l1")
		require.NoError(t, err)
		assert.Equal(t, dispatch.Failed, final.Status)
		assert.Equal(t, 3, final.Attempts)
		assert.Equal(t, "endpoint returned status 500", final.Error)
		assert.Equal(t, `{"id":"a1"}`, string(final.Payload))

		entries, err := repo.ListByWebhook(ctx, "w1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "l1", entries[0].ID)
	})

	t.Run("status counts", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		now := time.Now().UTC()
		for i, status := range []dispatch.Status{dispatch.Success, dispatch.Success, dispatch.Skipped} {
			entry := dispatch.DeliveryLog{
				ID:        string(rune('a' + i)),
				WebhookID: "w1",
				EventType: dispatch.ServiceCreated,
				Status:    status,
				CreatedAt: now,
				UpdatedAt: now,
			}
			_, err := repo.CreateLog(ctx, entry)
			require.NoError(t, err)
		}

		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["success"])
		assert.Equal(t, int64(1), counts["skipped"])
		assert.Equal(t, int64(0), counts["failed"])
	})

	t.Run("updating an unknown log entry", func(t *testing.T) {
		redisContainer, cleanup := SetupRedisContainer(t, ctx)
		defer cleanup()

		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		err := repo.UpdateLog(ctx, "missing", dispatch.LogPatch{Status: dispatch.Success, Attempts: 1})
		require.ErrorIs(t, err, dispatch.ErrNotFound)
	})
}
