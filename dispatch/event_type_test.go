package dispatch_test

import (
	"testing"

	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	t.Run("known event types round-trip", func(t *testing.T) {
		for _, name := range []string{
			"appointment_created",
			"appointment_cancelled",
			"appointment_completed",
			"professional_created",
			"service_created",
		} {
			et, err := dispatch.ParseEventType(name)
			require.NoError(t, err)
			assert.Equal(t, name, et.String())
			assert.NoError(t, et.Validate())
		}
	})

	t.Run("unknown event type", func(t *testing.T) {
		_, err := dispatch.ParseEventType("invoice_paid")
		require.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	t.Run("terminal states", func(t *testing.T) {
		assert.False(t, dispatch.Pending.IsFinal())
		assert.True(t, dispatch.Success.IsFinal())
		assert.True(t, dispatch.Failed.IsFinal())
		assert.True(t, dispatch.Skipped.IsFinal())
	})

	t.Run("invalid status", func(t *testing.T) {
		require.Error(t, dispatch.Status(99).Validate())
	})
}
