package ports

import (
	"context"
	"testing"
	"time"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCallStoreContract runs a suite of tests to verify that a CallStore
// implementation adheres to the defined interface contract.
func RunCallStoreContract(t *testing.T, store CallStore) {
	ctx := context.Background()
	callSID := "CA-contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewCallState(callSID, "main-menu")
		state.From = "+15550100"
		state.To = "+15550199"
		state.Digits["support-menu"] = "2"

		err := store.Save(ctx, callSID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, callSID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CallSID, loaded.CallSID)
		assert.Equal(t, state.Flow, loaded.Flow)
		assert.Equal(t, domain.StatusInProgress, loaded.Status)
		assert.Equal(t, "2", loaded.Digits["support-menu"])
		// Timestamps may round-trip through JSON; compare to the second.
		assert.WithinDuration(t, state.StartedAt, loaded.StartedAt, time.Second)
	})

	t.Run("Load returns a snapshot", func(t *testing.T) {
		state := domain.NewCallState(callSID, "main-menu")
		require.NoError(t, store.Save(ctx, callSID, state))

		first, err := store.Load(ctx, callSID)
		require.NoError(t, err)
		first.Digits["tampered"] = "9"

		second, err := store.Load(ctx, callSID)
		require.NoError(t, err)
		assert.NotContains(t, second.Digits, "tampered", "mutating a loaded state must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+callSID)
		assert.ErrorIs(t, err, domain.ErrCallNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		state := domain.NewCallState(callSID, "main-menu")
		require.NoError(t, store.Save(ctx, callSID, state))

		state.Status = domain.StatusCompleted
		state.RecordingURL = "https://api.twilio.com/recordings/RE1"
		require.NoError(t, store.Save(ctx, callSID, state))

		loaded, err := store.Load(ctx, callSID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		assert.Equal(t, "https://api.twilio.com/recordings/RE1", loaded.RecordingURL)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, callSID, domain.NewCallState(callSID, "main-menu"))
		require.NoError(t, err)

		err = store.Delete(ctx, callSID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, callSID)
		assert.ErrorIs(t, err, domain.ErrCallNotFound, "Load after Delete should return ErrCallNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := callSID + "-1"
		id2 := callSID + "-2"
		_ = store.Save(ctx, id1, domain.NewCallState(id1, "main-menu"))
		_ = store.Save(ctx, id2, domain.NewCallState(id2, "voicemail"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		calls, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, calls, id1)
		assert.Contains(t, calls, id2)
	})
}
