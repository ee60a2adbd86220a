package processor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedCreateIntent(t *testing.T) {
	c := NewSimulatedClient()

	intent, err := c.CreateIntent(context.Background(), CreateParams{
		Amount:   6000,
		Currency: "usd",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(intent.ID, "pi_simulated_"))
	assert.True(t, strings.HasPrefix(intent.ClientSecret, intent.ID+"_secret_"))
	assert.Equal(t, StatusRequiresPaymentMethod, intent.Status)
	assert.Equal(t, int64(6000), intent.Amount)
	assert.True(t, c.Simulated())
}

func TestSimulatedIntentIDsUnique(t *testing.T) {
	c := NewSimulatedClient()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		intent, err := c.CreateIntent(context.Background(), CreateParams{Amount: 100, Currency: "usd"})
		require.NoError(t, err)
		assert.False(t, seen[intent.ID])
		seen[intent.ID] = true
	}
}

func TestSimulatedRetrieveSucceeds(t *testing.T) {
	c := NewSimulatedClient()

	created, err := c.CreateIntent(context.Background(), CreateParams{Amount: 100, Currency: "usd"})
	require.NoError(t, err)

	got, err := c.RetrieveIntent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
}

func TestSimulatedRetrieveUnknown(t *testing.T) {
	c := NewSimulatedClient()

	_, err := c.RetrieveIntent(context.Background(), "pi_simulated_missing")
	assert.Error(t, err)
}

func TestSimulatedFailIntent(t *testing.T) {
	c := NewSimulatedClient()

	created, err := c.CreateIntent(context.Background(), CreateParams{Amount: 100, Currency: "usd"})
	require.NoError(t, err)

	require.True(t, c.FailIntent(created.ID))

	got, err := c.RetrieveIntent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, got.Status, "failed intents must not auto-succeed on retrieve")
}
