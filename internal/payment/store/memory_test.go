package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixmojo-server/internal/models"
)

func newTestSession(id string, ttl time.Duration) *models.PaymentSession {
	now := time.Now()
	return &models.PaymentSession{
		SessionID: id,
		EventID:   "evt_1",
		Status:    models.StatusInitialized,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	session := newTestSession("sess_1", 10*time.Minute)
	require.NoError(t, s.Put(ctx, session))

	got, err := s.Get(ctx, "sess_1")
	require.NoError(t, err)
	assert.Equal(t, "sess_1", got.SessionID)
	assert.Equal(t, models.StatusInitialized, got.Status)
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	session := newTestSession("sess_exp", 10*time.Minute)
	require.NoError(t, s.Put(ctx, session))

	s.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := s.Get(ctx, "sess_exp")
	assert.True(t, errors.Is(err, ErrExpired))

	// Entry is reclaimed on the expired access, so a second read is a miss.
	_, err = s.Get(ctx, "sess_exp")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("sess_copy", time.Minute)))

	first, err := s.Get(ctx, "sess_copy")
	require.NoError(t, err)
	first.Status = models.StatusPaymentCompleted

	second, err := s.Get(ctx, "sess_copy")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitialized, second.Status)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("sess_up", time.Minute)))

	updated, err := s.Update(ctx, "sess_up", func(sess *models.PaymentSession) error {
		sess.Status = models.StatusBuyerValidated
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusBuyerValidated, updated.Status)

	got, err := s.Get(ctx, "sess_up")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBuyerValidated, got.Status)
}

func TestMemoryStoreUpdateRollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("sess_rb", time.Minute)))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "sess_rb", func(sess *models.PaymentSession) error {
		sess.Status = models.StatusPaymentCompleted
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	got, err := s.Get(ctx, "sess_rb")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitialized, got.Status, "failed update must not persist")
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("sess_conc", time.Minute)))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "sess_conc", func(sess *models.PaymentSession) error {
				sess.CartItems = append(sess.CartItems, models.CartItem{Quantity: 1})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "sess_conc")
	require.NoError(t, err)
	assert.Len(t, got.CartItems, workers)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("live", 10*time.Minute)))
	require.NoError(t, s.Put(ctx, newTestSession("dead_1", 10*time.Minute)))
	require.NoError(t, s.Put(ctx, newTestSession("dead_2", 10*time.Minute)))

	s.now = func() time.Time { return time.Now().Add(5 * time.Minute) }
	reclaimed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)

	// Push two sessions past their deadline and sweep again.
	s.now = time.Now
	_, err = s.Update(ctx, "dead_1", func(sess *models.PaymentSession) error {
		sess.ExpiresAt = time.Now().Add(-time.Second)
		return nil
	})
	require.NoError(t, err)
	_, err = s.Update(ctx, "dead_2", func(sess *models.PaymentSession) error {
		sess.ExpiresAt = time.Now().Add(-time.Second)
		return nil
	})
	require.NoError(t, err)

	reclaimed, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reclaimed)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, newTestSession("sess_del", time.Minute)))
	require.NoError(t, s.Delete(ctx, "sess_del"))

	_, err := s.Get(ctx, "sess_del")
	assert.True(t, errors.Is(err, ErrNotFound))
}
