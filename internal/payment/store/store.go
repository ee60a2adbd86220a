package store

import (
	"context"
	"errors"

	"tixmojo-server/internal/models"
)

var (
	// ErrNotFound means the session never existed or was already swept.
	ErrNotFound = errors.New("session not found")
	// ErrExpired means the session exists but its TTL has elapsed.
	ErrExpired = errors.New("session expired")
)

// SessionStore holds checkout sessions for their TTL window. Get performs
// the lazy expiry check; Update runs fn inside the store's per-session
// critical section so read-modify-write transitions can't interleave.
type SessionStore interface {
	Put(ctx context.Context, session *models.PaymentSession) error
	Get(ctx context.Context, sessionID string) (*models.PaymentSession, error)
	Update(ctx context.Context, sessionID string, fn func(*models.PaymentSession) error) (*models.PaymentSession, error)
	Delete(ctx context.Context, sessionID string) error
	// Sweep removes expired sessions and returns how many were reclaimed.
	Sweep(ctx context.Context) (int, error)
	Close() error
}
