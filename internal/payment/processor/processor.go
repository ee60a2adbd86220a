// Package processor abstracts the payment processor behind a small client
// interface so the checkout engine runs identically against live Stripe or
// the built-in simulation.
package processor

import "context"

// Intent statuses the engine cares about, mirroring Stripe's.
const (
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusSucceeded             = "succeeded"
	StatusCanceled              = "canceled"
)

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

type CreateParams struct {
	// Amount is in the currency's smallest unit (cents).
	Amount       int64
	Currency     string
	ReceiptEmail string
	Description  string
	Metadata     map[string]string
}

type Client interface {
	CreateIntent(ctx context.Context, params CreateParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	// Simulated reports whether intents are fabricated locally.
	Simulated() bool
}
