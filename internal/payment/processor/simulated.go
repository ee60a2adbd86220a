package processor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// SimulatedClient fabricates payment intents locally. It is the default when
// no Stripe key is configured, letting the whole checkout flow run end to end
// in development without touching the network.
type SimulatedClient struct {
	mu      sync.RWMutex
	intents map[string]*Intent
}

func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{intents: make(map[string]*Intent)}
}

func (c *SimulatedClient) CreateIntent(ctx context.Context, p CreateParams) (*Intent, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("simulated intent id: %w", err)
	}
	suffix := hex.EncodeToString(buf)

	intent := &Intent{
		ID:           "pi_simulated_" + suffix,
		ClientSecret: fmt.Sprintf("pi_simulated_%s_secret_%s", suffix, RandomSecret()),
		Status:       StatusRequiresPaymentMethod,
		Amount:       p.Amount,
		Currency:     p.Currency,
	}

	c.mu.Lock()
	c.intents[intent.ID] = intent
	c.mu.Unlock()
	return copyIntent(intent), nil
}

// RetrieveIntent reports simulated intents as succeeded, standing in for the
// client-side confirmation that live mode does with Stripe.js.
func (c *SimulatedClient) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	intent, ok := c.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("simulated intent %s not found", intentID)
	}
	if intent.Status == StatusRequiresPaymentMethod {
		intent.Status = StatusSucceeded
	}
	return copyIntent(intent), nil
}

func (c *SimulatedClient) Simulated() bool {
	return true
}

// FailIntent flips an intent to canceled so failure paths can be exercised.
func (c *SimulatedClient) FailIntent(intentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	intent, ok := c.intents[intentID]
	if !ok {
		return false
	}
	intent.Status = StatusCanceled
	return true
}

func RandomSecret() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

func copyIntent(intent *Intent) *Intent {
	copied := *intent
	return &copied
}
