package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	StatusInitialized          SessionStatus = "initialized"
	StatusBuyerValidated       SessionStatus = "buyer_validated"
	StatusPaymentIntentCreated SessionStatus = "payment_intent_created"
	StatusPaymentCompleted     SessionStatus = "payment_completed"
	StatusPaymentFailed        SessionStatus = "payment_failed"
)

// TicketInfo is the ticket tier a cart item refers to. Price accepts both
// JSON numbers and strings ("50" and 50 both appear in client payloads).
type TicketInfo struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Price decimal.Decimal `json:"price"`
}

type CartItem struct {
	Ticket   TicketInfo `json:"ticket"`
	Quantity int        `json:"quantity"`
}

// BuyerInfo holds validated buyer identity. Email and Phone stay in clear
// only for processor calls (receipt email, metadata); EmailHash/PhoneHash
// are what any durable sink or log line may carry.
type BuyerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	EmailHash string `json:"email_hash"`
	PhoneHash string `json:"phone_hash"`
	Validated bool   `json:"validated"`
}

// PaymentSession is a single checkout attempt. It lives in the session store
// from initialize until the expiry sweep reclaims it; completion does not
// delete it, so duplicate confirms and webhook replays observe the terminal
// state instead of re-running side effects.
type PaymentSession struct {
	SessionID string     `json:"session_id"`
	EventID   string     `json:"event_id"`
	CartItems []CartItem `json:"cart_items"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Discount   decimal.Decimal `json:"discount"`
	PromoCode  string          `json:"promo_code,omitempty"`

	Buyer *BuyerInfo `json:"buyer,omitempty"`

	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	IsSimulated     bool          `json:"is_simulated,omitempty"`
	Status          SessionStatus `json:"status"`

	OrderID       string    `json:"order_id,omitempty"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

func (s *PaymentSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// TicketCount sums cart quantities, used for processor metadata.
func (s *PaymentSession) TicketCount() int {
	count := 0
	for _, item := range s.CartItems {
		count += item.Quantity
	}
	return count
}

// PaymentEvent is the message published to Kafka when a session reaches a
// terminal state.
type PaymentEvent struct {
	SessionID       string    `json:"session_id"`
	EventID         string    `json:"event_id"`
	OrderID         string    `json:"order_id,omitempty"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Status          string    `json:"status"`
	TotalPaid       string    `json:"total_paid,omitempty"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
