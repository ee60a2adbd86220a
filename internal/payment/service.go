package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/models"
	"tixmojo-server/internal/payment/phone"
	"tixmojo-server/internal/payment/processor"
	"tixmojo-server/internal/payment/promo"
	"tixmojo-server/internal/payment/store"
	"tixmojo-server/internal/utils"
)

// Publisher emits terminal payment events. Publishing is best-effort; the
// checkout never fails because the broker is down.
type Publisher interface {
	PublishPaymentCompleted(ctx context.Context, event models.PaymentEvent) error
	PublishPaymentFailed(ctx context.Context, event models.PaymentEvent) error
}

// QREncoder renders an order confirmation payload as a base64 PNG.
type QREncoder interface {
	Encode(payload string) (string, error)
}

type Options struct {
	Store      store.SessionStore
	Processor  processor.Client
	Promos     promo.Resolver
	Phones     phone.Validator
	Publisher  Publisher
	QR         QREncoder
	Logger     *logger.Logger
	TTL        time.Duration
	ServiceFee decimal.Decimal
	Currency   string
}

// Service drives a checkout session through its lifecycle: initialize,
// buyer validation, promo, payment intent, confirmation.
type Service struct {
	store      store.SessionStore
	processor  processor.Client
	promos     promo.Resolver
	phones     phone.Validator
	publisher  Publisher
	qr         QREncoder
	webhooks   WebhookVerifier
	logger     *logger.Logger
	ttl        time.Duration
	serviceFee decimal.Decimal
	currency   string
}

func NewService(opts Options) *Service {
	return &Service{
		store:      opts.Store,
		processor:  opts.Processor,
		promos:     opts.Promos,
		phones:     opts.Phones,
		publisher:  opts.Publisher,
		qr:         opts.QR,
		logger:     opts.Logger,
		ttl:        opts.TTL,
		serviceFee: opts.ServiceFee,
		currency:   opts.Currency,
	}
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errSessionNotFound()
	case errors.Is(err, store.ErrExpired):
		return errSessionExpired()
	default:
		return err
	}
}

type InitializeRequest struct {
	EventID   string            `json:"eventId"`
	Event     *EventRef         `json:"event,omitempty"`
	CartItems []models.CartItem `json:"cartItems"`
}

type EventRef struct {
	ID string `json:"id"`
}

func (r InitializeRequest) eventID() string {
	if r.EventID != "" {
		return r.EventID
	}
	if r.Event != nil {
		return r.Event.ID
	}
	return ""
}

type InitializeResponse struct {
	SessionID string                 `json:"sessionId"`
	EventID   string                 `json:"eventId"`
	ExpiresAt time.Time              `json:"expiresAt"`
	Totals    map[string]interface{} `json:"totals"`
}

// InitializeSession prices the cart and opens a new session with a fixed
// TTL. The deadline never slides; every later step races the same clock.
func (s *Service) InitializeSession(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	var fields []FieldError
	eventID := req.eventID()
	if eventID == "" {
		fields = append(fields, FieldError{Field: "eventId", Message: "Event ID is required"})
	}
	if len(req.CartItems) == 0 {
		fields = append(fields, FieldError{Field: "cartItems", Message: "Cart must contain at least one item"})
	}
	for i, item := range req.CartItems {
		if item.Quantity < 1 {
			fields = append(fields, FieldError{Field: fmt.Sprintf("cartItems[%d].quantity", i), Message: "Quantity must be at least 1"})
		}
		if item.Ticket.Price.IsNegative() {
			fields = append(fields, FieldError{Field: fmt.Sprintf("cartItems[%d].ticket.price", i), Message: "Ticket price cannot be negative"})
		}
	}
	if len(fields) > 0 {
		return nil, errValidation("Invalid cart", fields)
	}

	now := time.Now()
	session := &models.PaymentSession{
		SessionID:  utils.GenerateSessionID(),
		EventID:    eventID,
		CartItems:  req.CartItems,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		Subtotal:   computeSubtotal(req.CartItems),
		ServiceFee: s.serviceFee,
		Discount:   decimal.Zero,
		Status:     models.StatusInitialized,
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	s.logger.LogSession("INITIALIZE", session.SessionID,
		fmt.Sprintf("event=%s items=%d subtotal=%s", session.EventID, len(session.CartItems), display(session.Subtotal)))

	return &InitializeResponse{
		SessionID: session.SessionID,
		EventID:   session.EventID,
		ExpiresAt: session.ExpiresAt,
		Totals:    sessionTotals(session).response(),
	}, nil
}

type ValidateBuyerResponse struct {
	Valid     bool   `json:"valid"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// ValidateBuyer checks the buyer fields and attaches them to the session.
// Re-submission is allowed up to confirmation; a failed validation leaves
// the session untouched.
func (s *Service) ValidateBuyer(ctx context.Context, sessionID string, req BuyerRequest) (*ValidateBuyerResponse, error) {
	buyer, fields := s.checkBuyer(req)
	if fields != nil {
		return nil, errValidation("Buyer details are invalid", fields)
	}

	session, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.Status == models.StatusPaymentCompleted || sess.Status == models.StatusPaymentFailed {
			return errPrecondition("Session is already finalized")
		}
		sess.Buyer = buyer
		if sess.Status == models.StatusInitialized {
			sess.Status = models.StatusBuyerValidated
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.LogSession("VALIDATE_BUYER", sessionID, "buyer="+buyer.EmailHash[:12])

	return &ValidateBuyerResponse{
		Valid:     true,
		SessionID: session.SessionID,
		Status:    string(session.Status),
	}, nil
}

type ApplyPromoRequest struct {
	PromoCode string `json:"promoCode"`
}

type ApplyPromoResponse struct {
	Valid     bool                   `json:"valid"`
	SessionID string                 `json:"sessionId"`
	PromoCode string                 `json:"promoCode"`
	Discount  string                 `json:"discount"`
	Message   string                 `json:"message"`
	NewTotal  string                 `json:"newTotal"`
	Totals    map[string]interface{} `json:"totals"`
}

// ApplyPromo resolves a promo code and stores its discount on the session.
// Codes do not stack; applying a second code replaces the first.
func (s *Service) ApplyPromo(ctx context.Context, sessionID string, req ApplyPromoRequest) (*ApplyPromoResponse, error) {
	discount, ok := s.promos.Resolve(req.PromoCode)
	if !ok {
		return nil, errValidation("Invalid promo code", []FieldError{{Field: "promoCode", Message: "Promo code not recognized"}})
	}

	session, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.Status == models.StatusPaymentCompleted || sess.Status == models.StatusPaymentFailed {
			return errPrecondition("Session is already finalized")
		}
		if sess.Status == models.StatusPaymentIntentCreated {
			return errPrecondition("Cannot change discount after payment intent is created")
		}
		sess.PromoCode = discount.Code
		sess.Discount = discount.Fraction
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.LogSession("APPLY_PROMO", sessionID, fmt.Sprintf("code=%s discount=%s", discount.Code, discount.Fraction.String()))

	totals := sessionTotals(session)
	return &ApplyPromoResponse{
		Valid:     true,
		SessionID: session.SessionID,
		PromoCode: session.PromoCode,
		Discount:  discount.Fraction.String(),
		Message:   discount.Message,
		NewTotal:  display(totals.Total),
		Totals:    totals.response(),
	}, nil
}

type CreateIntentResponse struct {
	SessionID       string `json:"sessionId"`
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          string `json:"amount"`
	AmountInCents   int64  `json:"amountInCents"`
	Currency        string `json:"currency"`
	IsSimulated     bool   `json:"isSimulated"`
}

// CreatePaymentIntent charges the session's current total against the
// processor. Calling it again reuses the existing intent when it is still
// usable, so a double-clicked pay button doesn't mint duplicate intents.
func (s *Service) CreatePaymentIntent(ctx context.Context, sessionID string) (*CreateIntentResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if session.Buyer == nil || !session.Buyer.Validated {
		return nil, errPrecondition("Buyer details must be validated before creating a payment intent")
	}
	if session.Status == models.StatusPaymentCompleted || session.Status == models.StatusPaymentFailed {
		return nil, errPrecondition("Session is already finalized")
	}

	if session.PaymentIntentID != "" {
		existing, err := s.processor.RetrieveIntent(ctx, session.PaymentIntentID)
		if err == nil && existing.Status != processor.StatusCanceled && existing.Status != processor.StatusSucceeded {
			s.logger.LogPayment("CREATE_INTENT", sessionID, "reusing existing intent "+existing.ID)
			return &CreateIntentResponse{
				SessionID:       sessionID,
				PaymentIntentID: existing.ID,
				ClientSecret:    existing.ClientSecret,
				Amount:          decimal.NewFromInt(existing.Amount).Div(centsPerUnit).StringFixed(2),
				AmountInCents:   existing.Amount,
				Currency:        existing.Currency,
				IsSimulated:     session.IsSimulated,
			}, nil
		}
	}

	totals := sessionTotals(session)
	amount := amountInCents(totals.Total)

	intent, err := s.processor.CreateIntent(ctx, processor.CreateParams{
		Amount:       amount,
		Currency:     s.currency,
		ReceiptEmail: session.Buyer.Email,
		Description:  fmt.Sprintf("TixMojo order for event %s (%d tickets)", session.EventID, session.TicketCount()),
		Metadata: map[string]string{
			"session_id":   session.SessionID,
			"event_id":     session.EventID,
			"ticket_count": fmt.Sprintf("%d", session.TicketCount()),
		},
	})
	if err != nil {
		s.logger.Error("PAYMENT", fmt.Sprintf("[CREATE_INTENT] %s - processor failure: %v", sessionID, err))
		return nil, errProcessor(err)
	}

	simulated := s.processor.Simulated()
	updated, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.Status == models.StatusPaymentCompleted || sess.Status == models.StatusPaymentFailed {
			return errPrecondition("Session is already finalized")
		}
		sess.PaymentIntentID = intent.ID
		sess.IsSimulated = simulated
		sess.Status = models.StatusPaymentIntentCreated
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.LogPayment("CREATE_INTENT", sessionID,
		fmt.Sprintf("intent=%s amount=%d %s simulated=%t", intent.ID, amount, s.currency, simulated))

	return &CreateIntentResponse{
		SessionID:       updated.SessionID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          display(totals.Total),
		AmountInCents:   amount,
		Currency:        intent.Currency,
		IsSimulated:     simulated,
	}, nil
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type ConfirmResponse struct {
	SessionID   string `json:"sessionId"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalPaid   string `json:"totalPaid"`
	IsSimulated bool   `json:"isSimulated"`
	QRCode      string `json:"qrCode,omitempty"`
}

// ConfirmPayment verifies the intent against the processor and moves the
// session to payment_completed. A duplicate confirm returns the original
// order id; the intent is retrieved outside the session lock and the state
// is rechecked inside it.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string, req ConfirmRequest) (*ConfirmResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if session.PaymentIntentID == "" {
		return nil, errPrecondition("No payment intent exists for this session")
	}
	if req.PaymentIntentID == "" || req.PaymentIntentID != session.PaymentIntentID {
		return nil, errVerification()
	}

	if session.Status == models.StatusPaymentCompleted {
		return s.confirmResponse(session), nil
	}

	intent, err := s.processor.RetrieveIntent(ctx, session.PaymentIntentID)
	if err != nil {
		s.logger.Error("PAYMENT", fmt.Sprintf("[CONFIRM] %s - retrieve failure: %v", sessionID, err))
		return nil, errProcessor(err)
	}
	if intent.Status != processor.StatusSucceeded {
		return nil, errPaymentNotCompleted(intent.Status)
	}

	completed := false
	updated, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.PaymentIntentID != req.PaymentIntentID {
			return errVerification()
		}
		if sess.Status == models.StatusPaymentCompleted {
			return nil
		}
		if sess.Status == models.StatusPaymentFailed {
			return errPrecondition("Session is already finalized")
		}
		sess.Status = models.StatusPaymentCompleted
		sess.OrderID = utils.GenerateOrderID(sess.IsSimulated)
		sess.CompletedAt = time.Now()
		completed = true
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if completed {
		s.logger.LogPayment("CONFIRM", sessionID,
			fmt.Sprintf("order=%s total=%s simulated=%t", updated.OrderID, display(sessionTotals(updated).Total), updated.IsSimulated))
		s.publishCompleted(ctx, updated)
	}

	return s.confirmResponse(updated), nil
}

func (s *Service) confirmResponse(session *models.PaymentSession) *ConfirmResponse {
	resp := &ConfirmResponse{
		SessionID:   session.SessionID,
		OrderID:     session.OrderID,
		Status:      "success",
		TotalPaid:   display(sessionTotals(session).Total),
		IsSimulated: session.IsSimulated,
	}
	if s.qr != nil {
		payload := fmt.Sprintf("%s|%s|%s", session.OrderID, session.EventID, resp.TotalPaid)
		if qrCode, err := s.qr.Encode(payload); err == nil {
			resp.QRCode = qrCode
		} else {
			s.logger.Warn("PAYMENT", fmt.Sprintf("[CONFIRM] %s - qr generation failed: %v", session.SessionID, err))
		}
	}
	return resp
}

type StatusResponse struct {
	SessionID      string                 `json:"sessionId"`
	EventID        string                 `json:"eventId"`
	Status         string                 `json:"status"`
	ExpiresAt      time.Time              `json:"expiresAt"`
	TimeRemaining  int64                  `json:"timeRemaining"`
	BuyerValidated bool                   `json:"buyerValidated"`
	PromoCode      string                 `json:"promoCode,omitempty"`
	IsSimulated    bool                   `json:"isSimulated,omitempty"`
	OrderID        string                 `json:"orderId,omitempty"`
	Totals         map[string]interface{} `json:"totals"`
}

// SessionStatus returns a sanitized view of the session. Buyer contact
// details never leave the engine through this endpoint.
func (s *Service) SessionStatus(ctx context.Context, sessionID string) (*StatusResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	remaining := int64(time.Until(session.ExpiresAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	return &StatusResponse{
		SessionID:      session.SessionID,
		EventID:        session.EventID,
		Status:         string(session.Status),
		ExpiresAt:      session.ExpiresAt,
		TimeRemaining:  remaining,
		BuyerValidated: session.Buyer != nil && session.Buyer.Validated,
		PromoCode:      session.PromoCode,
		IsSimulated:    session.IsSimulated,
		OrderID:        session.OrderID,
		Totals:         sessionTotals(session).response(),
	}, nil
}

// StartSweeper runs the periodic expiry sweep until ctx is canceled.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reclaimed, err := s.store.Sweep(ctx)
				if err != nil {
					s.logger.Error("SESSION", fmt.Sprintf("[SWEEP] failed: %v", err))
					continue
				}
				if reclaimed > 0 {
					s.logger.Info("SESSION", fmt.Sprintf("[SWEEP] reclaimed %d expired sessions", reclaimed))
				}
			}
		}
	}()
}

func (s *Service) publishCompleted(ctx context.Context, session *models.PaymentSession) {
	if s.publisher == nil {
		return
	}
	event := models.PaymentEvent{
		SessionID:       session.SessionID,
		EventID:         session.EventID,
		OrderID:         session.OrderID,
		PaymentIntentID: session.PaymentIntentID,
		Status:          string(models.StatusPaymentCompleted),
		TotalPaid:       display(sessionTotals(session).Total),
		Timestamp:       time.Now(),
	}
	if err := s.publisher.PublishPaymentCompleted(ctx, event); err != nil {
		s.logger.Warn("KAFKA", fmt.Sprintf("payment completed event for %s not published: %v", session.SessionID, err))
	}
}

func (s *Service) publishFailed(ctx context.Context, session *models.PaymentSession) {
	if s.publisher == nil {
		return
	}
	event := models.PaymentEvent{
		SessionID:       session.SessionID,
		EventID:         session.EventID,
		PaymentIntentID: session.PaymentIntentID,
		Status:          string(models.StatusPaymentFailed),
		FailureReason:   session.FailureReason,
		Timestamp:       time.Now(),
	}
	if err := s.publisher.PublishPaymentFailed(ctx, event); err != nil {
		s.logger.Warn("KAFKA", fmt.Sprintf("payment failed event for %s not published: %v", session.SessionID, err))
	}
}
