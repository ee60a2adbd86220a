package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"

	"tixmojo-server/internal/models"
	"tixmojo-server/internal/utils"
)

// WebhookVerifier authenticates a raw webhook payload against its
// signature header.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

// SetWebhookVerifier installs the verifier. Left unset (simulation mode
// without a webhook secret), every delivery is rejected; the endpoint
// fails closed rather than trusting unsigned payloads.
func (s *Service) SetWebhookVerifier(v WebhookVerifier) {
	s.webhooks = v
}

// HandleWebhook processes a processor webhook delivery. Transitions are
// idempotent, so Stripe's at-least-once delivery is safe. A payload that
// references an unknown or already-reclaimed session is acknowledged and
// logged; returning an error would only make Stripe retry forever.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhooks == nil {
		s.logger.Error("WEBHOOK", "delivery rejected: no verifier configured")
		return errWebhookSignature(fmt.Errorf("webhook verifier not configured"))
	}

	event, err := s.webhooks.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Error("WEBHOOK", fmt.Sprintf("signature verification failed: %v", err))
		return errWebhookSignature(err)
	}

	s.logger.LogWebhook(string(event.Type), "verified delivery "+event.ID)

	switch event.Type {
	case "payment_intent.succeeded":
		return s.webhookSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.webhookFailed(ctx, event)
	default:
		s.logger.LogWebhook(string(event.Type), "ignored")
		return nil
	}
}

func (s *Service) webhookSucceeded(ctx context.Context, event stripe.Event) error {
	intent, sessionID, err := s.webhookIntent(event)
	if err != nil {
		return err
	}

	completed := false
	updated, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.PaymentIntentID != intent.ID {
			return errVerification()
		}
		if sess.Status == models.StatusPaymentCompleted {
			return nil
		}
		sess.Status = models.StatusPaymentCompleted
		if sess.OrderID == "" {
			sess.OrderID = utils.GenerateOrderID(sess.IsSimulated)
		}
		sess.CompletedAt = time.Now()
		completed = true
		return nil
	})
	if err != nil {
		return s.ackMissingSession(sessionID, err)
	}

	if completed {
		s.logger.LogWebhook("payment_intent.succeeded",
			fmt.Sprintf("session %s completed, order %s", sessionID, updated.OrderID))
		s.publishCompleted(ctx, updated)
	} else {
		s.logger.LogWebhook("payment_intent.succeeded",
			fmt.Sprintf("session %s already completed, replay ignored", sessionID))
	}
	return nil
}

func (s *Service) webhookFailed(ctx context.Context, event stripe.Event) error {
	intent, sessionID, err := s.webhookIntent(event)
	if err != nil {
		return err
	}

	reason := "payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		reason = intent.LastPaymentError.Msg
	}

	failed := false
	updated, err := s.store.Update(ctx, sessionID, func(sess *models.PaymentSession) error {
		if sess.PaymentIntentID != intent.ID {
			return errVerification()
		}
		// A completed session stays completed even if a stale failure
		// delivery arrives afterwards.
		if sess.Status == models.StatusPaymentCompleted || sess.Status == models.StatusPaymentFailed {
			return nil
		}
		sess.Status = models.StatusPaymentFailed
		sess.FailureReason = reason
		failed = true
		return nil
	})
	if err != nil {
		return s.ackMissingSession(sessionID, err)
	}

	if failed {
		s.logger.LogWebhook("payment_intent.payment_failed",
			fmt.Sprintf("session %s failed: %s", sessionID, reason))
		s.publishFailed(ctx, updated)
	}
	return nil
}

// webhookIntent unmarshals the payment intent from the event and extracts
// the session id from its metadata.
func (s *Service) webhookIntent(event stripe.Event) (*stripe.PaymentIntent, string, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		s.logger.Error("WEBHOOK", fmt.Sprintf("cannot unmarshal payment intent from %s: %v", event.ID, err))
		return nil, "", &Error{
			Code:          CodeValidation,
			StatusCode:    400,
			PublicMessage: "Invalid event data",
			Err:           err,
		}
	}

	sessionID := intent.Metadata["session_id"]
	if sessionID == "" {
		s.logger.Error("WEBHOOK", fmt.Sprintf("intent %s carries no session_id metadata", intent.ID))
		return nil, "", &Error{
			Code:          CodeValidation,
			StatusCode:    400,
			PublicMessage: "Invalid payment intent data",
		}
	}
	return &intent, sessionID, nil
}

// ackMissingSession swallows not-found and expired errors so the delivery
// is acknowledged; anything else propagates.
func (s *Service) ackMissingSession(sessionID string, err error) error {
	mapped := AsError(mapStoreErr(err))
	if mapped.Code == CodeSessionNotFound || mapped.Code == CodeSessionExpired {
		s.logger.Warn("WEBHOOK", fmt.Sprintf("delivery for unknown or expired session %s acknowledged", sessionID))
		return nil
	}
	return mapped
}
