package payment

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Session-not-found and session-expired are distinguishable
// here for logging and tests but share a client message so responses don't
// act as an oracle for session existence.
const (
	CodeValidation          = "validation"
	CodeSessionNotFound     = "session_not_found"
	CodeSessionExpired      = "session_expired"
	CodePrecondition        = "precondition"
	CodeVerification        = "verification"
	CodePaymentNotCompleted = "payment_not_completed"
	CodeProcessor           = "processor"
	CodeWebhookSignature    = "webhook_signature"
)

// Error is the engine's error type. PublicMessage is safe to return to
// clients; Err keeps the underlying cause for logs.
type Error struct {
	Code          string
	StatusCode    int
	PublicMessage string
	Details       map[string]interface{}
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.PublicMessage, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.PublicMessage)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error, or wraps unknown errors as an internal 500
// without leaking their message to the client.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{
		Code:          CodeProcessor,
		StatusCode:    http.StatusInternalServerError,
		PublicMessage: "Internal server error",
		Err:           err,
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func errValidation(message string, fields []FieldError) *Error {
	e := &Error{
		Code:          CodeValidation,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: message,
	}
	if len(fields) > 0 {
		e.Details = map[string]interface{}{"errors": fields}
	}
	return e
}

func errSessionNotFound() *Error {
	return &Error{
		Code:          CodeSessionNotFound,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: "Invalid or expired session",
	}
}

func errSessionExpired() *Error {
	return &Error{
		Code:          CodeSessionExpired,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: "Invalid or expired session",
	}
}

func errPrecondition(message string) *Error {
	return &Error{
		Code:          CodePrecondition,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: message,
	}
}

func errVerification() *Error {
	return &Error{
		Code:          CodeVerification,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: "Payment verification failed",
	}
}

func errPaymentNotCompleted(status string) *Error {
	return &Error{
		Code:          CodePaymentNotCompleted,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: fmt.Sprintf("Payment not completed. Status: %s", status),
		Details:       map[string]interface{}{"paymentStatus": status},
	}
}

func errProcessor(err error) *Error {
	return &Error{
		Code:          CodeProcessor,
		StatusCode:    http.StatusInternalServerError,
		PublicMessage: "Payment processor error, please retry",
		Err:           err,
	}
}

func errWebhookSignature(err error) *Error {
	return &Error{
		Code:          CodeWebhookSignature,
		StatusCode:    http.StatusBadRequest,
		PublicMessage: "Invalid webhook signature",
		Err:           err,
	}
}
