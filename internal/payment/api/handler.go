// Package api exposes the checkout flow over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/payment"
	"tixmojo-server/internal/utils"
)

// Webhook payloads are small; cap reads so a hostile sender can't balloon
// memory.
const maxWebhookBody = 1 << 20

type Handler struct {
	service *payment.Service
	logger  *logger.Logger
}

func NewHandler(service *payment.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the checkout endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/initialize", h.Initialize)
	r.Post("/validate-buyer", h.ValidateBuyer)
	r.Post("/apply-promo", h.ApplyPromo)
	r.Post("/create-payment-intent", h.CreatePaymentIntent)
	r.Post("/confirm-payment", h.ConfirmPayment)
	r.Get("/session-status/{sessionId}", h.SessionStatus)
	r.Post("/webhook", h.Webhook)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	pe := payment.AsError(err)
	if pe.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("API", fmt.Sprintf("%s: %v", pe.Code, err))
	}
	utils.RespondWithError(w, pe.StatusCode, pe.PublicMessage, pe.Details)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req payment.InitializeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.InitializeSession(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, resp)
}

type validateBuyerRequest struct {
	SessionID string `json:"sessionId"`
	payment.BuyerRequest
}

func (h *Handler) ValidateBuyer(w http.ResponseWriter, r *http.Request) {
	var req validateBuyerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.ValidateBuyer(r.Context(), req.SessionID, req.BuyerRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

type applyPromoRequest struct {
	SessionID string `json:"sessionId"`
	PromoCode string `json:"promoCode"`
}

func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req applyPromoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.ApplyPromo(r.Context(), req.SessionID, payment.ApplyPromoRequest{PromoCode: req.PromoCode})
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.CreatePaymentIntent(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

type confirmRequest struct {
	SessionID       string `json:"sessionId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.ConfirmPayment(r.Context(), req.SessionID, payment.ConfirmRequest{PaymentIntentID: req.PaymentIntentID})
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	resp, err := h.service.SessionStatus(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, resp)
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payloadBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook payload", nil)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payloadBody, r.Header.Get("Stripe-Signature")); err != nil {
		h.writeError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, map[string]interface{}{"received": true})
}
