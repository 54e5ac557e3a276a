package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type checkoutRequest struct {
	CardToken string `json:"cardToken"`
}

type webhookRequest struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type payoutStatusResponse struct {
	PayoutOnboarded bool `json:"payoutOnboarded"`
}

func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	intent, err := h.paymentSvc.Checkout(ctx, currentUser(r), mux.Vars(r)["id"], req.CardToken)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPaymentIntent(intent))
}

// Webhook receives gateway event notifications. Only the event id is trusted;
// the event itself is re-read from the gateway.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil || req.ID == "" {
		writeError(ctx, w, domain.NewValidationError("event id is required"))
		return
	}

	if err := h.paymentSvc.HandleWebhook(ctx, req.ID); err != nil {
		if errors.Is(err, payment.ErrUnverifiedEvent) {
			logger.WarnContext(ctx, "Rejected unverified payment event", "eventID", req.ID, "key", req.Key)
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *PaymentHandler) RefreshPayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.paymentSvc.RefreshPayoutStatus(ctx, currentUser(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, payoutStatusResponse{PayoutOnboarded: user.PayoutOnboarded})
}
