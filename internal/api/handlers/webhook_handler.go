package handlers

import (
	"io"
	"net/http"

	"cardsynch/internal/engine/billing"
	"cardsynch/internal/pkg/errors"
)

// webhookBodyLimit caps billing payloads; real deliveries are well under it.
const webhookBodyLimit = 1 << 20

type WebhookHandler struct {
	processor *billing.Processor
}

func NewWebhookHandler(processor *billing.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// HandleBilling verifies and applies one billing event. The signature is
// computed over the raw body, so it is read before any parsing.
func (h *WebhookHandler) HandleBilling(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get("X-Billing-Signature")
	if signature == "" {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeInvalidSignature, "Missing signature header", nil)
		return
	}

	if err := h.processor.Process(body, signature); err != nil {
		if err == billing.ErrInvalidSignature {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeInvalidSignature, "Invalid signature", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to process event", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
