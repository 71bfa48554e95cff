package handlers

import (
	"net/http"

	"github.com/spendenwerk/fundraising-backend/internal/application/services"
)

// Response bodies are part of the provider-facing contract; PayPal operators
// see these exact sentences in their IPN history.
const (
	bodyReceiverMismatch    = "Payment receiver address does not match"
	bodyVerificationFailed  = "An error occurred while trying to confirm the sent data"
	bodyUnsupportedCurrency = "Unsupported currency"
)

// HandlePayPalNotification processes an instant payment notification.
// 200 acknowledges the message (including ignored and duplicate ones, so the
// provider stops retrying); 403 and 406 carry fixed failure sentences; 500
// makes the provider retry later.
func (h *Handlers) HandlePayPalNotification(w http.ResponseWriter, r *http.Request) {
	params, err := formParams(r)
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	outcome, err := h.paypalService.HandleNotification(r.Context(), params)
	if err != nil {
		h.logger.Error("paypal notification processing failed",
			"outcome", outcome.String(),
			"error", err,
		)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	switch outcome {
	case services.OutcomeReceiverMismatch:
		writePlain(w, http.StatusForbidden, bodyReceiverMismatch)
	case services.OutcomeVerificationFailed:
		writePlain(w, http.StatusForbidden, bodyVerificationFailed)
	case services.OutcomeUnsupportedCurrency:
		writePlain(w, http.StatusNotAcceptable, bodyUnsupportedCurrency)
	case services.OutcomeAuthorizationFailed:
		w.WriteHeader(http.StatusForbidden)
	default:
		// applied, duplicate, ignored, bad request: acknowledge with an
		// empty body
		w.WriteHeader(http.StatusOK)
	}
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
