package handlers

import (
	"fmt"
	"net/http"

	"github.com/spendenwerk/fundraising-backend/internal/application/services"
)

// HandleCreditCardNotification processes a credit card provider callback.
// The provider's protocol expects 200 on every answered request; logical
// failures are reported in the body text instead of the status code.
func (h *Handlers) HandleCreditCardNotification(w http.ResponseWriter, r *http.Request) {
	params, err := formParams(r)
	if err != nil {
		writePlain(w, http.StatusOK, creditCardFailureBody("request parsing"))
		return
	}

	outcome, err := h.creditCardService.HandleNotification(r.Context(), params)
	if err != nil {
		h.logger.Error("credit card notification processing failed",
			"outcome", outcome.String(),
			"error", err,
		)
		writePlain(w, http.StatusOK, creditCardFailureBody("persistence"))
		return
	}

	switch outcome {
	case services.OutcomeApplied, services.OutcomeDuplicate, services.OutcomeIgnored:
		writePlain(w, http.StatusOK, "status=OK\n")
	default:
		writePlain(w, http.StatusOK, creditCardFailureBody(outcome.String()))
	}
}

func creditCardFailureBody(reason string) string {
	return fmt.Sprintf("status=ERROR\nmsg=notification processing failed (%s)\n", reason)
}
