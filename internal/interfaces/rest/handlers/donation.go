package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/application/services"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type addDonationResponse struct {
	DonationID  int64     `json:"donation_id"`
	UpdateToken string    `json:"update_token"`
	TokenExpiry time.Time `json:"token_expiry"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleAddDonation accepts a donation application (form-encoded, like the
// rest of the legacy form routes) and responds with the donation ID and the
// update token the payment provider callback will later present.
func (h *Handlers) HandleAddDonation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "could not parse form")
		return
	}

	interval, _ := strconv.Atoi(r.PostForm.Get("interval"))
	req := services.AddDonationRequest{
		Amount:           r.PostForm.Get("amount"),
		IntervalInMonths: interval,
		PaymentMethod:    r.PostForm.Get("payment_method"),
		FirstName:        r.PostForm.Get("first_name"),
		LastName:         r.PostForm.Get("last_name"),
		Email:            r.PostForm.Get("email"),
	}

	resp, err := h.donationService.AddDonation(r.Context(), req)
	if err != nil {
		respondServiceError(w, h, err)
		return
	}

	respondJSON(w, http.StatusCreated, addDonationResponse{
		DonationID:  resp.DonationID,
		UpdateToken: resp.UpdateToken,
		TokenExpiry: resp.TokenExpiry,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Code: code, Message: message})
}

func respondServiceError(w http.ResponseWriter, h *Handlers, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		respondJSONError(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
		return
	}
	h.logger.Error("request failed", "error", err)
	respondJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}
