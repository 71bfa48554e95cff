package handlers

import (
	"net/http"
	"strconv"

	"github.com/spendenwerk/fundraising-backend/internal/application/services"
)

type membershipResponse struct {
	ApplicationID int64 `json:"application_id"`
}

func (h *Handlers) HandleApplyForMembership(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "could not parse form")
		return
	}

	interval, _ := strconv.Atoi(r.PostForm.Get("payment_interval"))
	req := services.ApplyForMembershipRequest{
		MembershipType:        r.PostForm.Get("membership_type"),
		FirstName:             r.PostForm.Get("first_name"),
		LastName:              r.PostForm.Get("last_name"),
		Email:                 r.PostForm.Get("email"),
		FeeAmount:             r.PostForm.Get("fee_amount"),
		PaymentIntervalMonths: interval,
	}

	app, err := h.membershipService.Apply(r.Context(), req)
	if err != nil {
		respondServiceError(w, h, err)
		return
	}

	respondJSON(w, http.StatusCreated, membershipResponse{ApplicationID: app.ID})
}
