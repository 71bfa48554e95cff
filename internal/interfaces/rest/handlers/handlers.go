package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spendenwerk/fundraising-backend/internal/application/services"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type PayPalNotificationService interface {
	HandleNotification(ctx context.Context, params map[string]string) (services.Outcome, error)
}

type CreditCardNotificationService interface {
	HandleNotification(ctx context.Context, params map[string]string) (services.Outcome, error)
}

type AddDonationService interface {
	AddDonation(ctx context.Context, req services.AddDonationRequest) (*services.AddDonationResponse, error)
}

type MembershipService interface {
	Apply(ctx context.Context, req services.ApplyForMembershipRequest) (*domain.MembershipApplication, error)
}

type Handlers struct {
	paypalService     PayPalNotificationService
	creditCardService CreditCardNotificationService
	donationService   AddDonationService
	membershipService MembershipService
	logger            *slog.Logger
}

func NewHandlers(
	paypalService PayPalNotificationService,
	creditCardService CreditCardNotificationService,
	donationService AddDonationService,
	membershipService MembershipService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		paypalService:     paypalService,
		creditCardService: creditCardService,
		donationService:   donationService,
		membershipService: membershipService,
		logger:            logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /handle-paypal-payment-notification", h.HandlePayPalNotification)
	mux.HandleFunc("POST /handle-creditcard-payment-notification", h.HandleCreditCardNotification)
	mux.HandleFunc("POST /add-donation", h.HandleAddDonation)
	mux.HandleFunc("POST /apply-for-membership", h.HandleApplyForMembership)
}

// formParams flattens the POST form into the key/value map the notification
// services (and the provider's verification echo) work with.
func formParams(r *http.Request) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	params := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		params[key] = r.PostForm.Get(key)
	}
	return params, nil
}
