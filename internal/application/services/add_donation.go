package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

// AddDonationRequest is a donation application as submitted by the donor.
// Amount is the euro amount string the form produced ("25.00").
type AddDonationRequest struct {
	Amount           string `validate:"required"`
	IntervalInMonths int    `validate:"min=0,max=12"`
	PaymentMethod    string `validate:"required,oneof=MCP PPL UEB SUB"`

	FirstName string
	LastName  string
	Email     string `validate:"omitempty,email"`
}

// AddDonationResponse carries what the payment page needs to continue:
// the fresh donation ID and the token the provider callback will present.
type AddDonationResponse struct {
	DonationID  int64
	UpdateToken string
	TokenExpiry time.Time
}

// AddDonationService creates donation aggregates from applications. External
// payment methods start in AuthorizationPending and get booked by the
// notification pipeline; bank transfers start as New.
type AddDonationService struct {
	donationRepo application.DonationRepository
	tokens       application.TokenGenerator
	validate     *validator.Validate
	now          func() time.Time
}

func NewAddDonationService(
	donationRepo application.DonationRepository,
	tokens application.TokenGenerator,
	now func() time.Time,
) *AddDonationService {
	if now == nil {
		now = time.Now
	}
	return &AddDonationService{
		donationRepo: donationRepo,
		tokens:       tokens,
		validate:     validator.New(),
		now:          now,
	}
}

func (s *AddDonationService) AddDonation(ctx context.Context, req AddDonationRequest) (*AddDonationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &domain.DomainError{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	}

	amount, err := domain.NewEuroFromString(req.Amount)
	if err != nil {
		return nil, err
	}

	method, status, err := newPaymentMethod(domain.PaymentMethodName(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	now := s.now()
	donation := &domain.Donation{
		Donor: domain.Donor{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		Payment: domain.Payment{
			Amount:           amount,
			IntervalInMonths: req.IntervalInMonths,
			Method:           method,
		},
		Status:            status,
		UpdateToken:       s.tokens.NewToken(),
		UpdateTokenExpiry: s.tokens.NewExpiry(now),
		CreatedAt:         now,
	}

	if err := s.donationRepo.StoreDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("store donation: %w", err)
	}

	return &AddDonationResponse{
		DonationID:  donation.ID,
		UpdateToken: donation.UpdateToken,
		TokenExpiry: donation.UpdateTokenExpiry,
	}, nil
}

func newPaymentMethod(name domain.PaymentMethodName) (domain.PaymentMethod, domain.DonationStatus, error) {
	switch name {
	case domain.PaymentMethodCreditCard:
		return &domain.CreditCardPayment{}, domain.StatusAuthorizationPending, nil
	case domain.PaymentMethodPayPal:
		return &domain.PayPalPayment{}, domain.StatusAuthorizationPending, nil
	case domain.PaymentMethodBankTransfer:
		return &domain.BankTransferPayment{}, domain.StatusNew, nil
	case domain.PaymentMethodSofort:
		return &domain.SofortPayment{}, domain.StatusAuthorizationPending, nil
	default:
		return nil, "", &domain.DomainError{
			Code:    "VALIDATION_ERROR",
			Message: fmt.Sprintf("unknown payment method %q", name),
		}
	}
}
