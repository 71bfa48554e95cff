package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type ApplyForMembershipRequest struct {
	MembershipType string `validate:"required,oneof=sustaining active"`

	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`

	FeeAmount             string `validate:"required"`
	PaymentIntervalMonths int    `validate:"oneof=1 3 6 12"`
}

type ApplyForMembershipService struct {
	membershipRepo application.MembershipRepository
	mailer         application.Mailer
	validate       *validator.Validate
	logger         *slog.Logger
	now            func() time.Time
}

func NewApplyForMembershipService(
	membershipRepo application.MembershipRepository,
	mailer application.Mailer,
	logger *slog.Logger,
	now func() time.Time,
) *ApplyForMembershipService {
	if now == nil {
		now = time.Now
	}
	return &ApplyForMembershipService{
		membershipRepo: membershipRepo,
		mailer:         mailer,
		validate:       validator.New(),
		logger:         logger,
		now:            now,
	}
}

func (s *ApplyForMembershipService) Apply(ctx context.Context, req ApplyForMembershipRequest) (*domain.MembershipApplication, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &domain.DomainError{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	}

	fee, err := domain.NewEuroFromString(req.FeeAmount)
	if err != nil {
		return nil, err
	}

	app := &domain.MembershipApplication{
		Type: domain.MembershipType(req.MembershipType),
		Applicant: domain.Donor{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		FeeAmount:             fee,
		PaymentIntervalMonths: req.PaymentIntervalMonths,
		CreatedAt:             s.now(),
	}

	if err := s.membershipRepo.StoreApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("store membership application: %w", err)
	}

	err = s.mailer.SendConfirmation(ctx, app.Applicant.Email, application.ConfirmationArgs{
		Amount:           app.FeeAmount,
		IntervalInMonths: app.PaymentIntervalMonths,
		FirstName:        app.Applicant.FirstName,
		LastName:         app.Applicant.LastName,
	})
	if err != nil {
		s.logger.Error("membership confirmation mail failed", "application_id", app.ID, "error", err)
	}

	return app, nil
}
