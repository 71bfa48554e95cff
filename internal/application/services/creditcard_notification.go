package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

const (
	// discriminator value for a billing notification; everything else is a
	// management message we only record
	creditCardFunctionBilling = "billing"

	msgUnhandledCreditCard = "Unhandled credit card notification"
	msgMalformedCreditCard = "Malformed credit card notification"
)

// CreditCardNotificationRequest carries the parsed form fields of a credit
// card provider callback. Amount is in euro cents, as sent by the provider.
type CreditCardNotificationRequest struct {
	Function      string
	DonationID    int64
	AmountCents   int64
	TransactionID string
	CustomerID    string
	SessionID     string
	AuthID        string
	UpdateToken   string
	Title         string
	CountryCode   string
	CurrencyCode  string

	TransactionStatus    string
	TransactionTimestamp string
	CardExpiry           string
}

// ParseCreditCardNotification builds a request from raw form parameters.
func ParseCreditCardNotification(params map[string]string) (CreditCardNotificationRequest, error) {
	req := CreditCardNotificationRequest{
		Function:             params["function"],
		TransactionID:        params["transactionId"],
		CustomerID:           params["customerId"],
		SessionID:            params["sessionId"],
		AuthID:               params["auth"],
		UpdateToken:          params["utoken"],
		Title:                params["title"],
		CountryCode:          params["country"],
		CurrencyCode:         params["currency"],
		TransactionStatus:    params["status"],
		TransactionTimestamp: params["ext_payment_timestamp"],
		CardExpiry:           params["mcp_cc_expiry_date"],
	}

	id, err := strconv.ParseInt(params["donation_id"], 10, 64)
	if err != nil || id <= 0 {
		return req, fmt.Errorf("invalid donation_id %q", params["donation_id"])
	}
	req.DonationID = id

	amount, err := strconv.ParseInt(params["amount"], 10, 64)
	if err != nil || amount < 0 {
		return req, fmt.Errorf("invalid amount %q", params["amount"])
	}
	req.AmountCents = amount

	if req.TransactionID == "" {
		return req, fmt.Errorf("missing transactionId")
	}

	return req, nil
}

// CreditCardNotificationService processes credit card provider callbacks.
// The route's contract is always-200; the Outcome only decides the response
// body text.
type CreditCardNotificationService struct {
	donationRepo application.DonationRepository
	mailer       application.Mailer
	notifyLog    application.NotificationLog
	logger       *slog.Logger
	now          func() time.Time
}

func NewCreditCardNotificationService(
	donationRepo application.DonationRepository,
	mailer application.Mailer,
	notifyLog application.NotificationLog,
	logger *slog.Logger,
	now func() time.Time,
) *CreditCardNotificationService {
	if now == nil {
		now = time.Now
	}
	return &CreditCardNotificationService{
		donationRepo: donationRepo,
		mailer:       mailer,
		notifyLog:    notifyLog,
		logger:       logger,
		now:          now,
	}
}

func (s *CreditCardNotificationService) HandleNotification(ctx context.Context, params map[string]string) (Outcome, error) {
	if params["function"] != creditCardFunctionBilling {
		s.notifyLog.Log(msgUnhandledCreditCard, params)
		return OutcomeIgnored, nil
	}

	req, err := ParseCreditCardNotification(params)
	if err != nil {
		s.notifyLog.Log(msgMalformedCreditCard, withError(params, err))
		return OutcomeBadRequest, nil
	}

	if !supportedCurrencies[req.CurrencyCode] {
		return OutcomeUnsupportedCurrency, nil
	}

	donation, err := s.donationRepo.GetDonationByID(ctx, req.DonationID)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeDonationNotFound {
			s.notifyLog.Log(msgMalformedCreditCard, params)
			return OutcomeBadRequest, nil
		}
		return OutcomeError, fmt.Errorf("load donation %d: %w", req.DonationID, err)
	}

	if !donation.CanModify(req.UpdateToken, s.now()) {
		return OutcomeAuthorizationFailed, nil
	}

	if donation.HasTransaction(req.TransactionID) {
		return OutcomeDuplicate, nil
	}

	amount, err := domain.NewEuroFromCents(req.AmountCents)
	if err != nil {
		s.notifyLog.Log(msgMalformedCreditCard, withError(params, err))
		return OutcomeBadRequest, nil
	}

	if !amount.Equals(donation.Payment.Amount) {
		s.logger.Warn("payment amount does not match donation",
			"donation_id", donation.ID,
			"donation_amount", donation.Payment.Amount.String(),
			"notification_amount", amount.String(),
		)
	}

	err = donation.ConfirmCreditCardPayment(&domain.CreditCardData{
		TransactionID:        req.TransactionID,
		CustomerID:           req.CustomerID,
		SessionID:            req.SessionID,
		AuthID:               req.AuthID,
		Title:                req.Title,
		CountryCode:          req.CountryCode,
		CurrencyCode:         req.CurrencyCode,
		Amount:               amount,
		TransactionStatus:    req.TransactionStatus,
		TransactionTimestamp: req.TransactionTimestamp,
		CardExpiry:           req.CardExpiry,
	})
	if err != nil {
		s.notifyLog.Log(msgMalformedCreditCard, withError(params, err))
		return OutcomeBadRequest, nil
	}

	if err := s.donationRepo.StoreDonation(ctx, donation); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			return OutcomeDuplicate, nil
		}
		return OutcomeError, fmt.Errorf("store donation %d: %w", donation.ID, err)
	}

	s.sendConfirmation(ctx, donation)

	return OutcomeApplied, nil
}

func (s *CreditCardNotificationService) sendConfirmation(ctx context.Context, donation *domain.Donation) {
	err := s.mailer.SendConfirmation(ctx, donation.Donor.Email, application.ConfirmationArgs{
		DonationID:       donation.ID,
		Amount:           donation.Payment.Amount,
		IntervalInMonths: donation.Payment.IntervalInMonths,
		PaymentMethod:    donation.Payment.Method.Name(),
		FirstName:        donation.Donor.FirstName,
		LastName:         donation.Donor.LastName,
	})
	if err != nil {
		s.logger.Error("confirmation mail failed", "donation_id", donation.ID, "error", err)
	}
}
