package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

const (
	msgUnhandledSubscription   = "Unhandled PayPal subscription notification"
	msgUnhandledInstantPayment = "Unhandled PayPal instant payment notification"
	msgMalformedNotification   = "Malformed PayPal notification"
)

// payment statuses we book; everything else is logged for manual review
var bookablePaymentStatuses = map[string]bool{
	"Completed": true,
	"Processed": true,
}

var supportedCurrencies = map[string]bool{
	"EUR": true,
}

// PayPalNotificationService processes PayPal instant payment notifications.
// A notification walks the stages receiver check, type classification,
// provider verification, currency check, donation lookup, token
// authorization, duplicate detection, and status application; each stage has
// a failure exit expressed as an Outcome.
type PayPalNotificationService struct {
	donationRepo application.DonationRepository
	verifier     application.PayPalVerifier
	mailer       application.Mailer
	notifyLog    application.NotificationLog
	logger       *slog.Logger
	now          func() time.Time
}

func NewPayPalNotificationService(
	donationRepo application.DonationRepository,
	verifier application.PayPalVerifier,
	mailer application.Mailer,
	notifyLog application.NotificationLog,
	logger *slog.Logger,
	now func() time.Time,
) *PayPalNotificationService {
	if now == nil {
		now = time.Now
	}
	return &PayPalNotificationService{
		donationRepo: donationRepo,
		verifier:     verifier,
		mailer:       mailer,
		notifyLog:    notifyLog,
		logger:       logger,
		now:          now,
	}
}

// HandleNotification runs one notification through the pipeline. The error
// is non-nil only for OutcomeError.
func (s *PayPalNotificationService) HandleNotification(ctx context.Context, params map[string]string) (Outcome, error) {
	if !s.verifier.ReceiverMatches(params) {
		return OutcomeReceiverMismatch, nil
	}

	if outcome, done := s.classify(params); done {
		return outcome, nil
	}

	if err := s.verifier.Verify(ctx, params); err != nil {
		s.logger.Info("paypal verification failed", "error", err)
		return OutcomeVerificationFailed, nil
	}

	if !supportedCurrencies[params["mc_currency"]] {
		return OutcomeUnsupportedCurrency, nil
	}

	donationID, updateToken, err := parseCustomField(params["custom"])
	if err != nil {
		s.notifyLog.Log(msgMalformedNotification, params)
		return OutcomeBadRequest, nil
	}

	donation, err := s.donationRepo.GetDonationByID(ctx, donationID)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeDonationNotFound {
			s.notifyLog.Log(msgMalformedNotification, params)
			return OutcomeBadRequest, nil
		}
		return OutcomeError, fmt.Errorf("load donation %d: %w", donationID, err)
	}

	if !donation.CanModify(updateToken, s.now()) {
		return OutcomeAuthorizationFailed, nil
	}

	if donation.HasTransaction(params["txn_id"]) {
		return OutcomeDuplicate, nil
	}

	data, err := newPayPalData(params)
	if err != nil {
		s.notifyLog.Log(msgMalformedNotification, params)
		return OutcomeBadRequest, nil
	}

	if !data.Amount.Equals(donation.Payment.Amount) {
		// Mismatches are recorded but do not reject the notification.
		s.logger.Warn("payment amount does not match donation",
			"donation_id", donation.ID,
			"donation_amount", donation.Payment.Amount.String(),
			"notification_amount", data.Amount.String(),
		)
	}

	if err := donation.ConfirmPayPalPayment(data); err != nil {
		s.notifyLog.Log(msgMalformedNotification, withError(params, err))
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

// classify sorts the notification by its discriminator fields. Subscription
// management messages and non-bookable payment statuses are logged and
// acknowledged so the provider does not retry them.
func (s *PayPalNotificationService) classify(params map[string]string) (Outcome, bool) {
	txnType := params["txn_type"]
	if strings.HasPrefix(txnType, "subscr_") && txnType != "subscr_payment" {
		s.notifyLog.Log(msgUnhandledSubscription, params)
		return OutcomeIgnored, true
	}

	if !bookablePaymentStatuses[params["payment_status"]] {
		s.notifyLog.Log(msgUnhandledInstantPayment, params)
		return OutcomeIgnored, true
	}

	return 0, false
}

func (s *PayPalNotificationService) sendConfirmation(ctx context.Context, donation *domain.Donation) {
	err := s.mailer.SendConfirmation(ctx, donation.Donor.Email, application.ConfirmationArgs{
		DonationID:       donation.ID,
		Amount:           donation.Payment.Amount,
		IntervalInMonths: donation.Payment.IntervalInMonths,
		PaymentMethod:    donation.Payment.Method.Name(),
		FirstName:        donation.Donor.FirstName,
		LastName:         donation.Donor.LastName,
	})
	if err != nil {
		// The payment is booked either way; a mail failure must not make
		// the provider retry the notification.
		s.logger.Error("confirmation mail failed", "donation_id", donation.ID, "error", err)
	}
}

// parseCustomField decodes the correlation field, a JSON object of the form
// {"id": "1", "utoken": "..."}. Some provider configurations send the id as
// a number instead of a string.
func parseCustomField(custom string) (int64, string, error) {
	var fields struct {
		ID     any    `json:"id"`
		UToken string `json:"utoken"`
	}
	if err := json.Unmarshal([]byte(custom), &fields); err != nil {
		return 0, "", fmt.Errorf("parse custom field: %w", err)
	}

	var id int64
	switch v := fields.ID.(type) {
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("parse donation id %q: %w", v, err)
		}
		id = parsed
	case float64:
		id = int64(v)
	default:
		return 0, "", fmt.Errorf("custom field has no donation id")
	}

	if id <= 0 {
		return 0, "", fmt.Errorf("invalid donation id %d", id)
	}
	return id, fields.UToken, nil
}

func newPayPalData(params map[string]string) (*domain.PayPalData, error) {
	gross, err := domain.NewEuroFromString(params["mc_gross"])
	if err != nil {
		return nil, fmt.Errorf("parse mc_gross: %w", err)
	}
	// fee and settle amount are not part of every message; absent means zero
	fee, err := optionalEuro(params["mc_fee"])
	if err != nil {
		return nil, fmt.Errorf("parse mc_fee: %w", err)
	}
	settle, err := optionalEuro(params["settle_amount"])
	if err != nil {
		return nil, fmt.Errorf("parse settle_amount: %w", err)
	}

	return &domain.PayPalData{
		PayerID:       params["payer_id"],
		SubscriberID:  params["subscr_id"],
		PayerStatus:   params["payer_status"],
		AddressStatus: params["address_status"],
		AddressName:   params["address_name"],
		FirstName:     params["first_name"],
		LastName:      params["last_name"],
		CurrencyCode:  params["mc_currency"],
		Fee:           fee,
		Amount:        gross,
		SettleAmount:  settle,
		PaymentID:     params["txn_id"],
		PaymentType:   params["payment_type"],
		// stored-data format: provider status and transaction type joined
		// with "/"
		PaymentStatus:    params["payment_status"] + "/" + params["txn_type"],
		PaymentTimestamp: params["payment_date"],
	}, nil
}

func optionalEuro(s string) (domain.Euro, error) {
	if s == "" {
		return domain.Euro{}, nil
	}
	return domain.NewEuroFromString(s)
}

func withError(params map[string]string, err error) map[string]string {
	enriched := make(map[string]string, len(params)+1)
	for k, v := range params {
		enriched[k] = v
	}
	enriched["error"] = err.Error()
	return enriched
}
