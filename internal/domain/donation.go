package domain

import (
	"crypto/subtle"
	"time"
)

// DonationStatus represents the current state of a donation in its lifecycle
type DonationStatus string

const (
	// StatusNew: donation was submitted, payment not yet initiated externally
	StatusNew DonationStatus = "NEW"
	// StatusAuthorizationPending: an external payment (credit card, PayPal)
	// was initiated but the provider has not confirmed it yet
	StatusAuthorizationPending DonationStatus = "AUTHORIZATION_PENDING"
	// StatusBooked: the payment provider confirmed the payment
	StatusBooked     DonationStatus = "BOOKED"
	StatusCancelled  DonationStatus = "CANCELLED"
	StatusModeration DonationStatus = "MODERATION"
)

// PaymentMethodName identifies a payment method variant.
type PaymentMethodName string

const (
	PaymentMethodCreditCard   PaymentMethodName = "MCP"
	PaymentMethodPayPal       PaymentMethodName = "PPL"
	PaymentMethodBankTransfer PaymentMethodName = "UEB"
	PaymentMethodSofort       PaymentMethodName = "SUB"
)

// PaymentMethod is the variant slot of a donation's payment. The variant is
// fixed when the donation is created; notifications may only fill in the
// data of the matching variant.
type PaymentMethod interface {
	Name() PaymentMethodName
}

// CreditCardData holds the transactional data reported by the credit card
// provider's notification.
type CreditCardData struct {
	TransactionID        string
	CustomerID           string
	SessionID            string
	AuthID               string
	Title                string
	CountryCode          string
	CurrencyCode         string
	Amount               Euro
	TransactionStatus    string
	TransactionTimestamp string
	CardExpiry           string
}

type CreditCardPayment struct {
	Data *CreditCardData
}

func (p *CreditCardPayment) Name() PaymentMethodName { return PaymentMethodCreditCard }

// PayPalData holds the transactional data reported by a PayPal IPN message.
// PaymentTimestamp is stored verbatim in the provider's own format.
// PaymentStatus is the composite "payment_status/txn_type" string; the "/"
// separator is part of the stored data format.
type PayPalData struct {
	PayerID          string
	SubscriberID     string
	PayerStatus      string
	AddressStatus    string
	AddressName      string
	FirstName        string
	LastName         string
	CurrencyCode     string
	Fee              Euro
	Amount           Euro
	SettleAmount     Euro
	PaymentID        string
	PaymentType      string
	PaymentStatus    string
	PaymentTimestamp string
}

type PayPalPayment struct {
	Data *PayPalData
}

func (p *PayPalPayment) Name() PaymentMethodName { return PaymentMethodPayPal }

// BankTransferPayment carries the transfer code printed on the form.
type BankTransferPayment struct {
	TransferCode string
}

func (p *BankTransferPayment) Name() PaymentMethodName { return PaymentMethodBankTransfer }

type SofortPayment struct {
	TransferCode string
	ConfirmedAt  string
}

func (p *SofortPayment) Name() PaymentMethodName { return PaymentMethodSofort }

// Payment is the payment part of a donation: how much, how often, and by
// which method.
type Payment struct {
	Amount           Euro
	IntervalInMonths int
	Method           PaymentMethod
}

// Donation is the aggregate root. Donations are never deleted; all lifecycle
// changes are status transitions.
type Donation struct {
	ID      int64
	Donor   Donor
	Payment Payment
	Status  DonationStatus

	// UpdateToken authorizes modification by anonymous webhook callers.
	// Empty token means no modification is allowed.
	UpdateToken       string
	UpdateTokenExpiry time.Time

	CreatedAt time.Time
}

// Donor is the person the confirmation mail goes to.
type Donor struct {
	FirstName string
	LastName  string
	Email     string
}

// CanModify reports whether the presented token authorizes modification of
// this donation at the given time. Comparison is constant-time.
func (d *Donation) CanModify(presentedToken string, now time.Time) bool {
	if d.UpdateToken == "" || presentedToken == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(d.UpdateToken), []byte(presentedToken)) != 1 {
		return false
	}
	return now.Before(d.UpdateTokenExpiry)
}

// CanTransitionTo validates a status transition. Cancelled is terminal;
// Booked only allows moderation.
func (d *Donation) CanTransitionTo(target DonationStatus) error {
	switch d.Status {
	case StatusCancelled:
		return NewInvalidTransitionError(d.Status, target)

	case StatusNew, StatusAuthorizationPending:
		if target == StatusBooked || target == StatusCancelled || target == StatusModeration {
			return nil
		}

	case StatusBooked:
		if target == StatusModeration {
			return nil
		}

	case StatusModeration:
		if target == StatusBooked || target == StatusCancelled {
			return nil
		}
	}
	return NewInvalidTransitionError(d.Status, target)
}

// ConfirmCreditCardPayment records the provider data on the credit card slot
// and books the donation. Returns a method mismatch error if the donation
// was not created as a credit card donation.
func (d *Donation) ConfirmCreditCardPayment(data *CreditCardData) error {
	ccPayment, ok := d.Payment.Method.(*CreditCardPayment)
	if !ok {
		return NewPaymentMethodMismatchError(
			string(d.Payment.Method.Name()),
			string(PaymentMethodCreditCard),
		)
	}
	if err := d.CanTransitionTo(StatusBooked); err != nil {
		return err
	}
	ccPayment.Data = data
	d.Status = StatusBooked
	return nil
}

// ConfirmPayPalPayment records the IPN data on the PayPal slot and books the
// donation.
func (d *Donation) ConfirmPayPalPayment(data *PayPalData) error {
	pplPayment, ok := d.Payment.Method.(*PayPalPayment)
	if !ok {
		return NewPaymentMethodMismatchError(
			string(d.Payment.Method.Name()),
			string(PaymentMethodPayPal),
		)
	}
	if err := d.CanTransitionTo(StatusBooked); err != nil {
		return err
	}
	pplPayment.Data = data
	d.Status = StatusBooked
	return nil
}

// HasTransaction reports whether the given provider transaction ID was
// already recorded on this donation. Used as the fast-path duplicate check;
// the repository's unique constraint is the authoritative one.
func (d *Donation) HasTransaction(transactionID string) bool {
	if transactionID == "" {
		return false
	}
	switch m := d.Payment.Method.(type) {
	case *CreditCardPayment:
		return m.Data != nil && m.Data.TransactionID == transactionID
	case *PayPalPayment:
		return m.Data != nil && m.Data.PaymentID == transactionID
	default:
		return false
	}
}

// TransactionID returns the recorded provider transaction ID, if any.
func (d *Donation) TransactionID() string {
	switch m := d.Payment.Method.(type) {
	case *CreditCardPayment:
		if m.Data != nil {
			return m.Data.TransactionID
		}
	case *PayPalPayment:
		if m.Data != nil {
			return m.Data.PaymentID
		}
	}
	return ""
}
