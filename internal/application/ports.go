// Package application defines the ports between the use case services and
// the infrastructure that backs them.
package application

import (
	"context"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

// DonationRepository is the persistence boundary for donations.
//
// StoreDonation must reject a payment transaction ID that was already
// recorded for the same donation atomically (unique constraint) and surface
// that as domain.ErrDuplicateTransaction. That constraint, not the in-memory
// duplicate check, is what makes concurrent duplicate delivery safe.
type DonationRepository interface {
	GetDonationByID(ctx context.Context, id int64) (*domain.Donation, error)
	StoreDonation(ctx context.Context, donation *domain.Donation) error
}

type MembershipRepository interface {
	GetApplicationByID(ctx context.Context, id int64) (*domain.MembershipApplication, error)
	StoreApplication(ctx context.Context, application *domain.MembershipApplication) error
}

// NotificationLog records unhandled or ambiguous provider notifications for
// manual review. It must never fail the request.
type NotificationLog interface {
	Log(message string, context map[string]string)
}

// Mailer dispatches the donation confirmation message.
type Mailer interface {
	SendConfirmation(ctx context.Context, recipient string, args ConfirmationArgs) error
}

type ConfirmationArgs struct {
	DonationID       int64
	Amount           domain.Euro
	IntervalInMonths int
	PaymentMethod    domain.PaymentMethodName
	FirstName        string
	LastName         string
}

// PayPalVerifier confirms an IPN message's authenticity with the provider.
type PayPalVerifier interface {
	// ReceiverMatches checks the declared receiver address against the
	// configured merchant address. No network round trip.
	ReceiverMatches(params map[string]string) bool
	// ItemNameMatches checks the declared item name against the configured
	// product name. No network round trip.
	ItemNameMatches(params map[string]string) bool
	// Verify echoes the notification back to the provider's verification
	// endpoint. nil means the provider answered VERIFIED; any other answer,
	// a transport error, or a timeout is a non-nil error (fail closed).
	Verify(ctx context.Context, params map[string]string) error
}

// TokenGenerator produces update/access token pairs for new donations.
type TokenGenerator interface {
	NewToken() string
	NewExpiry(now time.Time) time.Time
}
