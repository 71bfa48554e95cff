package domain

import "time"

type MembershipType string

const (
	MembershipSustaining MembershipType = "sustaining"
	MembershipActive     MembershipType = "active"
)

// MembershipApplication is the aggregate for a membership request. Payment
// is always by direct debit or bank transfer, so there is no provider
// notification pipeline attached to it.
type MembershipApplication struct {
	ID   int64
	Type MembershipType

	Applicant Donor

	FeeAmount             Euro
	PaymentIntervalMonths int

	Confirmed bool
	Cancelled bool

	CreatedAt time.Time
}

func (m *MembershipApplication) Confirm() error {
	if m.Cancelled {
		return &DomainError{
			Code:    ErrCodeInvalidTransition,
			Message: "cannot confirm a cancelled membership application",
		}
	}
	m.Confirmed = true
	return nil
}

func (m *MembershipApplication) Cancel() {
	m.Cancelled = true
}
