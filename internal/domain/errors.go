package domain

import "fmt"

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeDonationNotFound      = "DONATION_NOT_FOUND"
	ErrCodeApplicationNotFound   = "APPLICATION_NOT_FOUND"
	ErrCodePaymentMethodMismatch = "PAYMENT_METHOD_MISMATCH"
	ErrCodeDuplicateTransaction  = "DUPLICATE_TRANSACTION"
	ErrCodeModificationDenied    = "MODIFICATION_DENIED"
)

func NewInvalidAmountError(cents int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("amount must not be negative, got %d cents", cents),
	}
}

func NewInvalidTransitionError(from, to DonationStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewPaymentMethodMismatchError(want, got string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentMethodMismatch,
		Message: fmt.Sprintf("donation uses payment method %s, notification is for %s", want, got),
	}
}

func NewDonationNotFoundError(id int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeDonationNotFound,
		Message: fmt.Sprintf("donation %d not found", id),
	}
}

func NewApplicationNotFoundError(id int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeApplicationNotFound,
		Message: fmt.Sprintf("membership application %d not found", id),
	}
}

// ErrDuplicateTransaction is returned by the repository when storing a
// donation whose transaction ID was already recorded for it. Handlers treat
// this exactly like a detected duplicate notification.
var ErrDuplicateTransaction = &DomainError{
	Code:    ErrCodeDuplicateTransaction,
	Message: "transaction already recorded for this donation",
}
