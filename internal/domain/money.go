package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Euro is a non-negative amount of money held as integer euro cents.
// Provider payloads carry amounts as decimal strings ("1.23"); parsing and
// formatting go through the cents representation so no floating point is
// involved anywhere.
type Euro struct {
	cents int64
}

func NewEuroFromCents(cents int64) (Euro, error) {
	if cents < 0 {
		return Euro{}, NewInvalidAmountError(cents)
	}
	return Euro{cents: cents}, nil
}

// NewEuroFromString parses a decimal euro string with at most two fraction
// digits, e.g. "1.23", "50", "0.5".
func NewEuroFromString(s string) (Euro, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Euro{}, &DomainError{
			Code:    ErrCodeInvalidAmount,
			Message: fmt.Sprintf("invalid amount string %q", s),
		}
	}

	whole, fraction, _ := strings.Cut(s, ".")

	euros, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Euro{}, &DomainError{
			Code:    ErrCodeInvalidAmount,
			Message: fmt.Sprintf("invalid amount string %q", s),
			Err:     err,
		}
	}

	var cents int64
	if fraction != "" {
		if len(fraction) > 2 {
			return Euro{}, &DomainError{
				Code:    ErrCodeInvalidAmount,
				Message: fmt.Sprintf("amount %q has sub-cent precision", s),
			}
		}
		// "5" means 50 cents, "05" means 5 cents
		padded := fraction + strings.Repeat("0", 2-len(fraction))
		cents, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return Euro{}, &DomainError{
				Code:    ErrCodeInvalidAmount,
				Message: fmt.Sprintf("invalid amount string %q", s),
				Err:     err,
			}
		}
	}

	return Euro{cents: euros*100 + cents}, nil
}

func (e Euro) Cents() int64 {
	return e.cents
}

// String renders the canonical euro string with two fraction digits ("1.23").
func (e Euro) String() string {
	return fmt.Sprintf("%d.%02d", e.cents/100, e.cents%100)
}

func (e Euro) Equals(other Euro) bool {
	return e.cents == other.cents
}

func (e Euro) IsZero() bool {
	return e.cents == 0
}
