package services

// Outcome is the terminal state of processing one provider notification.
// The REST layer maps outcomes to the provider-facing status/body contract.
type Outcome int

const (
	// OutcomeApplied: first-time, authorized completion; donation mutated
	// and confirmation dispatched.
	OutcomeApplied Outcome = iota
	// OutcomeDuplicate: the transaction was already recorded; acknowledged
	// without side effects so the provider stops retrying.
	OutcomeDuplicate
	// OutcomeIgnored: well-formed but unsupported notification type; logged
	// for manual review and acknowledged.
	OutcomeIgnored
	// OutcomeBadRequest: malformed payload or unresolvable donation; the
	// provider's data is at fault, not its verification, so this is
	// acknowledged rather than rejected (fail soft).
	OutcomeBadRequest
	// OutcomeReceiverMismatch: declared receiver is not our merchant address.
	OutcomeReceiverMismatch
	// OutcomeVerificationFailed: the provider did not confirm the message.
	OutcomeVerificationFailed
	// OutcomeUnsupportedCurrency: declared currency is outside the supported set.
	OutcomeUnsupportedCurrency
	// OutcomeAuthorizationFailed: update token missing, wrong, or expired.
	OutcomeAuthorizationFailed
	// OutcomeError: persistence or other internal failure; surfaced as a
	// server error so the provider retries.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeReceiverMismatch:
		return "receiver_mismatch"
	case OutcomeVerificationFailed:
		return "verification_failed"
	case OutcomeUnsupportedCurrency:
		return "unsupported_currency"
	case OutcomeAuthorizationFailed:
		return "authorization_failed"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}
