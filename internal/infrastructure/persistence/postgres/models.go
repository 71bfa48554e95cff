package postgres

import "time"

// donationModel mirrors the donations table. Method-specific payment data
// lives in a JSONB column keyed by the payment method discriminator.
type donationModel struct {
	ID                int64
	DonorFirstName    string
	DonorLastName     string
	DonorEmail        string
	AmountCents       int64
	IntervalMonths    int
	PaymentMethod     string
	PaymentData       []byte
	Status            string
	UpdateToken       *string
	UpdateTokenExpiry *time.Time
	CreatedAt         time.Time
}

// creditCardDataModel is the JSONB shape of the credit card slot.
type creditCardDataModel struct {
	TransactionID        string `json:"transaction_id"`
	CustomerID           string `json:"customer_id"`
	SessionID            string `json:"session_id"`
	AuthID               string `json:"auth_id"`
	Title                string `json:"title"`
	CountryCode          string `json:"country_code"`
	CurrencyCode         string `json:"currency_code"`
	AmountCents          int64  `json:"amount_cents"`
	TransactionStatus    string `json:"transaction_status,omitempty"`
	TransactionTimestamp string `json:"transaction_timestamp,omitempty"`
	CardExpiry           string `json:"card_expiry,omitempty"`
}

// payPalDataModel is the JSONB shape of the PayPal slot.
type payPalDataModel struct {
	PayerID          string `json:"payer_id"`
	SubscriberID     string `json:"subscriber_id"`
	PayerStatus      string `json:"payer_status"`
	AddressStatus    string `json:"address_status"`
	AddressName      string `json:"address_name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	CurrencyCode     string `json:"currency_code"`
	FeeCents         int64  `json:"fee_cents"`
	GrossCents       int64  `json:"gross_cents"`
	SettleCents      int64  `json:"settle_cents"`
	PaymentID        string `json:"payment_id"`
	PaymentType      string `json:"payment_type"`
	PaymentStatus    string `json:"payment_status"`
	PaymentTimestamp string `json:"payment_timestamp"`
}

type bankTransferDataModel struct {
	TransferCode string `json:"transfer_code"`
}

type sofortDataModel struct {
	TransferCode string `json:"transfer_code"`
	ConfirmedAt  string `json:"confirmed_at,omitempty"`
}

type membershipModel struct {
	ID             int64
	Type           string
	FirstName      string
	LastName       string
	Email          string
	FeeCents       int64
	IntervalMonths int
	Confirmed      bool
	Cancelled      bool
	CreatedAt      time.Time
}
