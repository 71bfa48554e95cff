package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

func toDBModel(d *domain.Donation) (*donationModel, error) {
	paymentData, err := marshalPaymentData(d.Payment.Method)
	if err != nil {
		return nil, err
	}

	m := &donationModel{
		ID:             d.ID,
		DonorFirstName: d.Donor.FirstName,
		DonorLastName:  d.Donor.LastName,
		DonorEmail:     d.Donor.Email,
		AmountCents:    d.Payment.Amount.Cents(),
		IntervalMonths: d.Payment.IntervalInMonths,
		PaymentMethod:  string(d.Payment.Method.Name()),
		PaymentData:    paymentData,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
	}

	if d.UpdateToken != "" {
		token := d.UpdateToken
		expiry := d.UpdateTokenExpiry
		m.UpdateToken = &token
		m.UpdateTokenExpiry = &expiry
	}

	return m, nil
}

func toDomainModel(m *donationModel) (*domain.Donation, error) {
	amount, err := domain.NewEuroFromCents(m.AmountCents)
	if err != nil {
		return nil, err
	}

	method, err := unmarshalPaymentData(m.PaymentMethod, m.PaymentData)
	if err != nil {
		return nil, err
	}

	d := &domain.Donation{
		ID: m.ID,
		Donor: domain.Donor{
			FirstName: m.DonorFirstName,
			LastName:  m.DonorLastName,
			Email:     m.DonorEmail,
		},
		Payment: domain.Payment{
			Amount:           amount,
			IntervalInMonths: m.IntervalMonths,
			Method:           method,
		},
		Status:    domain.DonationStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}

	if m.UpdateToken != nil {
		d.UpdateToken = *m.UpdateToken
	}
	if m.UpdateTokenExpiry != nil {
		d.UpdateTokenExpiry = *m.UpdateTokenExpiry
	}

	return d, nil
}

func marshalPaymentData(method domain.PaymentMethod) ([]byte, error) {
	switch m := method.(type) {
	case *domain.CreditCardPayment:
		if m.Data == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(creditCardDataModel{
			TransactionID:        m.Data.TransactionID,
			CustomerID:           m.Data.CustomerID,
			SessionID:            m.Data.SessionID,
			AuthID:               m.Data.AuthID,
			Title:                m.Data.Title,
			CountryCode:          m.Data.CountryCode,
			CurrencyCode:         m.Data.CurrencyCode,
			AmountCents:          m.Data.Amount.Cents(),
			TransactionStatus:    m.Data.TransactionStatus,
			TransactionTimestamp: m.Data.TransactionTimestamp,
			CardExpiry:           m.Data.CardExpiry,
		})

	case *domain.PayPalPayment:
		if m.Data == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(payPalDataModel{
			PayerID:          m.Data.PayerID,
			SubscriberID:     m.Data.SubscriberID,
			PayerStatus:      m.Data.PayerStatus,
			AddressStatus:    m.Data.AddressStatus,
			AddressName:      m.Data.AddressName,
			FirstName:        m.Data.FirstName,
			LastName:         m.Data.LastName,
			CurrencyCode:     m.Data.CurrencyCode,
			FeeCents:         m.Data.Fee.Cents(),
			GrossCents:       m.Data.Amount.Cents(),
			SettleCents:      m.Data.SettleAmount.Cents(),
			PaymentID:        m.Data.PaymentID,
			PaymentType:      m.Data.PaymentType,
			PaymentStatus:    m.Data.PaymentStatus,
			PaymentTimestamp: m.Data.PaymentTimestamp,
		})

	case *domain.BankTransferPayment:
		return json.Marshal(bankTransferDataModel{TransferCode: m.TransferCode})

	case *domain.SofortPayment:
		return json.Marshal(sofortDataModel{TransferCode: m.TransferCode, ConfirmedAt: m.ConfirmedAt})

	default:
		return nil, fmt.Errorf("unknown payment method %T", method)
	}
}

func unmarshalPaymentData(methodName string, data []byte) (domain.PaymentMethod, error) {
	switch domain.PaymentMethodName(methodName) {
	case domain.PaymentMethodCreditCard:
		var m creditCardDataModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal credit card data: %w", err)
		}
		payment := &domain.CreditCardPayment{}
		if m.TransactionID != "" {
			amount, err := domain.NewEuroFromCents(m.AmountCents)
			if err != nil {
				return nil, err
			}
			payment.Data = &domain.CreditCardData{
				TransactionID:        m.TransactionID,
				CustomerID:           m.CustomerID,
				SessionID:            m.SessionID,
				AuthID:               m.AuthID,
				Title:                m.Title,
				CountryCode:          m.CountryCode,
				CurrencyCode:         m.CurrencyCode,
				Amount:               amount,
				TransactionStatus:    m.TransactionStatus,
				TransactionTimestamp: m.TransactionTimestamp,
				CardExpiry:           m.CardExpiry,
			}
		}
		return payment, nil

	case domain.PaymentMethodPayPal:
		var m payPalDataModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal paypal data: %w", err)
		}
		payment := &domain.PayPalPayment{}
		if m.PaymentID != "" {
			fee, err := domain.NewEuroFromCents(m.FeeCents)
			if err != nil {
				return nil, err
			}
			gross, err := domain.NewEuroFromCents(m.GrossCents)
			if err != nil {
				return nil, err
			}
			settle, err := domain.NewEuroFromCents(m.SettleCents)
			if err != nil {
				return nil, err
			}
			payment.Data = &domain.PayPalData{
				PayerID:          m.PayerID,
				SubscriberID:     m.SubscriberID,
				PayerStatus:      m.PayerStatus,
				AddressStatus:    m.AddressStatus,
				AddressName:      m.AddressName,
				FirstName:        m.FirstName,
				LastName:         m.LastName,
				CurrencyCode:     m.CurrencyCode,
				Fee:              fee,
				Amount:           gross,
				SettleAmount:     settle,
				PaymentID:        m.PaymentID,
				PaymentType:      m.PaymentType,
				PaymentStatus:    m.PaymentStatus,
				PaymentTimestamp: m.PaymentTimestamp,
			}
		}
		return payment, nil

	case domain.PaymentMethodBankTransfer:
		var m bankTransferDataModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal bank transfer data: %w", err)
		}
		return &domain.BankTransferPayment{TransferCode: m.TransferCode}, nil

	case domain.PaymentMethodSofort:
		var m sofortDataModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal sofort data: %w", err)
		}
		return &domain.SofortPayment{TransferCode: m.TransferCode, ConfirmedAt: m.ConfirmedAt}, nil

	default:
		return nil, fmt.Errorf("unknown payment method %q", methodName)
	}
}
