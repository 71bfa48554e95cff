package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type DonationRepository struct {
	db *DB
}

func NewDonationRepository(db *DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) GetDonationByID(ctx context.Context, id int64) (*domain.Donation, error) {
	query := `
		SELECT id, donor_first_name, donor_last_name, donor_email,
		       amount_cents, interval_months, payment_method, payment_data,
		       status, update_token, update_token_expiry, created_at
		FROM donations WHERE id = $1
	`

	var m donationModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.DonorFirstName, &m.DonorLastName, &m.DonorEmail,
		&m.AmountCents, &m.IntervalMonths, &m.PaymentMethod, &m.PaymentData,
		&m.Status, &m.UpdateToken, &m.UpdateTokenExpiry, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewDonationNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to scan donation: %w", err)
	}

	return toDomainModel(&m)
}

// StoreDonation persists the aggregate. For donations that carry a provider
// transaction ID, a row in donation_payment_transactions is written in the
// same transaction; its UNIQUE (donation_id, transaction_id) constraint is
// the authoritative duplicate-delivery boundary and surfaces as
// domain.ErrDuplicateTransaction.
func (r *DonationRepository) StoreDonation(ctx context.Context, donation *domain.Donation) error {
	m, err := toDBModel(donation)
	if err != nil {
		return err
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if m.ID == 0 {
		err = r.insert(ctx, tx, m)
		if err == nil {
			donation.ID = m.ID
		}
	} else {
		err = r.update(ctx, tx, m)
	}
	if err != nil {
		return err
	}

	if txnID := donation.TransactionID(); txnID != "" {
		query := `
			INSERT INTO donation_payment_transactions (donation_id, transaction_id, created_at)
			VALUES ($1, $2, NOW())
		`
		if _, err := tx.Exec(ctx, query, m.ID, txnID); err != nil {
			if IsUniqueViolation(err) {
				return domain.ErrDuplicateTransaction
			}
			return fmt.Errorf("record payment transaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) insert(ctx context.Context, tx pgx.Tx, m *donationModel) error {
	query := `
		INSERT INTO donations (
			donor_first_name, donor_last_name, donor_email,
			amount_cents, interval_months, payment_method, payment_data,
			status, update_token, update_token_expiry, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		m.DonorFirstName, m.DonorLastName, m.DonorEmail,
		m.AmountCents, m.IntervalMonths, m.PaymentMethod, m.PaymentData,
		m.Status, m.UpdateToken, m.UpdateTokenExpiry, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) update(ctx context.Context, tx pgx.Tx, m *donationModel) error {
	query := `
		UPDATE donations
		SET payment_data = $1,
		    status = $2,
		    update_token = $3,
		    update_token_expiry = $4
		WHERE id = $5
	`

	result, err := tx.Exec(ctx, query,
		m.PaymentData, m.Status, m.UpdateToken, m.UpdateTokenExpiry, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewDonationNotFoundError(m.ID)
	}

	return nil
}

// ClearExpiredTokens nulls update tokens whose expiry is in the past.
// Returns the number of donations touched; used by the token sweeper.
func (r *DonationRepository) ClearExpiredTokens(ctx context.Context, limit int) (int64, error) {
	query := `
		UPDATE donations
		SET update_token = NULL, update_token_expiry = NULL
		WHERE id IN (
			SELECT id FROM donations
			WHERE update_token IS NOT NULL AND update_token_expiry < NOW()
			ORDER BY update_token_expiry ASC
			LIMIT $1
		)
	`

	result, err := r.db.Pool.Exec(ctx, query, limit)
	if err != nil {
		return 0, fmt.Errorf("clear expired tokens: %w", err)
	}

	return result.RowsAffected(), nil
}
