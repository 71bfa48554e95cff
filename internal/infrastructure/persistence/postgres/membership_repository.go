package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type MembershipRepository struct {
	db *DB
}

func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetApplicationByID(ctx context.Context, id int64) (*domain.MembershipApplication, error) {
	query := `
		SELECT id, type, first_name, last_name, email,
		       fee_cents, interval_months, confirmed, cancelled, created_at
		FROM membership_applications WHERE id = $1
	`

	var m membershipModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Type, &m.FirstName, &m.LastName, &m.Email,
		&m.FeeCents, &m.IntervalMonths, &m.Confirmed, &m.Cancelled, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewApplicationNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to scan membership application: %w", err)
	}

	fee, err := domain.NewEuroFromCents(m.FeeCents)
	if err != nil {
		return nil, err
	}

	return &domain.MembershipApplication{
		ID:   m.ID,
		Type: domain.MembershipType(m.Type),
		Applicant: domain.Donor{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
		},
		FeeAmount:             fee,
		PaymentIntervalMonths: m.IntervalMonths,
		Confirmed:             m.Confirmed,
		Cancelled:             m.Cancelled,
		CreatedAt:             m.CreatedAt,
	}, nil
}

func (r *MembershipRepository) StoreApplication(ctx context.Context, app *domain.MembershipApplication) error {
	if app.ID == 0 {
		query := `
			INSERT INTO membership_applications (
				type, first_name, last_name, email,
				fee_cents, interval_months, confirmed, cancelled, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`
		err := r.db.Pool.QueryRow(ctx, query,
			string(app.Type), app.Applicant.FirstName, app.Applicant.LastName, app.Applicant.Email,
			app.FeeAmount.Cents(), app.PaymentIntervalMonths, app.Confirmed, app.Cancelled, app.CreatedAt,
		).Scan(&app.ID)
		if err != nil {
			return fmt.Errorf("failed to create membership application: %w", err)
		}
		return nil
	}

	query := `
		UPDATE membership_applications
		SET confirmed = $1, cancelled = $2
		WHERE id = $3
	`
	result, err := r.db.Pool.Exec(ctx, query, app.Confirmed, app.Cancelled, app.ID)
	if err != nil {
		return fmt.Errorf("failed to update membership application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewApplicationNotFoundError(app.ID)
	}

	return nil
}
