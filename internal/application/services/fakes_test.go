package services

import (
	"context"
	"time"

	"github.com/spendenwerk/fundraising-backend/internal/application"
	"github.com/spendenwerk/fundraising-backend/internal/domain"
)

type fakeDonationRepo struct {
	donations map[int64]*domain.Donation
	storeErr  error
	stored    []*domain.Donation
}

func newFakeDonationRepo(donations ...*domain.Donation) *fakeDonationRepo {
	repo := &fakeDonationRepo{donations: map[int64]*domain.Donation{}}
	for _, d := range donations {
		repo.donations[d.ID] = d
	}
	return repo
}

func (r *fakeDonationRepo) GetDonationByID(ctx context.Context, id int64) (*domain.Donation, error) {
	donation, ok := r.donations[id]
	if !ok {
		return nil, domain.NewDonationNotFoundError(id)
	}
	return donation, nil
}

func (r *fakeDonationRepo) StoreDonation(ctx context.Context, donation *domain.Donation) error {
	if r.storeErr != nil {
		return r.storeErr
	}
	if donation.ID == 0 {
		donation.ID = int64(len(r.donations) + 1)
	}
	r.donations[donation.ID] = donation
	r.stored = append(r.stored, donation)
	return nil
}

type fakeMembershipRepo struct {
	applications map[int64]*domain.MembershipApplication
	storeErr     error
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{applications: map[int64]*domain.MembershipApplication{}}
}

func (r *fakeMembershipRepo) GetApplicationByID(ctx context.Context, id int64) (*domain.MembershipApplication, error) {
	app, ok := r.applications[id]
	if !ok {
		return nil, domain.NewApplicationNotFoundError(id)
	}
	return app, nil
}

func (r *fakeMembershipRepo) StoreApplication(ctx context.Context, app *domain.MembershipApplication) error {
	if r.storeErr != nil {
		return r.storeErr
	}
	if app.ID == 0 {
		app.ID = int64(len(r.applications) + 1)
	}
	r.applications[app.ID] = app
	return nil
}

type fakeTokenGenerator struct {
	token  string
	expiry time.Time
}

func (g *fakeTokenGenerator) NewToken() string {
	return g.token
}

func (g *fakeTokenGenerator) NewExpiry(now time.Time) time.Time {
	return g.expiry
}

type fakeVerifier struct {
	receiverAddress string
	verifyErr       error
	verifyCalls     int
}

func (v *fakeVerifier) ReceiverMatches(params map[string]string) bool {
	return params["receiver_email"] == v.receiverAddress
}

func (v *fakeVerifier) ItemNameMatches(params map[string]string) bool {
	return true
}

func (v *fakeVerifier) Verify(ctx context.Context, params map[string]string) error {
	v.verifyCalls++
	return v.verifyErr
}

type sentMail struct {
	recipient string
	args      application.ConfirmationArgs
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendConfirmation(ctx context.Context, recipient string, args application.ConfirmationArgs) error {
	m.sent = append(m.sent, sentMail{recipient: recipient, args: args})
	return m.err
}

type logCall struct {
	message string
	context map[string]string
}

type spyNotificationLog struct {
	calls []logCall
}

func (l *spyNotificationLog) Log(message string, context map[string]string) {
	l.calls = append(l.calls, logCall{message: message, context: context})
}

func mustEuro(s string) domain.Euro {
	e, err := domain.NewEuroFromString(s)
	if err != nil {
		panic(err)
	}
	return e
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}
