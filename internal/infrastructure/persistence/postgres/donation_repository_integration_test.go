package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/spendenwerk/fundraising-backend/internal/domain"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/persistence/postgres"
	"github.com/spendenwerk/fundraising-backend/internal/infrastructure/persistence/postgres/testhelpers"
)

type DonationRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	repo   *postgres.DonationRepository
	ctx    context.Context
}

func TestDonationRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed repository tests in short mode")
	}
	suite.Run(t, new(DonationRepositoryTestSuite))
}

func (s *DonationRepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	s.repo = postgres.NewDonationRepository(s.testDB.DB)
}

func (s *DonationRepositoryTestSuite) TearDownSuite() {
	s.testDB.Cleanup(s.T())
}

func (s *DonationRepositoryTestSuite) SetupTest() {
	s.testDB.CleanTables(s.T())
}

func (s *DonationRepositoryTestSuite) newPendingDonation() *domain.Donation {
	amount, err := domain.NewEuroFromString("12.70")
	s.Require().NoError(err)

	return &domain.Donation{
		Donor: domain.Donor{
			FirstName: "Generous",
			LastName:  "Donor",
			Email:     "donor@example.com",
		},
		Payment: domain.Payment{
			Amount:           amount,
			IntervalInMonths: 1,
			Method:           &domain.PayPalPayment{},
		},
		Status:            domain.StatusAuthorizationPending,
		UpdateToken:       "my_secret_token",
		UpdateTokenExpiry: time.Now().Add(time.Hour).UTC(),
		CreatedAt:         time.Now().UTC(),
	}
}

func (s *DonationRepositoryTestSuite) TestStoreAndLoadRoundTrip() {
	donation := s.newPendingDonation()

	err := s.repo.StoreDonation(s.ctx, donation)
	s.Require().NoError(err)
	s.Require().NotZero(donation.ID, "insert must assign the generated ID")

	loaded, err := s.repo.GetDonationByID(s.ctx, donation.ID)
	s.Require().NoError(err)

	s.Equal(donation.Donor, loaded.Donor)
	s.Equal(int64(1270), loaded.Payment.Amount.Cents())
	s.Equal(1, loaded.Payment.IntervalInMonths)
	s.Equal(domain.PaymentMethodPayPal, loaded.Payment.Method.Name())
	s.Equal(domain.StatusAuthorizationPending, loaded.Status)
	s.Equal("my_secret_token", loaded.UpdateToken)
}

func (s *DonationRepositoryTestSuite) TestGetDonationByID_NotFound() {
	_, err := s.repo.GetDonationByID(s.ctx, 4242)

	var domainErr *domain.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(domain.ErrCodeDonationNotFound, domainErr.Code)
}

func (s *DonationRepositoryTestSuite) TestBookingPersistsPaymentDataAndTransaction() {
	donation := s.newPendingDonation()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, donation))

	amount, _ := domain.NewEuroFromString("12.70")
	fee, _ := domain.NewEuroFromString("0.47")
	s.Require().NoError(donation.ConfirmPayPalPayment(&domain.PayPalData{
		PayerID:       "LPLWNMTBWMFAY",
		PayerStatus:   "verified",
		CurrencyCode:  "EUR",
		Amount:        amount,
		Fee:           fee,
		PaymentID:     "T4242",
		PaymentType:   "instant",
		PaymentStatus: "Completed/express_checkout",
	}))
	s.Require().NoError(s.repo.StoreDonation(s.ctx, donation))

	loaded, err := s.repo.GetDonationByID(s.ctx, donation.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusBooked, loaded.Status)

	payment, ok := loaded.Payment.Method.(*domain.PayPalPayment)
	s.Require().True(ok)
	s.Require().NotNil(payment.Data)
	s.Equal("T4242", payment.Data.PaymentID)
	s.Equal("Completed/express_checkout", payment.Data.PaymentStatus)
	s.Equal(int64(47), payment.Data.Fee.Cents())
}

func (s *DonationRepositoryTestSuite) TestDuplicateTransactionRejected() {
	first := s.newPendingDonation()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, first))
	s.Require().NoError(first.ConfirmPayPalPayment(&domain.PayPalData{PaymentID: "T4242"}))
	s.Require().NoError(s.repo.StoreDonation(s.ctx, first))

	// a second write of the same transaction must hit the unique constraint
	reloaded, err := s.repo.GetDonationByID(s.ctx, first.ID)
	s.Require().NoError(err)

	err = s.repo.StoreDonation(s.ctx, reloaded)
	s.Require().ErrorIs(err, domain.ErrDuplicateTransaction)
}

func (s *DonationRepositoryTestSuite) TestSameTransactionOnDifferentDonationsAllowed() {
	first := s.newPendingDonation()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, first))
	s.Require().NoError(first.ConfirmPayPalPayment(&domain.PayPalData{PaymentID: "T4242"}))
	s.Require().NoError(s.repo.StoreDonation(s.ctx, first))

	second := s.newPendingDonation()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, second))
	s.Require().NoError(second.ConfirmPayPalPayment(&domain.PayPalData{PaymentID: "T4242"}))
	s.Require().NoError(s.repo.StoreDonation(s.ctx, second))
}

func (s *DonationRepositoryTestSuite) TestUpdateMissingDonation() {
	donation := s.newPendingDonation()
	donation.ID = 4242

	err := s.repo.StoreDonation(s.ctx, donation)

	var domainErr *domain.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(domain.ErrCodeDonationNotFound, domainErr.Code)
}

func (s *DonationRepositoryTestSuite) TestClearExpiredTokens() {
	expired := s.newPendingDonation()
	expired.UpdateTokenExpiry = time.Now().Add(-time.Hour).UTC()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, expired))

	fresh := s.newPendingDonation()
	s.Require().NoError(s.repo.StoreDonation(s.ctx, fresh))

	cleared, err := s.repo.ClearExpiredTokens(s.ctx, 100)
	s.Require().NoError(err)
	s.Equal(int64(1), cleared)

	loaded, err := s.repo.GetDonationByID(s.ctx, expired.ID)
	s.Require().NoError(err)
	s.Empty(loaded.UpdateToken)

	kept, err := s.repo.GetDonationByID(s.ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal("my_secret_token", kept.UpdateToken)

	cleared, err = s.repo.ClearExpiredTokens(s.ctx, 100)
	s.Require().NoError(err)
	s.Zero(cleared)
}
