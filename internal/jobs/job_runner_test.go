package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubstay-backend/internal/config"
	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/repository/memory"
	"clubstay-backend/internal/service"
)

var clubTZ = time.FixedZone("CST", -6*3600)

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 6, 0, 0, 0, clubTZ)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendArrivalsDigest(ctx context.Context, to string, day time.Time, checkIns, checkOuts []domain.Reservation) error {
	args := m.Called(ctx, to, day, checkIns, checkOuts)
	return args.Error(0)
}

func (m *MockEmailService) SendPendingBillingReminder(ctx context.Context, to string, stats *domain.BillingStats, pending []domain.BillingRecord) error {
	args := m.Called(ctx, to, stats, pending)
	return args.Error(0)
}

type fixture struct {
	runner       *JobRunner
	email        *MockEmailService
	reservations service.ReservationService
	billing      service.BillingService
}

func newFixture(t *testing.T, frontDesk, billingDesk string) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		email:        new(MockEmailService),
		reservations: service.NewReservationService(store.ReservationRepository, nil, fixedNow, clubTZ),
		billing:      service.NewBillingService(store.BillingRepository, nil, fixedNow, clubTZ),
	}
	cfg := &config.Config{SendGrid: config.SendGridConfig{FrontDeskEmail: frontDesk, BillingDeskEmail: billingDesk}}
	f.runner = NewJobRunner(&Services{Email: f.email, Reservations: f.reservations, Billing: f.billing}, cfg, clubTZ)
	f.runner.now = fixedNow
	return f
}

func (f *fixture) book(t *testing.T, code string, checkIn, checkOut time.Time) *domain.Reservation {
	t.Helper()
	res, err := f.reservations.CreateReservation(context.Background(), service.NewReservation{
		Code:         code,
		GuestName:    "Guest " + code,
		Location:     domain.LocationElSunzal,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		GuestCount:   2,
	})
	require.NoError(t, err)
	return res
}

func TestSendDailyArrivalsDigest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, "frontdesk@club.test", "")
		today := time.Date(2024, 6, 10, 0, 0, 0, 0, clubTZ)
		f.book(t, "ARR-1", today, today.AddDate(0, 0, 2))
		f.book(t, "LATER-1", today.AddDate(0, 0, 1), today.AddDate(0, 0, 3))

		f.email.On("SendArrivalsDigest", mock.Anything, "frontdesk@club.test",
			mock.MatchedBy(func(day time.Time) bool { return day.Equal(fixedNow()) }),
			mock.MatchedBy(func(in []domain.Reservation) bool { return len(in) == 1 && in[0].Code == "ARR-1" }),
			mock.MatchedBy(func(out []domain.Reservation) bool { return len(out) == 0 }),
		).Return(nil)

		f.runner.SendDailyArrivalsDigest()
		f.email.AssertExpectations(t)
	})

	t.Run("NoRecipientConfigured", func(t *testing.T) {
		f := newFixture(t, "", "")
		f.runner.SendDailyArrivalsDigest()
		f.email.AssertNotCalled(t, "SendArrivalsDigest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmailFailureDoesNotPanic", func(t *testing.T) {
		f := newFixture(t, "frontdesk@club.test", "")
		f.email.On("SendArrivalsDigest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		assert.NotPanics(t, f.runner.SendDailyArrivalsDigest)
		f.email.AssertExpectations(t)
	})
}

func TestSendPendingBillingReminder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, "", "billing@club.test")
		_, err := f.billing.CreateFromAccess(context.Background(), service.AccessInput{
			AccessID:        "acc-1",
			MemberName:      "Jorge Rivas",
			MemberCode:      "M-100",
			Location:        domain.LocationCorinto,
			CompanionsCount: 2,
			AccessTime:      fixedNow(),
			StaffName:       "Ana",
		})
		require.NoError(t, err)

		f.email.On("SendPendingBillingReminder", mock.Anything, "billing@club.test",
			mock.MatchedBy(func(s *domain.BillingStats) bool { return s.PendingCount == 1 && s.PendingAmountCents == 2000 }),
			mock.MatchedBy(func(p []domain.BillingRecord) bool { return len(p) == 1 }),
		).Return(nil)

		f.runner.SendPendingBillingReminder()
		f.email.AssertExpectations(t)
	})

	t.Run("NothingPending", func(t *testing.T) {
		f := newFixture(t, "", "billing@club.test")
		f.runner.SendPendingBillingReminder()
		f.email.AssertNotCalled(t, "SendPendingBillingReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestJobRunner_Run(t *testing.T) {
	f := newFixture(t, "", "")
	assert.True(t, f.runner.Run(JobDailyArrivalsDigest))
	assert.True(t, f.runner.Run(JobPendingBillingReminder))
	assert.True(t, f.runner.Run("all"))
	assert.False(t, f.runner.Run("nightly-cleanup"))
}

func TestRunWithRecovery(t *testing.T) {
	f := newFixture(t, "", "")
	assert.NotPanics(t, func() {
		f.runner.runWithRecovery("explodes", func() error { panic("boom") })
	})
}
