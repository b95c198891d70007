package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/repository"
	"clubstay-backend/internal/repository/memory"
	"clubstay-backend/internal/service"
)

// Club local time, UTC-6 all year.
var clubTZ = time.FixedZone("CST", -6*60*60)

// Monday 10 June 2024, 14:00 local.
var fixedNow = time.Date(2024, 6, 10, 14, 0, 0, 0, clubTZ)

type reservationFixture struct {
	svc  service.ReservationService
	repo repository.ReservationRepository
	pub  *MockPublisher
}

func newReservationFixture(clock service.Clock) *reservationFixture {
	repo := memory.NewReservationRepository()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return &reservationFixture{
		svc:  service.NewReservationService(repo, pub, clock, clubTZ),
		repo: repo,
		pub:  pub,
	}
}

func (f *reservationFixture) seed(t *testing.T, code string, status domain.ReservationStatus, checkIn, checkOut time.Time) *domain.Reservation {
	t.Helper()
	res := &domain.Reservation{
		Code:              code,
		GuestName:         "Guest " + code,
		AccommodationType: "cabin",
		AccommodationName: "Cabana 4",
		Location:          domain.LocationElSunzal,
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		GuestCount:        4,
		TotalAmountCents:  25000,
		Status:            status,
	}
	if status == domain.ReservationStatusCheckedIn || status == domain.ReservationStatusCheckedOut {
		res.CheckInDetails = &domain.CheckInDetails{CheckedInAt: checkIn, CheckedInBy: "seed"}
	}
	require.NoError(t, f.repo.Create(context.Background(), res))
	return res
}

func fixedClock() time.Time { return fixedNow }

func TestReservationService_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Success then second check-in rejected", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024001", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 2))

		callTime := time.Now()
		res, err := f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{
			CheckedInBy:       "Ana",
			GuestsPresent:     4,
			DocumentsVerified: true,
			KeyProvided:       true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCheckedIn, res.Status)
		require.NotNil(t, res.CheckInDetails)
		assert.False(t, res.CheckInDetails.CheckedInAt.Before(callTime))
		assert.Equal(t, 4, res.CheckInDetails.GuestsPresent)
		assert.Equal(t, "Ana", res.CheckInDetails.CheckedInBy)
		assert.Nil(t, res.CheckOutDetails)
		f.pub.AssertCalled(t, "Publish", mock.Anything, eventOfType(domain.EventReservationCheckedIn))

		_, err = f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{GuestsPresent: 4})
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "checked_in", stateErr.Current)
		assert.Contains(t, err.Error(), "checked_in")
	})

	t.Run("Arrival time defaults to now", func(t *testing.T) {
		f := newReservationFixture(fixedClock)
		seeded := f.seed(t, "CS2024010", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))

		res, err := f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{GuestsPresent: 2})
		require.NoError(t, err)
		assert.True(t, res.CheckInDetails.ActualArrivalTime.Equal(fixedNow))
		assert.True(t, res.CheckInDetails.CheckedInAt.Equal(fixedNow))
	})

	t.Run("Not found", func(t *testing.T) {
		f := newReservationFixture(nil)
		_, err := f.svc.CheckIn(ctx, "missing", service.CheckInInput{})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("No reversal from checked_out", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024011", domain.ReservationStatusCheckedOut, fixedNow, fixedNow.AddDate(0, 0, 1))

		_, err := f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{})
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "checked_out", stateErr.Current)
	})

	t.Run("Negative guests rejected", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024012", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))

		_, err := f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{GuestsPresent: -1})
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		stored, err := f.repo.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, stored.Status)
	})

	t.Run("Concurrent check-ins admit exactly one", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024013", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))

		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{GuestsPresent: 1}); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
	})
}

func TestReservationService_CheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("Success then second check-out rejected", func(t *testing.T) {
		f := newReservationFixture(fixedClock)
		seeded := f.seed(t, "CS2024004", domain.ReservationStatusCheckedIn, fixedNow.AddDate(0, 0, -2), fixedNow)

		res, err := f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{
			CheckedOutBy:    "Luis",
			RoomCondition:   domain.RoomConditionGood,
			DamagesReported: false,
			KeyReturned:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCheckedOut, res.Status)
		require.NotNil(t, res.CheckOutDetails)
		assert.Equal(t, domain.RoomConditionGood, res.CheckOutDetails.RoomCondition)
		assert.True(t, res.CheckOutDetails.CheckedOutAt.Equal(fixedNow))
		assert.NotNil(t, res.CheckInDetails)

		_, err = f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{RoomCondition: domain.RoomConditionGood})
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "checked_out", stateErr.Current)
	})

	t.Run("Cannot skip check-in", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024005", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))

		_, err := f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{RoomCondition: domain.RoomConditionFair})
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "confirmed", stateErr.Current)
		assert.Contains(t, err.Error(), "confirmed")
	})

	t.Run("Invalid input", func(t *testing.T) {
		f := newReservationFixture(nil)
		seeded := f.seed(t, "CS2024006", domain.ReservationStatusCheckedIn, fixedNow, fixedNow.AddDate(0, 0, 1))

		var validationErr *domain.ValidationError
		_, err := f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{RoomCondition: "spotless"})
		assert.ErrorAs(t, err, &validationErr)

		_, err = f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{RoomCondition: domain.RoomConditionPoor, DamagesReported: true})
		assert.ErrorAs(t, err, &validationErr)

		_, err = f.svc.CheckOut(ctx, seeded.ID, service.CheckOutInput{RoomCondition: domain.RoomConditionGood, AdditionalChargesCents: -5})
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestReservationService_FindByCode(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(nil)
	seeded := f.seed(t, "CS2024001", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))

	res, err := f.svc.FindByCode(ctx, "cs2024001")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, res.ID)

	_, err = f.svc.FindByCode(ctx, "CS2024")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.svc.FindByCode(ctx, "  ")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestReservationService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(fixedClock)

	today := time.Date(2024, 6, 10, 0, 0, 0, 0, clubTZ)
	late := f.seed(t, "CS-IN-LATE", domain.ReservationStatusConfirmed, today.Add(16*time.Hour), today.AddDate(0, 0, 2))
	early := f.seed(t, "CS-IN-EARLY", domain.ReservationStatusConfirmed, today.Add(9*time.Hour), today.AddDate(0, 0, 1))
	f.seed(t, "CS-TOMORROW", domain.ReservationStatusConfirmed, today.AddDate(0, 0, 1).Add(10*time.Hour), today.AddDate(0, 0, 3))
	f.seed(t, "CS-CANCELLED", domain.ReservationStatusCancelled, today.Add(10*time.Hour), today.AddDate(0, 0, 1))

	leaving := f.seed(t, "CS-OUT-TODAY", domain.ReservationStatusCheckedIn, today.AddDate(0, 0, -3), today.Add(11*time.Hour))
	staying := f.seed(t, "CS-STAYING", domain.ReservationStatusCheckedIn, today.AddDate(0, 0, -1), today.AddDate(0, 0, 2))
	f.seed(t, "CS-DONE", domain.ReservationStatusCheckedOut, today.AddDate(0, 0, -4), today.Add(8*time.Hour))

	t.Run("Today check-ins exclude tomorrow", func(t *testing.T) {
		list, err := f.svc.TodayCheckIns(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, early.ID, list[0].ID)
		assert.Equal(t, late.ID, list[1].ID)
	})

	t.Run("Today check-outs", func(t *testing.T) {
		list, err := f.svc.TodayCheckOuts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, leaving.ID, list[0].ID)
	})

	t.Run("Active newest check-in first", func(t *testing.T) {
		list, err := f.svc.ActiveReservations(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, staying.ID, list[0].ID)
		assert.Equal(t, leaving.ID, list[1].ID)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TodayCheckIns)
		assert.Equal(t, 1, stats.TodayCheckOuts)
		assert.Equal(t, 2, stats.ActiveReservations)
		assert.Equal(t, int64(50000), stats.ActiveRevenueCents)
	})
}

func TestReservationService_CreateReservation(t *testing.T) {
	ctx := context.Background()
	input := service.NewReservation{
		Code:         "cs2024100",
		GuestName:    "Maria Lopez",
		Location:     domain.LocationCorinto,
		CheckInDate:  fixedNow.AddDate(0, 0, 5),
		CheckOutDate: fixedNow.AddDate(0, 0, 7),
		GuestCount:   3,
	}

	t.Run("Success", func(t *testing.T) {
		f := newReservationFixture(fixedClock)
		res, err := f.svc.CreateReservation(ctx, input)
		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "CS2024100", res.Code)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
		f.pub.AssertCalled(t, "Publish", mock.Anything, eventOfType(domain.EventReservationCreated))

		_, err = f.svc.CreateReservation(ctx, input)
		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("Check-out before check-in", func(t *testing.T) {
		f := newReservationFixture(fixedClock)
		bad := input
		bad.CheckOutDate = bad.CheckInDate
		_, err := f.svc.CreateReservation(ctx, bad)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "check_out_date", validationErr.Field)
	})

	t.Run("Unknown location", func(t *testing.T) {
		f := newReservationFixture(fixedClock)
		bad := input
		bad.Location = "Atlantis"
		_, err := f.svc.CreateReservation(ctx, bad)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestReservationService_CancelReservation(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(fixedClock)

	t.Run("Confirmed can be cancelled", func(t *testing.T) {
		seeded := f.seed(t, "CS2024200", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))
		res, err := f.svc.CancelReservation(ctx, seeded.ID, "Ana", "guest request")
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCancelled, res.Status)
		assert.Equal(t, "guest request", res.CancellationReason)
		require.NotNil(t, res.CancelledAt)
		assert.True(t, res.CancelledAt.Equal(fixedNow))

		_, err = f.svc.CheckIn(ctx, seeded.ID, service.CheckInInput{})
		var stateErr *domain.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})

	t.Run("Checked-in cannot be cancelled", func(t *testing.T) {
		seeded := f.seed(t, "CS2024201", domain.ReservationStatusCheckedIn, fixedNow, fixedNow.AddDate(0, 0, 1))
		_, err := f.svc.CancelReservation(ctx, seeded.ID, "Ana", "late")
		var stateErr *domain.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})
}

func TestReservationService_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReservationRepository()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc := service.NewReservationService(repo, pub, fixedClock, clubTZ)

	res := &domain.Reservation{Code: "CS2024300", Status: domain.ReservationStatusConfirmed, CheckInDate: fixedNow, CheckOutDate: fixedNow.AddDate(0, 0, 1)}
	require.NoError(t, repo.Create(ctx, res))

	updated, err := svc.CheckIn(ctx, res.ID, service.CheckInInput{GuestsPresent: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCheckedIn, updated.Status)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestReservationService_ListReservations(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(fixedClock)
	f.seed(t, "CS-A", domain.ReservationStatusConfirmed, fixedNow, fixedNow.AddDate(0, 0, 1))
	f.seed(t, "CS-B", domain.ReservationStatusCheckedIn, fixedNow, fixedNow.AddDate(0, 0, 1))

	list, err := f.svc.ListReservations(ctx, domain.ReservationStatusCheckedIn, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CS-B", list[0].Code)

	_, err = f.svc.ListReservations(ctx, "archived", 0)
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
