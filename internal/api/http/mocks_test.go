package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/service"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, in service.NewReservation) (*domain.Reservation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservations(ctx context.Context, status domain.ReservationStatus, limit int) ([]domain.Reservation, error) {
	args := m.Called(ctx, status, limit)
	return reservations(args.Get(0)), args.Error(1)
}

func (m *MockReservationService) FindByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CheckIn(ctx context.Context, id string, in service.CheckInInput) (*domain.Reservation, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CheckOut(ctx context.Context, id string, in service.CheckOutInput) (*domain.Reservation, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, id, by, reason string) (*domain.Reservation, error) {
	args := m.Called(ctx, id, by, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) TodayCheckIns(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return reservations(args.Get(0)), args.Error(1)
}

func (m *MockReservationService) TodayCheckOuts(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return reservations(args.Get(0)), args.Error(1)
}

func (m *MockReservationService) ActiveReservations(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return reservations(args.Get(0)), args.Error(1)
}

func (m *MockReservationService) Stats(ctx context.Context) (*domain.ReservationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReservationStats), args.Error(1)
}

func reservations(v interface{}) []domain.Reservation {
	if v == nil {
		return nil
	}
	return v.([]domain.Reservation)
}

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) CreateFromAccess(ctx context.Context, in service.AccessInput) (*domain.BillingRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) Get(ctx context.Context, id string) (*domain.BillingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) Process(ctx context.Context, id, by, notes string) (*domain.BillingRecord, error) {
	args := m.Called(ctx, id, by, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) Cancel(ctx context.Context, id, by, reason string) (*domain.BillingRecord, error) {
	args := m.Called(ctx, id, by, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) Pending(ctx context.Context) ([]domain.BillingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) All(ctx context.Context, limit int) ([]domain.BillingRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}

func (m *MockBillingService) Stats(ctx context.Context) (*domain.BillingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingStats), args.Error(1)
}

func (m *MockBillingService) Rules() []domain.PricingRule {
	args := m.Called()
	return args.Get(0).([]domain.PricingRule)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, login, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}
