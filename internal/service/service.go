package service

import (
	"context"
	"time"

	"clubstay-backend/internal/domain"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

type ReservationService interface {
	CreateReservation(ctx context.Context, in NewReservation) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	ListReservations(ctx context.Context, status domain.ReservationStatus, limit int) ([]domain.Reservation, error)
	FindByCode(ctx context.Context, code string) (*domain.Reservation, error)
	CheckIn(ctx context.Context, reservationID string, in CheckInInput) (*domain.Reservation, error)
	CheckOut(ctx context.Context, reservationID string, in CheckOutInput) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, cancelledBy, reason string) (*domain.Reservation, error)

	// Dashboard queries; "today" is the local calendar day of the configured time zone.
	TodayCheckIns(ctx context.Context) ([]domain.Reservation, error)
	TodayCheckOuts(ctx context.Context) ([]domain.Reservation, error)
	ActiveReservations(ctx context.Context) ([]domain.Reservation, error)
	Stats(ctx context.Context) (*domain.ReservationStats, error)
}

type BillingService interface {
	CreateFromAccess(ctx context.Context, in AccessInput) (*domain.BillingRecord, error)
	Get(ctx context.Context, id string) (*domain.BillingRecord, error)
	Process(ctx context.Context, id, processedBy, notes string) (*domain.BillingRecord, error)
	Cancel(ctx context.Context, id, cancelledBy, reason string) (*domain.BillingRecord, error)
	Pending(ctx context.Context) ([]domain.BillingRecord, error)
	All(ctx context.Context, limit int) ([]domain.BillingRecord, error)
	Stats(ctx context.Context) (*domain.BillingStats, error)
	Rules() []domain.PricingRule
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (*LoginResult, error)
}

type EmailService interface {
	SendArrivalsDigest(ctx context.Context, to string, day time.Time, checkIns, checkOuts []domain.Reservation) error
	SendPendingBillingReminder(ctx context.Context, to string, stats *domain.BillingStats, pending []domain.BillingRecord) error
}

// NewReservation carries the fields needed to book a stay.
type NewReservation struct {
	Code              string
	GuestName         string
	GuestEmail        string
	GuestPhone        string
	AccommodationType string
	AccommodationName string
	Location          domain.Location
	CheckInDate       time.Time
	CheckOutDate      time.Time
	GuestCount        int
	TotalAmountCents  int64
}

// CheckInInput holds the front desk fields recorded at arrival. A zero
// ActualArrivalTime means the guest arrived now.
type CheckInInput struct {
	CheckedInBy       string
	ActualArrivalTime time.Time
	GuestsPresent     int
	DocumentsVerified bool
	KeyProvided       bool
	Notes             string
}

type CheckOutInput struct {
	CheckedOutBy           string
	ActualDepartureTime    time.Time
	RoomCondition          domain.RoomCondition
	DamagesReported        bool
	DamageDescription      string
	CleaningRequired       bool
	KeyReturned            bool
	AdditionalChargesCents int64
	Comments               string
}

// AccessInput describes a member entering the club with companions.
type AccessInput struct {
	AccessID        string
	MemberName      string
	MemberCode      string
	MembershipType  string
	Location        domain.Location
	CompanionsCount int
	AccessTime      time.Time
	StaffName       string
	Notes           string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Staff       *domain.Staff
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func locationOrDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
