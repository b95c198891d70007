package repository

import (
	"context"
	"time"

	"clubstay-backend/internal/domain"
)

// ReservationFilter narrows List results. Zero values mean "any"; the date
// pairs bound the matching column to [from, to).
type ReservationFilter struct {
	Status       domain.ReservationStatus
	CheckInFrom  time.Time
	CheckInTo    time.Time
	CheckOutFrom time.Time
	CheckOutTo   time.Time
	OrderBy      ReservationOrder
	Limit        int
}

type ReservationOrder int

const (
	OrderByCreatedDesc ReservationOrder = iota
	OrderByCheckInAsc
	OrderByCheckInDesc
	OrderByCheckOutAsc
)

// ReservationMutation applies a state change to a locked reservation. It runs
// only after the store has verified the expected status.
type ReservationMutation func(r *domain.Reservation)

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	// GetByCode matches the reservation code case-insensitively.
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error)
	// Transition atomically checks that the reservation is in status from,
	// applies mutate and stores the result with status to.
	Transition(ctx context.Context, id string, from, to domain.ReservationStatus, mutate ReservationMutation) (*domain.Reservation, error)
}

type BillingFilter struct {
	Status      domain.BillingStatus
	CreatedFrom time.Time
	CreatedTo   time.Time
	Limit       int
}

// BillingMutation applies a resolution to a locked billing record.
type BillingMutation func(b *domain.BillingRecord)

type BillingRepository interface {
	Create(ctx context.Context, b *domain.BillingRecord) error
	GetByID(ctx context.Context, id string) (*domain.BillingRecord, error)
	// List returns records ordered by access time, newest first.
	List(ctx context.Context, filter BillingFilter) ([]domain.BillingRecord, error)
	Update(ctx context.Context, id string, mutate BillingMutation) (*domain.BillingRecord, error)
}
