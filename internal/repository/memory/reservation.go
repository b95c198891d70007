package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/repository"
)

type reservationRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Reservation
	byCode map[string]string
	now    func() time.Time
}

func NewReservationRepository() repository.ReservationRepository {
	return &reservationRepository{
		byID:   make(map[string]*domain.Reservation),
		byCode: make(map[string]string),
		now:    time.Now,
	}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := domain.NormalizeCode(res.Code)
	if _, exists := r.byCode[code]; exists {
		return &domain.ConflictError{Entity: "reservation", Key: res.Code}
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if _, exists := r.byID[res.ID]; exists {
		return &domain.ConflictError{Entity: "reservation", Key: res.ID}
	}
	now := r.now()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	r.byID[res.ID] = cloneReservation(res)
	r.byCode[code] = res.ID
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: id}
	}
	return cloneReservation(res), nil
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[domain.NormalizeCode(code)]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: code}
	}
	return cloneReservation(r.byID[id]), nil
}

func (r *reservationRepository) List(ctx context.Context, filter repository.ReservationFilter) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reservation, 0)
	for _, res := range r.byID {
		if matchReservation(res, filter) {
			out = append(out, *cloneReservation(res))
		}
	}
	sortReservations(out, filter.OrderBy)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *reservationRepository) Transition(ctx context.Context, id string, from, to domain.ReservationStatus, mutate repository.ReservationMutation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: id}
	}
	if current.Status != from {
		return nil, &domain.InvalidStateError{
			Entity:   "reservation",
			ID:       id,
			Current:  string(current.Status),
			Expected: string(from),
		}
	}

	next := cloneReservation(current)
	if mutate != nil {
		mutate(next)
	}
	next.Status = to
	next.UpdatedAt = r.now()
	r.byID[id] = next
	return cloneReservation(next), nil
}

func matchReservation(res *domain.Reservation, f repository.ReservationFilter) bool {
	if f.Status != "" && res.Status != f.Status {
		return false
	}
	if !inRange(res.CheckInDate, f.CheckInFrom, f.CheckInTo) {
		return false
	}
	if !inRange(res.CheckOutDate, f.CheckOutFrom, f.CheckOutTo) {
		return false
	}
	return true
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func sortReservations(list []domain.Reservation, order repository.ReservationOrder) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch order {
		case repository.OrderByCheckInAsc:
			return a.CheckInDate.Before(b.CheckInDate)
		case repository.OrderByCheckInDesc:
			return a.CheckInDate.After(b.CheckInDate)
		case repository.OrderByCheckOutAsc:
			return a.CheckOutDate.Before(b.CheckOutDate)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func cloneReservation(src *domain.Reservation) *domain.Reservation {
	dst := *src
	if src.CheckInDetails != nil {
		d := *src.CheckInDetails
		dst.CheckInDetails = &d
	}
	if src.CheckOutDetails != nil {
		d := *src.CheckOutDetails
		dst.CheckOutDetails = &d
	}
	if src.CancelledAt != nil {
		t := *src.CancelledAt
		dst.CancelledAt = &t
	}
	return &dst
}
