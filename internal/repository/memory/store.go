// Package memory keeps reservations and billing records in process memory.
// It backs local development and tests; every check-then-set runs under the
// store's write lock.
package memory

import "clubstay-backend/internal/repository"

type Store struct {
	repository.ReservationRepository
	repository.BillingRepository
}

func NewStore() *Store {
	return &Store{
		ReservationRepository: NewReservationRepository(),
		BillingRepository:     NewBillingRepository(),
	}
}
