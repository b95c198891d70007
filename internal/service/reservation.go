package service

import (
	"context"
	"strings"
	"time"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/events"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/repository"
	"clubstay-backend/internal/utils"
)

type reservationService struct {
	repo      repository.ReservationRepository
	publisher events.Publisher
	clock     Clock
	loc       *time.Location
}

func NewReservationService(repo repository.ReservationRepository, publisher events.Publisher, clock Clock, loc *time.Location) ReservationService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &reservationService{
		repo:      repo,
		publisher: publisher,
		clock:     clockOrDefault(clock),
		loc:       locationOrDefault(loc),
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, in NewReservation) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "code", in.Code)

	now := s.clock()
	res := &domain.Reservation{
		Code:              domain.NormalizeCode(in.Code),
		GuestName:         strings.TrimSpace(in.GuestName),
		GuestEmail:        strings.TrimSpace(in.GuestEmail),
		GuestPhone:        strings.TrimSpace(in.GuestPhone),
		AccommodationType: in.AccommodationType,
		AccommodationName: in.AccommodationName,
		Location:          in.Location,
		CheckInDate:       in.CheckInDate,
		CheckOutDate:      in.CheckOutDate,
		GuestCount:        in.GuestCount,
		TotalAmountCents:  in.TotalAmountCents,
		Status:            domain.ReservationStatusConfirmed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := res.Validate(); err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err)
		return nil, err
	}
	if err := s.repo.Create(ctx, res); err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err)
		return nil, err
	}

	s.publish(ctx, res, domain.EventReservationCreated, "")
	logger.ExitMethod("reservationService.CreateReservation", "id", res.ID)
	return res, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reservationService) ListReservations(ctx context.Context, status domain.ReservationStatus, limit int) ([]domain.Reservation, error) {
	if status != "" && !status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}
	if limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	return s.repo.List(ctx, repository.ReservationFilter{Status: status, Limit: limit})
}

// FindByCode matches the whole code, ignoring case.
func (s *reservationService) FindByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "is required"}
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *reservationService) CheckIn(ctx context.Context, reservationID string, in CheckInInput) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CheckIn", "reservationID", reservationID)

	if in.GuestsPresent < 0 {
		err := &domain.ValidationError{Field: "guests_present", Reason: "must not be negative"}
		logger.ExitMethodWithError("reservationService.CheckIn", err)
		return nil, err
	}

	res, err := s.repo.Transition(ctx, reservationID, domain.ReservationStatusConfirmed, domain.ReservationStatusCheckedIn,
		func(r *domain.Reservation) {
			now := s.clock()
			arrival := in.ActualArrivalTime
			if arrival.IsZero() {
				arrival = now
			}
			r.CheckInDetails = &domain.CheckInDetails{
				CheckedInAt:       now,
				CheckedInBy:       in.CheckedInBy,
				ActualArrivalTime: arrival,
				GuestsPresent:     in.GuestsPresent,
				DocumentsVerified: in.DocumentsVerified,
				KeyProvided:       in.KeyProvided,
				Notes:             in.Notes,
			}
		})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CheckIn", err)
		return nil, err
	}

	logger.Transition("reservation", res.ID, string(domain.ReservationStatusConfirmed), string(res.Status), in.CheckedInBy)
	s.publish(ctx, res, domain.EventReservationCheckedIn, in.CheckedInBy)
	logger.ExitMethod("reservationService.CheckIn")
	return res, nil
}

func (s *reservationService) CheckOut(ctx context.Context, reservationID string, in CheckOutInput) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CheckOut", "reservationID", reservationID)

	if err := validateCheckOut(in); err != nil {
		logger.ExitMethodWithError("reservationService.CheckOut", err)
		return nil, err
	}

	res, err := s.repo.Transition(ctx, reservationID, domain.ReservationStatusCheckedIn, domain.ReservationStatusCheckedOut,
		func(r *domain.Reservation) {
			now := s.clock()
			departure := in.ActualDepartureTime
			if departure.IsZero() {
				departure = now
			}
			r.CheckOutDetails = &domain.CheckOutDetails{
				CheckedOutAt:           now,
				CheckedOutBy:           in.CheckedOutBy,
				ActualDepartureTime:    departure,
				RoomCondition:          in.RoomCondition,
				DamagesReported:        in.DamagesReported,
				DamageDescription:      in.DamageDescription,
				CleaningRequired:       in.CleaningRequired,
				KeyReturned:            in.KeyReturned,
				AdditionalChargesCents: in.AdditionalChargesCents,
				Comments:               in.Comments,
			}
		})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CheckOut", err)
		return nil, err
	}

	logger.Transition("reservation", res.ID, string(domain.ReservationStatusCheckedIn), string(res.Status), in.CheckedOutBy)
	s.publish(ctx, res, domain.EventReservationCheckedOut, in.CheckedOutBy)
	logger.ExitMethod("reservationService.CheckOut")
	return res, nil
}

func validateCheckOut(in CheckOutInput) error {
	if !in.RoomCondition.Valid() {
		return &domain.ValidationError{Field: "room_condition", Reason: "must be one of excellent, good, fair, poor"}
	}
	if in.AdditionalChargesCents < 0 {
		return &domain.ValidationError{Field: "additional_charges_cents", Reason: "must not be negative"}
	}
	if in.DamagesReported && strings.TrimSpace(in.DamageDescription) == "" {
		return &domain.ValidationError{Field: "damage_description", Reason: "is required when damages are reported"}
	}
	return nil
}

// CancelReservation is only possible before the guest arrives.
func (s *reservationService) CancelReservation(ctx context.Context, reservationID, cancelledBy, reason string) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CancelReservation", "reservationID", reservationID)

	res, err := s.repo.Transition(ctx, reservationID, domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled,
		func(r *domain.Reservation) {
			now := s.clock()
			r.CancelledAt = &now
			r.CancelledBy = cancelledBy
			r.CancellationReason = reason
		})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CancelReservation", err)
		return nil, err
	}

	logger.Transition("reservation", res.ID, string(domain.ReservationStatusConfirmed), string(res.Status), cancelledBy)
	s.publish(ctx, res, domain.EventReservationCancelled, cancelledBy)
	logger.ExitMethod("reservationService.CancelReservation")
	return res, nil
}

func (s *reservationService) TodayCheckIns(ctx context.Context) ([]domain.Reservation, error) {
	start, end := utils.DayBounds(s.clock(), s.loc)
	return s.repo.List(ctx, repository.ReservationFilter{
		Status:      domain.ReservationStatusConfirmed,
		CheckInFrom: start,
		CheckInTo:   end,
		OrderBy:     repository.OrderByCheckInAsc,
	})
}

func (s *reservationService) TodayCheckOuts(ctx context.Context) ([]domain.Reservation, error) {
	start, end := utils.DayBounds(s.clock(), s.loc)
	return s.repo.List(ctx, repository.ReservationFilter{
		Status:       domain.ReservationStatusCheckedIn,
		CheckOutFrom: start,
		CheckOutTo:   end,
		OrderBy:      repository.OrderByCheckOutAsc,
	})
}

func (s *reservationService) ActiveReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.repo.List(ctx, repository.ReservationFilter{
		Status:  domain.ReservationStatusCheckedIn,
		OrderBy: repository.OrderByCheckInDesc,
	})
}

func (s *reservationService) Stats(ctx context.Context) (*domain.ReservationStats, error) {
	checkIns, err := s.TodayCheckIns(ctx)
	if err != nil {
		return nil, err
	}
	checkOuts, err := s.TodayCheckOuts(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.ActiveReservations(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.ReservationStats{
		TodayCheckIns:      len(checkIns),
		TodayCheckOuts:     len(checkOuts),
		ActiveReservations: len(active),
	}
	for _, r := range active {
		stats.ActiveRevenueCents += r.TotalAmountCents
	}
	return stats, nil
}

// publish never fails the caller; the state change has already been stored.
func (s *reservationService) publish(ctx context.Context, res *domain.Reservation, eventType domain.EventType, actor string) {
	event := domain.Event{
		Type:       eventType,
		EntityID:   res.ID,
		Code:       res.Code,
		Status:     string(res.Status),
		Actor:      actor,
		OccurredAt: s.clock(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", "type", eventType, "entity_id", res.ID, "error", err)
	}
}
