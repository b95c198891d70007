package service

import (
	"context"
	"time"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/events"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/repository"
	"clubstay-backend/internal/utils"
)

type billingService struct {
	repo      repository.BillingRepository
	publisher events.Publisher
	clock     Clock
	loc       *time.Location
}

func NewBillingService(repo repository.BillingRepository, publisher events.Publisher, clock Clock, loc *time.Location) BillingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &billingService{
		repo:      repo,
		publisher: publisher,
		clock:     clockOrDefault(clock),
		loc:       locationOrDefault(loc),
	}
}

// CreateFromAccess bills the companions of an access event. The fee is
// chosen by the local weekday of the access time. Returns
// domain.ErrNoBillableCompanions, and stores nothing, when there are none.
func (s *billingService) CreateFromAccess(ctx context.Context, in AccessInput) (*domain.BillingRecord, error) {
	logger.EnterMethod("billingService.CreateFromAccess", "accessID", in.AccessID, "companions", in.CompanionsCount)

	accessTime := in.AccessTime
	if accessTime.IsZero() {
		accessTime = s.clock()
	}

	items, err := utils.CalculateItems(in.Location, in.CompanionsCount, accessTime.In(s.loc))
	if err != nil {
		logger.ExitMethodWithError("billingService.CreateFromAccess", err)
		return nil, err
	}
	if len(items) == 0 {
		logger.ExitMethodWithError("billingService.CreateFromAccess", domain.ErrNoBillableCompanions)
		return nil, domain.ErrNoBillableCompanions
	}

	record := &domain.BillingRecord{
		AccessID:        in.AccessID,
		MemberName:      in.MemberName,
		MemberCode:      in.MemberCode,
		MembershipType:  in.MembershipType,
		Location:        in.Location,
		CompanionsCount: in.CompanionsCount,
		AccessTime:      accessTime,
		StaffName:       in.StaffName,
		Status:          domain.BillingStatusPending,
		Notes:           in.Notes,
		CreatedAt:       s.clock(),
	}
	record.SetItems(items)

	if err := s.repo.Create(ctx, record); err != nil {
		logger.ExitMethodWithError("billingService.CreateFromAccess", err)
		return nil, err
	}

	s.publish(ctx, record, domain.EventBillingCreated, in.StaffName)
	logger.ExitMethod("billingService.CreateFromAccess", "id", record.ID, "totalCents", record.TotalAmountCents)
	return record, nil
}

func (s *billingService) Get(ctx context.Context, id string) (*domain.BillingRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *billingService) Process(ctx context.Context, id, processedBy, notes string) (*domain.BillingRecord, error) {
	logger.EnterMethod("billingService.Process", "id", id)

	var from domain.BillingStatus
	record, err := s.repo.Update(ctx, id, func(b *domain.BillingRecord) {
		from = b.Status
		now := s.clock()
		b.Status = domain.BillingStatusProcessed
		b.ProcessedAt = &now
		b.ProcessedBy = processedBy
		b.AppendNote(notes)
	})
	if err != nil {
		logger.ExitMethodWithError("billingService.Process", err)
		return nil, err
	}

	logger.Transition("billing", id, string(from), string(record.Status), processedBy)
	s.publish(ctx, record, domain.EventBillingProcessed, processedBy)
	logger.ExitMethod("billingService.Process")
	return record, nil
}

// Cancel is accepted from any status, including processed.
func (s *billingService) Cancel(ctx context.Context, id, cancelledBy, reason string) (*domain.BillingRecord, error) {
	logger.EnterMethod("billingService.Cancel", "id", id)

	var from domain.BillingStatus
	record, err := s.repo.Update(ctx, id, func(b *domain.BillingRecord) {
		from = b.Status
		now := s.clock()
		b.Status = domain.BillingStatusCancelled
		b.ProcessedAt = &now
		b.ProcessedBy = cancelledBy
		b.AppendNote(reason)
	})
	if err != nil {
		logger.ExitMethodWithError("billingService.Cancel", err)
		return nil, err
	}

	logger.Transition("billing", id, string(from), string(record.Status), cancelledBy)
	s.publish(ctx, record, domain.EventBillingCancelled, cancelledBy)
	logger.ExitMethod("billingService.Cancel")
	return record, nil
}

func (s *billingService) Pending(ctx context.Context) ([]domain.BillingRecord, error) {
	return s.repo.List(ctx, repository.BillingFilter{Status: domain.BillingStatusPending})
}

func (s *billingService) All(ctx context.Context, limit int) ([]domain.BillingRecord, error) {
	if limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	return s.repo.List(ctx, repository.BillingFilter{Limit: limit})
}

// Stats counts pending records and records created today that are processed.
func (s *billingService) Stats(ctx context.Context) (*domain.BillingStats, error) {
	pending, err := s.Pending(ctx)
	if err != nil {
		return nil, err
	}
	start, end := utils.DayBounds(s.clock(), s.loc)
	processed, err := s.repo.List(ctx, repository.BillingFilter{
		Status:      domain.BillingStatusProcessed,
		CreatedFrom: start,
		CreatedTo:   end,
	})
	if err != nil {
		return nil, err
	}

	stats := &domain.BillingStats{
		PendingCount:        len(pending),
		ProcessedTodayCount: len(processed),
	}
	for _, b := range pending {
		stats.PendingAmountCents += b.TotalAmountCents
	}
	for _, b := range processed {
		stats.ProcessedTodayCents += b.TotalAmountCents
	}
	return stats, nil
}

func (s *billingService) Rules() []domain.PricingRule {
	return utils.PricingRules()
}

func (s *billingService) publish(ctx context.Context, record *domain.BillingRecord, eventType domain.EventType, actor string) {
	event := domain.Event{
		Type:       eventType,
		EntityID:   record.ID,
		Code:       record.MemberCode,
		Status:     string(record.Status),
		Actor:      actor,
		OccurredAt: s.clock(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", "type", eventType, "entity_id", record.ID, "error", err)
	}
}
