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

type billingRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.BillingRecord
	now     func() time.Time
}

func NewBillingRepository() repository.BillingRepository {
	return &billingRepository{
		records: make(map[string]*domain.BillingRecord),
		now:     time.Now,
	}
}

func (r *billingRepository) Create(ctx context.Context, b *domain.BillingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if _, exists := r.records[b.ID]; exists {
		return &domain.ConflictError{Entity: "billing record", Key: b.ID}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.now()
	}
	r.records[b.ID] = cloneBilling(b)
	return nil
}

func (r *billingRepository) GetByID(ctx context.Context, id string) (*domain.BillingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.records[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "billing record", Key: id}
	}
	return cloneBilling(b), nil
}

func (r *billingRepository) List(ctx context.Context, filter repository.BillingFilter) ([]domain.BillingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.BillingRecord, 0)
	for _, b := range r.records {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !inRange(b.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
			continue
		}
		out = append(out, *cloneBilling(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AccessTime.Equal(out[j].AccessTime) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].AccessTime.After(out[j].AccessTime)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *billingRepository) Update(ctx context.Context, id string, mutate repository.BillingMutation) (*domain.BillingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "billing record", Key: id}
	}
	next := cloneBilling(current)
	mutate(next)
	r.records[id] = next
	return cloneBilling(next), nil
}

func cloneBilling(src *domain.BillingRecord) *domain.BillingRecord {
	dst := *src
	dst.Items = make([]domain.LineItem, len(src.Items))
	copy(dst.Items, src.Items)
	if src.ProcessedAt != nil {
		t := *src.ProcessedAt
		dst.ProcessedAt = &t
	}
	return &dst
}
