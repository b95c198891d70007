package domain

import "time"

type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "pending"
	BillingStatusProcessed BillingStatus = "processed"
	BillingStatusCancelled BillingStatus = "cancelled"
)

func (s BillingStatus) Valid() bool {
	switch s {
	case BillingStatusPending, BillingStatusProcessed, BillingStatusCancelled:
		return true
	}
	return false
}

// LineItem is one priced entry of a billing record. TotalCents is always
// UnitPriceCents * Quantity; build items with NewLineItem.
type LineItem struct {
	Description    string `json:"description"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	TotalCents     int64  `json:"total_cents"`
}

func NewLineItem(description string, unitPriceCents int64, quantity int) LineItem {
	return LineItem{
		Description:    description,
		UnitPriceCents: unitPriceCents,
		Quantity:       quantity,
		TotalCents:     unitPriceCents * int64(quantity),
	}
}

// BillingRecord charges a member for the companions admitted with them.
type BillingRecord struct {
	ID               string        `json:"id"`
	AccessID         string        `json:"access_id"`
	MemberName       string        `json:"member_name"`
	MemberCode       string        `json:"member_code"`
	MembershipType   string        `json:"membership_type"`
	Location         Location      `json:"location"`
	CompanionsCount  int           `json:"companions_count"`
	AccessTime       time.Time     `json:"access_time"`
	StaffName        string        `json:"staff_name"`
	Status           BillingStatus `json:"status"`
	Items            []LineItem    `json:"items"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	Notes            string        `json:"notes,omitempty"`
	ProcessedAt      *time.Time    `json:"processed_at,omitempty"`
	ProcessedBy      string        `json:"processed_by,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// SetItems replaces the itemization and recomputes the total.
func (b *BillingRecord) SetItems(items []LineItem) {
	b.Items = items
	b.TotalAmountCents = SumItems(items)
}

func SumItems(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.TotalCents
	}
	return total
}

// AppendNote adds note on its own line. Existing notes are never overwritten.
func (b *BillingRecord) AppendNote(note string) {
	if note == "" {
		return
	}
	if b.Notes == "" {
		b.Notes = note
		return
	}
	b.Notes = b.Notes + "\n" + note
}

type BillingStats struct {
	PendingCount        int   `json:"pending_count"`
	PendingAmountCents  int64 `json:"pending_amount_cents"`
	ProcessedTodayCount int   `json:"processed_today_count"`
	ProcessedTodayCents int64 `json:"processed_today_cents"`
}
