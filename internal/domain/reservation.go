package domain

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusCheckedIn  ReservationStatus = "checked_in"
	ReservationStatusCheckedOut ReservationStatus = "checked_out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the known reservation states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusCheckedIn, ReservationStatusCheckedOut, ReservationStatusCancelled:
		return true
	}
	return false
}

type RoomCondition string

const (
	RoomConditionExcellent RoomCondition = "excellent"
	RoomConditionGood      RoomCondition = "good"
	RoomConditionFair      RoomCondition = "fair"
	RoomConditionPoor      RoomCondition = "poor"
)

func (c RoomCondition) Valid() bool {
	switch c {
	case RoomConditionExcellent, RoomConditionGood, RoomConditionFair, RoomConditionPoor:
		return true
	}
	return false
}

type Reservation struct {
	ID                 string            `json:"id"`
	Code               string            `json:"code"`
	GuestName          string            `json:"guest_name"`
	GuestEmail         string            `json:"guest_email"`
	GuestPhone         string            `json:"guest_phone"`
	AccommodationType  string            `json:"accommodation_type"`
	AccommodationName  string            `json:"accommodation_name"`
	Location           Location          `json:"location"`
	CheckInDate        time.Time         `json:"check_in_date"`
	CheckOutDate       time.Time         `json:"check_out_date"`
	GuestCount         int               `json:"guest_count"`
	TotalAmountCents   int64             `json:"total_amount_cents"`
	Status             ReservationStatus `json:"status"`
	CheckInDetails     *CheckInDetails   `json:"check_in_details,omitempty"`
	CheckOutDetails    *CheckOutDetails  `json:"check_out_details,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancelledBy        string            `json:"cancelled_by,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NormalizeCode is the canonical form used for code lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the stay invariants of a reservation before it is stored.
func (r *Reservation) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return &ValidationError{Field: "code", Reason: "is required"}
	}
	if strings.TrimSpace(r.GuestName) == "" {
		return &ValidationError{Field: "guest_name", Reason: "is required"}
	}
	if !r.Location.Valid() {
		return &ValidationError{Field: "location", Reason: "unknown location " + string(r.Location)}
	}
	if r.CheckInDate.IsZero() || r.CheckOutDate.IsZero() {
		return &ValidationError{Field: "check_in_date", Reason: "check-in and check-out dates are required"}
	}
	if !r.CheckOutDate.After(r.CheckInDate) {
		return &ValidationError{Field: "check_out_date", Reason: "must be after check-in date"}
	}
	if r.GuestCount < 1 {
		return &ValidationError{Field: "guest_count", Reason: "must be at least 1"}
	}
	if r.TotalAmountCents < 0 {
		return &ValidationError{Field: "total_amount_cents", Reason: "must not be negative"}
	}
	return nil
}

// CheckInDetails is attached when the guest arrives. Never modified afterwards.
type CheckInDetails struct {
	CheckedInAt       time.Time `json:"checked_in_at"`
	CheckedInBy       string    `json:"checked_in_by"`
	ActualArrivalTime time.Time `json:"actual_arrival_time"`
	GuestsPresent     int       `json:"guests_present"`
	DocumentsVerified bool      `json:"documents_verified"`
	KeyProvided       bool      `json:"key_provided"`
	Notes             string    `json:"notes,omitempty"`
}

// CheckOutDetails is attached when the guest leaves. Never modified afterwards.
type CheckOutDetails struct {
	CheckedOutAt           time.Time     `json:"checked_out_at"`
	CheckedOutBy           string        `json:"checked_out_by"`
	ActualDepartureTime    time.Time     `json:"actual_departure_time"`
	RoomCondition          RoomCondition `json:"room_condition"`
	DamagesReported        bool          `json:"damages_reported"`
	DamageDescription      string        `json:"damage_description,omitempty"`
	CleaningRequired       bool          `json:"cleaning_required"`
	KeyReturned            bool          `json:"key_returned"`
	AdditionalChargesCents int64         `json:"additional_charges_cents"`
	Comments               string        `json:"comments,omitempty"`
}

type ReservationStats struct {
	TodayCheckIns      int   `json:"today_check_ins"`
	TodayCheckOuts     int   `json:"today_check_outs"`
	ActiveReservations int   `json:"active_reservations"`
	ActiveRevenueCents int64 `json:"active_revenue_cents"`
}
