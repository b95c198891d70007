package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/service"
	"clubstay-backend/internal/utils"
)

type ReservationHandler struct {
	svc service.ReservationService
	loc *time.Location
}

func NewReservationHandler(svc service.ReservationService, loc *time.Location) *ReservationHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationHandler{svc: svc, loc: loc}
}

type createReservationRequest struct {
	Code              string `json:"code" validate:"required,max=32"`
	GuestName         string `json:"guest_name" validate:"required,max=120"`
	GuestEmail        string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone        string `json:"guest_phone" validate:"omitempty,max=32"`
	AccommodationType string `json:"accommodation_type" validate:"omitempty,max=60"`
	AccommodationName string `json:"accommodation_name" validate:"omitempty,max=120"`
	Location          string `json:"location" validate:"required,location"`
	CheckInDate       string `json:"check_in_date" validate:"required"`
	CheckOutDate      string `json:"check_out_date" validate:"required"`
	GuestCount        int    `json:"guest_count" validate:"required,min=1"`
	TotalAmountCents  int64  `json:"total_amount_cents" validate:"min=0"`
}

type checkInRequest struct {
	ActualArrivalTime string `json:"actual_arrival_time" validate:"omitempty"`
	GuestsPresent     int    `json:"guests_present" validate:"min=0"`
	DocumentsVerified bool   `json:"documents_verified"`
	KeyProvided       bool   `json:"key_provided"`
	Notes             string `json:"notes" validate:"max=1000"`
}

type checkOutRequest struct {
	ActualDepartureTime    string `json:"actual_departure_time" validate:"omitempty"`
	RoomCondition          string `json:"room_condition" validate:"required,room_condition"`
	DamagesReported        bool   `json:"damages_reported"`
	DamageDescription      string `json:"damage_description" validate:"required_if=DamagesReported true,max=1000"`
	CleaningRequired       bool   `json:"cleaning_required"`
	KeyReturned            bool   `json:"key_returned"`
	AdditionalChargesCents int64  `json:"additional_charges_cents" validate:"min=0"`
	Comments               string `json:"comments" validate:"max=1000"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkIn, err := utils.ParseStayDate(req.CheckInDate, h.loc)
	if err != nil {
		writeError(w, badRequest("check_in_date: %v", err))
		return
	}
	checkOut, err := utils.ParseStayDate(req.CheckOutDate, h.loc)
	if err != nil {
		writeError(w, badRequest("check_out_date: %v", err))
		return
	}

	res, err := h.svc.CreateReservation(r.Context(), service.NewReservation{
		Code:              req.Code,
		GuestName:         req.GuestName,
		GuestEmail:        req.GuestEmail,
		GuestPhone:        req.GuestPhone,
		AccommodationType: req.AccommodationType,
		AccommodationName: req.AccommodationName,
		Location:          domain.Location(req.Location),
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		GuestCount:        req.GuestCount,
		TotalAmountCents:  req.TotalAmountCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	status := domain.ReservationStatus(r.URL.Query().Get("status"))
	list, err := h.svc.ListReservations(r.Context(), status, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetReservation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) FindByCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.FindByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	arrival, err := parseOptionalTime(req.ActualArrivalTime, h.loc)
	if err != nil {
		writeError(w, badRequest("actual_arrival_time: %v", err))
		return
	}

	res, err := h.svc.CheckIn(r.Context(), mux.Vars(r)["id"], service.CheckInInput{
		CheckedInBy:       performedBy(r.Context()),
		ActualArrivalTime: arrival,
		GuestsPresent:     req.GuestsPresent,
		DocumentsVerified: req.DocumentsVerified,
		KeyProvided:       req.KeyProvided,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req checkOutRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	departure, err := parseOptionalTime(req.ActualDepartureTime, h.loc)
	if err != nil {
		writeError(w, badRequest("actual_departure_time: %v", err))
		return
	}

	res, err := h.svc.CheckOut(r.Context(), mux.Vars(r)["id"], service.CheckOutInput{
		CheckedOutBy:           performedBy(r.Context()),
		ActualDepartureTime:    departure,
		RoomCondition:          domain.RoomCondition(req.RoomCondition),
		DamagesReported:        req.DamagesReported,
		DamageDescription:      req.DamageDescription,
		CleaningRequired:       req.CleaningRequired,
		KeyReturned:            req.KeyReturned,
		AdditionalChargesCents: req.AdditionalChargesCents,
		Comments:               req.Comments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.CancelReservation(r.Context(), mux.Vars(r)["id"], performedBy(r.Context()), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) TodayCheckIns(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.TodayCheckIns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *ReservationHandler) TodayCheckOuts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.TodayCheckOuts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *ReservationHandler) Active(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ActiveReservations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *ReservationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, badRequest("limit must be a non-negative integer")
	}
	return limit, nil
}

func parseOptionalTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return utils.ParseStayDate(value, loc)
}
