package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/service"
)

type BillingHandler struct {
	svc service.BillingService
	loc *time.Location
}

func NewBillingHandler(svc service.BillingService, loc *time.Location) *BillingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BillingHandler{svc: svc, loc: loc}
}

type createBillingRequest struct {
	AccessID        string `json:"access_id" validate:"required,max=64"`
	MemberName      string `json:"member_name" validate:"required,max=120"`
	MemberCode      string `json:"member_code" validate:"required,max=32"`
	MembershipType  string `json:"membership_type" validate:"omitempty,max=40"`
	Location        string `json:"location" validate:"required,location"`
	CompanionsCount int    `json:"companions_count" validate:"min=0,max=100"`
	AccessTime      string `json:"access_time" validate:"omitempty"`
	Notes           string `json:"notes" validate:"max=1000"`
}

type processBillingRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBillingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	accessTime, err := parseOptionalTime(req.AccessTime, h.loc)
	if err != nil {
		writeError(w, badRequest("access_time: %v", err))
		return
	}

	record, err := h.svc.CreateFromAccess(r.Context(), service.AccessInput{
		AccessID:        req.AccessID,
		MemberName:      req.MemberName,
		MemberCode:      req.MemberCode,
		MembershipType:  req.MembershipType,
		Location:        domain.Location(req.Location),
		CompanionsCount: req.CompanionsCount,
		AccessTime:      accessTime,
		StaffName:       performedBy(r.Context()),
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.svc.All(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *BillingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Pending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, list)
}

func (h *BillingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *BillingHandler) Rules(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.svc.Rules())
}

func (h *BillingHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *BillingHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processBillingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.svc.Process(r.Context(), mux.Vars(r)["id"], performedBy(r.Context()), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *BillingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.svc.Cancel(r.Context(), mux.Vars(r)["id"], performedBy(r.Context()), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
