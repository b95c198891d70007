package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clubstay-backend/internal/api/http/middleware"
	"clubstay-backend/internal/security"
	"clubstay-backend/internal/service"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects everything the HTTP API is wired to.
type RouterConfig struct {
	Reservations service.ReservationService
	Billing      service.BillingService
	Auth         service.AuthService
	Tokens       security.TokenManager
	RateLimiter  *middleware.RateLimiter // optional
	Location     *time.Location
	HealthChecks map[string]HealthCheck
}

func NewRouter(cfg RouterConfig) *mux.Router {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	router := mux.NewRouter()
	router.Use(middleware.Recoverer, middleware.RequestLogger)

	api := router.PathPrefix("/api/v1").Subrouter()
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Handler)
	}
	api.Use(NewAuthMiddleware(cfg.Tokens).Handler)

	api.HandleFunc("/health", healthHandler(cfg.HealthChecks)).Methods(http.MethodGet)
	RegisterAuthRoutes(api, NewAuthHandler(cfg.Auth))
	RegisterReservationRoutes(api, NewReservationHandler(cfg.Reservations, loc))
	RegisterBillingRoutes(api, NewBillingHandler(cfg.Billing, loc))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusNotFound, "not_found", "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return router
}

func RegisterAuthRoutes(r *mux.Router, h *AuthHandler) {
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// RegisterReservationRoutes registers reservation and dashboard endpoints.
// Static paths are registered before {id} so they are not captured by it.
func RegisterReservationRoutes(r *mux.Router, h *ReservationHandler) {
	r.HandleFunc("/reservations", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/reservations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/reservations/code/{code}", h.FindByCode).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}/check-in", h.CheckIn).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}/check-out", h.CheckOut).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}/cancel", h.Cancel).Methods(http.MethodPost)

	r.HandleFunc("/dashboard/check-ins/today", h.TodayCheckIns).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/check-outs/today", h.TodayCheckOuts).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/active", h.Active).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/reservations/stats", h.Stats).Methods(http.MethodGet)
}

func RegisterBillingRoutes(r *mux.Router, h *BillingHandler) {
	r.HandleFunc("/billing", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/billing", h.List).Methods(http.MethodGet)
	r.HandleFunc("/billing/pending", h.Pending).Methods(http.MethodGet)
	r.HandleFunc("/billing/stats", h.Stats).Methods(http.MethodGet)
	r.HandleFunc("/billing/rules", h.Rules).Methods(http.MethodGet)
	r.HandleFunc("/billing/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/billing/{id}/process", h.Process).Methods(http.MethodPost)
	r.HandleFunc("/billing/{id}/cancel", h.Cancel).Methods(http.MethodPost)
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		writeJSON(w, status, map[string]interface{}{
			"status": overall,
			"checks": results,
		})
	}
}
