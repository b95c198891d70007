package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"clubstay-backend/internal/config"
	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/security"
	"clubstay-backend/internal/service"
)

// AuthMiddleware authenticates requests according to config.EndpointSecurityConfig.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAccess
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				level = config.GetSecurityLevel(r.Method, tmpl)
			}
		}

		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "authorization token is not provided")
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			if errors.Is(err, security.ErrExpiredToken) {
				writeErrorCode(w, http.StatusUnauthorized, "token_expired", err.Error())
				return
			}
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		if level == config.SecurityAdmin && !claims.HasRole(domain.RoleAdmin) {
			writeErrorCode(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		next.ServeHTTP(w, r.WithContext(withStaff(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   string        `json:"expires_at"`
	Staff       *domain.Staff `json:"staff"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
		Staff:       res.Staff,
	})
}
