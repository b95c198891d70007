package service

import (
	"context"
	"errors"
	"strings"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid login or password")

// authService authenticates staff against the accounts listed in configuration.
type authService struct {
	byLogin map[string]*domain.Staff
	tokens  security.TokenManager
}

func NewAuthService(staff []domain.Staff, tokens security.TokenManager) AuthService {
	byLogin := make(map[string]*domain.Staff, len(staff)*2)
	for i := range staff {
		s := staff[i]
		byLogin[strings.ToLower(s.ID)] = &s
		if s.Email != "" {
			byLogin[strings.ToLower(s.Email)] = &s
		}
	}
	return &authService{byLogin: byLogin, tokens: tokens}
}

// Login accepts either the staff id or email.
func (s *authService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	logger.EnterMethod("authService.Login", "login", login)

	staff, ok := s.byLogin[strings.ToLower(strings.TrimSpace(login))]
	if !ok {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if err := security.CheckPassword(staff.PasswordHash, password); err != nil {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(staff)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return nil, err
	}

	logger.ExitMethod("authService.Login", "staffID", staff.ID)
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Staff: staff}, nil
}
