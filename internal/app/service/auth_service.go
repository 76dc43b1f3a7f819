package service

import (
	"context"
	"fmt"

	"spidyleet/internal/app/session"
	"spidyleet/internal/common"
	"spidyleet/internal/common/security"
	"spidyleet/internal/domain/model"
)

// AuthService fronts the session store for the local API and mints the local
// token once the backend has accepted the credentials.
type AuthService struct {
	sessions *session.Store
	tokens   *security.TokenIssuer
}

func NewAuthService(sessions *session.Store, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{sessions: sessions, tokens: tokens}
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req session.SignupRequest) (*AuthResponse, error) {
	user, err := s.sessions.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req session.LoginRequest) (*AuthResponse, error) {
	user, err := s.sessions.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Me revalidates the backend session and returns its user.
func (s *AuthService) Me(ctx context.Context) (*model.User, error) {
	user, err := s.sessions.CheckSession(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no active session: %w", common.ErrUnauthorized)
	}
	return user, nil
}

func (s *AuthService) Snapshot() session.Snapshot {
	return s.sessions.Snapshot()
}

func (s *AuthService) issue(user *model.User) (*AuthResponse, error) {
	if user == nil {
		return nil, fmt.Errorf("backend returned no user: %w", common.ErrUnauthorized)
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}
