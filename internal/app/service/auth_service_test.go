package service_test

import (
	"context"
	"testing"
	"time"

	"spidyleet/internal/app/service"
	"spidyleet/internal/app/session"
	"spidyleet/internal/common"
	"spidyleet/internal/common/security"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/backend"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBackend struct {
	user *model.User
	err  error
}

func (b *sessionBackend) Register(_ context.Context, req backend.RegisterRequest) (*model.User, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &model.User{ID: "u2", FirstName: req.FirstName, Email: req.Email, Role: model.RoleUser}, nil
}

func (b *sessionBackend) Login(context.Context, backend.LoginRequest) (*model.User, error) {
	return b.user, b.err
}

func (b *sessionBackend) CheckAuth(context.Context) (*model.User, error) { return b.user, b.err }

func (b *sessionBackend) Logout(context.Context) error { return nil }

func TestAuthService_LoginIssuesToken(t *testing.T) {
	issuer := security.NewTokenIssuer([]byte("secret"), time.Hour)
	sb := &sessionBackend{user: &model.User{ID: "a1", Role: model.RoleAdmin, Email: "root@example.com"}}
	svc := service.NewAuthService(session.NewStore(sb), issuer)

	resp, err := svc.Login(context.Background(), session.LoginRequest{Email: "root@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.User.ID)

	tok, err := jwtauth.VerifyToken(issuer.Auth, resp.Token)
	require.NoError(t, err)
	claims, err := tok.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])

	assert.True(t, svc.Snapshot().Authenticated)
}

func TestAuthService_SignupAndMe(t *testing.T) {
	issuer := security.NewTokenIssuer([]byte("secret"), time.Hour)
	sb := &sessionBackend{}
	svc := service.NewAuthService(session.NewStore(sb), issuer)

	resp, err := svc.Signup(context.Background(), session.SignupRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.User.FirstName)
	assert.NotEmpty(t, resp.Token)

	// the backend holds no session
	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, svc.Snapshot().Authenticated)
}

func TestAuthService_LoginRejected(t *testing.T) {
	sb := &sessionBackend{err: &backend.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	svc := service.NewAuthService(session.NewStore(sb), security.NewTokenIssuer([]byte("k"), time.Hour))

	_, err := svc.Login(context.Background(), session.LoginRequest{Email: "a@b.co", Password: "wrong"})
	assert.EqualError(t, err, "Invalid credentials")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
