// Package session holds the authenticated identity shared by every view.
//
// A Store is created once and handed to whoever needs it; each of the four
// actions moves it through pending and then fulfilled or rejected, and every
// transition is pushed to subscribers.
package session

import (
	"context"
	"errors"
	"sync"

	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/backend"
	"spidyleet/internal/platform/logger"

	"go.uber.org/zap"
)

type Backend interface {
	Register(ctx context.Context, req backend.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req backend.LoginRequest) (*model.User, error)
	CheckAuth(ctx context.Context) (*model.User, error)
	Logout(ctx context.Context) error
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

type Op string

const (
	OpRegister  Op = "register"
	OpLogin     Op = "login"
	OpCheckAuth Op = "checkAuth"
	OpLogout    Op = "logout"
)

var fallbackMessages = map[Op]string{
	OpRegister:  "Failed to register",
	OpLogin:     "Failed to login",
	OpCheckAuth: "Failed to check authentication",
	OpLogout:    "Failed to logout",
}

// Failure is the structured reason an action was rejected.
type Failure struct {
	Op      Op
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

type Snapshot struct {
	User          *model.User `json:"user"`
	Authenticated bool        `json:"isAuthenticated"`
	Loading       bool        `json:"loading"`
	Error         string      `json:"error,omitempty"`
}

type Store struct {
	backend Backend
	logger  *zap.SugaredLogger

	mu      sync.RWMutex
	state   Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore starts in the loading state until the first action settles.
func NewStore(b Backend) *Store {
	return &Store{
		backend: b,
		logger:  logger.NewNamedLogger("session"),
		state:   Snapshot{Loading: true},
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// User returns the current user, nil when signed out.
func (s *Store) User() *model.User {
	return s.Snapshot().User
}

func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Register validates the profile before it reaches the backend. Invalid input
// leaves the store untouched.
func (s *Store) Register(ctx context.Context, req SignupRequest) (*model.User, error) {
	if err := common.ValidateInput(req); err != nil {
		return nil, s.failure(OpRegister, err)
	}
	return s.authenticate(ctx, OpRegister, func(ctx context.Context) (*model.User, error) {
		return s.backend.Register(ctx, backend.RegisterRequest{
			FirstName: req.FirstName,
			Email:     req.Email,
			Password:  req.Password,
		})
	})
}

func (s *Store) Login(ctx context.Context, req LoginRequest) (*model.User, error) {
	if err := common.ValidateInput(req); err != nil {
		return nil, s.failure(OpLogin, err)
	}
	return s.authenticate(ctx, OpLogin, func(ctx context.Context) (*model.User, error) {
		return s.backend.Login(ctx, backend.LoginRequest{Email: req.Email, Password: req.Password})
	})
}

// CheckSession asks the backend who owns the current session cookie.
func (s *Store) CheckSession(ctx context.Context) (*model.User, error) {
	return s.authenticate(ctx, OpCheckAuth, s.backend.CheckAuth)
}

func (s *Store) Logout(ctx context.Context) error {
	s.update(func(st *Snapshot) {
		st.Loading = true
		st.Error = ""
	})

	err := s.backend.Logout(ctx)
	var failure *Failure
	if err != nil {
		failure = s.failure(OpLogout, err)
	}
	s.update(func(st *Snapshot) {
		st.Loading = false
		st.User = nil
		st.Authenticated = false
		st.Error = ""
		if failure != nil {
			st.Error = failure.Message
		}
	})
	if failure != nil {
		return failure
	}
	return nil
}

func (s *Store) authenticate(ctx context.Context, op Op, call func(context.Context) (*model.User, error)) (*model.User, error) {
	s.update(func(st *Snapshot) {
		st.Loading = true
		st.Error = ""
	})

	user, err := call(ctx)
	if err != nil {
		failure := s.failure(op, err)
		s.update(func(st *Snapshot) {
			st.Loading = false
			st.Error = failure.Message
			st.Authenticated = false
			st.User = nil
		})
		return nil, failure
	}

	s.update(func(st *Snapshot) {
		st.Loading = false
		st.User = user
		st.Authenticated = user != nil
	})
	return user, nil
}

// failure keeps the backend's or validator's message and falls back to the
// per-action text otherwise.
func (s *Store) failure(op Op, err error) *Failure {
	msg := fallbackMessages[op]
	var apiErr *backend.APIError
	var valErr *common.ValidationError
	switch {
	case errors.As(err, &valErr):
		msg = valErr.Message
	case errors.As(err, &apiErr) && apiErr.Message != "":
		msg = apiErr.Message
	}
	s.logger.Debugw("session action rejected", "op", op, "error", err)
	return &Failure{Op: op, Message: msg, Err: err}
}

func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.copyLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) copyLocked() Snapshot {
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}
