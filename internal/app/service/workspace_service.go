package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spidyleet/internal/app/workflow"
	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/domain/repository"
	"spidyleet/internal/platform/logger"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Workspace is one open problem view.
type Workspace struct {
	ID         string               `json:"id"`
	OwnerID    string               `json:"owner_id"`
	CreatedAt  time.Time            `json:"created_at"`
	Controller *workflow.Controller `json:"-"`
}

type WorkspaceView struct {
	ID    string         `json:"id"`
	State workflow.State `json:"state"`
}

func (w *Workspace) View() WorkspaceView {
	return WorkspaceView{ID: w.ID, State: w.Controller.State()}
}

type JudgeResponse struct {
	Result model.Result   `json:"result"`
	State  workflow.State `json:"state"`
}

// WorkspaceService keeps open workspaces, evicting the least recently used
// one past its capacity. An evicted or closed workspace drops any response
// still in flight.
type WorkspaceService struct {
	fetcher         workflow.ProblemFetcher
	judge           workflow.Judge
	attempts        repository.AttemptRepository
	defaultLanguage string
	open            *lru.Cache[string, *Workspace]
	logger          *zap.SugaredLogger
}

func NewWorkspaceService(
	fetcher workflow.ProblemFetcher,
	judge workflow.Judge,
	attempts repository.AttemptRepository,
	defaultLanguage string,
	maxWorkspaces int,
) (*WorkspaceService, error) {
	if maxWorkspaces < 1 {
		maxWorkspaces = 1
	}
	log := logger.NewNamedLogger("workspace_service")
	open, err := lru.NewWithEvict(maxWorkspaces, func(id string, ws *Workspace) {
		ws.Controller.Close()
		log.Debugw("workspace closed", "workspace_id", id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace registry: %w", err)
	}
	return &WorkspaceService{
		fetcher:         fetcher,
		judge:           judge,
		attempts:        attempts,
		defaultLanguage: defaultLanguage,
		open:            open,
		logger:          log,
	}, nil
}

// Open loads problemID into a fresh workspace owned by ownerID.
func (s *WorkspaceService) Open(ctx context.Context, ownerID, problemID string) (*Workspace, error) {
	if problemID == "" {
		return nil, fmt.Errorf("problem_id is required: %w", common.ErrBadRequest)
	}
	opts := workflow.Options{
		DefaultLanguage: s.defaultLanguage,
		UserID:          func() string { return ownerID },
	}
	if s.attempts != nil {
		opts.Recorder = s.attempts
	}
	ctrl := workflow.NewController(s.fetcher, s.judge, opts)
	if err := ctrl.LoadProblem(ctx, problemID); err != nil {
		ctrl.Close()
		return nil, err
	}

	ws := &Workspace{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		CreatedAt:  time.Now().UTC(),
		Controller: ctrl,
	}
	s.open.Add(ws.ID, ws)
	s.logger.Infow("workspace opened", "workspace_id", ws.ID, "problem_id", problemID, "owner", ownerID)
	return ws, nil
}

// Get returns a workspace of ownerID. Someone else's workspace is reported
// as missing.
func (s *WorkspaceService) Get(ownerID, id string) (*Workspace, error) {
	ws, ok := s.open.Get(id)
	if !ok || ws.OwnerID != ownerID {
		return nil, fmt.Errorf("workspace %s: %w", id, common.ErrNotFound)
	}
	return ws, nil
}

func (s *WorkspaceService) Close(ownerID, id string) error {
	if _, err := s.Get(ownerID, id); err != nil {
		return err
	}
	s.open.Remove(id)
	return nil
}

// CloseAll tears down every workspace, used on shutdown.
func (s *WorkspaceService) CloseAll() {
	s.open.Purge()
}

func (s *WorkspaceService) Len() int { return s.open.Len() }

func (s *WorkspaceService) EditCode(ownerID, id, code string) (*Workspace, error) {
	return s.mutate(ownerID, id, func(c *workflow.Controller) error { return c.EditCode(code) })
}

func (s *WorkspaceService) ChangeLanguage(ownerID, id, language string) (*Workspace, error) {
	return s.mutate(ownerID, id, func(c *workflow.Controller) error { return c.ChangeLanguage(language) })
}

func (s *WorkspaceService) SetTab(ownerID, id string, tab workflow.Tab) (*Workspace, error) {
	return s.mutate(ownerID, id, func(c *workflow.Controller) error { return c.SetTab(tab) })
}

func (s *WorkspaceService) ResetCode(ownerID, id string) (*Workspace, error) {
	return s.mutate(ownerID, id, (*workflow.Controller).ResetCode)
}

func (s *WorkspaceService) Run(ctx context.Context, ownerID, id string) (*JudgeResponse, error) {
	return s.judgeWith(ctx, ownerID, id, (*workflow.Controller).Run)
}

func (s *WorkspaceService) Submit(ctx context.Context, ownerID, id string) (*JudgeResponse, error) {
	return s.judgeWith(ctx, ownerID, id, (*workflow.Controller).Submit)
}

// Attempts returns the recorded history of the workspace's problem.
func (s *WorkspaceService) Attempts(ctx context.Context, ownerID, id string, limit int) ([]model.Attempt, error) {
	ws, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if s.attempts == nil {
		return []model.Attempt{}, nil
	}
	return s.attempts.ListByProblem(ctx, ownerID, ws.Controller.State().ProblemID, limit)
}

func (s *WorkspaceService) mutate(ownerID, id string, fn func(*workflow.Controller) error) (*Workspace, error) {
	ws, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(ws.Controller); err != nil {
		return nil, workflowError(err)
	}
	return ws, nil
}

func (s *WorkspaceService) judgeWith(
	ctx context.Context,
	ownerID, id string,
	fn func(*workflow.Controller, context.Context) (model.Result, error),
) (*JudgeResponse, error) {
	ws, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	result, err := fn(ws.Controller, ctx)
	if err != nil {
		return nil, workflowError(err)
	}
	return &JudgeResponse{Result: result, State: ws.Controller.State()}, nil
}

// workflowError attaches the matching domain error so the API can pick a
// status code.
func workflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrJudgingInFlight),
		errors.Is(err, workflow.ErrNoProblemLoaded),
		errors.Is(err, workflow.ErrStaleResponse):
		return fmt.Errorf("%w: %w", err, common.ErrConflict)
	case errors.Is(err, workflow.ErrSessionClosed):
		return fmt.Errorf("%w: %w", err, common.ErrNotFound)
	case errors.Is(err, workflow.ErrUnknownTab):
		return fmt.Errorf("%w: %w", err, common.ErrBadRequest)
	}
	return err
}
