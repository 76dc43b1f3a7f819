package service_test

import (
	"context"
	"sync"
	"time"

	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/backend"
)

// fakeBackend stands in for the backend client in every service test.
type fakeBackend struct {
	mu sync.Mutex

	problems   []model.Problem
	solved     []model.Problem
	solvedPage *backend.SolvedPage
	solvedErr  error
	listErr    error

	listCalls int
	created   []*model.Problem
	createErr error

	runResp *backend.RunResponse
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeBackend) GetProblem(_ context.Context, id string) (*model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.problems {
		if f.problems[i].ID == id {
			p := f.problems[i]
			return &p, nil
		}
	}
	return nil, &backend.APIError{StatusCode: 404, Message: "Problem not found"}
}

func (f *fakeBackend) ListProblems(context.Context) ([]model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Problem{}, f.problems...), nil
}

func (f *fakeBackend) ListSolvedProblems(context.Context, int, int) (*backend.SolvedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.solvedErr != nil {
		return nil, f.solvedErr
	}
	if f.solvedPage != nil {
		return f.solvedPage, nil
	}
	return &backend.SolvedPage{Problems: f.solved}, nil
}

func (f *fakeBackend) CreateProblem(_ context.Context, p *model.Problem) (*model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "new-id"
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeBackend) RunTrial(context.Context, string, string, string) (*backend.RunResponse, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.runResp == nil {
		return &backend.RunResponse{Success: "accepted"}, nil
	}
	return f.runResp, nil
}

func (f *fakeBackend) SubmitFinal(context.Context, string, string, string) (*backend.SubmitResponse, error) {
	return &backend.SubmitResponse{Accepted: true, PassedTestCases: 2, TotalTestCases: 2}, nil
}

type staticUser struct{ user *model.User }

func (s staticUser) User() *model.User { return s.user }

// brokenCache fails every call.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, common.ErrServiceUnavailable
}

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return common.ErrServiceUnavailable
}

func (brokenCache) Delete(context.Context, string) error {
	return common.ErrServiceUnavailable
}
