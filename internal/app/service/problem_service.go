package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spidyleet/internal/app/listing"
	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/domain/repository"
	"spidyleet/internal/platform/backend"
	"spidyleet/internal/platform/cache"
	"spidyleet/internal/platform/logger"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const allProblemsKey = "problems:all"

type ProblemSource interface {
	GetProblem(ctx context.Context, id string) (*model.Problem, error)
	ListProblems(ctx context.Context) ([]model.Problem, error)
	ListSolvedProblems(ctx context.Context, page, pageSize int) (*backend.SolvedPage, error)
}

type ProblemService struct {
	source   ProblemSource
	cache    cache.Cache
	attempts repository.AttemptRepository
	ttl      time.Duration
	logger   *zap.SugaredLogger
}

func NewProblemService(
	source ProblemSource,
	listingCache cache.Cache,
	attempts repository.AttemptRepository,
	ttl time.Duration,
) *ProblemService {
	return &ProblemService{
		source:   source,
		cache:    listingCache,
		attempts: attempts,
		ttl:      ttl,
		logger:   logger.NewNamedLogger("problem_service"),
	}
}

// ListProblems returns every problem annotated for userID and narrowed by f.
// A signed-out caller sees everything as unsolved.
func (s *ProblemService) ListProblems(ctx context.Context, userID string, f listing.Filters) ([]model.ProblemWithStatus, error) {
	problems, err := s.allProblems(ctx)
	if err != nil {
		return nil, err
	}

	solved := map[string]struct{}{}
	if userID != "" {
		page, err := s.source.ListSolvedProblems(ctx, 0, 0)
		switch {
		case err == nil:
			solved = listing.IDSet(page.Problems)
		case errors.Is(err, common.ErrUnauthorized):
			s.logger.Debugw("solved list needs a backend session", "user_id", userID)
		default:
			return nil, fmt.Errorf("problemService.ListProblems solved: %w", err)
		}
	}

	attempted := map[string]struct{}{}
	if userID != "" && s.attempts != nil {
		if attempted, err = s.attempts.AttemptedProblemIDs(ctx, userID); err != nil {
			s.logger.Warnw("failed to read attempt history", "user_id", userID, "error", err)
			attempted = map[string]struct{}{}
		}
	}

	return listing.Filter(listing.Classify(forDisplay(problems), solved, attempted), f), nil
}

func (s *ProblemService) Tags(ctx context.Context) ([]string, error) {
	problems, err := s.allProblems(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Tags(problems), nil
}

// ListSolved pages through the user's solved problems. The backend's own
// paging is used when it reports any; otherwise the full list is paged here.
func (s *ProblemService) ListSolved(ctx context.Context, page, pageSize int, f listing.Filters) (listing.Page[model.Problem], error) {
	resp, err := s.source.ListSolvedProblems(ctx, page, pageSize)
	if err != nil {
		return listing.Page[model.Problem]{}, err
	}

	f = f.Normalize()
	if f.Difficulty == listing.All && f.Tag == listing.All && resp.TotalPages > 0 {
		if page < 1 {
			page = 1
		}
		return listing.Page[model.Problem]{
			Items:      forDisplay(resp.Problems),
			Page:       page,
			PageSize:   pageSize,
			TotalItems: resp.TotalItems,
			TotalPages: resp.TotalPages,
		}, nil
	}

	solved := listing.Classify(forDisplay(resp.Problems), listing.IDSet(resp.Problems), nil)
	filtered := listing.Filter(solved, f)
	problems := make([]model.Problem, 0, len(filtered))
	for _, p := range filtered {
		problems = append(problems, p.Problem)
	}
	return listing.Paginate(problems, page, pageSize), nil
}

// GetProblem always goes to the backend. Hidden cases are reduced to their
// count.
func (s *ProblemService) GetProblem(ctx context.Context, id string) (*model.Problem, error) {
	p, err := s.source.GetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ForDisplay(), nil
}

// StarterFile returns an export file name and the starter code of a problem
// for language.
func (s *ProblemService) StarterFile(ctx context.Context, problemID, language string) (name, code string, err error) {
	p, err := s.source.GetProblem(ctx, problemID)
	if err != nil {
		return "", "", err
	}
	code, ok := p.StarterCodeFor(language)
	if !ok {
		return "", "", fmt.Errorf("no %s starter code for %q: %w", language, p.Title, common.ErrNotFound)
	}
	return DraftFileName(p.Title, language), code, nil
}

// InvalidateListing drops the cached problem list.
func (s *ProblemService) InvalidateListing(ctx context.Context) {
	if err := s.cache.Delete(ctx, allProblemsKey); err != nil {
		s.logger.Warnw("failed to invalidate listing cache", "error", err)
	}
}

// RefreshListing reloads the problem list from the backend into the cache
// and returns how many problems it holds.
func (s *ProblemService) RefreshListing(ctx context.Context) (int, error) {
	problems, err := s.fetchListing(ctx)
	if err != nil {
		return 0, err
	}
	return len(problems), nil
}

func (s *ProblemService) allProblems(ctx context.Context) ([]model.Problem, error) {
	var problems []model.Problem
	found, err := s.cache.Get(ctx, allProblemsKey, &problems)
	if err != nil {
		s.logger.Warnw("listing cache read failed, going to backend", "error", err)
	}
	if found {
		return problems, nil
	}
	return s.fetchListing(ctx)
}

func (s *ProblemService) fetchListing(ctx context.Context) ([]model.Problem, error) {
	problems, err := s.source.ListProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("problemService.ListProblems: %w", err)
	}
	if err := s.cache.Set(ctx, allProblemsKey, problems, s.ttl); err != nil {
		s.logger.Warnw("listing cache write failed", "error", err)
	}
	return problems, nil
}

func forDisplay(problems []model.Problem) []model.Problem {
	out := make([]model.Problem, len(problems))
	for i := range problems {
		out[i] = *problems[i].ForDisplay()
	}
	return out
}

var fileExtensions = map[string]string{
	"cpp":        "cpp",
	"c++":        "cpp",
	"java":       "java",
	"javascript": "js",
	"python":     "py",
}

// DraftFileName builds "<slug>.<ext>" for exporting code, e.g.
// "two-sum.cpp".
func DraftFileName(title, language string) string {
	base := slug.Make(title)
	if base == "" {
		base = "solution"
	}
	ext, ok := fileExtensions[strings.ToLower(language)]
	if !ok {
		ext = slug.Make(language)
	}
	if ext == "" {
		ext = "txt"
	}
	return base + "." + ext
}
