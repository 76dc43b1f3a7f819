package service

import (
	"context"
	"fmt"

	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/logger"

	"go.uber.org/zap"
)

type ProblemCreator interface {
	CreateProblem(ctx context.Context, problem *model.Problem) (*model.Problem, error)
}

// CurrentUser reports who holds the backend session.
type CurrentUser interface {
	User() *model.User
}

type VisibleCaseDraft struct {
	Input       string `json:"input" validate:"required"`
	Output      string `json:"output" validate:"required"`
	Explanation string `json:"explanation" validate:"required"`
}

type HiddenCaseDraft struct {
	Input  string `json:"input" validate:"required"`
	Output string `json:"output" validate:"required"`
}

type StarterCodeDraft struct {
	Language    string `json:"language" validate:"required"`
	InitialCode string `json:"initialCode" validate:"required"`
}

type ReferenceSolutionDraft struct {
	Language     string `json:"language" validate:"required"`
	CompleteCode string `json:"completeCode" validate:"required"`
}

type ConstraintsDraft struct {
	TimeLimit   string `json:"timeLimit" validate:"required"`
	MemoryLimit string `json:"memoryLimit" validate:"required"`
}

// ProblemDraft is the admin authoring form. Every problem ships starter code
// and a reference solution for each of cpp, java and python.
type ProblemDraft struct {
	Title             string                   `json:"title" validate:"required"`
	Description       string                   `json:"description" validate:"required"`
	Difficulty        string                   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Tags              []string                 `json:"tags,omitempty" validate:"omitempty,dive,required"`
	VisibleTestCases  []VisibleCaseDraft       `json:"visibleTestCases" validate:"min=1,dive"`
	HiddenTestCases   []HiddenCaseDraft        `json:"hiddenTestCases" validate:"min=1,dive"`
	StarterCode       []StarterCodeDraft       `json:"starterCode" validate:"len=3,dive"`
	ReferenceSolution []ReferenceSolutionDraft `json:"referenceSolution" validate:"len=3,dive"`
	Constraints       ConstraintsDraft         `json:"constraints"`
}

// EmptyDraft is the form's starting point.
func EmptyDraft() ProblemDraft {
	langs := []string{"cpp", "java", "python"}
	d := ProblemDraft{
		Difficulty:       string(model.DifficultyEasy),
		VisibleTestCases: []VisibleCaseDraft{},
		HiddenTestCases:  []HiddenCaseDraft{},
	}
	for _, l := range langs {
		d.StarterCode = append(d.StarterCode, StarterCodeDraft{Language: l})
		d.ReferenceSolution = append(d.ReferenceSolution, ReferenceSolutionDraft{Language: l})
	}
	return d
}

func (d ProblemDraft) toProblem() *model.Problem {
	p := &model.Problem{
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  model.ProblemDifficulty(d.Difficulty),
		Tags:        d.Tags,
		Constraints: model.Constraints{
			TimeLimit:   d.Constraints.TimeLimit,
			MemoryLimit: d.Constraints.MemoryLimit,
		},
	}
	for _, c := range d.VisibleTestCases {
		p.VisibleTestCases = append(p.VisibleTestCases, model.VisibleTestCase(c))
	}
	for _, c := range d.HiddenTestCases {
		p.HiddenTestCases = append(p.HiddenTestCases, model.HiddenTestCase(c))
	}
	for _, c := range d.StarterCode {
		p.StarterCode = append(p.StarterCode, model.StarterCode(c))
	}
	for _, c := range d.ReferenceSolution {
		p.ReferenceSolution = append(p.ReferenceSolution, model.ReferenceSolution(c))
	}
	return p
}

type AuthoringService struct {
	creator  ProblemCreator
	users    CurrentUser
	problems *ProblemService
	logger   *zap.SugaredLogger
}

func NewAuthoringService(creator ProblemCreator, users CurrentUser, problems *ProblemService) *AuthoringService {
	return &AuthoringService{
		creator:  creator,
		users:    users,
		problems: problems,
		logger:   logger.NewNamedLogger("authoring_service"),
	}
}

// CreateProblem validates the draft and posts it under the admin's backend
// session.
func (s *AuthoringService) CreateProblem(ctx context.Context, draft ProblemDraft) (*model.Problem, error) {
	user := s.users.User()
	if user == nil {
		return nil, fmt.Errorf("sign in to create problems: %w", common.ErrUnauthorized)
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("only admins can create problems: %w", common.ErrForbidden)
	}
	if err := common.ValidateInput(draft); err != nil {
		return nil, err
	}

	created, err := s.creator.CreateProblem(ctx, draft.toProblem())
	if err != nil {
		return nil, fmt.Errorf("authoringService.CreateProblem: %w", err)
	}
	if s.problems != nil {
		s.problems.InvalidateListing(ctx)
	}
	s.logger.Infow("problem created", "title", created.Title, "admin", user.ID)
	return created, nil
}
