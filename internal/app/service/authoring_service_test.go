package service_test

import (
	"context"
	"testing"
	"time"

	"spidyleet/internal/app/listing"
	"spidyleet/internal/app/service"
	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() service.ProblemDraft {
	d := service.EmptyDraft()
	d.Title = "Two Sum"
	d.Description = "Add two numbers."
	d.Tags = []string{"Array"}
	d.VisibleTestCases = []service.VisibleCaseDraft{{Input: "1 2", Output: "3", Explanation: "1+2"}}
	d.HiddenTestCases = []service.HiddenCaseDraft{{Input: "2 2", Output: "4"}}
	for i := range d.StarterCode {
		d.StarterCode[i].InitialCode = "// start"
		d.ReferenceSolution[i].CompleteCode = "// done"
	}
	d.Constraints = service.ConstraintsDraft{TimeLimit: "1s", MemoryLimit: "256MB"}
	return d
}

func TestEmptyDraft(t *testing.T) {
	d := service.EmptyDraft()
	require.Len(t, d.StarterCode, 3)
	assert.Equal(t, "cpp", d.StarterCode[0].Language)
	assert.Equal(t, "java", d.StarterCode[1].Language)
	assert.Equal(t, "python", d.ReferenceSolution[2].Language)
	assert.Equal(t, "easy", d.Difficulty)
}

func TestAuthoringService_CreateProblem(t *testing.T) {
	ctx := context.Background()
	fb := &fakeBackend{problems: catalog()}
	problems := service.NewProblemService(fb, cache.NewLRU(8, time.Minute), nil, time.Minute)
	admin := staticUser{user: &model.User{ID: "a1", Role: model.RoleAdmin}}
	svc := service.NewAuthoringService(fb, admin, problems)

	_, err := problems.ListProblems(ctx, "", listing.Filters{})
	require.NoError(t, err)

	created, err := svc.CreateProblem(ctx, validDraft())
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	require.Len(t, fb.created, 1)
	p := fb.created[0]
	assert.Equal(t, model.DifficultyEasy, p.Difficulty)
	assert.Equal(t, "1+2", p.VisibleTestCases[0].Explanation)
	assert.Equal(t, "// done", p.ReferenceSolution[1].CompleteCode)
	assert.Equal(t, "256MB", p.Constraints.MemoryLimit)

	// the listing is refetched after a create
	_, err = problems.ListProblems(ctx, "", listing.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 2, fb.listCalls)
}

func TestAuthoringService_RequiresAdmin(t *testing.T) {
	fb := &fakeBackend{}

	_, err := service.NewAuthoringService(fb, staticUser{}, nil).CreateProblem(context.Background(), validDraft())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	user := staticUser{user: &model.User{ID: "u1", Role: model.RoleUser}}
	_, err = service.NewAuthoringService(fb, user, nil).CreateProblem(context.Background(), validDraft())
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Empty(t, fb.created)
}

func TestAuthoringService_Validation(t *testing.T) {
	admin := staticUser{user: &model.User{ID: "a1", Role: model.RoleAdmin}}

	tests := []struct {
		name string
		mut  func(*service.ProblemDraft)
		want string
	}{
		{"title", func(d *service.ProblemDraft) { d.Title = "" }, "title is required"},
		{"difficulty", func(d *service.ProblemDraft) { d.Difficulty = "extreme" }, "difficulty must be one of [easy medium hard]"},
		{"visible cases", func(d *service.ProblemDraft) { d.VisibleTestCases = nil }, "visibleTestCases must have at least 1 items"},
		{"explanation", func(d *service.ProblemDraft) { d.VisibleTestCases[0].Explanation = "" }, "explanation is required"},
		{"hidden cases", func(d *service.ProblemDraft) { d.HiddenTestCases = nil }, "hiddenTestCases must have at least 1 items"},
		{"starter codes", func(d *service.ProblemDraft) { d.StarterCode = d.StarterCode[:2] }, "starterCode must have exactly 3 items"},
		{"reference code", func(d *service.ProblemDraft) { d.ReferenceSolution[0].CompleteCode = "" }, "completeCode is required"},
		{"memory limit", func(d *service.ProblemDraft) { d.Constraints.MemoryLimit = "" }, "memoryLimit is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{}
			d := validDraft()
			tt.mut(&d)

			_, err := service.NewAuthoringService(fb, admin, nil).CreateProblem(context.Background(), d)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, fb.created)
		})
	}
}
