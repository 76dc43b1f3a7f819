package listing_test

import (
	"testing"

	. "spidyleet/internal/app/listing"
	"spidyleet/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []model.ProblemWithStatus {
	return Classify([]model.Problem{
		{ID: "1", Title: "Rotate", Difficulty: model.DifficultyEasy, Tags: []string{"Array"}},
		{ID: "2", Title: "Palindrome", Difficulty: model.DifficultyHard, Tags: []string{"String"}},
	}, nil, nil)
}

func ids(ps []model.ProblemWithStatus) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	problems := sample()

	got := Filter(problems, Filters{Difficulty: "easy", Status: All, Tag: All})
	assert.Equal(t, []string{"1"}, ids(got))

	got = Filter(problems, Filters{Difficulty: All, Status: All, Tag: "String"})
	assert.Equal(t, []string{"2"}, ids(got))

	got = Filter(problems, Filters{})
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got = Filter(problems, Filters{Difficulty: "medium"})
	assert.Empty(t, got)

	got = Filter(problems, Filters{Status: "solved"})
	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	problems := []model.Problem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	solved := IDSet([]model.Problem{{ID: "a"}})
	attempted := map[string]struct{}{"a": {}, "b": {}}

	got := Classify(problems, solved, attempted)
	require.Len(t, got, 3)
	assert.Equal(t, model.StatusSolved, got[0].Status)
	assert.Equal(t, model.StatusAttempted, got[1].Status)
	assert.Equal(t, model.StatusUnsolved, got[2].Status)

	assert.Equal(t, []string{"a"}, ids(Filter(got, Filters{Status: "solved"})))
}

func TestTags(t *testing.T) {
	tags := Tags([]model.Problem{
		{Tags: []string{"dp", "array"}},
		{Tags: []string{"graph", "array"}},
		{},
	})
	assert.Equal(t, []string{"array", "dp", "graph"}, tags)
	assert.Empty(t, Tags(nil))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Equal(t, 5, p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, p.Items)

	p = Paginate(items, 9, 2)
	assert.Empty(t, p.Items)
	assert.Equal(t, 9, p.Page)

	p = Paginate(items, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Len(t, p.Items, 5)

	p = Paginate([]int{}, 1, 10)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}
