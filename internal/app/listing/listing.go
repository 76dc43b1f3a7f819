// Package listing filters and annotates problem listings. Everything here is
// pure; fetching lives in the service layer.
package listing

import (
	"sort"

	"spidyleet/internal/domain/model"
)

// All is the filter value that matches anything.
const All = "all"

type Filters struct {
	Difficulty string `json:"difficulty"`
	Status     string `json:"status"`
	Tag        string `json:"tag"`
}

// Normalize maps empty fields to All.
func (f Filters) Normalize() Filters {
	if f.Difficulty == "" {
		f.Difficulty = All
	}
	if f.Status == "" {
		f.Status = All
	}
	if f.Tag == "" {
		f.Tag = All
	}
	return f
}

func (f Filters) Match(p model.ProblemWithStatus) bool {
	f = f.Normalize()
	if f.Difficulty != All && string(p.Difficulty) != f.Difficulty {
		return false
	}
	if f.Status != All && string(p.Status) != f.Status {
		return false
	}
	if f.Tag != All && !p.HasTag(f.Tag) {
		return false
	}
	return true
}

// Filter returns the problems matching f, in input order.
func Filter(problems []model.ProblemWithStatus, f Filters) []model.ProblemWithStatus {
	out := make([]model.ProblemWithStatus, 0, len(problems))
	for _, p := range problems {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Classify annotates each problem with the user's status. Solved wins over
// attempted.
func Classify(problems []model.Problem, solved, attempted map[string]struct{}) []model.ProblemWithStatus {
	out := make([]model.ProblemWithStatus, 0, len(problems))
	for _, p := range problems {
		status := model.StatusUnsolved
		if _, ok := solved[p.ID]; ok {
			status = model.StatusSolved
		} else if _, ok := attempted[p.ID]; ok {
			status = model.StatusAttempted
		}
		out = append(out, model.ProblemWithStatus{Problem: p, Status: status})
	}
	return out
}

// IDSet collects problem ids.
func IDSet(problems []model.Problem) map[string]struct{} {
	set := make(map[string]struct{}, len(problems))
	for _, p := range problems {
		set[p.ID] = struct{}{}
	}
	return set
}

// Tags returns the distinct tags of problems, sorted.
func Tags(problems []model.Problem) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, p := range problems {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into 1-based pages. A page past the end is empty;
// non-positive page or pageSize fall back to 1 and 20.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      append([]T{}, items[start:end]...),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
