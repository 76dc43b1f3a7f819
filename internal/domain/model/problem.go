package model

type ProblemDifficulty string
type ProblemStatus string

const (
	DifficultyEasy   ProblemDifficulty = "easy"
	DifficultyMedium ProblemDifficulty = "medium"
	DifficultyHard   ProblemDifficulty = "hard"

	StatusSolved    ProblemStatus = "solved"
	StatusAttempted ProblemStatus = "attempted"
	StatusUnsolved  ProblemStatus = "unsolved"
)

// Problem is the backend's problem document. It is read-only on the client.
type Problem struct {
	ID                  string              `json:"_id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Difficulty          ProblemDifficulty   `json:"difficulty"`
	Tags                []string            `json:"tags,omitempty"`
	VisibleTestCases    []VisibleTestCase   `json:"visibleTestCases,omitempty"`
	HiddenTestCases     []HiddenTestCase    `json:"hiddenTestCases,omitempty"` // never leaves the server, see ForDisplay
	HiddenTestCaseCount int                 `json:"hiddenTestCaseCount,omitempty"`
	StarterCode         []StarterCode       `json:"starterCode,omitempty"`
	ReferenceSolution   []ReferenceSolution `json:"referenceSolution,omitempty"` // authoring only
	Constraints         Constraints         `json:"constraints"`
}

// ForDisplay returns a copy that is safe to hand to the browser. Hidden cases
// are reduced to their count and reference solutions are dropped.
func (p *Problem) ForDisplay() *Problem {
	if p == nil {
		return nil
	}
	out := *p
	if n := len(p.HiddenTestCases); n > 0 {
		out.HiddenTestCaseCount = n
	}
	out.HiddenTestCases = nil
	out.ReferenceSolution = nil
	return &out
}

type VisibleTestCase struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type HiddenTestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type StarterCode struct {
	Language    string `json:"language"`
	InitialCode string `json:"initialCode"`
}

type ReferenceSolution struct {
	Language     string `json:"language"`
	CompleteCode string `json:"completeCode"`
}

// Constraints are display strings, e.g. "1s" and "256MB".
type Constraints struct {
	TimeLimit   string `json:"timeLimit"`
	MemoryLimit string `json:"memoryLimit"`
}

// StarterCodeFor returns the first starter entry for language.
func (p *Problem) StarterCodeFor(language string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, sc := range p.StarterCode {
		if sc.Language == language {
			return sc.InitialCode, true
		}
	}
	return "", false
}

// HasTag reports whether tag is one of the problem's tags.
func (p *Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ProblemWithStatus is a listing entry annotated for the current user.
type ProblemWithStatus struct {
	Problem
	Status ProblemStatus `json:"status"`
}

func IsValidDifficulty(d ProblemDifficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
