package model

import "time"

// Attempt is one settled run or submission, kept for the submissions tab.
type Attempt struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	ProblemID string        `json:"problem_id"`
	Kind      OperationKind `json:"kind"`
	Language  string        `json:"language"`
	Verdict   string        `json:"verdict"`
	Passed    int           `json:"passed"`
	Total     int           `json:"total"`
	Runtime   string        `json:"runtime,omitempty"`
	Memory    string        `json:"memory,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
