package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type OperationKind string

const (
	KindRun    OperationKind = "run"    // trial run against the visible cases
	KindSubmit OperationKind = "submit" // final submission against the full suite
)

type RunOutcome string

const (
	OutcomeAccepted     RunOutcome = "accepted"
	OutcomeCompileError RunOutcome = "compile_error"
	OutcomeWrongAnswer  RunOutcome = "wrong_answer"
)

type Verdict string

const (
	VerdictPassed Verdict = "Passed"
	VerdictFailed Verdict = "Failed"
	VerdictError  Verdict = "Error"
)

// NotAvailable stands in for any value the backend did not pair up.
const NotAvailable = "N/A"

// Measurement is a runtime or memory figure as reported by the backend.
// The backend sends either a number or a string; an empty value means absent.
type Measurement string

func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measurement(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("measurement %s: %w", data, err)
	}
	*m = Measurement(n.String())
	return nil
}

func (m Measurement) IsSet() bool { return m != "" }

// Float returns the numeric value, false when absent or not numeric.
func (m Measurement) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(m), 64)
	return f, err == nil
}

// CaseOutcome is one per-visible-case outcome of a trial run.
type CaseOutcome struct {
	Verdict  Verdict `json:"verdict"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	StatusID int     `json:"status_id"`
}

// CaseRow is the derived display row pairing a declared visible case with
// the outcome at the same position.
type CaseRow struct {
	Index    int     `json:"index"`
	Input    string  `json:"input"`
	Expected string  `json:"expected"`
	Actual   string  `json:"actual"`
	Verdict  Verdict `json:"verdict"`
	Missing  bool    `json:"missing,omitempty"` // no outcome came back for this case
}

type RunResult struct {
	Outcome RunOutcome    `json:"outcome"`
	Message string        `json:"message,omitempty"`
	Runtime Measurement   `json:"runtime,omitempty"`
	Memory  Measurement   `json:"memory,omitempty"`
	Cases   []CaseOutcome `json:"cases"`
	Rows    []CaseRow     `json:"rows"`
	Failed  bool          `json:"failed,omitempty"` // the call itself failed
}

type SubmitResult struct {
	Accepted        bool        `json:"accepted"`
	TotalTestCases  int         `json:"totalTestCases"`
	PassedTestCases int         `json:"passedTestCases"`
	Runtime         Measurement `json:"runtime,omitempty"`
	Memory          Measurement `json:"memory,omitempty"`
	Message         string      `json:"message,omitempty"`
	Failed          bool        `json:"failed,omitempty"`
}

// Result is the normalized outcome of one judging operation. Exactly one of
// Run and Submit is set, matching Kind.
type Result struct {
	Kind   OperationKind `json:"kind"`
	Run    *RunResult    `json:"run,omitempty"`
	Submit *SubmitResult `json:"submit,omitempty"`
}

func NewRunResult(r RunResult) Result {
	return Result{Kind: KindRun, Run: &r}
}

func NewSubmitResult(r SubmitResult) Result {
	return Result{Kind: KindSubmit, Submit: &r}
}

// Verdict condenses the result into the string kept in attempt history.
func (r Result) Verdict() string {
	switch r.Kind {
	case KindRun:
		if r.Run.Failed {
			return "error"
		}
		return string(r.Run.Outcome)
	case KindSubmit:
		switch {
		case r.Submit.Failed:
			return "error"
		case r.Submit.Accepted:
			return "accepted"
		default:
			return "rejected"
		}
	}
	panic(fmt.Sprintf("model: unknown operation kind %q", r.Kind))
}
