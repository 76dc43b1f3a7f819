package workflow

import (
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/backend"
)

// Judge0 style status ids used by the backend.
const (
	statusAccepted     = 3
	statusRuntimeError = 4
)

func classifyRun(success backend.SuccessFlag) model.RunOutcome {
	switch success {
	case "accepted":
		return model.OutcomeAccepted
	case "error":
		return model.OutcomeCompileError
	default:
		return model.OutcomeWrongAnswer
	}
}

// VerdictFor maps a per-case status id to its verdict.
func VerdictFor(statusID int) model.Verdict {
	switch statusID {
	case statusAccepted:
		return model.VerdictPassed
	case statusRuntimeError:
		return model.VerdictError
	default:
		return model.VerdictFailed
	}
}

func actualOutput(o model.CaseOutcome) string {
	switch {
	case o.Stdout != "":
		return o.Stdout
	case o.Stderr != "":
		return "Error: " + o.Stderr
	default:
		return "No output"
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

// BuildRows pairs declared visible cases with outcomes by position. The row
// count is the longer of the two; whichever side runs short is filled with
// model.NotAvailable, and a case with no outcome counts as Failed.
func BuildRows(cases []model.VisibleTestCase, outcomes []model.CaseOutcome) []model.CaseRow {
	n := len(outcomes)
	if len(cases) > n {
		n = len(cases)
	}
	rows := make([]model.CaseRow, 0, n)
	for i := 0; i < n; i++ {
		row := model.CaseRow{
			Index:    i,
			Input:    model.NotAvailable,
			Expected: model.NotAvailable,
		}
		if i < len(cases) {
			row.Input = orNotAvailable(cases[i].Input)
			row.Expected = orNotAvailable(cases[i].Output)
		}
		if i < len(outcomes) {
			row.Actual = actualOutput(outcomes[i])
			row.Verdict = outcomes[i].Verdict
		} else {
			row.Actual = model.NotAvailable
			row.Verdict = model.VerdictFailed
			row.Missing = true
		}
		rows = append(rows, row)
	}
	return rows
}

func runResultFrom(resp *backend.RunResponse, cases []model.VisibleTestCase) model.RunResult {
	outcomes := make([]model.CaseOutcome, 0, len(resp.TestCases))
	for _, tc := range resp.TestCases {
		outcomes = append(outcomes, model.CaseOutcome{
			Verdict:  VerdictFor(tc.StatusID),
			Stdout:   tc.Stdout,
			Stderr:   tc.Stderr,
			StatusID: tc.StatusID,
		})
	}
	return model.RunResult{
		Outcome: classifyRun(resp.Success),
		Message: resp.Message,
		Runtime: resp.Runtime,
		Memory:  resp.Memory,
		Cases:   outcomes,
		Rows:    BuildRows(cases, outcomes),
	}
}

func runFailure(err error) model.RunResult {
	return model.RunResult{
		Outcome: model.OutcomeWrongAnswer,
		Message: err.Error(),
		Cases:   []model.CaseOutcome{},
		Rows:    []model.CaseRow{},
		Failed:  true,
	}
}

func submitResultFrom(resp *backend.SubmitResponse) model.SubmitResult {
	// msg wins when the judge fills in both
	msg := resp.Msg
	if msg == "" {
		msg = resp.Message
	}
	return model.SubmitResult{
		Accepted:        resp.Accepted,
		TotalTestCases:  resp.TotalTestCases,
		PassedTestCases: resp.PassedTestCases,
		Runtime:         resp.Runtime,
		Memory:          resp.Memory,
		Message:         msg,
	}
}

func submitFailure(err error) model.SubmitResult {
	return model.SubmitResult{Message: err.Error(), Failed: true}
}

// tally returns passed and total case counts for attempt history.
func tally(r model.Result) (passed, total int) {
	switch r.Kind {
	case model.KindRun:
		for _, c := range r.Run.Cases {
			if c.Verdict == model.VerdictPassed {
				passed++
			}
		}
		return passed, len(r.Run.Cases)
	case model.KindSubmit:
		return r.Submit.PassedTestCases, r.Submit.TotalTestCases
	}
	panic("workflow: unknown operation kind " + string(r.Kind))
}

func failed(r model.Result) bool {
	switch r.Kind {
	case model.KindRun:
		return r.Run.Failed
	case model.KindSubmit:
		return r.Submit.Failed
	}
	panic("workflow: unknown operation kind " + string(r.Kind))
}

func measurements(r model.Result) (runtime, memory model.Measurement) {
	switch r.Kind {
	case model.KindRun:
		return r.Run.Runtime, r.Run.Memory
	case model.KindSubmit:
		return r.Submit.Runtime, r.Submit.Memory
	}
	panic("workflow: unknown operation kind " + string(r.Kind))
}
