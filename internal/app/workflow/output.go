package workflow

import (
	"fmt"

	"spidyleet/internal/domain/model"
)

// OutputText renders the output panel for a phase.
func OutputText(p Phase) string {
	switch p.Kind {
	case PhaseIdle:
		return ""
	case PhasePending:
		if p.Op == model.KindSubmit {
			return "Submitting code..."
		}
		return "Running code..."
	case PhaseSettled:
		return resultText(*p.Result)
	}
	return ""
}

func resultText(r model.Result) string {
	switch r.Kind {
	case model.KindRun:
		return runText(r.Run)
	case model.KindSubmit:
		return submitText(r.Submit)
	}
	panic("workflow: unknown operation kind " + string(r.Kind))
}

func runText(r *model.RunResult) string {
	if r.Failed {
		return "Error: " + r.Message
	}
	switch r.Outcome {
	case model.OutcomeAccepted:
		return fmt.Sprintf("Execution successful! Runtime: %ss, Memory: %sKB", r.Runtime, r.Memory)
	case model.OutcomeCompileError:
		return "Compilation Error:\n" + r.Message
	default:
		msg := r.Message
		if msg == "" {
			msg = "Check test cases below."
		}
		return "Some tests failed. Message: " + msg
	}
}

func submitText(r *model.SubmitResult) string {
	if r.Failed {
		return "Error: " + r.Message
	}
	if r.Accepted {
		return fmt.Sprintf("Submission Accepted! All %d tests passed.", r.TotalTestCases)
	}
	text := fmt.Sprintf("Submission Failed! Passed %d out of %d tests.", r.PassedTestCases, r.TotalTestCases)
	if r.Message != "" {
		text += "\nError: " + r.Message
	}
	return text
}
