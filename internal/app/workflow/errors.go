package workflow

import "errors"

var (
	ErrJudgingInFlight = errors.New("a run or submission is already in progress")
	ErrNoProblemLoaded = errors.New("no problem loaded")
	ErrSessionClosed   = errors.New("workspace is closed")
	// ErrStaleResponse is returned when a response arrived after the workspace
	// moved on to another problem. The response was dropped.
	ErrStaleResponse = errors.New("response superseded by a newer load")
	ErrUnknownTab    = errors.New("unknown tab")
)
