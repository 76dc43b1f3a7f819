package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurement_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Num  Measurement `json:"num"`
		Str  Measurement `json:"str"`
		Null Measurement `json:"null"`
	}
	err := json.Unmarshal([]byte(`{"num": 0.042, "str": "12", "null": null}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, Measurement("0.042"), payload.Num)
	assert.Equal(t, Measurement("12"), payload.Str)
	assert.False(t, payload.Null.IsSet())

	f, ok := payload.Num.Float()
	assert.True(t, ok)
	assert.InDelta(t, 0.042, f, 1e-9)
}

func TestMeasurement_RejectsObjects(t *testing.T) {
	var m Measurement
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &m))
}

func TestResult_Verdict(t *testing.T) {
	assert.Equal(t, "accepted", NewRunResult(RunResult{Outcome: OutcomeAccepted}).Verdict())
	assert.Equal(t, "compile_error", NewRunResult(RunResult{Outcome: OutcomeCompileError}).Verdict())
	assert.Equal(t, "error", NewRunResult(RunResult{Outcome: OutcomeWrongAnswer, Failed: true}).Verdict())
	assert.Equal(t, "accepted", NewSubmitResult(SubmitResult{Accepted: true}).Verdict())
	assert.Equal(t, "rejected", NewSubmitResult(SubmitResult{}).Verdict())
	assert.Equal(t, "error", NewSubmitResult(SubmitResult{Failed: true}).Verdict())
}

func TestProblem_StarterCodeFor(t *testing.T) {
	p := &Problem{StarterCode: []StarterCode{
		{Language: "cpp", InitialCode: "// cpp"},
		{Language: "javascript", InitialCode: "// js"},
	}}

	code, ok := p.StarterCodeFor("javascript")
	assert.True(t, ok)
	assert.Equal(t, "// js", code)

	_, ok = p.StarterCodeFor("rust")
	assert.False(t, ok)

	var nilProblem *Problem
	_, ok = nilProblem.StarterCodeFor("cpp")
	assert.False(t, ok)
}
