package backend

import (
	"context"
	"net/http"
	"net/url"

	"spidyleet/internal/domain/model"
)

type judgeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type RawCaseOutcome struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	StatusID int    `json:"status_id"`
}

// RunResponse is the trial-run payload. Success carries "accepted" or "error";
// the backend has also been seen sending a bool, so it is decoded loosely.
type RunResponse struct {
	Success   SuccessFlag       `json:"success"`
	Message   string            `json:"message"`
	Runtime   model.Measurement `json:"runtime"`
	Memory    model.Measurement `json:"memory"`
	TestCases []RawCaseOutcome  `json:"testCases"`
}

type SubmitResponse struct {
	Accepted        bool              `json:"accepted"`
	PassedTestCases int               `json:"passedTestCases"`
	TotalTestCases  int               `json:"totalTestCases"`
	Runtime         model.Measurement `json:"runtime"`
	Memory          model.Measurement `json:"memory"`
	Message         string            `json:"message"`
	Msg             string            `json:"msg"`
}

// SuccessFlag decodes "accepted"/"error" strings as well as bare booleans
// (true becomes "accepted", false "").
type SuccessFlag string

func (s *SuccessFlag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*s = "accepted"
		return nil
	case "false", "null":
		*s = ""
		return nil
	}
	var m model.Measurement
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = SuccessFlag(m)
	return nil
}

// RunTrial judges code against the problem's visible cases.
func (c *Client) RunTrial(ctx context.Context, problemID, code, language string) (*RunResponse, error) {
	var resp RunResponse
	path := "/problem/submit/" + url.PathEscape(problemID) + "/run"
	if err := c.do(ctx, http.MethodPost, path, nil, judgeRequest{Code: code, Language: language}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitFinal judges code against the full suite.
func (c *Client) SubmitFinal(ctx context.Context, problemID, code, language string) (*SubmitResponse, error) {
	var resp SubmitResponse
	path := "/problem/submit/" + url.PathEscape(problemID)
	if err := c.do(ctx, http.MethodPost, path, nil, judgeRequest{Code: code, Language: language}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
