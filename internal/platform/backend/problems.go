package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"spidyleet/internal/domain/model"
)

// SolvedPage is one page of the current user's solved problems. TotalItems and
// TotalPages are zero when the backend did not paginate.
type SolvedPage struct {
	Problems   []model.Problem `json:"problemSolved"`
	TotalItems int             `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

func (c *Client) GetProblem(ctx context.Context, id string) (*model.Problem, error) {
	var resp struct {
		Problem *model.Problem `json:"problem"`
	}
	if err := c.do(ctx, http.MethodGet, "/problem/problemById/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Problem == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Problem not found"}
	}
	return resp.Problem, nil
}

func (c *Client) ListProblems(ctx context.Context) ([]model.Problem, error) {
	var resp struct {
		Problems []model.Problem `json:"problems"`
	}
	if err := c.do(ctx, http.MethodGet, "/problem/getAllProblems", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Problems, nil
}

// ListSolvedProblems lists problems solved by the session's user. page and
// pageSize are passed along; a backend that ignores them returns everything.
func (c *Client) ListSolvedProblems(ctx context.Context, page, pageSize int) (*SolvedPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("limit", strconv.Itoa(pageSize))
	}
	var resp SolvedPage
	if err := c.do(ctx, http.MethodGet, "/problem/problemSolvedByUser", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProblem posts an authored problem. Admin session required.
func (c *Client) CreateProblem(ctx context.Context, problem *model.Problem) (*model.Problem, error) {
	var resp struct {
		Problem *model.Problem `json:"problem"`
	}
	if err := c.do(ctx, http.MethodPost, "/problem/create", nil, problem, &resp); err != nil {
		return nil, err
	}
	if resp.Problem == nil {
		return problem, nil
	}
	return resp.Problem, nil
}
