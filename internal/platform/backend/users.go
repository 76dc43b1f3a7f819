package backend

import (
	"context"
	"net/http"

	"spidyleet/internal/domain/model"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User *model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/users/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// CheckAuth returns the user behind the current session cookie. A nil user with
// a nil error means the backend answered but holds no session.
func (c *Client) CheckAuth(ctx context.Context) (*model.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/checkAuth", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil, nil)
}
