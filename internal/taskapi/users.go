package taskapi

import (
	"context"
	"net/http"

	"github.com/florianilch/taskdesk/internal/authhttp"
)

// Register creates an account. No credential is sent.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out User
	if err := c.do(authhttp.WithoutAuth(ctx), http.MethodPost, "/users/register/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token pair. Storing the pair is up to the caller.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	if err := c.check(creds); err != nil {
		return nil, err
	}
	var out TokenPair
	if err := c.do(authhttp.WithoutAuth(ctx), http.MethodPost, "/users/token/", nil, creds, &out); err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "login response is missing tokens"}
	}
	return &out, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/profile/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (*User, error) {
	if err := c.check(patch); err != nil {
		return nil, err
	}
	var out User
	if err := c.do(ctx, http.MethodPatch, "/users/profile/", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers lists every account, e.g. to pick assignees or members.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return list[User](ctx, c, "/users/", nil)
}
