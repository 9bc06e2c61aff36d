package taskapi

import (
	"context"
	"fmt"
	"net/http"
)

type memberRequest struct {
	UserID int64 `json:"user_id"`
}

type memberResponse struct {
	Message string `json:"message"`
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	return list[Project](ctx, c, "/projects/", nil)
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Project
	if err := c.do(ctx, http.MethodPost, "/projects/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	path, err := resourcePath("/projects/%s/", id)
	if err != nil {
		return nil, err
	}
	var out Project
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject applies a partial update. Only the owner may update a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*Project, error) {
	if err := c.check(patch); err != nil {
		return nil, err
	}
	path, err := resourcePath("/projects/%s/", id)
	if err != nil {
		return nil, err
	}
	var out Project
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	path, err := resourcePath("/projects/%s/", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// AddMember adds a user to the project and returns the backend's confirmation.
func (c *Client) AddMember(ctx context.Context, projectID, userID int64) (string, error) {
	return c.member(ctx, "/projects/%s/add_member/", projectID, userID)
}

// RemoveMember removes a user from the project. The owner cannot be removed.
func (c *Client) RemoveMember(ctx context.Context, projectID, userID int64) (string, error) {
	return c.member(ctx, "/projects/%s/remove_member/", projectID, userID)
}

func (c *Client) member(ctx context.Context, format string, projectID, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id %d", userID)
	}
	path, err := resourcePath(format, projectID)
	if err != nil {
		return "", err
	}
	var out memberResponse
	if err := c.do(ctx, http.MethodPost, path, nil, memberRequest{UserID: userID}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
