package taskapi

import (
	"context"
	"net/http"
	"net/url"
)

// query renders the non-zero filter fields.
func (f TaskFilter) query() (url.Values, error) {
	values := url.Values{}
	params := []struct {
		name  string
		set   bool
		value any
	}{
		{"project", f.Project != 0, f.Project},
		{"status", f.Status != "", string(f.Status)},
		{"priority", f.Priority != "", string(f.Priority)},
		{"assignee", f.Assignee != 0, f.Assignee},
		{"search", f.Search != "", f.Search},
		{"ordering", f.Ordering != "", f.Ordering},
	}
	for _, p := range params {
		if !p.set {
			continue
		}
		if err := addQuery(values, p.name, p.value); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// ListTasks lists the tasks visible to the user, narrowed by filter.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	if err := c.check(filter); err != nil {
		return nil, err
	}
	query, err := filter.query()
	if err != nil {
		return nil, err
	}
	return list[Task](ctx, c, "/tasks/", query)
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTask returns the detail representation including comments and attachments.
func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	path, err := resourcePath("/tasks/%s/", id)
	if err != nil {
		return nil, err
	}
	var out Task
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*Task, error) {
	if err := c.check(patch); err != nil {
		return nil, err
	}
	path, err := resourcePath("/tasks/%s/", id)
	if err != nil {
		return nil, err
	}
	var out Task
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path, err := resourcePath("/tasks/%s/", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
