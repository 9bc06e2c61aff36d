package taskapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type commentPatch struct {
	Content string `json:"content"`
}

// ListComments lists the comments of one task.
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]Comment, error) {
	if taskID <= 0 {
		return nil, fmt.Errorf("invalid task id %d", taskID)
	}
	query := url.Values{}
	if err := addQuery(query, "task", taskID); err != nil {
		return nil, err
	}
	return list[Comment](ctx, c, "/tasks/comments/", query)
}

func (c *Client) CreateComment(ctx context.Context, in CommentInput) (*Comment, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/tasks/comments/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComment replaces the content of a comment. Only its author may edit it.
func (c *Client) UpdateComment(ctx context.Context, id int64, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("comment content cannot be empty")
	}
	path, err := resourcePath("/tasks/comments/%s/", id)
	if err != nil {
		return nil, err
	}
	var out Comment
	if err := c.do(ctx, http.MethodPatch, path, nil, commentPatch{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	path, err := resourcePath("/tasks/comments/%s/", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
