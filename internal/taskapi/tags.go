package taskapi

import (
	"context"
	"net/http"
)

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	return list[Tag](ctx, c, "/tasks/tags/", nil)
}

// CreateTag creates a tag. Tag names are unique; the backend picks a default
// color when none is given.
func (c *Client) CreateTag(ctx context.Context, in TagInput) (*Tag, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out Tag
	if err := c.do(ctx, http.MethodPost, "/tasks/tags/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
