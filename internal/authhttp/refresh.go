package authhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// RefreshPath is the renewal endpoint, relative to the API base URL.
const RefreshPath = "/users/token/refresh/"

// RefreshOption configures a RefreshEndpoint.
type RefreshOption func(*refreshConfig)

// refreshConfig holds configuration for NewRefreshEndpoint.
type refreshConfig struct {
	baseTransport http.RoundTripper
}

// WithTransport sets a custom base transport for renewal requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) RefreshOption {
	return func(c *refreshConfig) {
		c.baseTransport = transport
	}
}

// RefreshEndpoint renews access tokens against the backend's token refresh view.
// Renewal requests never carry a bearer credential.
type RefreshEndpoint struct {
	url    string
	client *http.Client
}

// Compile-time check to ensure RefreshEndpoint implements Renewer
var _ Renewer = (*RefreshEndpoint)(nil)

// NewRefreshEndpoint creates a RefreshEndpoint for the API rooted at baseURL.
func NewRefreshEndpoint(baseURL string, opts ...RefreshOption) (*RefreshEndpoint, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	cfg := &refreshConfig{
		baseTransport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RefreshEndpoint{
		url:    strings.TrimRight(baseURL, "/") + RefreshPath,
		client: &http.Client{Transport: cfg.baseTransport},
	}, nil
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
	Detail string `json:"detail,omitempty"`
}

// Renew posts the refresh token and returns the new access token.
// The refresh token itself is left untouched.
func (e *RefreshEndpoint) Renew(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("marshaling refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(WithoutAuth(ctx), http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token renewal: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading refresh response: %w", err)
	}

	var out refreshResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Detail
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return nil, &RenewalError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", decodeErr)
	}
	if out.Access == "" {
		return nil, &RenewalError{StatusCode: resp.StatusCode, Message: "response carries no access token"}
	}

	return &oauth2.Token{AccessToken: out.Access, TokenType: "Bearer"}, nil
}
