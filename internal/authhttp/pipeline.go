package authhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/florianilch/taskdesk/internal/tokenstore"
)

// Pipeline is an http.RoundTripper that presents the stored access token as a
// bearer credential. The token is read from Store on every request, so a
// renewal is visible to the next request without any cached copy.
type Pipeline struct {
	// Base dispatches the request. http.DefaultTransport if nil.
	Base http.RoundTripper

	// Store holds the session tokens.
	Store tokenstore.Store
}

// Compile-time check that Pipeline implements http.RoundTripper.
var _ http.RoundTripper = (*Pipeline)(nil)

// RoundTrip attaches the current access token, if any, and dispatches the request.
// Responses and transport errors are returned unmodified.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	if isWithoutAuth(req.Context()) {
		return p.dispatch(withRequestID(req), "")
	}

	token, err := p.accessToken(req.Context())
	if err != nil {
		closeRequestBody(req)
		return nil, err
	}
	return p.dispatch(withRequestID(req), token)
}

// accessToken returns the stored access token, or "" if none is stored.
func (p *Pipeline) accessToken(ctx context.Context) (string, error) {
	token, err := p.Store.Get(ctx, tokenstore.Access)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	return token, nil
}

// refreshToken returns the stored refresh token, or "" if none is stored.
func (p *Pipeline) refreshToken(ctx context.Context) (string, error) {
	token, err := p.Store.Get(ctx, tokenstore.Refresh)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading refresh token: %w", err)
	}
	return token, nil
}

// dispatch sends a clone of req carrying token. An empty token sends the request as is.
func (p *Pipeline) dispatch(req *http.Request, token string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	}
	return p.base().RoundTrip(out)
}

func (p *Pipeline) base() http.RoundTripper {
	if p.Base == nil {
		return http.DefaultTransport
	}
	return p.Base
}

// closeRequestBody honours the RoundTripper contract of always closing the body.
func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
