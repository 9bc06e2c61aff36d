package authhttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/florianilch/taskdesk/internal/tokenstore"
)

// maxAttempts bounds a logical request to the original dispatch plus one replay.
const maxAttempts = 2

// Renewer exchanges a refresh token for a new access token.
type Renewer interface {
	Renew(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// RenewalMode selects how concurrent renewals are scheduled.
type RenewalMode string

const (
	// RenewalCoalesced shares one in-flight renewal between all requests that
	// fail with the same refresh token.
	RenewalCoalesced RenewalMode = "coalesced"

	// RenewalIndependent lets every failing request run its own renewal.
	// Last writer wins on the stored access token.
	RenewalIndependent RenewalMode = "independent"
)

// RenewalOption configures a RenewalTransport.
type RenewalOption func(*RenewalTransport)

// WithRenewalMode sets the renewal scheduling. RenewalCoalesced if not provided.
func WithRenewalMode(mode RenewalMode) RenewalOption {
	return func(t *RenewalTransport) {
		t.mode = mode
	}
}

// WithLogger sets the logger used for renewal events. slog.Default() if not provided.
func WithLogger(logger *slog.Logger) RenewalOption {
	return func(t *RenewalTransport) {
		t.logger = logger
	}
}

// OnSessionExpired registers a callback invoked once per failed renewal, after
// the store has been cleared. The UI layer uses it to send the user back to login.
func OnSessionExpired(fn func(ctx context.Context, err error)) RenewalOption {
	return func(t *RenewalTransport) {
		t.onExpired = fn
	}
}

// RenewalTransport is an http.RoundTripper that renews the access token on the
// first 401 of a request and replays the request once with the new token.
type RenewalTransport struct {
	pipeline  *Pipeline
	renewer   Renewer
	mode      RenewalMode
	logger    *slog.Logger
	onExpired func(ctx context.Context, err error)

	group singleflight.Group
}

// Compile-time check that RenewalTransport implements http.RoundTripper.
var _ http.RoundTripper = (*RenewalTransport)(nil)

// NewRenewalTransport wraps pipeline with token renewal backed by renewer.
func NewRenewalTransport(pipeline *Pipeline, renewer Renewer, opts ...RenewalOption) *RenewalTransport {
	t := &RenewalTransport{
		pipeline: pipeline,
		renewer:  renewer,
		mode:     RenewalCoalesced,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip dispatches req through the pipeline. The caller's request is never
// modified; the attempt count lives here so a replay cannot renew again.
func (t *RenewalTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if isWithoutAuth(ctx) {
		return t.pipeline.RoundTrip(req)
	}

	req = withRequestID(req)
	logger := t.logger.With("request_id", req.Header.Get(RequestIDHeader))

	token, err := t.pipeline.accessToken(ctx)
	if err != nil {
		closeRequestBody(req)
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		resp, err := t.pipeline.dispatch(req, token)
		if err != nil || resp.StatusCode != http.StatusUnauthorized || attempt >= maxAttempts {
			return resp, err
		}

		refresh, err := t.pipeline.refreshToken(ctx)
		if err != nil {
			discard(resp)
			return nil, err
		}
		if refresh == "" {
			logger.DebugContext(ctx, "unauthorized without refresh token", "method", req.Method, "path", req.URL.Path)
			return resp, nil
		}

		replay, ok := rewind(req)
		if !ok {
			logger.WarnContext(ctx, "request body cannot be replayed, skipping token renewal", "method", req.Method, "path", req.URL.Path)
			return resp, nil
		}
		discard(resp)

		token, err = t.renew(ctx, refresh)
		if err != nil {
			closeRequestBody(replay)
			return nil, err
		}

		logger.DebugContext(ctx, "replaying request with renewed access token", "method", req.Method, "path", req.URL.Path)
		req = replay
	}
}

// renew returns a fresh access token, sharing the call with concurrent requests
// in coalesced mode.
func (t *RenewalTransport) renew(ctx context.Context, refresh string) (string, error) {
	if t.mode == RenewalIndependent {
		return t.renewOnce(ctx, refresh)
	}

	// One caller giving up must not fail the renewal for the others.
	ch := t.group.DoChan(refresh, func() (any, error) {
		return t.renewOnce(context.WithoutCancel(ctx), refresh)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// renewOnce performs one renewal call and applies its outcome to the store.
func (t *RenewalTransport) renewOnce(ctx context.Context, refresh string) (string, error) {
	t.logger.DebugContext(ctx, "renewing access token")

	tok, err := t.renewer.Renew(ctx, refresh)
	if err == nil && tok.AccessToken == "" {
		err = errors.New("renewal returned an empty access token")
	}
	if err != nil {
		// A caller that gave up has not proven the refresh token invalid.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", t.expire(ctx, err)
	}

	if err := t.pipeline.Store.Set(ctx, tokenstore.Access, tok.AccessToken); err != nil {
		return "", fmt.Errorf("storing renewed access token: %w", err)
	}

	t.logger.InfoContext(ctx, "access token renewed")
	return tok.AccessToken, nil
}

// expire tears the session down after a failed renewal.
func (t *RenewalTransport) expire(ctx context.Context, cause error) error {
	t.logger.WarnContext(ctx, "token renewal failed, clearing session", "error", cause)

	if err := t.pipeline.Store.Clear(ctx); err != nil {
		t.logger.ErrorContext(ctx, "failed to clear token store", "error", err)
	}

	expired := &SessionExpiredError{Cause: cause}
	if t.onExpired != nil {
		t.onExpired(ctx, expired)
	}
	return expired
}

// rewind prepares a replay of req with a fresh copy of its body.
// Returns false if the body was consumed and cannot be recreated.
func rewind(req *http.Request) (*http.Request, bool) {
	out := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return out, true
	}
	if req.GetBody == nil {
		return nil, false
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	out.Body = body
	return out, true
}

// discard drains a bounded amount of the body so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
