package authhttp

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader correlates a logical request with its replay.
const RequestIDHeader = "X-Request-Id"

type withoutAuthKey struct{}

// WithoutAuth marks requests made with ctx as unauthenticated: no bearer
// credential is attached and a 401 response is returned without renewal.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, withoutAuthKey{}, true)
}

func isWithoutAuth(ctx context.Context) bool {
	v, _ := ctx.Value(withoutAuthKey{}).(bool)
	return v
}

// withRequestID returns req, or a clone of it carrying a fresh request id.
func withRequestID(req *http.Request) *http.Request {
	if req.Header.Get(RequestIDHeader) != "" {
		return req
	}
	out := req.Clone(req.Context())
	out.Header.Set(RequestIDHeader, uuid.NewString())
	return out
}
