package tokenstore

import (
	"context"
	"errors"
)

// Kind identifies one of the tokens held by a Store.
type Kind string

const (
	Access  Kind = "access_token"
	Refresh Kind = "refresh_token"
)

// Kinds lists every token kind a Store manages.
var Kinds = []Kind{Access, Refresh}

// ErrNotFound is returned by Get when no token of the requested kind is stored.
var ErrNotFound = errors.New("token not found")

// Store reads and writes session tokens to persistent storage.
type Store interface {
	// Get returns the stored token of the given kind. Returns an error wrapping
	// ErrNotFound if the token is absent or empty.
	Get(ctx context.Context, kind Kind) (string, error)

	// Set overwrites the token of the given kind.
	Set(ctx context.Context, kind Kind, value string) error

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

func (k Kind) valid() bool {
	return k == Access || k == Refresh
}
