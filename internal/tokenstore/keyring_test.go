package tokenstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestNewKeyringStore_Validation(t *testing.T) {
	tests := []struct {
		name    string
		service string
		user    string
	}{
		{name: "empty service", service: "", user: "alice"},
		{name: "empty user", service: "taskdesk", user: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyringStore(tt.service, tt.user)
			require.Error(t, err)
		})
	}
}

func TestKeyringStore_Lifecycle(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	store, err := NewKeyringStore("taskdesk", "alice")
	require.NoError(t, err)

	_, err = store.Get(ctx, Access)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, Access, "A1"))
	require.NoError(t, store.Set(ctx, Refresh, "R1"))

	access, err := store.Get(ctx, Access)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)

	raw, err := keyring.Get("taskdesk/refresh_token", "alice")
	require.NoError(t, err)
	assert.Equal(t, "R1", raw)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx), "second clear ignores missing secrets")

	_, err = store.Get(ctx, Refresh)
	require.ErrorIs(t, err, ErrNotFound)
}
