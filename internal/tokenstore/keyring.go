package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore provides OS-native secure credential storage for tokens.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
// Each token kind is a separate secret under "<service>/<kind>".
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the OS-native credential storage
// using the given service and user identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{
		service: service,
		user:    user,
	}, nil
}

// Get returns the token from the system keyring.
func (k *KeyringStore) Get(ctx context.Context, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !kind.valid() {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	token, err := keyring.Get(k.secret(kind), k.user)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && token == "") {
		return "", fmt.Errorf("%s in keyring for user %s: %w", kind, k.user, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Set persists the token to the system keyring, overwriting any existing value.
func (k *KeyringStore) Set(ctx context.Context, kind Kind, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !kind.valid() {
		return fmt.Errorf("unknown token kind %q", kind)
	}
	if value == "" {
		return fmt.Errorf("refusing to store empty %s", kind)
	}

	return keyring.Set(k.secret(kind), k.user, value)
}

// Clear deletes both secrets. Missing secrets are ignored.
func (k *KeyringStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, kind := range Kinds {
		if err := keyring.Delete(k.secret(kind), k.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			errs = append(errs, fmt.Errorf("deleting %s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

func (k *KeyringStore) secret(kind Kind) string {
	return k.service + "/" + string(kind)
}
