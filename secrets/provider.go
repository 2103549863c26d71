package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned (wrapped) when a backend has no value for a key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretsProvider resolves named secrets from a storage backend.
type SecretsProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	Close() error
	Type() string
}

// Lookup returns the secret for key, or "" when the backend has no such key.
// Any other backend failure is returned.
func Lookup(ctx context.Context, p SecretsProvider, key string) (string, error) {
	v, err := p.GetSecret(ctx, key)
	if errors.Is(err, ErrSecretNotFound) {
		return "", nil
	}
	return v, err
}
