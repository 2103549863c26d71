package secrets

import (
	"context"
	"fmt"
	"os"
)

// EnvSecretsProvider implements SecretsProvider using environment variables
type EnvSecretsProvider struct {
	prefix string
}

var _ SecretsProvider = (*EnvSecretsProvider)(nil)

// NewEnvSecretsProvider creates a new environment variable secrets provider
func NewEnvSecretsProvider(prefix string) *EnvSecretsProvider {
	return &EnvSecretsProvider{prefix: prefix}
}

// GetSecret reads prefix+key, falling back to the bare key. A variable that is
// set to the empty string counts as found.
func (e *EnvSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.prefix != "" {
		if v, ok := os.LookupEnv(e.prefix + key); ok {
			return v, nil
		}
	}
	if v, ok := os.LookupEnv(key); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w in environment variables: %s", ErrSecretNotFound, key)
}

func (e *EnvSecretsProvider) Type() string {
	return "env"
}

// Close cleans up resources (no-op for environment provider)
func (e *EnvSecretsProvider) Close() error {
	return nil
}
