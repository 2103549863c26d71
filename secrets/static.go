package secrets

import (
	"context"
	"fmt"
)

// StaticSecretsProvider serves secrets from a fixed map. Used for tests and
// for CLI-supplied overrides.
type StaticSecretsProvider struct {
	values map[string]string
}

var _ SecretsProvider = (*StaticSecretsProvider)(nil)

func NewStaticSecretsProvider(values map[string]string) *StaticSecretsProvider {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &StaticSecretsProvider{values: cp}
}

func (s *StaticSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	return v, nil
}

func (s *StaticSecretsProvider) Type() string {
	return "static"
}

func (s *StaticSecretsProvider) Close() error {
	return nil
}
