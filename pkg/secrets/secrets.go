// Package secrets resolves named credentials for provider adapters. The
// workflow body never touches this package; only activities do.
package secrets

import (
	"errors"
	"fmt"
	"os"
)

// ErrSecretNotFound indicates the named secret is absent or empty.
var ErrSecretNotFound = errors.New("secret not found")

// Store resolves a secret by name.
type Store interface {
	Get(name string) (string, error)
}

// EnvStore resolves secrets from process environment variables.
type EnvStore struct{}

// NewEnvStore creates an environment-backed secret store.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// Get returns the value of the named environment variable.
func (s *EnvStore) Get(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty secret name", ErrSecretNotFound)
	}
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// StaticStore serves secrets from a fixed map. Used in tests.
type StaticStore map[string]string

// Get returns the mapped value.
func (s StaticStore) Get(name string) (string, error) {
	value, ok := s[name]
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}
