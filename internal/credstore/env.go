package credstore

import (
	"context"
	"fmt"
	"os"

	"github.com/florianilch/tweetauth/internal/credentials"
)

// EnvStore provides read-only access to a credentials record stored in an
// environment variable. Suitable for reading the access token, not for init or refresh.
type EnvStore struct {
	envKey string
}

// Compile-time check to ensure EnvStore implements Store
var _ Store = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore for the given environment variable.
// Returns error if the variable name is empty or not set in the environment.
func NewEnvStore(envKey string) (*EnvStore, error) {
	if envKey == "" {
		return nil, fmt.Errorf("environment key cannot be empty")
	}

	if _, exists := os.LookupEnv(envKey); !exists {
		return nil, fmt.Errorf("environment variable %s not set", envKey)
	}

	return &EnvStore{
		envKey: envKey,
	}, nil
}

// Load parses the credentials record from the environment variable.
func (e *EnvStore) Load(ctx context.Context) (*credentials.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value := os.Getenv(e.envKey)
	if value == "" {
		return nil, fmt.Errorf("environment variable %s is empty", e.envKey)
	}

	creds, err := credentials.Parse([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("environment variable %s: %w", e.envKey, err)
	}
	return creds, nil
}

// Create is not supported for environment variables.
func (e *EnvStore) Create(ctx context.Context, _ *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrReadOnly
}

// Save is not supported for environment variables.
func (e *EnvStore) Save(ctx context.Context, _ *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrReadOnly
}
