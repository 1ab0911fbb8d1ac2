package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/florianilch/tweetauth/internal/credentials"
)

// KeyringStore keeps the credentials record in OS-native secure storage.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
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

// Load returns the credentials from the system keyring. Returns error if not found or malformed.
func (k *KeyringStore) Load(ctx context.Context) (*credentials.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := keyring.Get(k.service, k.user)
	if err != nil {
		return nil, err
	}

	creds, err := credentials.Parse([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("keyring service %s, user %s: %w", k.service, k.user, err)
	}
	return creds, nil
}

// Create stores the credentials unless the keyring already holds an entry.
// The check and the write are not atomic; the keyring API offers no exclusive create.
func (k *KeyringStore) Create(ctx context.Context, creds *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := keyring.Get(k.service, k.user)
	switch {
	case err == nil:
		return fmt.Errorf("%w: keyring service %s, user %s", ErrAlreadyExists, k.service, k.user)
	case !errors.Is(err, keyring.ErrNotFound):
		return err
	}

	return k.Save(ctx, creds)
}

// Save persists the credentials to the system keyring, overwriting any existing value.
func (k *KeyringStore) Save(ctx context.Context, creds *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := credentials.Marshal(creds)
	if err != nil {
		return err
	}

	return keyring.Set(k.service, k.user, string(data))
}
