package credstore

import (
	"context"
	"errors"

	"github.com/florianilch/tweetauth/internal/credentials"
)

var (
	// ErrAlreadyExists is returned by Create when credentials are already stored.
	ErrAlreadyExists = errors.New("credentials already exist")

	// ErrReadOnly is returned by writes to a read-only backend.
	ErrReadOnly = errors.New("credential storage is read-only")
)

// Store reads and writes a credentials record.
type Store interface {
	// Load returns the stored credentials. Returns error if missing or malformed.
	Load(ctx context.Context) (*credentials.Credentials, error)

	// Create stores credentials for the first time. Fails with ErrAlreadyExists,
	// leaving the existing record untouched, if something is already stored.
	Create(ctx context.Context, creds *credentials.Credentials) error

	// Save overwrites the stored credentials.
	Save(ctx context.Context, creds *credentials.Credentials) error
}
