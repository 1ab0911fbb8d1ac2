package credstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/florianilch/tweetauth/internal/credentials"
)

// FileStore provides file-based credential storage with secure permissions.
// Create never replaces an existing file; Save uses temp file + rename for crash safety.
type FileStore struct {
	filePath string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given path.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	return &FileStore{
		filePath: filePath,
	}, nil
}

// Path returns the credentials file path.
func (f *FileStore) Path() string { return f.filePath }

// Load reads and parses the credentials file. Returns error if the file
// doesn't exist, is malformed, or has insecure permissions.
func (f *FileStore) Load(ctx context.Context) (*credentials.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Check file permissions before reading
	info, err := os.Stat(f.filePath)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm()&0077 != 0 {
		return nil, fmt.Errorf("insecure permissions on %s: %04o (expected 0600)", f.filePath, info.Mode().Perm())
	}

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, err
	}

	creds, err := credentials.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.filePath, err)
	}
	return creds, nil
}

// Create writes the credentials to a new file with 0600 permissions, creating
// parent directories with 0700. Fails with ErrAlreadyExists if the file exists.
func (f *FileStore) Create(ctx context.Context, creds *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := credentials.Marshal(creds)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.filePath), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(f.filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, f.filePath)
		}
		return err
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		// Don't leave a half-written file behind: the next Create would refuse to run.
		_ = os.Remove(f.filePath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(f.filePath)
		return err
	}

	return nil
}

// Save atomically replaces the credentials file using temp file + rename.
// Sets file permissions to 0600 (owner read/write only).
func (f *FileStore) Save(ctx context.Context, creds *credentials.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := credentials.Marshal(creds)
	if err != nil {
		return err
	}

	// Create secure temp file in same directory for atomic rename
	dir := filepath.Dir(f.filePath)
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	// CreateTemp already uses 0600, set it explicitly before the file becomes visible
	if err := os.Chmod(tempName, 0600); err != nil {
		return err
	}

	// Atomic rename to final location
	return os.Rename(tempName, f.filePath)
}
