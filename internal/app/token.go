package app

import (
	"context"
	"fmt"
)

// Token prints the stored access token, for use in scripts.
func (a *App) Token(ctx context.Context) error {
	store, err := a.credentialStore()
	if err != nil {
		return err
	}

	creds, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	_, err = fmt.Fprintln(a.out, creds.AccessToken.Expose())
	return err
}
