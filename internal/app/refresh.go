package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/florianilch/tweetauth/internal/oauthflow"
)

// Refresh exchanges the stored refresh token for a new access token and
// persists the result. When the refresh fails nothing is written: stale but
// valid credentials are kept, and the error is reported.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.requireWritableStorage(); err != nil {
		return err
	}
	store, err := a.credentialStore()
	if err != nil {
		return err
	}

	current, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	if current.RefreshToken.IsZero() {
		return oauthflow.ErrMissingRefreshToken
	}
	if a.cfg.LogSecrets {
		slog.DebugContext(ctx, "refreshing with stored refresh token", "refresh_token", current.RefreshToken.Expose())
	}

	client, err := a.oauthClient()
	if err != nil {
		return err
	}

	resp, err := client.Refresh(ctx, current.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "token refresh failed, stored credentials left unchanged", "error", err)
		return fmt.Errorf("refreshing token: %w", err)
	}

	next := current.Refreshed(resp)
	if !resp.RefreshToken.IsZero() && !resp.RefreshToken.Equal(current.RefreshToken) {
		slog.DebugContext(ctx, "provider rotated the refresh token")
	}

	if err := store.Save(ctx, next); err != nil {
		// The old refresh token may already be revoked by the provider: this is data loss.
		slog.ErrorContext(ctx, "failed to persist refreshed credentials", "error", err)
		return fmt.Errorf("storing refreshed credentials: %w", err)
	}

	slog.InfoContext(ctx, "access token refreshed", "expires_at", resp.Expiry)
	return nil
}
