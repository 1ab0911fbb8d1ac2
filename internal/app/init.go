package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/tweetauth/internal/callback"
	"github.com/florianilch/tweetauth/internal/credentials"
	"github.com/florianilch/tweetauth/internal/credstore"
	"github.com/florianilch/tweetauth/internal/oauthflow"
)

// InitOptions tune the init flow.
type InitOptions struct {
	// Print writes the credentials to the output instead of the credential store.
	Print bool
}

// Init drives the user through authorization and stores the resulting
// credentials. An existing credentials record is never overwritten.
func (a *App) Init(ctx context.Context, opts InitOptions) error {
	// Resolve storage first: a read-only or broken store must fail before the code is spent.
	var store credstore.Store
	if !opts.Print {
		if err := a.requireWritableStorage(); err != nil {
			return err
		}
		var err error
		if store, err = a.credentialStore(); err != nil {
			return err
		}
	}

	client, err := a.oauthClient()
	if err != nil {
		return err
	}

	attempt, err := client.Authorize(a.cfg.Authorize.RedirectURL, oauthflow.ParseScopes(a.cfg.Authorize.Scopes))
	if err != nil {
		return fmt.Errorf("building authorize url: %w", err)
	}
	slog.InfoContext(ctx, "authorization started", "attempt_id", attempt.ID(), "scopes", a.cfg.Authorize.Scopes)
	if a.cfg.LogSecrets {
		slog.DebugContext(ctx, "csrf state issued", "attempt_id", attempt.ID(), "state", attempt.State().Expose())
	}

	_, _ = fmt.Fprintf(a.prompt, "Open this URL in your browser and authorize the app:\n\n%s\n\n", attempt.URL())

	redirect, err := a.awaitRedirect(ctx)
	if err != nil {
		return err
	}

	resp, err := client.Exchange(ctx, attempt, redirect)
	if err != nil {
		return fmt.Errorf("completing authorization: %w", err)
	}
	slog.InfoContext(ctx, "authorization completed", "attempt_id", attempt.ID(), "scope", resp.Scope, "expires_at", resp.Expiry)

	creds := credentials.FromTokenResponse(resp)
	if creds.RefreshToken.IsZero() {
		slog.WarnContext(ctx, "provider issued no refresh token, request the offline.access scope to enable refresh")
	}

	if opts.Print {
		data, err := credentials.Marshal(creds)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}

	if err := store.Create(ctx, creds); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}
	slog.InfoContext(ctx, "credentials stored", "storage", a.cfg.Storage.Type)
	return nil
}

// awaitRedirect returns the URL the provider redirected the browser to,
// either pasted by the operator or captured by the local callback server.
func (a *App) awaitRedirect(ctx context.Context) (string, error) {
	if a.cfg.Authorize.Listen {
		return a.listenForRedirect(ctx)
	}

	_, _ = fmt.Fprint(a.prompt, "Paste the full URL you were redirected to: ")
	redirect, err := a.readLine(ctx)
	if err != nil {
		return "", fmt.Errorf("reading redirect url: %w", err)
	}
	return redirect, nil
}

// listenForRedirect serves the redirect URL until the first redirect arrives.
func (a *App) listenForRedirect(ctx context.Context) (string, error) {
	srv, err := callback.New(a.cfg.Authorize.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("creating callback server: %w", err)
	}

	listenCtx, stop := context.WithCancel(ctx)
	defer stop()

	errCh, err := srv.Start(listenCtx, srv.Address())
	if err != nil {
		return "", fmt.Errorf("callback server startup failed: %w", err)
	}
	slog.InfoContext(ctx, "waiting for authorization redirect", "address", srv.Address())
	_, _ = fmt.Fprintln(a.prompt, "Waiting for the browser to return to", a.cfg.Authorize.RedirectURL)

	g, gCtx := errgroup.WithContext(listenCtx)
	var redirect string

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err, ok := <-errCh:
			if ok && err != nil {
				return fmt.Errorf("callback server: %w", err)
			}
			return errors.New("callback server stopped unexpectedly")
		case <-gCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		select {
		case redirect = <-srv.Redirects():
			stop()
			return nil
		case <-gCtx.Done():
			return gCtx.Err()
		}
	})

	waitErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Authorize.ShutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		slog.ErrorContext(shutdownCtx, "callback server shutdown failed", "error", shutdownErr)
	}

	if redirect == "" {
		if waitErr == nil {
			waitErr = ctx.Err()
		}
		return "", errors.Join(fmt.Errorf("waiting for redirect: %w", waitErr), shutdownErr)
	}
	return redirect, nil
}
