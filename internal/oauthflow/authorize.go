package oauthflow

import (
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/florianilch/tweetauth/internal/secret"
)

// Attempt is one pending authorization: the authorize URL plus the secrets
// needed to complete it. It is consumed by its first exchange.
type Attempt struct {
	id          uuid.UUID
	url         string
	redirectURL string
	state       secret.CSRFToken
	verifier    secret.PKCEVerifier

	consumed atomic.Bool
}

// ID identifies the attempt in logs. It is not a secret.
func (a *Attempt) ID() string { return a.id.String() }

// URL returns the authorize URL the user has to open.
func (a *Attempt) URL() string { return a.url }

// RedirectURL returns the callback URL the attempt is bound to.
func (a *Attempt) RedirectURL() string { return a.redirectURL }

// State returns the CSRF token issued for this attempt.
func (a *Attempt) State() secret.CSRFToken { return a.state }

// consume marks the attempt as used. Only the first call succeeds.
func (a *Attempt) consume() error {
	if !a.consumed.CompareAndSwap(false, true) {
		return ErrAttemptConsumed
	}
	return nil
}

// Authorize starts an authorization attempt with fresh PKCE and CSRF secrets.
// No network access is performed.
func (c *Client) Authorize(redirectURL string, scopes Scopes) (*Attempt, error) {
	if err := validateRedirectURL(redirectURL); err != nil {
		return nil, err
	}

	state, err := NewCSRFToken()
	if err != nil {
		return nil, err
	}
	pkce := NewPKCEChallenge()

	authURL := c.oauth2Config(redirectURL, scopes).AuthCodeURL(
		state.Expose(),
		oauth2.SetAuthURLParam("code_challenge", pkce.Challenge),
		oauth2.SetAuthURLParam("code_challenge_method", PKCEMethod),
	)

	return &Attempt{
		id:          uuid.New(),
		url:         authURL,
		redirectURL: redirectURL,
		state:       state,
		verifier:    pkce.Verifier,
	}, nil
}

// validateRedirectURL requires an absolute URL with scheme and host.
func validateRedirectURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q: absolute url with scheme and host required", ErrInvalidURL, raw)
	}
	return nil
}
