package oauthflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/florianilch/tweetauth/internal/secret"
)

// TokenResponse is a successful token endpoint response.
// RefreshToken is zero when the provider did not issue or rotate one.
type TokenResponse struct {
	AccessToken  secret.AccessToken
	RefreshToken secret.RefreshToken
	TokenType    string
	Scope        string
	ExpiresIn    int64
	Expiry       time.Time
}

// tokenJSON is the wire shape of a token endpoint response.
type tokenJSON struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Exchange validates the redirected URL against the attempt and trades the
// authorization code plus PKCE verifier for tokens. The attempt is consumed
// even when the exchange fails: the provider burns the code either way.
func (c *Client) Exchange(ctx context.Context, attempt *Attempt, rawRedirectURL string) (*TokenResponse, error) {
	code, err := ValidateCallback(attempt, rawRedirectURL)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {attempt.redirectURL},
		"code_verifier": {attempt.verifier.Expose()},
	}

	slog.DebugContext(ctx, "exchanging authorization code", "attempt_id", attempt.ID())
	return c.requestToken(ctx, form)
}

// Refresh trades a refresh token for a new access token.
// It fails with ErrMissingRefreshToken without touching the network when
// refreshToken is zero.
func (c *Client) Refresh(ctx context.Context, refreshToken secret.RefreshToken) (*TokenResponse, error) {
	if refreshToken.IsZero() {
		return nil, ErrMissingRefreshToken
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken.Expose()},
	}

	slog.DebugContext(ctx, "refreshing access token")
	return c.requestToken(ctx, form)
}

// requestToken performs a single token endpoint round-trip. No retries.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	header := http.Header{}
	header.Set("Accept", "application/json")

	form.Set("client_id", c.credentials.ID)
	if !c.credentials.Secret.IsZero() {
		switch c.endpoint.AuthStyle {
		case oauth2.AuthStyleInParams:
			form.Set("client_secret", c.credentials.Secret.Expose())
		default:
			header.Set("Authorization", "Basic "+basicAuth(c.credentials.ID, c.credentials.Secret))
		}
	}

	resp, err := c.poster.PostForm(ctx, c.endpoint.TokenURL, form, header)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	slog.DebugContext(ctx, "token endpoint responded", "grant_type", form.Get("grant_type"), "status", resp.StatusCode)

	return parseTokenResponse(resp)
}

// parseTokenResponse maps a raw response to a TokenResponse or a TokenExchangeError.
func parseTokenResponse(resp *FormResponse) (*TokenResponse, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TokenExchangeError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	var tj tokenJSON
	if err := json.Unmarshal(resp.Body, &tj); err != nil {
		return nil, &TokenExchangeError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Err:        fmt.Errorf("decoding token response: %w", err),
		}
	}
	if tj.AccessToken == "" {
		return nil, &TokenExchangeError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Err:        errors.New("token response has no access_token"),
		}
	}

	token := &TokenResponse{
		AccessToken:  secret.NewAccessToken(tj.AccessToken),
		RefreshToken: secret.NewRefreshToken(tj.RefreshToken),
		TokenType:    tj.TokenType,
		Scope:        tj.Scope,
		ExpiresIn:    tj.ExpiresIn,
	}
	if tj.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tj.ExpiresIn) * time.Second)
	}
	return token, nil
}

// basicAuth encodes client credentials per RFC 6749 section 2.3.1.
func basicAuth(id string, clientSecret secret.ClientSecret) string {
	raw := url.QueryEscape(id) + ":" + url.QueryEscape(clientSecret.Expose())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
