// Package credentials defines the persisted credential record and its JSON format:
//
//	{"access_token": "<string>", "refresh_token": "<string-or-null>"}
package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/florianilch/tweetauth/internal/oauthflow"
	"github.com/florianilch/tweetauth/internal/secret"
)

// ErrInvalidFormat is returned when stored data is not a valid credentials record.
var ErrInvalidFormat = errors.New("invalid credentials format")

// Credentials is the only state the tool persists.
// A zero RefreshToken means none is known.
type Credentials struct {
	AccessToken  secret.AccessToken
	RefreshToken secret.RefreshToken
}

// record is the wire shape. Field order is part of the format.
type record struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
}

// FromTokenResponse builds credentials from a code exchange.
func FromTokenResponse(resp *oauthflow.TokenResponse) *Credentials {
	return &Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
}

// Refreshed returns the credentials after a successful refresh. Providers that
// do not rotate refresh tokens omit them, so the previous one is kept.
func (c *Credentials) Refreshed(resp *oauthflow.TokenResponse) *Credentials {
	next := &Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if !resp.RefreshToken.IsZero() {
		next.RefreshToken = resp.RefreshToken
	}
	return next
}

// MarshalJSON writes both fields; an absent refresh token is null.
func (c Credentials) MarshalJSON() ([]byte, error) {
	access := c.AccessToken.Expose()
	r := record{AccessToken: &access}
	if !c.RefreshToken.IsZero() {
		refresh := c.RefreshToken.Expose()
		r.RefreshToken = &refresh
	}
	return json.Marshal(r)
}

// UnmarshalJSON requires a string access_token and a string or null refresh_token.
// Unknown fields are ignored.
func (c *Credentials) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %s must be a string", ErrInvalidFormat, typeErr.Field)
		}
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if r.AccessToken == nil {
		return fmt.Errorf("%w: access_token is missing", ErrInvalidFormat)
	}

	c.AccessToken = secret.NewAccessToken(*r.AccessToken)
	c.RefreshToken = secret.RefreshToken{}
	if r.RefreshToken != nil {
		c.RefreshToken = secret.NewRefreshToken(*r.RefreshToken)
	}
	return nil
}

// Parse decodes a stored credentials record.
func Parse(data []byte) (*Credentials, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidFormat)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return &c, nil
}

// Marshal encodes c in the persisted format.
func Marshal(c *Credentials) ([]byte, error) {
	return json.Marshal(c)
}
