// Package secret provides single-purpose wrapper types for OAuth2 secrets.
//
// Every type renders as "[REDACTED]" through fmt, encoding/json and log/slog.
// The raw value is only reachable through Expose, which keeps the places that
// put a secret on the wire or on disk easy to find.
package secret

import (
	"crypto/subtle"
	"log/slog"
)

// Redacted is the placeholder printed instead of a secret value.
const Redacted = "[REDACTED]"

// value carries the shared behavior of all secret types.
type value struct {
	v string
}

// Expose returns the raw secret.
func (s value) Expose() string { return s.v }

// IsZero reports whether the secret is empty.
func (s value) IsZero() bool { return s.v == "" }

// String implements fmt.Stringer.
func (s value) String() string {
	if s.v == "" {
		return ""
	}
	return Redacted
}

// GoString implements fmt.GoStringer so %#v does not leak either.
func (s value) GoString() string { return s.String() }

// LogValue implements slog.LogValuer.
func (s value) LogValue() slog.Value { return slog.StringValue(s.String()) }

// MarshalText keeps secrets out of encoders that are not explicitly aware of them.
func (s value) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s value) equal(o value) bool {
	return subtle.ConstantTimeCompare([]byte(s.v), []byte(o.v)) == 1
}

// ClientSecret is the OAuth2 client secret.
type ClientSecret struct{ value }

// NewClientSecret wraps s.
func NewClientSecret(s string) ClientSecret { return ClientSecret{value{s}} }

// PKCEVerifier is the PKCE code verifier of one authorization attempt.
type PKCEVerifier struct{ value }

// NewPKCEVerifier wraps s.
func NewPKCEVerifier(s string) PKCEVerifier { return PKCEVerifier{value{s}} }

// CSRFToken is the opaque state value round-tripped through the authorization redirect.
type CSRFToken struct{ value }

// NewCSRFToken wraps s.
func NewCSRFToken(s string) CSRFToken { return CSRFToken{value{s}} }

// Equal compares two tokens in constant time. Empty tokens never match.
func (t CSRFToken) Equal(o CSRFToken) bool {
	if t.IsZero() || o.IsZero() {
		return false
	}
	return t.equal(o.value)
}

// AccessToken is a bearer token issued by the provider.
type AccessToken struct{ value }

// NewAccessToken wraps s.
func NewAccessToken(s string) AccessToken { return AccessToken{value{s}} }

// RefreshToken is a long-lived token for the refresh grant.
// The zero value means the provider did not issue one.
type RefreshToken struct{ value }

// NewRefreshToken wraps s.
func NewRefreshToken(s string) RefreshToken { return RefreshToken{value{s}} }

// Equal compares two refresh tokens in constant time.
func (t RefreshToken) Equal(o RefreshToken) bool { return t.equal(o.value) }
