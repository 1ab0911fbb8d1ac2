package oauthflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when a redirect URL is not a well-formed absolute URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrCSRFMismatch is returned when the callback state differs from the issued one.
	ErrCSRFMismatch = errors.New("csrf state mismatch")

	// ErrMissingRefreshToken is returned before any network call when there is no refresh token.
	ErrMissingRefreshToken = errors.New("refresh token is not found")

	// ErrAttemptConsumed is returned when an Attempt is used for a second exchange.
	ErrAttemptConsumed = errors.New("authorization attempt already consumed")
)

// MissingParameterError reports a callback URL without a required query parameter.
type MissingParameterError struct {
	Name string

	// ProviderError and ProviderDescription carry the provider's error and
	// error_description parameters when the redirect reports a denial.
	ProviderError       string
	ProviderDescription string
}

func (e *MissingParameterError) Error() string {
	msg := fmt.Sprintf("couldn't find parameter %q in redirect url", e.Name)
	if e.ProviderError != "" {
		msg += ": provider returned " + e.ProviderError
		if e.ProviderDescription != "" {
			msg += " (" + e.ProviderDescription + ")"
		}
	}
	return msg
}

// TokenExchangeError reports a non-2xx or unparseable token endpoint response.
// Body is the provider's raw response body. Error includes it only for
// non-2xx responses; a malformed success body may still carry tokens.
type TokenExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TokenExchangeError) Error() string {
	msg := fmt.Sprintf("token endpoint returned status %d", e.StatusCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" && !e.success() {
		msg += ": " + e.Body
	}
	return msg
}

func (e *TokenExchangeError) success() bool {
	return e.StatusCode >= 200 && e.StatusCode <= 299
}

func (e *TokenExchangeError) Unwrap() error { return e.Err }

// NetworkError wraps transport failures: DNS, TLS, timeouts, connection resets.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }
