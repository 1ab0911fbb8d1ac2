package oauthflow

import (
	"fmt"
	"net/url"

	"github.com/florianilch/tweetauth/internal/secret"
)

// ValidateCallback extracts the authorization code from the URL the provider
// redirected to and checks its state against the attempt's CSRF token.
// The attempt is consumed whether validation succeeds or not.
func ValidateCallback(attempt *Attempt, rawRedirectURL string) (string, error) {
	if err := attempt.consume(); err != nil {
		return "", err
	}

	u, err := url.Parse(rawRedirectURL)
	if err != nil {
		// url.Error echoes the input, which carries code and state.
		return "", fmt.Errorf("%w: redirect url could not be parsed", ErrInvalidURL)
	}
	params := u.Query()

	code := lastValue(params, "code")
	if code == "" {
		return "", &MissingParameterError{
			Name:                "code",
			ProviderError:       lastValue(params, "error"),
			ProviderDescription: lastValue(params, "error_description"),
		}
	}

	state := lastValue(params, "state")
	if state == "" {
		return "", &MissingParameterError{Name: "state"}
	}

	if !attempt.state.Equal(secret.NewCSRFToken(state)) {
		return "", ErrCSRFMismatch
	}

	return code, nil
}

// lastValue returns the last value of key. Empty values count as absent.
func lastValue(params url.Values, key string) string {
	values := params[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
