package oauthflow

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/florianilch/tweetauth/internal/secret"
)

// csrfTokenBytes is the entropy of a state value.
const csrfTokenBytes = 16

// NewCSRFToken generates an unpredictable, URL-safe state value.
func NewCSRFToken() (secret.CSRFToken, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return secret.CSRFToken{}, fmt.Errorf("failed to generate state: %w", err)
	}
	return secret.NewCSRFToken(base64.RawURLEncoding.EncodeToString(b)), nil
}
