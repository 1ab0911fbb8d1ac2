package oauthflow

import (
	"golang.org/x/oauth2"

	"github.com/florianilch/tweetauth/internal/secret"
)

// PKCEMethod is the only code challenge transform sent to the provider.
const PKCEMethod = "S256"

// PKCEChallenge is a code challenge and the verifier it was derived from (RFC 7636).
type PKCEChallenge struct {
	Challenge string
	Verifier  secret.PKCEVerifier
}

// NewPKCEChallenge generates a random 32-byte verifier and its S256 challenge.
func NewPKCEChallenge() PKCEChallenge {
	verifier := oauth2.GenerateVerifier()
	return PKCEChallenge{
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
		Verifier:  secret.NewPKCEVerifier(verifier),
	}
}
