package oauthflow

import (
	"golang.org/x/oauth2"
)

const (
	// AuthorizeURL is the Twitter OAuth2 authorize endpoint.
	AuthorizeURL = "https://twitter.com/i/oauth2/authorize"

	// TokenURL is the Twitter OAuth2 token endpoint, used for both code exchange and refresh.
	TokenURL = "https://api.twitter.com/2/oauth2/token"
)

// Endpoint defines the OAuth2 endpoints for Twitter.
// Confidential clients authenticate to the token endpoint with HTTP Basic auth.
var Endpoint = oauth2.Endpoint{
	AuthURL:   AuthorizeURL,
	TokenURL:  TokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}
