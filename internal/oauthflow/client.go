package oauthflow

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/florianilch/tweetauth/internal/secret"
)

// DefaultTimeout bounds every token endpoint round-trip.
const DefaultTimeout = 30 * time.Second

// ClientCredentials identify the OAuth2 client. Secret may be empty for public clients.
type ClientCredentials struct {
	ID     string
	Secret secret.ClientSecret
}

// Option configures a Client.
type Option func(*Client)

// WithPoster replaces the HTTP capability used for token requests.
func WithPoster(poster FormPoster) Option {
	return func(c *Client) {
		c.poster = poster
	}
}

// WithEndpoint overrides the provider endpoints. Intended for tests.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout bounds each token request. Zero keeps DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client drives authorization, code exchange and refresh for one OAuth2 client.
type Client struct {
	credentials ClientCredentials
	endpoint    oauth2.Endpoint
	poster      FormPoster
	timeout     time.Duration
}

// NewClient creates a Client for the Twitter endpoints.
func NewClient(credentials ClientCredentials, opts ...Option) *Client {
	c := &Client{
		credentials: credentials,
		endpoint:    Endpoint,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.poster == nil {
		c.poster = NewHTTPPoster(WithPosterTimeout(c.timeout))
	}
	return c
}

// oauth2Config returns the x/oauth2 view of the client bound to redirectURL.
func (c *Client) oauth2Config(redirectURL string, scopes Scopes) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.credentials.ID,
		Endpoint:    c.endpoint,
		RedirectURL: redirectURL,
		Scopes:      scopes.Strings(),
	}
}
