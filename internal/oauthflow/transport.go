package oauthflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a token endpoint response is read.
const maxResponseBytes = 1 << 20

// FormResponse is the status and raw body of a form POST.
type FormResponse struct {
	StatusCode int
	Body       []byte
}

// FormPoster is the only HTTP capability the token exchange needs:
// POST a form-encoded body and hand back status code and body.
// Implementations return an error only for transport failures; any HTTP
// status, including 4xx and 5xx, is a response.
type FormPoster interface {
	PostForm(ctx context.Context, endpoint string, form url.Values, header http.Header) (*FormResponse, error)
}

// PosterOption configures an HTTPPoster.
type PosterOption func(*posterConfig)

// posterConfig holds configuration for NewHTTPPoster.
type posterConfig struct {
	baseTransport http.RoundTripper
	timeout       time.Duration
}

// WithTransport sets a custom base transport for token requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) PosterOption {
	return func(c *posterConfig) {
		c.baseTransport = transport
	}
}

// WithPosterTimeout bounds each request including reading the body.
func WithPosterTimeout(timeout time.Duration) PosterOption {
	return func(c *posterConfig) {
		c.timeout = timeout
	}
}

// HTTPPoster implements FormPoster with net/http.
type HTTPPoster struct {
	client *http.Client
}

// Compile-time check that HTTPPoster implements FormPoster.
var _ FormPoster = (*HTTPPoster)(nil)

// NewHTTPPoster creates an HTTPPoster with a 30 second default timeout.
func NewHTTPPoster(opts ...PosterOption) *HTTPPoster {
	cfg := &posterConfig{
		baseTransport: http.DefaultTransport,
		timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &HTTPPoster{
		client: &http.Client{
			Timeout:   cfg.timeout,
			Transport: cfg.baseTransport,
			// Token endpoints answer directly, a redirect would drop the POST body.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// PostForm sends form to endpoint and reads the whole response body.
func (p *HTTPPoster) PostForm(ctx context.Context, endpoint string, form url.Values, header http.Header) (*FormResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &FormResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
