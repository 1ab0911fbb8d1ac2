// Package callback serves the OAuth2 redirect URL on the loopback interface
// and hands the first redirected URL to the caller.
package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Server receives the provider's redirect after the user authorized the app.
type Server struct {
	base      url.URL
	mux       *http.ServeMux
	server    *http.Server
	listener  net.Listener
	redirects chan string
	once      sync.Once
}

// Compile-time check that Server implements http.Handler
var _ http.Handler = (*Server)(nil)

// New creates a callback server for redirectURL, which must be a plain http
// URL on a loopback host.
func New(redirectURL string) (*Server, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URL must use http to be served locally, got %q", u.Scheme)
	}
	if !isLoopback(u.Hostname()) {
		return nil, fmt.Errorf("redirect URL host %q is not a loopback address", u.Hostname())
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	s := &Server{
		base:      url.URL{Scheme: u.Scheme, Host: u.Host, Path: path},
		mux:       http.NewServeMux(),
		redirects: make(chan string, 1),
	}

	logger := slog.Default()
	s.mux.Handle("GET "+path, applyMiddlewares(http.HandlerFunc(s.handleRedirect),
		stripQuery,
		Logging(logger),
		Recovery,
	))

	return s, nil
}

// Address returns the host:port the redirect URL points to.
func (s *Server) Address() string {
	port := s.base.Port()
	if port == "" {
		port = "80"
	}
	return net.JoinHostPort(s.base.Hostname(), port)
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Redirects delivers the first redirected URL, query included.
func (s *Server) Redirects() <-chan string {
	return s.redirects
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	full := s.base
	full.RawQuery = rawQuery(r.Context())

	delivered := false
	s.once.Do(func() {
		s.redirects <- full.String()
		delivered = true
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !delivered {
		w.WriteHeader(http.StatusConflict)
		_, _ = fmt.Fprintln(w, "An authorization response was already received. Check your terminal.")
		return
	}
	_, _ = fmt.Fprintln(w, "Authorization response received. You can close this window and return to your terminal.")
}

// Start starts the HTTP server in the background and returns immediately.
// Returns a channel for runtime errors and a startup error if any.
//
// Startup errors (port in use, permission denied) are returned immediately.
// Runtime errors (network failures during operation) are sent to the error channel.
//
// The caller is responsible for calling Shutdown() to stop the server.
func (s *Server) Start(ctx context.Context, address string) (<-chan error, error) {
	// Startup phase: Create listener synchronously to catch port-in-use errors immediately
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		err := s.server.Serve(listener)
		// Only report error if not from graceful shutdown
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Shutdown performs graceful shutdown of the HTTP server.
// Returns error if shutdown fails or times out.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		// Graceful shutdown failed - force close
		_ = s.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// isLoopback accepts "localhost" and loopback IP literals.
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
