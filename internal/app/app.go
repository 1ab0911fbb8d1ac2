package app

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/florianilch/tweetauth/internal/credstore"
	"github.com/florianilch/tweetauth/internal/oauthflow"
	"github.com/florianilch/tweetauth/internal/secret"
)

// App runs the credential flows: init, refresh and token.
type App struct {
	cfg *Config

	in     *bufio.Reader
	inFile *os.File // set when input is a file, for terminal detection
	out    io.Writer
	prompt io.Writer

	store         credstore.Store
	clientOptions []oauthflow.Option
}

// Option configures an App.
type Option func(*App)

// WithIO sets where input is read from, where results are written and where
// prompts for the operator go. Defaults are stdin, stdout and stderr.
func WithIO(in io.Reader, out, prompt io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.inFile, _ = in.(*os.File)
		a.out = out
		a.prompt = prompt
	}
}

// WithStore replaces the store derived from the storage configuration.
func WithStore(store credstore.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithClientOptions passes options to the OAuth2 client.
func WithClientOptions(opts ...oauthflow.Option) Option {
	return func(a *App) {
		a.clientOptions = append(a.clientOptions, opts...)
	}
}

// New creates a new App instance.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		cfg:    cfg,
		in:     bufio.NewReader(os.Stdin),
		inFile: os.Stdin,
		out:    os.Stdout,
		prompt: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// credentialStore returns the configured store, creating it on first use.
// No I/O is performed before a flow needs the store.
func (a *App) credentialStore() (credstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	store, err := a.cfg.Storage.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	a.store = store
	return store, nil
}

// requireWritableStorage fails before any network call when results could not be persisted.
func (a *App) requireWritableStorage() error {
	if a.store == nil && !a.cfg.Storage.Writable() {
		return fmt.Errorf("%s storage is read-only: %w", a.cfg.Storage.Type, credstore.ErrReadOnly)
	}
	return nil
}

// oauthClient creates the OAuth2 client, prompting for the client secret
// when none is configured and the input is a terminal.
func (a *App) oauthClient() (*oauthflow.Client, error) {
	if err := a.cfg.validateClient(); err != nil {
		return nil, err
	}

	clientSecret := a.cfg.Client.Secret
	if clientSecret == "" {
		var err error
		clientSecret, err = a.promptSecret("Client secret (leave empty for a public client): ")
		if err != nil {
			return nil, err
		}
	}

	opts := append([]oauthflow.Option{oauthflow.WithTimeout(a.cfg.HTTP.Timeout)}, a.clientOptions...)
	return oauthflow.NewClient(oauthflow.ClientCredentials{
		ID:     a.cfg.Client.ID,
		Secret: secret.NewClientSecret(clientSecret),
	}, opts...), nil
}
