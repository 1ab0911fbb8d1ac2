package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/tweetauth/internal/app"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil, environ())
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, app.DefaultConfigRedirectURL, cfg.Authorize.RedirectURL)
	assert.Equal(t, app.StorageTypeFile, cfg.Storage.Type)
	assert.NotEmpty(t, cfg.Storage.File)
	assert.Empty(t, cfg.Client.ID)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
log_level = "debug"
log_format = "json"

[client]
id = "file-id"
secret = "file-secret"

[authorize]
redirect_url = "http://localhost:3000/cb"
scopes = ["tweet.read", "offline.access"]
listen = true

[http]
timeout = "10s"

[storage]
type = "keyring"
keyring_user = "alice"
`)

	cfg, err := loadConfig(path, nil, environ())
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "file-id", cfg.Client.ID)
	assert.Equal(t, "file-secret", cfg.Client.Secret)
	assert.Equal(t, "http://localhost:3000/cb", cfg.Authorize.RedirectURL)
	assert.Equal(t, []string{"tweet.read", "offline.access"}, cfg.Authorize.Scopes)
	assert.True(t, cfg.Authorize.Listen)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, app.StorageTypeKeyring, cfg.Storage.Type)
	assert.Equal(t, "alice", cfg.Storage.KeyringUser)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
[client]
id = "file-id"
`)

	cfg, err := loadConfig(path, nil, environ(
		"TWEETAUTH_CLIENT__ID=env-id",
		"TWEETAUTH_CLIENT__SECRET=env-secret",
		"TWEETAUTH_AUTHORIZE__SCOPES=tweet.read,users.read",
		"TWEETAUTH_HTTP__TIMEOUT=5s",
		"UNRELATED=1",
	))
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Client.ID)
	assert.Equal(t, "env-secret", cfg.Client.Secret)
	assert.Equal(t, []string{"tweet.read", "users.read"}, cfg.Authorize.Scopes)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := loadConfig("", nil, environ("TWEETAUTH_STORAGE__TYPE=s3"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil, environ())
	assert.ErrorContains(t, err, "loading config file")
}

// loadWithCommand runs cmd with args and returns the config its action loaded.
func loadWithCommand(t *testing.T, cmd *cli.Command, args []string, env func() []string) *app.Config {
	t.Helper()
	var cfg *app.Config
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		cfg, err = loadConfig(c.String("config"), c, env)
		return err
	}
	require.NoError(t, cmd.Run(context.Background(), args))
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	cfg := loadWithCommand(t, refreshCommand(),
		[]string{"refresh", "--client--id", "flag-id", "--http--timeout", "3s"},
		environ("TWEETAUTH_CLIENT__ID=env-id", "TWEETAUTH_CLIENT__SECRET=env-secret"),
	)

	assert.Equal(t, "flag-id", cfg.Client.ID)
	assert.Equal(t, "env-secret", cfg.Client.Secret)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
}

func TestLoadConfigPositionalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")

	cfg := loadWithCommand(t, refreshCommand(),
		[]string{"refresh", "--storage--type", "keyring", path},
		environ(),
	)

	assert.Equal(t, app.StorageTypeFile, cfg.Storage.Type)
	assert.Equal(t, path, cfg.Storage.File)
}

func TestLoadConfigInitFlags(t *testing.T) {
	cfg := loadWithCommand(t, initCommand(),
		[]string{"init", "--authorize--scopes", "tweet.read", "--authorize--scopes", "offline.access", "--authorize--listen", "--print"},
		environ(),
	)

	assert.Equal(t, []string{"tweet.read", "offline.access"}, cfg.Authorize.Scopes)
	assert.True(t, cfg.Authorize.Listen)
}
