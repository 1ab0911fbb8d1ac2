package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/tweetauth/internal/app"
	"github.com/florianilch/tweetauth/internal/observability"
)

// loggerShutdownTimeout bounds flushing exported log records on exit.
const loggerShutdownTimeout = 5 * time.Second

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "tweetauth",
		Usage: "Obtain and refresh Twitter API OAuth2 credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "log-exporter",
				Usage: "export logs via OpenTelemetry (none|stdout|otlp-grpc|otlp-http)",
				Value: string(app.DefaultConfigLogExporter),
			},
			&cli.StringFlag{
				Name:  "log-endpoint",
				Usage: "OTLP collector endpoint for otlp exporters",
			},
			&cli.BoolFlag{
				Name:  "log-secrets",
				Usage: "log raw tokens and state at debug level (debugging only)",
			},
		},
		Commands: []*cli.Command{
			initCommand(),
			refreshCommand(),
			tokenCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// clientFlags are shared by commands talking to the token endpoint.
func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "client--id",
			Aliases: []string{"i"},
			Usage:   "OAuth2 client id",
		},
		&cli.StringFlag{
			Name:    "client--secret",
			Aliases: []string{"s"},
			Usage:   "OAuth2 client secret (prefer TWEETAUTH_CLIENT__SECRET; prompted for when omitted on a terminal)",
		},
		&cli.DurationFlag{
			Name:  "http--timeout",
			Usage: "timeout for token endpoint requests",
			Value: app.DefaultConfigHTTPTimeout,
		},
	}
}

// storageFlags select where credentials live. A positional path overrides them.
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "storage--type",
			Usage: "credential storage (file|keyring|env)",
			Value: string(app.DefaultConfigStorage),
		},
		&cli.StringFlag{
			Name:  "storage--file",
			Usage: "credentials file for file storage",
		},
		&cli.StringFlag{
			Name:  "storage--keyring-user",
			Usage: "keyring user for keyring storage",
		},
		&cli.StringFlag{
			Name:  "storage--env-key",
			Usage: "environment variable holding the credentials JSON for env storage",
		},
	}
}

func initCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "authorize--redirect-url",
			Usage: "callback URL registered for the app",
			Value: app.DefaultConfigRedirectURL,
		},
		&cli.StringSliceFlag{
			Name:  "authorize--scopes",
			Usage: "scopes to request (default: tweet, users, follows, like read/write and offline.access)",
		},
		&cli.BoolFlag{
			Name:  "authorize--listen",
			Usage: "serve the redirect URL locally instead of pasting the redirected URL",
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "print the credentials JSON to stdout instead of storing it",
		},
	}

	return &cli.Command{
		Name:      "init",
		Usage:     "authorize the app and store the initial credentials",
		ArgsUsage: "[credentials-path]",
		Flags:     append(append(flags, clientFlags()...), storageFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, func(ctx context.Context, a *app.App) error {
				return a.Init(ctx, app.InitOptions{Print: cmd.Bool("print")})
			})
		},
	}
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:      "refresh",
		Usage:     "exchange the stored refresh token for a new access token",
		ArgsUsage: "[credentials-path]",
		Flags:     append(clientFlags(), storageFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, func(ctx context.Context, a *app.App) error {
				return a.Refresh(ctx)
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "print the stored access token",
		ArgsUsage: "[credentials-path]",
		Flags:     storageFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, func(ctx context.Context, a *app.App) error {
				return a.Token(ctx)
			})
		},
	}
}

// run loads the configuration, sets up logging and executes one flow.
func run(ctx context.Context, cmd *cli.Command, flow func(context.Context, *app.App) error) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	shutdownLogging, err := observability.Instrument(ctx, observability.Config{
		Level:    cfg.LogLevel,
		Format:   string(cfg.LogFormat),
		Exporter: cfg.LogExporter,
		Endpoint: cfg.LogEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), loggerShutdownTimeout)
		defer cancel()
		if err := shutdownLogging(shutdownCtx); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "flushing logs:", err)
		}
	}()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.DebugContext(ctx, "running", "command", cmd.Name)
	return flow(ctx, application)
}
