package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/RavenStorm-bit/claude-token-refresh/internal/app"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/observability"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/verify"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "claude-token-refresh",
		Usage: "keep the Claude CLI OAuth credentials fresh",
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
				Usage: "log format (text|json|otel)",
				Value: string(defaultLogFormat()),
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "refresh even if the stored token has not expired",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "base directory searched for credential files",
			},
			&cli.StringFlag{
				Name:  "storage--type",
				Usage: "credential storage backend (file|keyring)",
				Value: string(app.DefaultConfigStorage),
			},
			&cli.StringFlag{
				Name:  "storage--file",
				Usage: "explicit credential file path (skips the search)",
			},
			&cli.StringFlag{
				Name:  "storage--keyring-user",
				Usage: "keyring user identifier",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "check the token against the API after a successful run",
			},
		},
		Action: refreshAction,
		Commands: []*cli.Command{
			statusCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	shutdown, err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat))
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	outcome, err := application.Run(ctx)
	if err != nil {
		// The run id ties the printed error to the matching log lines.
		return fmt.Errorf("run %s: %w", application.RunID(), err)
	}

	switch outcome.Status {
	case app.StatusValid:
		fmt.Fprintf(cmd.Root().Writer, "token still valid until %s, nothing to do (run %s)\n",
			outcome.ExpiresAt.Format(time.RFC3339), outcome.RunID)
	case app.StatusRefreshed:
		fmt.Fprintf(cmd.Root().Writer, "token refreshed, valid until %s (%s, run %s)\n",
			outcome.ExpiresAt.Format(time.RFC3339), outcome.Source, outcome.RunID)
	}

	if cmd.Bool("verify") {
		if err := verifyToken(ctx, cfg, outcome.AccessToken); err != nil {
			return err
		}
		fmt.Fprintln(cmd.Root().Writer, "token accepted by the API")
	}

	return nil
}

func verifyToken(ctx context.Context, cfg *app.Config, accessToken string) error {
	vctx, cancel := context.WithTimeout(ctx, cfg.OAuth.Timeout)
	defer cancel()

	if err := verify.AccessToken(vctx, accessToken); err != nil {
		return fmt.Errorf("token verification failed, re-authenticate with the Claude CLI: %w", err)
	}
	return nil
}

// defaultLogFormat picks text for interactive runs and json otherwise.
func defaultLogFormat() app.LogFormat {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return app.LogFormatText
	}
	return app.LogFormatJSON
}
