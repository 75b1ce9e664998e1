package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/RavenStorm-bit/claude-token-refresh/internal/app"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/observability"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "report the stored token's expiry without refreshing",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "also check the token against the API",
			},
		},
		Action: statusAction,
	}
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat))
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	insp, err := application.Inspect(ctx)
	if err != nil {
		return err
	}

	state := "valid"
	if insp.Expired {
		state = "expired"
	}
	fmt.Fprintf(cmd.Root().Writer, "source:  %s\n", insp.Source)
	fmt.Fprintf(cmd.Root().Writer, "variant: %s\n", insp.Variant)
	fmt.Fprintf(cmd.Root().Writer, "expires: %s\n", insp.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(cmd.Root().Writer, "state:   %s\n", state)
	if len(insp.Scopes) > 0 {
		fmt.Fprintf(cmd.Root().Writer, "scopes:  %s\n", strings.Join(insp.Scopes, " "))
	}

	if cmd.Bool("remote") {
		if err := verifyToken(ctx, cfg, insp.AccessToken); err != nil {
			return err
		}
		fmt.Fprintln(cmd.Root().Writer, "remote:  token accepted by the API")
	}

	return nil
}
