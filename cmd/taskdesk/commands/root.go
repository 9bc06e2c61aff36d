package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand(stdConsole()).Run(ctx, args)
}

func newRootCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:      "taskdesk",
		Usage:     "Command-line client for the task manager API",
		Writer:    con.out,
		ErrWriter: con.errOut,
		Reader:    con.in,
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
				Usage: "OpenTelemetry log exporter (none|stdout|otlphttp|otlpgrpc)",
				Value: string(app.DefaultConfigLogExporter),
			},
			&cli.StringFlag{
				Name:  "api--base-url",
				Usage: "API base URL",
				Value: app.DefaultConfigAPIBaseURL,
			},
			&cli.DurationFlag{
				Name:  "api--timeout",
				Usage: "timeout per API call, 0 for none",
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "token storage (file|keyring|env)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "auth--file",
				Usage: "token file for file storage",
			},
			&cli.StringFlag{
				Name:  "auth--renewal",
				Usage: "concurrent token renewal (coalesced|independent)",
				Value: string(app.DefaultConfigAuthRenewal),
			},
		},
		Commands: []*cli.Command{
			registerCommand(con),
			loginCommand(con),
			logoutCommand(con),
			whoamiCommand(con),
			profileCommand(con),
			usersCommand(con),
			dashboardCommand(con),
			projectsCommand(con),
			tasksCommand(con),
			tagsCommand(con),
			commentsCommand(con),
		},
	}
}

// appAction is an action that needs a configured App.
type appAction func(ctx context.Context, cmd *cli.Command, a *app.App) error

// withApp loads configuration, sets up logging and builds the App before running fn.
func withApp(con *console, fn appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Set up observability before creating app
		shutdown, err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat), string(cfg.LogExporter),
			observability.WithWriter(con.errOut))
		if err != nil {
			return fmt.Errorf("failed to set up observability layer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				_, _ = fmt.Fprintf(con.errOut, "flushing logs: %v\n", err)
			}
		}()

		a, err := app.New(cfg, app.WithSessionExpiredHook(func(ctx context.Context, err error) {
			slog.WarnContext(ctx, "session expired", "error", err)
		}))
		if err != nil {
			return fmt.Errorf("failed to create app: %w", err)
		}

		return fn(ctx, cmd, a)
	}
}

// idArg parses the first positional argument as a resource id.
func idArg(cmd *cli.Command, what string) (int64, error) {
	if cmd.Args().Len() < 1 {
		return 0, fmt.Errorf("missing %s id", what)
	}
	id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, cmd.Args().First())
	}
	return id, nil
}

// yesFlag skips delete confirmations.
func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "do not ask for confirmation",
	}
}

// confirmDelete asks before deleting unless --yes is set.
func confirmDelete(con *console, cmd *cli.Command, what string) (bool, error) {
	if cmd.Bool("yes") {
		return true, nil
	}
	ok, err := con.confirm(fmt.Sprintf("Are you sure you want to delete %s?", what))
	if err != nil {
		return false, err
	}
	if !ok {
		_, _ = fmt.Fprintln(con.out, "aborted")
	}
	return ok, nil
}

// optionalString returns a pointer to the flag value if the flag was set.
func optionalString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}
