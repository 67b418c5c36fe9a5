// Package main implements the entry point of the N-LanguagesAI server, which
// schedules reviews of sentences and their translations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/platform/migrate"
)

// options holds the command line flags.
type options struct {
	migrate string
	verbose bool
}

var errUnknownMigrateCommand = errors.New("unknown -migrate command")

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.migrate {
	case "", migrate.CommandUp, migrate.CommandDown, migrate.CommandReset,
		migrate.CommandStatus, migrate.CommandVersion:
	default:
		return options{}, fmt.Errorf("%w: %q", errUnknownMigrateCommand, opts.migrate)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either runs a migration
// command or serves until ctx is done.
func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.verbose {
		cfg.Server.LogLevel = "debug"
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("translator_enabled", cfg.LLM.Enabled()),
		slog.Bool("scheduler_enabled", cfg.Scheduler.Enabled))

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDatabase(db, log)
		return runMigrations(ctx, db, cfg.Database.Driver, opts.migrate, log)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, cfg.Database.Driver, migrate.CommandUp, log); err != nil {
			closeDatabase(db, log)
			return err
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
