package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/takuyahirata23/quick-note/internal/config"
	"github.com/takuyahirata23/quick-note/internal/di"
	"github.com/takuyahirata23/quick-note/internal/logger"
	"github.com/takuyahirata23/quick-note/internal/store/sqldb"
)

func newRootCmd() *cobra.Command {
	var flags config.Flags

	rootCmd := &cobra.Command{
		Use:           "quicknote",
		Short:         "Quick Note server",
		Long:          "Quick Note is a small note-taking server: folders, notes and pins behind cookie sessions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&flags.EnvFile, "env-file", ".env", "Path to .env file")
	pf.StringVar(&flags.Env, "env", "", "Environment (development, staging, production)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.DataDir, "data-dir", "", "Directory for the SQLite database and session key")
	pf.StringVar(&flags.DBDriver, "db-driver", "", "Database driver (sqlite, postgres)")
	pf.StringVar(&flags.DBDSN, "db-dsn", "", "Database file path or connection URL")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	serveCmd.Flags().StringVar(&flags.Port, "port", "", "Server port (default: 8080)")
	serveCmd.Flags().StringVar(&flags.SecureCookie, "secure-cookie", "", "Mark session cookies Secure (default: true)")
	serveCmd.Flags().StringVar(&flags.AuthRateLimit, "auth-rate-limit", "", "Register/login attempts per IP per minute, 0 disables (default: 10)")
	serveCmd.Flags().StringVar(&flags.TrustProxy, "trust-proxy", "", "Take client IPs from X-Forwarded-For/X-Real-IP (default: false)")

	rootCmd.AddCommand(serveCmd, newMigrateCmd(&flags), newVersionCmd())
	return rootCmd
}

func runServe(ctx context.Context, flags config.Flags) error {
	injector := di.NewContainer(flags, version)

	if err := di.Bootstrap(injector); err != nil {
		_ = injector.Shutdown()
		return fmt.Errorf("bootstrap server: %w", err)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down server gracefully...")

	// The container shuts providers down in reverse dependency order: the
	// HTTP server drains before the store closes.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Goodbye")
	return nil
}

func newMigrateCmd(flags *config.Flags) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *flags, func(s *sqldb.Store) error {
				if err := s.MigrateUp(); err != nil {
					return err
				}
				return printStatus(cmd, s)
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default: 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return withStore(cmd.Context(), *flags, func(s *sqldb.Store) error {
				if err := s.MigrateDown(steps); err != nil {
					return err
				}
				return printStatus(cmd, s)
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *flags, func(s *sqldb.Store) error {
				return printStatus(cmd, s)
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}

// withStore opens the configured database without migrating it.
func withStore(ctx context.Context, flags config.Flags, fn func(*sqldb.Store) error) error {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	if cfg.Database.Driver == string(sqldb.DialectSQLite) {
		if err := os.MkdirAll(cfg.App.DataDir, 0o750); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	s, err := sqldb.Open(ctx, sqldb.Options{
		Driver:         sqldb.Dialect(cfg.Database.Driver),
		DSN:            cfg.Database.DSN,
		SkipMigrations: true,
	}, log.Logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

func printStatus(cmd *cobra.Command, s *sqldb.Store) error {
	status, err := s.MigrationStatus()
	if err != nil {
		return err
	}
	dirty := ""
	if status.Dirty {
		dirty = " (dirty)"
	}
	cmd.Printf("schema version %d of %d%s\n", status.Version, status.Latest, dirty)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("quicknote", version)
		},
	}
}
