package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erp/billing/internal/infrastructure/config"
	"github.com/erp/billing/internal/infrastructure/logger"
	"github.com/erp/billing/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Billing database migration tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		migrationsPath, err = resolveMigrationsPath(migrationsPath)
		if err != nil {
			return err
		}
		log.Debug("Migration CLI started",
			zap.String("command", cmd.Name()),
			zap.String("migrations_path", migrationsPath),
		)
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var stepsCmd = &cobra.Command{
	Use:     "steps <n>",
	Aliases: []string{"step"},
	Short:   "Apply n migrations (positive up, negative down)",
	Example: "  migrate steps -- -1",
	Args:    cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(version))
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the migration version without running migrations",
	Long:  "Set the migration version and clear the dirty flag. Use it only to recover from a failed migration.",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		log.Warn("Forcing migration version", zap.Int("version", version))
		return m.Force(version)
	}),
}

var createCmd = &cobra.Command{
	Use:     "create <name> [description]",
	Short:   "Create a new empty up/down migration pair",
	Example: `  migrate create add_invoice_reference "Store the customer's purchase order reference"`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available migration files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			log.Info("No migrations found")
			return nil
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), "  -", f)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "path to the migrations directory (default ./migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, gotoCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withMigrator opens the configured database and hands a migrator to fn
func withMigrator(fn func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(cmd.Context()); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		m, err := migration.New(db, migrationsPath, log)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := m.Close(); cerr != nil {
				log.Warn("Failed to close migrator", zap.Error(cerr))
			}
		}()

		return fn(m, args)
	}
}

// resolveMigrationsPath returns an absolute migrations directory, looking next
// to the executable when ./migrations does not exist
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}
