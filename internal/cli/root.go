// Package cli implements recipectl, the operator tool that runs
// maintenance jobs against the recipe database.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

// Opener opens the database a command works on.
type Opener func(repo.Options) (*gorm.DB, error)

type dbFlags struct {
	driver string
	path   string
	url    string
}

// NewRootCmd builds the recipectl command tree. open is called lazily by
// the subcommands that need a database.
func NewRootCmd(open Opener) *cobra.Command {
	var (
		flags    dbFlags
		logLevel string
	)

	root := &cobra.Command{
		Use:           "recipectl",
		Short:         "Recipe backend maintenance",
		Long:          "Repair denormalised counters and seed recipes directly against the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			sysutil.SetLogLevel(logLevel)
			log.Logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: time.Kitchen,
				NoColor:    sysutil.IsTruthy(os.Getenv("NO_COLOR")),
			}).With().Timestamp().Logger()
		},
	}

	// Defaults follow the server's environment so both binaries see one database.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Config{DB: config.DBConfig{Driver: repo.DriverSQLite, Path: "recipes.db"}, LogLevel: "info"}
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.driver, "db-driver", cfg.DB.Driver, "database driver (sqlite|postgres)")
	pf.StringVar(&flags.path, "db-path", cfg.DB.Path, "sqlite database file")
	pf.StringVar(&flags.url, "database-url", cfg.DB.URL, "postgres connection string")
	pf.StringVar(&logLevel, "log-level", cfg.LogLevel, "log level")

	connect := func(ctx context.Context) (*gorm.DB, error) {
		db, err := open(repo.Options{Driver: flags.driver, Path: flags.path, DSN: flags.url, Silent: true})
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", flags.driver, err)
		}
		if err := repo.AutoMigrate(db.WithContext(ctx)); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	}

	root.AddCommand(newMigrateStatsCmd(connect), newSeedCmd(connect))
	return root
}

// Execute runs recipectl against the real database drivers.
func Execute(ctx context.Context) error {
	return NewRootCmd(repo.OpenDB).ExecuteContext(ctx)
}
