package main // Entry point package

import (
	"context"
	"database/sql"
	"os"

	"github.com/joho/godotenv" // load .env files into the process environment
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/config"
	"github.com/iliyamo/labquiz/internal/database"
	"github.com/iliyamo/labquiz/internal/logging"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "labquiz",
		Short: "Lab safety quiz and access management service",
		Long: `labquiz serves the lab safety API: users, chemicals, quiz questions and
the access grants that decide who may change them.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")

	serve := serveCmd()
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(bootstrapCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile loads path into the environment.  A missing file is not an
// error; variables already set are left alone.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return errors.Annotatef(godotenv.Load(path), "loading %s", path)
}

// setup is shared by every subcommand: configuration, logger and database.
type setup struct {
	cfg    config.Config
	logger *zap.Logger
}

func newSetup() (setup, error) {
	cfg, err := config.Load()
	if err != nil {
		return setup{}, errors.Trace(err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return setup{}, errors.Trace(err)
	}
	return setup{cfg: cfg, logger: logger}, nil
}

// openDB connects to the configured datastore and creates missing tables.
func (s setup) openDB(ctx context.Context) (*sql.DB, error) {
	opts := s.cfg.Database()
	db, err := database.Open(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := database.EnsureSchema(ctx, db, opts.Driver); err != nil {
		_ = db.Close()
		return nil, errors.Trace(err)
	}
	s.logger.Info("database ready", zap.String("driver", opts.Driver))
	return db, nil
}
