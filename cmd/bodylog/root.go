// ABOUTME: Root Cobra command for bodylog CLI.
// ABOUTME: Loads configuration and opens the record store via PersistentPreRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/bodylog/internal/config"
	"github.com/harperreed/bodylog/internal/logging"
	"github.com/harperreed/bodylog/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg      *config.Config
	logger   zerolog.Logger
	provider *storage.Provider
	repo     storage.Repository
)

var rootCmd = &cobra.Command{
	Use:   "bodylog",
	Short: "Body measurement log",
	Long: `Bodylog keeps a log of body measurements in a SQL database.

WHAT IT TRACKS:

  weight       kg
  left_bicep   cm
  right_bicep  cm
  waist        cm
  quadriceps   cm
  calves       cm

  Every measurement must be greater than 0.

QUICK START:

  $ bodylog init                                # Create the registro table
  $ bodylog add 82.5 36 36.5 84 58 39           # Log a full set of measurements
  $ bodylog list                                # See recent records
  $ bodylog update 3 --waist 83                 # Fix one measurement
  $ bodylog delete 3                            # Remove a record

DATABASE:

  MySQL is the default. Configure the connection in
  ~/.config/bodylog/config.json:

  {
    "database": {
      "driver": "mysql",
      "host": "localhost",
      "port": 3306,
      "name": "progress_body_db",
      "user": "root",
      "password": "..."
    }
  }

  Drivers: mysql, postgres, sqlite. Every field can be overridden with
  BODYLOG_ environment variables (BODYLOG_DATABASE_PASSWORD, BODYLOG_LOG_LEVEL)
  or a .env file in the working directory.

MCP INTEGRATION:

  Run 'bodylog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "bodylog": { "command": "bodylog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.GetLogLevel()
		if logLevel != "" {
			level = logLevel
		}
		logger = logging.New(level, os.Stderr)

		provider, err = cfg.OpenProvider(logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		repo = storage.NewStore(provider, logger)
		return nil
	},
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(config.ExpandPath(path))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/bodylog/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}
