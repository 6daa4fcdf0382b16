// ABOUTME: CLI command for creating the registro table.
// ABOUTME: Optionally writes the effective configuration to the config file.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/config"
	"github.com/spf13/cobra"
)

var initSaveConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the registro table",
	Long: `Create the registro table in the configured database if it does not exist.

Running init more than once is safe. It never alters an existing table.

EXAMPLES:

  bodylog init                                  # Use ~/.config/bodylog/config.json
  BODYLOG_DATABASE_DRIVER=sqlite bodylog init   # Local SQLite file
  bodylog init --save-config                    # Also write the effective config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := provider.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Database ready (%s)\n", provider.Driver())

		if initSaveConfig {
			path := config.GetConfigPath()
			if cfgFile != "" {
				path = config.ExpandPath(cfgFile)
			}
			if err := cfg.SaveTo(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "  config written to %s\n", path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initSaveConfig, "save-config", false, "write the effective configuration to the config file")
	rootCmd.AddCommand(initCmd)
}
