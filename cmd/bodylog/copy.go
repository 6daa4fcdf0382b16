// ABOUTME: CLI command for copying records between two configured databases.
// ABOUTME: Reads every record from the --from config and inserts it into the current one.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/config"
	"github.com/harperreed/bodylog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	copyFrom         string
	copyCreateSchema bool
)

var copyCmd = &cobra.Command{
	Use:   "copy --from <config>",
	Short: "Copy records from another database",
	Long: `Copy every record from the database described by another config file
into the current database. Copied records get new IDs and timestamps.
The source config also picks up .env and BODYLOG_ overrides; copy refuses
to run when both sides resolve to the same database.

Useful for moving a log from MySQL to a local SQLite file or to Postgres.

EXAMPLES:

  bodylog copy --from ~/.config/bodylog/mysql.json
  bodylog --config sqlite.json copy --from mysql.json --create-schema`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if copyFrom == "" {
			return errors.New("--from is required")
		}

		srcCfg, err := config.LoadFrom(config.ExpandPath(copyFrom))
		if err != nil {
			return fmt.Errorf("failed to load source config: %w", err)
		}
		if srcCfg.ConnConfig().SameDatabase(cfg.ConnConfig()) {
			return errors.New("source and destination are the same database (check BODYLOG_ environment overrides)")
		}
		src, err := srcCfg.OpenStore(logger.With().Str("side", "source").Logger())
		if err != nil {
			return fmt.Errorf("failed to open source database: %w", err)
		}

		if copyCreateSchema {
			if err := provider.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}

		summary, err := storage.CopyRecords(cmd.Context(), src, repo)
		if err != nil {
			return fmt.Errorf("copy stopped after %d of %d records: %w", summary.Copied, summary.Read, err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Copied %d records\n", summary.Copied)
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyFrom, "from", "", "config file of the source database")
	copyCmd.Flags().BoolVar(&copyCreateSchema, "create-schema", false, "create the registro table in the destination first")
	rootCmd.AddCommand(copyCmd)
}
