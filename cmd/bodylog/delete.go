// ABOUTME: CLI command for deleting records.
// ABOUTME: Shows the record being removed before deleting it.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a record",
	Long: `Delete a body-measurement record by its ID.

The ID is shown in the first column of 'bodylog list' output.

EXAMPLES:

  bodylog delete 12
  bodylog rm 12

CAUTION:

  This permanently deletes the record. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r := &models.Record{ID: id}
		found, err := repo.FindByID(cmd.Context(), r)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record not found: %d", id)
		}

		ok, err := repo.Delete(cmd.Context(), r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to delete record %d: %w", id, errNotSaved)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgYellow).Fprintf(out, "✗ Deleted record %d\n", r.ID)
		printMeasurements(out, r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
