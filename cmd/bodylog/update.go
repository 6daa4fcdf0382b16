// ABOUTME: CLI command for changing measurements of an existing record.
// ABOUTME: Only the flags that were given are written; the rest keep their stored values.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/spf13/cobra"
)

var updateValues = make(map[string]*float64, len(models.Fields))

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"set"},
	Short:   "Change measurements of a record",
	Long: `Change one or more measurements of an existing record.

FLAGS:

  --weight, --left_bicep, --right_bicep, --waist, --quadriceps, --calves

EXAMPLES:

  bodylog update 3 --waist 83
  bodylog update 3 --weight 81.2 --calves 39.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		changed := changedMeasurements(cmd)
		if len(changed) == 0 {
			return fmt.Errorf("nothing to update: pass at least one measurement flag")
		}

		r := &models.Record{ID: id}
		found, err := repo.FindByID(cmd.Context(), r)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record not found: %d", id)
		}

		for _, f := range changed {
			if err := r.Set(f, *updateValues[f]); err != nil {
				return err
			}
		}

		ok, err := repo.Update(cmd.Context(), r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to update record %d: %w", id, errNotSaved)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Updated record %d\n", r.ID)
		printMeasurements(out, r)
		return nil
	},
}

func changedMeasurements(cmd *cobra.Command) []string {
	var changed []string
	for _, f := range models.Fields {
		if cmd.Flags().Changed(f) {
			changed = append(changed, f)
		}
	}
	return changed
}

func init() {
	for _, f := range models.Fields {
		v := new(float64)
		updateValues[f] = v
		updateCmd.Flags().Float64Var(v, f, 0, fmt.Sprintf("new %s (%s)", f, models.Units[f]))
	}
	rootCmd.AddCommand(updateCmd)
}
