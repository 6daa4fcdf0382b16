// ABOUTME: CLI command for adding body-measurement records.
// ABOUTME: Takes all six measurements positionally and inserts one row.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/spf13/cobra"
)

// errNotSaved is returned when the store absorbed a database failure.
var errNotSaved = errors.New("database operation failed (see log for details)")

var addCmd = &cobra.Command{
	Use:     "add <weight> <left_bicep> <right_bicep> <waist> <quadriceps> <calves>",
	Aliases: []string{"a"},
	Short:   "Add a record",
	Long: `Add a body-measurement record. Weight is in kg, the other five
measurements are circumferences in cm. Every value must be greater than 0.

The database assigns the ID and the timestamp.

EXAMPLES:

  bodylog add 82.5 36 36.5 84 58 39
  bodylog a 81.9 36 36.4 83.5 58 39`,
	Args: cobra.ExactArgs(len(models.Fields)),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseMeasurements(args)
		if err != nil {
			return err
		}

		r, err := models.NewRecord(values[0], values[1], values[2], values[3], values[4], values[5])
		if err != nil {
			return err
		}

		ok, err := repo.Insert(cmd.Context(), r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to add record: %w", errNotSaved)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added record %d\n", r.ID)
		printMeasurements(out, r)
		return nil
	},
}

func parseMeasurements(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", models.Fields[i], a)
		}
		values[i] = v
	}
	return values, nil
}

func printMeasurements(w io.Writer, r *models.Record) {
	faint := color.New(color.Faint)
	for _, f := range models.Fields {
		v, _ := r.Value(f)
		fmt.Fprintf(w, "  %s %.2f %s\n", padRight(f, 12), v, faint.Sprint(models.Units[f]))
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s (must be a positive integer)", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
}
