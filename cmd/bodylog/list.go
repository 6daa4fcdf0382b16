// ABOUTME: CLI commands for reading records: list, show, and exists.
// ABOUTME: Prints records as aligned rows in ID order.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List records",
	Long: `List body-measurement records in ID order, oldest first.

OUTPUT FORMAT:

  ID  DATE  WEIGHT  L.BICEP  R.BICEP  WAIST  QUADS  CALVES

If the database cannot be reached the list is empty and the failure is
written to the log on stderr.

EXAMPLES:

  bodylog list          # Show the last 20 records
  bodylog list -n 0     # Show every record
  bodylog ls -n 5       # Show the last 5 records`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := repo.List(cmd.Context())
		out := cmd.OutOrStdout()

		if len(records) == 0 {
			fmt.Fprintln(out, "No records found.")
			return nil
		}

		if listLimit > 0 && len(records) > listLimit {
			records = records[len(records)-listLimit:]
		}

		printTable(out, records)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
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

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n",
			color.New(color.Bold).Sprintf("Record %d", r.ID),
			color.New(color.Faint).Sprint(r.RecordedAt.Format("2006-01-02 15:04")))
		printMeasurements(out, r)
		return nil
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <id>",
	Short: "Check whether a record exists",
	Long: `Print "yes" if a record with the given ID exists, "no" otherwise.

IDs must be greater than 0.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %s", args[0])
		}

		exists, err := repo.Exists(cmd.Context(), id)
		if err != nil {
			return err
		}

		if exists {
			fmt.Fprintln(cmd.OutOrStdout(), "yes")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "no")
		}
		return nil
	},
}

func printTable(w io.Writer, records []models.Record) {
	faint := color.New(color.Faint)
	fmt.Fprintln(w, faint.Sprint(padRight("ID", 6)+padRight("DATE", 18)+
		"WEIGHT  L.BICEP  R.BICEP  WAIST   QUADS   CALVES"))
	for _, r := range records {
		fmt.Fprintf(w, "%s%s%s%s%s%s%s%.2f\n",
			padRight(strconv.FormatInt(r.ID, 10), 6),
			faint.Sprint(padRight(r.RecordedAt.Format("2006-01-02 15:04"), 18)),
			padRight(fmt.Sprintf("%.2f", r.Weight), 8),
			padRight(fmt.Sprintf("%.2f", r.LeftBicep), 9),
			padRight(fmt.Sprintf("%.2f", r.RightBicep), 9),
			padRight(fmt.Sprintf("%.2f", r.Waist), 8),
			padRight(fmt.Sprintf("%.2f", r.Quadriceps), 8),
			r.Calves)
	}
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(existsCmd)
}
