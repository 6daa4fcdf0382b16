// ABOUTME: CLI commands for exporting and importing records.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export records",
	Long: `Export every record in the database.

FORMATS:

  json       Full JSON export (re-importable; import assigns new IDs and
             re-dates every record to the import time)
  yaml       YAML export (human-readable)
  markdown   Markdown table (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include records since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  bodylog export json                         # Export all records as JSON
  bodylog export json -o backup.json          # Save to file
  bodylog export yaml                         # Export as YAML
  bodylog export markdown --since 2025-01-01  # Records from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		ctx := cmd.Context()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(ctx, repo)
		case "yaml":
			data, err = storage.ExportYAML(ctx, repo)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.Parse("2006-01-02", exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			data = []byte(storage.ExportMarkdown(ctx, repo, since))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Exported to %s\n", exportOutput)
		} else {
			fmt.Fprintln(out, string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import records from a JSON or YAML export",
	Long: `Import records from a file written by 'bodylog export'.

Every record is inserted as a new row; the database assigns fresh IDs and
timestamps. Import stops at the first record that cannot be saved.

The format is taken from the file extension (.json, .yaml, .yml) unless
--format is given.

EXAMPLES:

  bodylog import backup.json
  bodylog import records.yml
  bodylog import dump.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = formatFromExt(filename)
		}

		var n int
		switch format {
		case "json":
			n, err = storage.ImportJSON(cmd.Context(), repo, data)
		case "yaml":
			n, err = storage.ImportYAML(cmd.Context(), repo, data)
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("import failed after %d records: %w", n, err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Imported %d records from %s\n", n, filename)
		return nil
	},
}

func formatFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include records since date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "input format: json or yaml")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
