// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs the stdio MCP server and an optional Prometheus metrics listener.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/harperreed/bodylog/internal/mcp"
	"github.com/harperreed/bodylog/internal/observability"
	"github.com/spf13/cobra"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "bodylog": {
        "command": "bodylog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_records    List records, most recent last
  get_record      Get a record by ID
  record_exists   Check whether an ID exists
  add_record      Add a record with all six measurements
  update_record   Change measurements of a record
  delete_record   Delete a record by ID

AVAILABLE RESOURCES:

  bodylog://records/recent     Last 10 records
  bodylog://records/latest     Most recent measurements with units
  bodylog://records/progress   Change between first and latest record

METRICS:

  --metrics-addr :9090 serves Prometheus counters for every store
  operation at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if mcpMetricsAddr != "" {
			stop := serveMetrics(ctx, mcpMetricsAddr)
			defer stop()
		}

		return server.Serve(ctx)
	},
}

// serveMetrics starts the /metrics listener in the background and returns
// a function that shuts it down.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "address for the Prometheus /metrics listener (disabled when empty)")
	rootCmd.AddCommand(mcpCmd)
}
