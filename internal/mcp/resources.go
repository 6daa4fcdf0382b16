// ABOUTME: MCP resource implementations for body-measurement records.
// ABOUTME: Provides bodylog://records/recent, /latest, and /progress resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/bodylog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI   = "bodylog://records/recent"
	latestURI   = "bodylog://records/latest"
	progressURI = "bodylog://records/progress"

	recentCount = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Records",
		Description: "Last 10 body-measurement records",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         latestURI,
		Name:        "Latest Record",
		Description: "Most recent measurements with units",
		MIMEType:    "application/json",
	}, s.handleLatestResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         progressURI,
		Name:        "Progress",
		Description: "Change in every measurement between the first and latest record",
		MIMEType:    "application/json",
	}, s.handleProgressResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records := s.repo.List(ctx)
	if len(records) > recentCount {
		records = records[len(records)-recentCount:]
	}

	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, viewOf(r))
	}

	return jsonResource(recentURI, map[string]any{
		"records": views,
		"count":   len(views),
	})
}

func (s *Server) handleLatestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records := s.repo.List(ctx)
	if len(records) == 0 {
		return jsonResource(latestURI, map[string]any{"message": "No records yet."})
	}

	latest := records[len(records)-1]
	measurements := make(map[string]any, len(models.Fields))
	for _, f := range models.Fields {
		v, _ := latest.Value(f)
		measurements[f] = map[string]any{"value": v, "unit": models.Units[f]}
	}

	return jsonResource(latestURI, map[string]any{
		"id":           latest.ID,
		"recorded_at":  latest.RecordedAt.Format(time.RFC3339),
		"measurements": measurements,
	})
}

func (s *Server) handleProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records := s.repo.List(ctx)
	if len(records) < 2 {
		return jsonResource(progressURI, map[string]any{
			"message": "At least two records are needed to show progress.",
			"count":   len(records),
		})
	}

	first, latest := records[0], records[len(records)-1]
	changes := make(map[string]any, len(models.Fields))
	for _, f := range models.Fields {
		from, _ := first.Value(f)
		to, _ := latest.Value(f)
		changes[f] = map[string]any{
			"first":  from,
			"latest": to,
			"change": to - from,
			"unit":   models.Units[f],
		}
	}

	return jsonResource(progressURI, map[string]any{
		"first_id":  first.ID,
		"latest_id": latest.ID,
		"from":      first.RecordedAt.Format(time.RFC3339),
		"to":        latest.RecordedAt.Format(time.RFC3339),
		"count":     len(records),
		"changes":   changes,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
