// ABOUTME: Export and import functionality for body-measurement records.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bodylog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for records.
type ExportData struct {
	Version    string          `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Tool       string          `json:"tool" yaml:"tool"`
	Records    []models.Record `json:"records" yaml:"records"`
}

// GetAllData retrieves all records for export.
func GetAllData(ctx context.Context, repo Repository) *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "bodylog",
		Records:    repo.List(ctx),
	}
}

// ExportJSON exports all records as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	return json.MarshalIndent(GetAllData(ctx, repo), "", "  ")
}

// ExportYAML exports all records as YAML.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	return yaml.Marshal(GetAllData(ctx, repo))
}

// ExportMarkdown renders records as a Markdown table, optionally limited to
// records taken on or after since.
func ExportMarkdown(ctx context.Context, repo Repository, since *time.Time) string {
	records := repo.List(ctx)
	if since != nil {
		filtered := records[:0]
		for _, r := range records {
			if !r.RecordedAt.Before(*since) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Body Measurements - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString("| ID | Date | Weight (kg) | L. bicep | R. bicep | Waist | Quadriceps | Calves |\n")
	sb.WriteString("|----|------|-------------|----------|----------|-------|------------|--------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			r.ID, r.RecordedAt.Format("2006-01-02 15:04"),
			r.Weight, r.LeftBicep, r.RightBicep, r.Waist, r.Quadriceps, r.Calves))
	}

	return sb.String()
}

// ImportData inserts every record of data as a new row. Ids in the input
// are ignored; the database assigns fresh ones. It stops at the first
// record that cannot be stored and returns how many were imported.
func ImportData(ctx context.Context, repo Repository, data *ExportData) (int, error) {
	imported := 0
	for i := range data.Records {
		r := data.Records[i]
		r.ID = 0

		ok, err := repo.Insert(ctx, &r)
		if err != nil {
			return imported, fmt.Errorf("import record %d: %w", i+1, err)
		}
		if !ok {
			return imported, fmt.Errorf("import record %d: not stored (see log)", i+1)
		}
		imported++
	}
	return imported, nil
}

// ImportJSON imports records from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, data []byte) (int, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return 0, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(ctx, repo, &exportData)
}

// ImportYAML imports records from YAML bytes.
func ImportYAML(ctx context.Context, repo Repository, data []byte) (int, error) {
	var exportData ExportData
	if err := yaml.Unmarshal(data, &exportData); err != nil {
		return 0, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return ImportData(ctx, repo, &exportData)
}
