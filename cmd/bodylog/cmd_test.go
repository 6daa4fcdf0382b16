// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against SQLite databases in temp directories.
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/harperreed/bodylog/internal/config"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/harperreed/bodylog/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func init() {
	color.NoColor = true
}

// setupTestCLI writes a SQLite config file in a temp directory, creates the
// schema, and returns the config path plus a store over the same database.
func setupTestCLI(t *testing.T) (string, *storage.Store) {
	t.Helper()
	return writeTestConfig(t, true)
}

func writeTestConfig(t *testing.T, withSchema bool) (string, *storage.Store) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	c := &config.Config{Database: config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(dir, "bodylog.db"),
	}}
	if err := c.SaveTo(cfgPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	p, err := c.OpenProvider(zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenProvider failed: %v", err)
	}
	if withSchema {
		if err := p.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("EnsureSchema failed: %v", err)
		}
	}
	return cfgPath, storage.NewStore(p, zerolog.Nop())
}

// run executes the root command with fresh flag state and returns stdout.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	listLimit = 20
	exportOutput = ""
	exportSince = ""
	importFormat = ""
	copyFrom = ""
	copyCreateSchema = false
	initSaveConfig = false
	mcpMetricsAddr = ""
	for _, v := range updateValues {
		*v = 0
	}
	updateCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func addTestRecord(t *testing.T, s *storage.Store, weight float64) *models.Record {
	t.Helper()
	r, err := models.NewRecord(weight, 36, 36.5, 84, 58, 39)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if ok, err := s.Insert(context.Background(), r); err != nil || !ok {
		t.Fatalf("Insert failed: ok=%v err=%v", ok, err)
	}
	return r
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseMeasurements(t *testing.T) {
	got, err := parseMeasurements([]string{"82.5", "36", "36.5", "84", "58", "39"})
	if err != nil {
		t.Fatalf("parseMeasurements failed: %v", err)
	}
	if got[0] != 82.5 || got[5] != 39 {
		t.Errorf("parseMeasurements = %v", got)
	}

	_, err = parseMeasurements([]string{"82.5", "36", "x", "84", "58", "39"})
	if err == nil || !strings.Contains(err.Error(), "invalid right_bicep") {
		t.Errorf("error = %v, want invalid right_bicep", err)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello world"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := map[string]string{
		"backup.json": "json",
		"backup.yaml": "yaml",
		"backup.YML":  "yaml",
		"backup":      "json",
	}
	for in, want := range tests {
		if got := formatFromExt(in); got != want {
			t.Errorf("formatFromExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"init", "add", "list", "show", "exists", "update", "delete", "export", "import", "copy", "mcp"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestExportHelpDescribesImportRedating(t *testing.T) {
	if strings.Contains(exportCmd.Long, "backup/restore") {
		t.Error("export help must not promise a lossless restore")
	}
	if !strings.Contains(exportCmd.Long, "re-dates every record") {
		t.Errorf("export help should say import re-dates records:\n%s", exportCmd.Long)
	}
}

func TestUpdateCmdHasFlagPerMeasurement(t *testing.T) {
	for _, f := range models.Fields {
		if updateCmd.Flags().Lookup(f) == nil {
			t.Errorf("update is missing --%s", f)
		}
	}
}

func TestInitCmd(t *testing.T) {
	cfgPath, store := writeTestConfig(t, false)

	out, err := run(t, cfgPath, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Database ready (sqlite)") {
		t.Errorf("output = %q", out)
	}

	addTestRecord(t, store, 80)

	if _, err := run(t, cfgPath, "init"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if got := len(store.List(context.Background())); got != 1 {
		t.Errorf("init must not touch existing rows, have %d", got)
	}
}

func TestAddCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)

	out, err := run(t, cfgPath, "add", "82.5", "36", "36.5", "84", "58", "39")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "Added record 1") {
		t.Errorf("output = %q", out)
	}

	records := store.List(context.Background())
	if len(records) != 1 || records[0].Weight != 82.5 || records[0].Calves != 39 {
		t.Errorf("records = %v", records)
	}
}

func TestAddCmdErrors(t *testing.T) {
	cfgPath, store := setupTestCLI(t)

	if _, err := run(t, cfgPath, "add", "abc", "36", "36.5", "84", "58", "39"); err == nil {
		t.Error("expected error for non-numeric weight")
	}

	_, err := run(t, cfgPath, "add", "82.5", "36", "36.5", "0", "58", "39")
	if !errors.Is(err, models.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord", err)
	}

	_, err = run(t, cfgPath, "add", "inf", "36", "36.5", "84", "58", "39")
	if !errors.Is(err, models.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord for infinite weight", err)
	}

	if _, err := run(t, cfgPath, "add", "82.5", "36"); err == nil {
		t.Error("expected error for missing measurements")
	}

	if got := len(store.List(context.Background())); got != 0 {
		t.Errorf("no record should be stored, have %d", got)
	}
}

func TestListCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	for _, w := range []float64{80, 81, 82} {
		addTestRecord(t, store, w)
	}

	out, err := run(t, cfgPath, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, w := range []string{"80.00", "81.00", "82.00"} {
		if !strings.Contains(out, w) {
			t.Errorf("list output missing %s:\n%s", w, out)
		}
	}

	out, err = run(t, cfgPath, "list", "-n", "1")
	if err != nil {
		t.Fatalf("list -n 1 failed: %v", err)
	}
	if strings.Contains(out, "80.00") || !strings.Contains(out, "82.00") {
		t.Errorf("list -n 1 should show only the last record:\n%s", out)
	}
}

func TestListCmdEmpty(t *testing.T) {
	cfgPath, _ := setupTestCLI(t)

	out, err := run(t, cfgPath, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No records found.") {
		t.Errorf("output = %q", out)
	}
}

func TestListCmdUnreachableDatabase(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	c := &config.Config{Database: config.DatabaseConfig{
		Driver:         "mysql",
		Host:           "127.0.0.1",
		Port:           1,
		TimeoutSeconds: 1,
	}}
	if err := c.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, cfgPath, "list")
	if err != nil {
		t.Fatalf("list should degrade to an empty result, got %v", err)
	}
	if !strings.Contains(out, "No records found.") {
		t.Errorf("output = %q", out)
	}
}

func TestShowCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 82.5)

	out, err := run(t, cfgPath, "show", "1")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Record 1") || !strings.Contains(out, "82.50") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, cfgPath, "show", "99"); err == nil || !strings.Contains(err.Error(), "record not found") {
		t.Errorf("error = %v, want record not found", err)
	}
}

func TestExistsCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 82.5)

	out, err := run(t, cfgPath, "exists", "1")
	if err != nil || strings.TrimSpace(out) != "yes" {
		t.Errorf("exists 1 = %q, %v; want yes", out, err)
	}

	out, err = run(t, cfgPath, "exists", "2")
	if err != nil || strings.TrimSpace(out) != "no" {
		t.Errorf("exists 2 = %q, %v; want no", out, err)
	}

	_, err = run(t, cfgPath, "exists", "0")
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Errorf("exists 0 error = %v, want ErrInvalidArgument", err)
	}
}

func TestUpdateCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	r := addTestRecord(t, store, 82.5)

	out, err := run(t, cfgPath, "update", "1", "--waist", "83", "--calves", "39.5")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !strings.Contains(out, "Updated record 1") {
		t.Errorf("output = %q", out)
	}

	got := &models.Record{ID: r.ID}
	if found, _ := store.FindByID(context.Background(), got); !found {
		t.Fatal("record disappeared")
	}
	if got.Waist != 83 || got.Calves != 39.5 || got.Weight != 82.5 {
		t.Errorf("record after update = %v", got)
	}
}

func TestUpdateCmdErrors(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 82.5)

	if _, err := run(t, cfgPath, "update", "1"); err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("error = %v, want nothing to update", err)
	}

	if _, err := run(t, cfgPath, "update", "7", "--waist", "80"); err == nil || !strings.Contains(err.Error(), "record not found") {
		t.Errorf("error = %v, want record not found", err)
	}

	_, err := run(t, cfgPath, "update", "1", "--weight=-1")
	if !errors.Is(err, models.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord", err)
	}
}

func TestDeleteCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 82.5)

	out, err := run(t, cfgPath, "delete", "1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted record 1") {
		t.Errorf("output = %q", out)
	}
	if got := len(store.List(context.Background())); got != 0 {
		t.Errorf("have %d records after delete", got)
	}

	if _, err := run(t, cfgPath, "rm", "1"); err == nil {
		t.Error("expected error deleting a missing record")
	}
}

func TestExportCmd(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 82.5)

	for _, format := range []string{"json", "yaml", "markdown"} {
		out, err := run(t, cfgPath, "export", format)
		if err != nil {
			t.Errorf("export %s failed: %v", format, err)
			continue
		}
		if !strings.Contains(out, "82.5") {
			t.Errorf("export %s output missing weight:\n%s", format, out)
		}
	}

	if _, err := run(t, cfgPath, "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := run(t, cfgPath, "export", "markdown", "--since", "yesterday"); err == nil {
		t.Error("expected error for invalid --since")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	srcCfg, src := setupTestCLI(t)
	addTestRecord(t, src, 82.5)
	addTestRecord(t, src, 81)

	file := filepath.Join(t.TempDir(), "backup.yaml")
	if _, err := run(t, srcCfg, "export", "yaml", "-o", file); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("export file not written: %v", err)
	}

	dstCfg, dst := setupTestCLI(t)
	out, err := run(t, dstCfg, "import", file)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 records") {
		t.Errorf("output = %q", out)
	}

	records := dst.List(context.Background())
	if len(records) != 2 || records[0].Weight != 82.5 || records[1].Weight != 81 {
		t.Errorf("imported records = %v", records)
	}
}

func TestImportCmdErrors(t *testing.T) {
	cfgPath, _ := setupTestCLI(t)

	if _, err := run(t, cfgPath, "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfgPath, "import", bad); err == nil {
		t.Error("expected error for invalid JSON")
	}

	if _, err := run(t, cfgPath, "import", bad, "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCopyCmd(t *testing.T) {
	srcCfg, src := setupTestCLI(t)
	for _, w := range []float64{80, 79.5} {
		addTestRecord(t, src, w)
	}

	dstCfg, dst := writeTestConfig(t, false)
	out, err := run(t, dstCfg, "copy", "--from", srcCfg, "--create-schema")
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if !strings.Contains(out, "Copied 2 records") {
		t.Errorf("output = %q", out)
	}

	srcRecords, dstRecords := src.List(context.Background()), dst.List(context.Background())
	if len(dstRecords) != 2 {
		t.Fatalf("destination has %d records, want 2", len(dstRecords))
	}
	for i := range srcRecords {
		if !srcRecords[i].SameMeasurements(dstRecords[i], 1e-9) {
			t.Errorf("record %d differs: %v vs %v", i, srcRecords[i], dstRecords[i])
		}
	}
}

func TestCopyCmdRefusesSameDatabase(t *testing.T) {
	cfgPath, store := setupTestCLI(t)
	addTestRecord(t, store, 80)

	if _, err := run(t, cfgPath, "copy", "--from", cfgPath); err == nil {
		t.Error("expected error copying a database into itself")
	}

	// An environment override points both configs at the same file.
	srcCfg, _ := writeTestConfig(t, true)
	t.Setenv("BODYLOG_DATABASE_PATH", filepath.Join(filepath.Dir(cfgPath), "bodylog.db"))
	if _, err := run(t, cfgPath, "copy", "--from", srcCfg); err == nil {
		t.Error("expected error when BODYLOG_DATABASE_PATH resolves both sides to one database")
	}

	if got := len(store.List(context.Background())); got != 1 {
		t.Errorf("destination has %d records, want 1", got)
	}
}

func TestCopyCmdRequiresFrom(t *testing.T) {
	cfgPath, _ := setupTestCLI(t)
	if _, err := run(t, cfgPath, "copy"); err == nil {
		t.Error("expected error without --from")
	}
}
