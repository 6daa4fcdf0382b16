// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides SQLite-backed stores in temp directories and canned records.
package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/harperreed/bodylog/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// setupTestStore returns a store over a fresh SQLite database with the
// registro table created.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	p := setupTestProvider(t)
	require.NoError(t, p.EnsureSchema(context.Background()))
	return NewStore(p, zerolog.Nop())
}

// setupTestProvider returns a provider over a fresh SQLite path with no schema.
func setupTestProvider(t *testing.T) *Provider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bodylog.db")
	p, err := NewProvider(ConnConfig{Driver: DriverSQLite, Path: path}, zerolog.Nop())
	require.NoError(t, err)
	return p
}

// loggedStore wraps acquirer in a store whose log output is captured.
func loggedStore(acquirer Acquirer) (*Store, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewStore(acquirer, zerolog.New(&buf)), &buf
}

// failingAcquirer never hands out a connection.
type failingAcquirer struct {
	calls int
}

func (f *failingAcquirer) Acquire(ctx context.Context) (*Conn, error) {
	f.calls++
	return nil, ErrConnection
}

func newTestRecord(t *testing.T, weight float64) *models.Record {
	t.Helper()
	r, err := models.NewRecord(weight, 36.5, 37, 82, 57.5, 38)
	require.NoError(t, err)
	return r
}

func insertTestRecord(t *testing.T, s *Store, weight float64) *models.Record {
	t.Helper()
	r := newTestRecord(t, weight)
	ok, err := s.Insert(context.Background(), r)
	require.NoError(t, err)
	require.True(t, ok, "insert should succeed")
	require.Positive(t, r.ID)
	return r
}
