// ABOUTME: Connection provider: opens one database connection per call.
// ABOUTME: Hides raw driver failures behind ErrConnection and logs them.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/bodylog/internal/observability"
	"github.com/rs/zerolog"
)

// Acquirer hands out connections scoped to a single store call.
type Acquirer interface {
	Acquire(ctx context.Context) (*Conn, error)
}

// Provider opens connections from a fixed ConnConfig.
type Provider struct {
	cfg     ConnConfig
	dialect *dialect
	dsn     string
	logger  zerolog.Logger
}

// NewProvider validates cfg and prepares the DSN. No connection is opened.
func NewProvider(cfg ConnConfig, logger zerolog.Logger) (*Provider, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if d.name == DriverSQLite {
		if cfg.Path == "" {
			return nil, errors.New("sqlite driver requires a database path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	return &Provider{
		cfg:     cfg,
		dialect: d,
		dsn:     d.dsn(cfg),
		logger:  logger.With().Str("component", "provider").Str("driver", d.name).Logger(),
	}, nil
}

// Driver returns the configured driver name.
func (p *Provider) Driver() string {
	return p.dialect.name
}

// Acquire opens and verifies a new connection. The caller must Close it.
func (p *Provider) Acquire(ctx context.Context) (*Conn, error) {
	db, err := sql.Open(p.dialect.driverName, p.dsn)
	if err != nil {
		return nil, p.connectionFailed(err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, p.connectionFailed(err)
	}

	for _, stmt := range p.dialect.setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, p.connectionFailed(fmt.Errorf("execute %s: %w", stmt, err))
		}
	}

	return &Conn{db: db, dialect: p.dialect}, nil
}

// EnsureSchema creates the registro table if it does not exist.
func (p *Provider) EnsureSchema(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.db.ExecContext(ctx, p.dialect.createTable); err != nil {
		return fmt.Errorf("create registro table: %w", err)
	}
	return nil
}

func (p *Provider) connectionFailed(err error) error {
	observability.RecordConnectionFailure()
	p.logger.Error().Err(err).
		Str("host", p.cfg.Host).
		Int("port", p.cfg.Port).
		Str("database", p.databaseName()).
		Msg("could not connect to database")
	return ErrConnection
}

func (p *Provider) databaseName() string {
	if p.dialect.name == DriverSQLite {
		return p.cfg.Path
	}
	return p.cfg.Name
}

// Conn is a single live connection. Close releases it.
type Conn struct {
	db      *sql.DB
	dialect *dialect
}

// Close closes the connection.
func (c *Conn) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// QueryContext runs a query, rebinding placeholders for the dialect.
func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.dialect.rebind(query), args...)
}

// QueryRowContext runs a query expected to return at most one row.
func (c *Conn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.rebind(query), args...)
}

// ExecContext runs a statement that returns no rows.
func (c *Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.dialect.rebind(query), args...)
}
