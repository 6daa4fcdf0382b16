// ABOUTME: Per-driver SQL differences: DSN, placeholders, DDL, session setup.
// ABOUTME: Supports MySQL (default), PostgreSQL via pgx, and SQLite via modernc.
package storage

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names accepted in ConnConfig.Driver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnConfig describes how to reach the database. Host, Port, Name, User
// and Password apply to network drivers; Path applies to SQLite.
type ConnConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	Path     string
	Timeout  time.Duration
}

// SameDatabase reports whether c and o address the same database. Credentials
// and connection options are ignored.
func (c ConnConfig) SameDatabase(o ConnConfig) bool {
	if !strings.EqualFold(c.Driver, o.Driver) {
		return false
	}
	if strings.EqualFold(c.Driver, DriverSQLite) {
		a, errA := filepath.Abs(c.Path)
		b, errB := filepath.Abs(o.Path)
		if errA != nil || errB != nil {
			return filepath.Clean(c.Path) == filepath.Clean(o.Path)
		}
		return a == b
	}
	return strings.EqualFold(c.Host, o.Host) && c.Port == o.Port && c.Name == o.Name
}

type dialect struct {
	name       string
	driverName string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// INSERT ... RETURNING id instead of LastInsertId
	returningID bool
	setup       []string
	createTable string
	dsn         func(ConnConfig) string
}

var dialects = map[string]*dialect{
	DriverMySQL: {
		name:       DriverMySQL,
		driverName: "mysql",
		createTable: `
		CREATE TABLE IF NOT EXISTS registro (
			id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			peso DOUBLE NOT NULL CHECK (peso > 0),
			bicepIzquierdo DOUBLE NOT NULL CHECK (bicepIzquierdo > 0),
			bicepDerecho DOUBLE NOT NULL CHECK (bicepDerecho > 0),
			cintura DOUBLE NOT NULL CHECK (cintura > 0),
			cuadriceps DOUBLE NOT NULL CHECK (cuadriceps > 0),
			pantorrillas DOUBLE NOT NULL CHECK (pantorrillas > 0),
			fecha TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		dsn: mysqlDSN,
	},
	DriverPostgres: {
		name:        DriverPostgres,
		driverName:  "pgx",
		numbered:    true,
		returningID: true,
		createTable: `
		CREATE TABLE IF NOT EXISTS registro (
			id SERIAL PRIMARY KEY,
			peso DOUBLE PRECISION NOT NULL CHECK (peso > 0),
			bicepIzquierdo DOUBLE PRECISION NOT NULL CHECK (bicepIzquierdo > 0),
			bicepDerecho DOUBLE PRECISION NOT NULL CHECK (bicepDerecho > 0),
			cintura DOUBLE PRECISION NOT NULL CHECK (cintura > 0),
			cuadriceps DOUBLE PRECISION NOT NULL CHECK (cuadriceps > 0),
			pantorrillas DOUBLE PRECISION NOT NULL CHECK (pantorrillas > 0),
			fecha TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		dsn: postgresDSN,
	},
	DriverSQLite: {
		name:       DriverSQLite,
		driverName: "sqlite",
		setup: []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		},
		createTable: `
		CREATE TABLE IF NOT EXISTS registro (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			peso REAL NOT NULL CHECK (peso > 0),
			bicepIzquierdo REAL NOT NULL CHECK (bicepIzquierdo > 0),
			bicepDerecho REAL NOT NULL CHECK (bicepDerecho > 0),
			cintura REAL NOT NULL CHECK (cintura > 0),
			cuadriceps REAL NOT NULL CHECK (cuadriceps > 0),
			pantorrillas REAL NOT NULL CHECK (pantorrillas > 0),
			fecha DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		dsn: func(c ConnConfig) string { return c.Path },
	},
}

func lookupDialect(driver string) (*dialect, error) {
	d, ok := dialects[strings.ToLower(driver)]
	if !ok {
		return nil, fmt.Errorf("unknown database driver: %q (use mysql, postgres, or sqlite)", driver)
	}
	return d, nil
}

func mysqlDSN(c ConnConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Name
	cfg.ParseTime = true
	// Report matched rows for UPDATE, so an unchanged row still counts.
	cfg.ClientFoundRows = true
	cfg.Timeout = c.Timeout
	return cfg.FormatDSN()
}

func postgresDSN(c ConnConfig) string {
	q := url.Values{}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	if c.Timeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.Timeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// rebind rewrites ? placeholders for drivers that use numbered ones.
func (d *dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
