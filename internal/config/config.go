// ABOUTME: bodylog configuration: JSON file, .env, and BODYLOG_ environment overrides.
// ABOUTME: Builds the connection provider and record store from the database section.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/bodylog/internal/storage"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix marks environment variables that override the config file.
// BODYLOG_DATABASE_HOST maps to database.host, BODYLOG_LOG_LEVEL to log.level.
const EnvPrefix = "BODYLOG_"

// Defaults match the original deployment of the measurement database.
const (
	DefaultDriver   = storage.DriverMySQL
	DefaultHost     = "localhost"
	DefaultName     = "progress_body_db"
	DefaultUser     = "root"
	DefaultTimeout  = 5 * time.Second
	DefaultFileName = "bodylog.db"
)

// Config stores bodylog configuration.
type Config struct {
	Database DatabaseConfig `json:"database,omitempty" koanf:"database"`
	Log      LogConfig      `json:"log,omitempty" koanf:"log"`

	// DataDir is where the sqlite driver keeps bodylog.db when no explicit
	// path is set. Supports ~ expansion. Defaults to ~/.local/share/bodylog.
	DataDir string `json:"data_dir,omitempty" koanf:"data_dir"`
}

// DatabaseConfig selects and addresses the backing database. Empty fields
// fall back to the defaults above.
type DatabaseConfig struct {
	Driver         string `json:"driver,omitempty" koanf:"driver" validate:"omitempty,oneof=mysql postgres sqlite"`
	Host           string `json:"host,omitempty" koanf:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port           int    `json:"port,omitempty" koanf:"port" validate:"gte=0,lte=65535"`
	Name           string `json:"name,omitempty" koanf:"name"`
	User           string `json:"user,omitempty" koanf:"user"`
	Password       string `json:"password,omitempty" koanf:"password"`
	SSLMode        string `json:"ssl_mode,omitempty" koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Path           string `json:"path,omitempty" koanf:"path"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" koanf:"timeout_seconds" validate:"gte=0"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `json:"level,omitempty" koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// GetDriver returns the configured driver, defaulting to mysql.
func (c *Config) GetDriver() string {
	if c.Database.Driver == "" {
		return DefaultDriver
	}
	return strings.ToLower(c.Database.Driver)
}

// GetHost returns the database host, defaulting to localhost.
func (c *Config) GetHost() string {
	if c.Database.Host == "" {
		return DefaultHost
	}
	return c.Database.Host
}

// GetPort returns the database port, defaulting to the driver's standard port.
func (c *Config) GetPort() int {
	if c.Database.Port != 0 {
		return c.Database.Port
	}
	if c.GetDriver() == storage.DriverPostgres {
		return 5432
	}
	return 3306
}

// GetName returns the database name.
func (c *Config) GetName() string {
	if c.Database.Name == "" {
		return DefaultName
	}
	return c.Database.Name
}

// GetUser returns the database user.
func (c *Config) GetUser() string {
	if c.Database.User == "" {
		return DefaultUser
	}
	return c.Database.User
}

// GetTimeout returns the connect timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Database.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Database.TimeoutSeconds) * time.Second
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the sqlite database path.
func (c *Config) GetDBPath() string {
	if c.Database.Path != "" {
		return ExpandPath(c.Database.Path)
	}
	return filepath.Join(c.GetDataDir(), DefaultFileName)
}

// GetLogLevel returns the log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// Validate checks field values against their allowed ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConnConfig converts the database section into provider settings.
func (c *Config) ConnConfig() storage.ConnConfig {
	cc := storage.ConnConfig{
		Driver:  c.GetDriver(),
		Timeout: c.GetTimeout(),
	}
	if cc.Driver == storage.DriverSQLite {
		cc.Path = c.GetDBPath()
		return cc
	}
	cc.Host = c.GetHost()
	cc.Port = c.GetPort()
	cc.Name = c.GetName()
	cc.User = c.GetUser()
	cc.Password = c.Database.Password
	cc.SSLMode = c.Database.SSLMode
	return cc
}

// OpenProvider creates the connection provider for the configured database.
func (c *Config) OpenProvider(logger zerolog.Logger) (*storage.Provider, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return storage.NewProvider(c.ConnConfig(), logger)
}

// OpenStore creates a record store for the configured database.
func (c *Config) OpenStore(logger zerolog.Logger) (*storage.Store, error) {
	p, err := c.OpenProvider(logger)
	if err != nil {
		return nil, err
	}
	return storage.NewStore(p, logger), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DataDir returns the default data directory under $XDG_DATA_HOME.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "bodylog")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "bodylog", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path, then applies .env and BODYLOG_
// environment overrides. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	return nil
}

// envKey maps BODYLOG_DATABASE_SSL_MODE to database.ssl_mode: the first
// underscore after the prefix separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "data_dir" {
		return key
	}
	return strings.Replace(key, "_", ".", 1)
}
