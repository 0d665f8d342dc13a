package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // tasks.timezone must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/tareas/internal/database"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Tasks    TasksConfig    `yaml:"tasks"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the store. Path is used by sqlite; postgres uses DSN,
// or a postgres:// URL assembled from the host parts when DSN is empty.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// LogConfig controls slog output. An empty File means stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// TasksConfig holds task business rules
type TasksConfig struct {
	DefaultDueDays int    `yaml:"default_due_days"`
	Timezone       string `yaml:"timezone"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"http://localhost:4200"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  string(database.DialectSQLite),
			Path:    defaultDBPath(),
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "tareas",
			SSLMode: "disable",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tasks: TasksConfig{
			DefaultDueDays: 7,
			Timezone:       "UTC",
		},
	}
}

// Load loads config from the user's config directory, then applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		cfg := Default()
		cfg.applyEnv(os.Getenv)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile is Load with an explicit file path. A missing file is not an error.
func LoadFile(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	default:
		// Keys missing from the file keep their defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	if p := os.Getenv("TAREAS_CONFIG"); p != "" {
		return p, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tareas", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tareas", "config.yaml"), nil
}

// Validate reports configuration that cannot be used to start the app
func (c *Config) Validate() error {
	if _, err := database.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("invalid database.driver: %w", err)
	}
	if c.Tasks.DefaultDueDays < 0 {
		return fmt.Errorf("invalid tasks.default_due_days %d: must not be negative", c.Tasks.DefaultDueDays)
	}
	if _, err := time.LoadLocation(c.Tasks.Timezone); err != nil {
		return fmt.Errorf("invalid tasks.timezone %q: %w", c.Tasks.Timezone, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: expected text or json", c.Log.Format)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid server.shutdown_timeout %s: must be positive", c.Server.ShutdownTimeout)
	}
	return nil
}

// Dialect returns the parsed database driver
func (c *Config) Dialect() database.Dialect {
	d, err := database.ParseDialect(c.Database.Driver)
	if err != nil {
		return database.DialectSQLite
	}
	return d
}

// DSN returns the data source name handed to database.Open
func (c *Config) DSN() string {
	db := c.Database
	if c.Dialect() == database.DialectSQLite {
		return db.Path
	}
	if db.DSN != "" {
		return db.DSN
	}

	// A URL keeps spaces, quotes and backslashes in credentials intact
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else if db.User != "" {
		u.User = url.User(db.User)
	}
	if db.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	return u.String()
}

// Location returns the zone that decides which calendar day is "today"
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Tasks.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// applyEnv overlays environment variables onto the config
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Addr, "TAREAS_ADDR")
	set(&c.Database.Driver, "TAREAS_DB_DRIVER")
	set(&c.Database.Path, "TAREAS_DB_PATH")
	set(&c.Database.DSN, "TAREAS_DB_DSN")
	set(&c.Database.Host, "DB_HOST")
	set(&c.Database.User, "DB_USER")
	set(&c.Database.Password, "DB_PASSWORD")
	set(&c.Database.Name, "DB_NAME")
	set(&c.Log.Level, "TAREAS_LOG_LEVEL")

	if v := getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
}

// applyDefaults fills in values a config file blanked out
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Tasks.Timezone == "" {
		c.Tasks.Timezone = def.Tasks.Timezone
	}
}

// defaultDBPath is ~/.tareas/tareas.db, or a relative file when home is unknown
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tareas.db"
	}
	return filepath.Join(home, ".tareas", "tareas.db")
}
