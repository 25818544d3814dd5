package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ConfigFile = "userdb.toml"
	EnvFile    = ".env"

	DefaultDBPath   = "userdb.db"
	DefaultLogLevel = "warn"
)

// Environment overrides, applied after the config file.
const (
	EnvDBPath    = "USERDB_DB"
	EnvLogLevel  = "USERDB_LOG_LEVEL"
	EnvKeepGoing = "USERDB_KEEP_GOING"
	EnvTelemetry = "USERDB_TELEMETRY"
)

var ErrConfigNotFound = errors.New("config file not found")

// Config represents the userdb.toml configuration file.
type Config struct {
	Database  Database  `toml:"database"`
	Log       Log       `toml:"log"`
	Menu      Menu      `toml:"menu"`
	Telemetry Telemetry `toml:"telemetry"`
}

// Database selects the SQLite file.
type Database struct {
	Path string `toml:"path"`
}

// Log controls the diagnostic logger on stderr.
type Log struct {
	Level string `toml:"level"`
}

// Menu controls the interactive loop.
type Menu struct {
	// KeepGoing reports errors and shows the menu again instead of exiting.
	KeepGoing bool `toml:"keep-going"`
	// Plain forces line-based prompts even on a terminal.
	Plain bool `toml:"plain"`
}

// Telemetry controls OpenTelemetry export of store spans and metrics.
type Telemetry struct {
	// Stdout writes spans and metrics to stderr when the command ends.
	Stdout bool `toml:"stdout"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Database: Database{Path: DefaultDBPath},
		Log:      Log{Level: DefaultLogLevel},
	}
}

// LoadConfig loads configuration from path, or searches upward from cwd.
// Keys missing from the file keep their Default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		if path = findConfig(); path == "" {
			return nil, ErrConfigNotFound
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func findConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; ; {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnv returns a lookup that consults the process environment first and
// then the dotenv file at path. A missing file is not an error.
func LoadEnv(path string) (LookupFunc, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		vars = map[string]string{}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from USERDB_* variables. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvKeepGoing); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKeepGoing, err)
		}
		c.Menu.KeepGoing = b
	}
	if v, ok := lookup(EnvTelemetry); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTelemetry, err)
		}
		c.Telemetry.Stdout = b
	}
	return nil
}

// Validate checks fields that have no usable zero value.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is empty")
	}
	return nil
}
