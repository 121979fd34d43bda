package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreDriverJournal = "journal"
	StoreDriverSQLite  = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Persistence configuration
	StoreDriver  string `yaml:"store_driver"` // "journal" or "sqlite"
	DataDir      string `yaml:"data_dir"`
	JournalFile  string `yaml:"journal_file"`
	SQLiteFile   string `yaml:"sqlite_file"`
	ActorsFile   string `yaml:"actors_file"`
	WatchJournal bool   `yaml:"watch_journal"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Feature flags
	EnableCORS bool `yaml:"enable_cors"`
}

// LoadConfig loads configuration: defaults, then the optional YAML file named
// by CONFIG_FILE (or ./relatree.yaml if present), then environment variables.
// Later layers win.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := configFilePath(); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		StoreDriver:   StoreDriverJournal,
		DataDir:       "./data",
		JournalFile:   "relational-trees.json",
		SQLiteFile:    "relatree.db",
		ActorsFile:    "actors.json",
		WatchJournal:  true,
		LogLevel:      "info",
		JWTIssuer:     "relatree",
		EnableCORS:    true,
	}
}

func configFilePath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat("relatree.yaml"); err == nil {
		return "relatree.yaml"
	}
	return ""
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.JournalFile = getEnv("JOURNAL_FILE", c.JournalFile)
	c.SQLiteFile = getEnv("SQLITE_FILE", c.SQLiteFile)
	c.ActorsFile = getEnv("ACTORS_FILE", c.ActorsFile)
	c.WatchJournal = getEnvBool("WATCH_JOURNAL", c.WatchJournal)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.StoreDriver != StoreDriverJournal && c.StoreDriver != StoreDriverSQLite {
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// JournalPath is the resolved path of the journal document file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataDir, c.JournalFile)
}

// SQLitePath is the resolved path of the SQLite database file.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, c.SQLiteFile)
}

// ActorsPath is the resolved path of the actor directory file.
func (c *Config) ActorsPath() string {
	return filepath.Join(c.DataDir, c.ActorsFile)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
