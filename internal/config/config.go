package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Scheduling carries the injected constants the session and resource
	// date derivations depend on. None of these are hard-coded in the engine.
	Scheduling struct {
		// MinSessionWeeks is the threshold below which a session counts as a
		// short "filler" block: skipped when chaining forward and given the
		// short expire offset.
		MinSessionWeeks int `yaml:"min_session_weeks" env:"SCHED_MIN_SESSION_WEEKS"`
		// MaxSessionWeeks bounds the week index a resource can publish on.
		MaxSessionWeeks     int `yaml:"max_session_weeks" env:"SCHED_MAX_SESSION_WEEKS"`
		DefaultSessionWeeks int `yaml:"default_session_weeks" env:"SCHED_DEFAULT_SESSION_WEEKS"`
		DefaultMaxDayShift  int `yaml:"default_max_day_shift" env:"SCHED_DEFAULT_MAX_DAY_SHIFT"`
		// LongExpireOffset/ShortExpireOffset are the days past the final key
		// day before a normal/filler session expires.
		LongExpireOffset  int `yaml:"long_expire_offset" env:"SCHED_LONG_EXPIRE_OFFSET"`
		ShortExpireOffset int `yaml:"short_expire_offset" env:"SCHED_SHORT_EXPIRE_OFFSET"`
		// ResolveMaxIterations caps the overlap-resolution loop.
		ResolveMaxIterations int `yaml:"resolve_max_iterations" env:"SCHED_RESOLVE_MAX_ITERATIONS"`
	} `yaml:"scheduling"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	err := loadFromEnv(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hepcat"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Scheduling defaults
	config.Scheduling.MinSessionWeeks = 3
	config.Scheduling.MaxSessionWeeks = 5
	config.Scheduling.DefaultSessionWeeks = 5
	config.Scheduling.DefaultMaxDayShift = 6
	config.Scheduling.LongExpireOffset = 7
	config.Scheduling.ShortExpireOffset = 1
	config.Scheduling.ResolveMaxIterations = 1000

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	// Recursively process the config structure and look for env tags
	err := processStructFields(config)
	if err != nil {
		return err
	}

	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	sched := config.Scheduling
	if sched.MinSessionWeeks < 1 {
		return fmt.Errorf("min_session_weeks must be at least 1")
	}
	if sched.MaxSessionWeeks <= sched.MinSessionWeeks {
		return fmt.Errorf("max_session_weeks must exceed min_session_weeks")
	}
	if sched.DefaultSessionWeeks < 1 {
		return fmt.Errorf("default_session_weeks must be at least 1")
	}
	if sched.LongExpireOffset < 0 || sched.ShortExpireOffset < 0 {
		return fmt.Errorf("expire offsets cannot be negative")
	}
	if sched.ResolveMaxIterations < 1 {
		return fmt.Errorf("resolve_max_iterations must be at least 1")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool gets an environment variable as a boolean or returns a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	valueLower := strings.ToLower(valueStr)
	if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
		return true
	}
	if valueLower == "false" || valueLower == "0" || valueLower == "no" {
		return false
	}

	return defaultValue
}
