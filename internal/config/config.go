package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string   `yaml:"port"           envconfig:"PORT"`
	AllowedOrigins []string `yaml:"allowedOrigins" envconfig:"ALLOWED_ORIGINS"`
	LogLevel       string   `yaml:"logLevel"       envconfig:"LOG_LEVEL"`
	Environment    string   `yaml:"environment"    envconfig:"ENVIRONMENT"`

	// DatabaseDriver is postgres or sqlite. Empty picks postgres when a
	// DatabaseURL is set.
	DatabaseDriver string `yaml:"databaseDriver" envconfig:"DATABASE_DRIVER"`
	DatabaseURL    string `yaml:"databaseUrl"    envconfig:"DATABASE_URL"`
	SQLitePath     string `yaml:"sqlitePath"     envconfig:"SQLITE_PATH"`

	RedisURL        string        `yaml:"redisUrl"        envconfig:"REDIS_URL"`
	SummaryCacheTTL time.Duration `yaml:"summaryCacheTtl" envconfig:"SUMMARY_CACHE_TTL"`

	JWTSecret string `yaml:"jwtSecret" envconfig:"JWT_SECRET"`
	RateLimit string `yaml:"rateLimit" envconfig:"RATE_LIMIT"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:5174"},
		LogLevel:        "info",
		Environment:     "production",
		SQLitePath:      "data/canvass.sqlite",
		SummaryCacheTTL: 30 * time.Second,
		RateLimit:       "300-M",
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE, then the
// environment. Later sources win.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load without the .env step. An empty path skips the YAML file.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverSQLite
		if cfg.DatabaseURL != "" {
			cfg.DatabaseDriver = DriverPostgres
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// parseOrigins trims the origins and drops empty entries
func parseOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, part := range origins {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
