package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the server and the migrate command read from the environment.
type Config struct {
	Port int `env:"PORT" env-default:"8080" env-description:"HTTP listen port"`

	DBDriver   string `env:"DB_DRIVER" env-default:"postgres" env-description:"postgres or sqlite"`
	DBHost     string `env:"BLUEPRINT_DB_HOST"`
	DBPort     string `env:"BLUEPRINT_DB_PORT"`
	DBName     string `env:"BLUEPRINT_DB_DATABASE"`
	DBUser     string `env:"BLUEPRINT_DB_USERNAME"`
	DBPassword string `env:"BLUEPRINT_DB_PASSWORD"`
	DBSchema   string `env:"BLUEPRINT_DB_SCHEMA"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"todos.db"`

	JWTSecret    string        `env:"JWT_SECRET" env-description:"HS256 signing key, required by the server"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"20m"`
	CookieSecure bool          `env:"COOKIE_SECURE" env-default:"false"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogJSON  bool   `env:"LOG_JSON" env-default:"false"`

	// Empty means same-origin only: no CORS headers are sent.
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	AutoMigrate    bool     `env:"AUTO_MIGRATE" env-default:"true"`
}

// Load reads the configuration for the API server, which additionally
// needs a token signing secret.
func Load() (*Config, error) {
	cfg, err := LoadDB()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

// LoadDB reads an optional .env file and then the process environment.
// Malformed values are an error.
func LoadDB() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("PORT must be positive, got %d", cfg.Port)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	return &cfg, nil
}

// Usage describes every recognised variable.
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return desc
}

// PostgresDSN builds the key/value DSN understood by the pgx driver.
func (c *Config) PostgresDSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	if c.DBSchema != "" {
		dsn += " search_path=" + c.DBSchema
	}
	return dsn
}
