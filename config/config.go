package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration. It is loaded once in main and passed
// to whatever needs it.
type Config struct {
	Port        int    `envconfig:"PORT" default:"4000"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	AdminEmail          string `envconfig:"ADMIN_EMAIL"`
	AdminPasswordHash   string `envconfig:"ADMIN_PASSWORD_HASH"`
	AnalystEmail        string `envconfig:"ANALYST_EMAIL"`
	AnalystPasswordHash string `envconfig:"ANALYST_PASSWORD_HASH"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash-lite"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	MaxUploadMB int `envconfig:"MAX_UPLOAD_MB" default:"20"`

	DefaultDateColumn  string `envconfig:"DEFAULT_DATE_COLUMN" default:"date"`
	DefaultSalesColumn string `envconfig:"DEFAULT_SALES_COLUMN" default:"sales"`
	DefaultTimeColumn  string `envconfig:"DEFAULT_TIME_COLUMN" default:"time"`
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file loaded, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}
	if (c.AnalystEmail == "") != (c.AnalystPasswordHash == "") {
		return fmt.Errorf("ANALYST_EMAIL and ANALYST_PASSWORD_HASH must be set together")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// GeminiEnabled reports whether forecast insights can be generated.
func (c *Config) GeminiEnabled() bool { return c.GeminiAPIKey != "" }
