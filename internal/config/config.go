package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"SERVER_ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER"`
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `mapstructure:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"REDIS_ENABLED"`
	Addr       string        `mapstructure:"REDIS_ADDR"`
	Password   string        `mapstructure:"REDIS_PASSWORD"`
	DB         int           `mapstructure:"REDIS_DB"`
	SummaryTTL time.Duration `mapstructure:"REDIS_SUMMARY_TTL"`
}

type SchedulerConfig struct {
	ReportCron string `mapstructure:"SCHEDULER_REPORT_CRON"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	MaxPrincipalAmount string `mapstructure:"MAX_PRINCIPAL_AMOUNT"`
	Timezone           string `mapstructure:"BUSINESS_TIMEZONE"`
}

type AuthConfig struct {
	SecretKey   string        `mapstructure:"AUTH_SECRET_KEY"`
	TokenExpiry time.Duration `mapstructure:"AUTH_TOKEN_EXPIRY"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

const minSecretKeyLength = 32

// cronParser accepts the six-field, seconds-first expressions the scheduler runs.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var defaults = map[string]interface{}{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"SERVER_ENV":                 "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "15s",
	"DATABASE_DRIVER":            "postgres",
	"DATABASE_URL":               "",
	"DATABASE_MAX_OPEN_CONNS":    25,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "5m",
	"DATABASE_AUTO_MIGRATE":      true,
	"REDIS_ENABLED":              false,
	"REDIS_ADDR":                 "localhost:6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"REDIS_SUMMARY_TTL":          "24h",
	"SCHEDULER_REPORT_CRON":      "0 0 6 * * *",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"MAX_PRINCIPAL_AMOUNT":       "500000",
	"BUSINESS_TIMEZONE":          "Asia/Kolkata",
	"AUTH_SECRET_KEY":            "",
	"AUTH_TOKEN_EXPIRY":          "24h",
	"HEALTH_CHECK_TIMEOUT":       "5s",
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite3, got %q", c.Database.Driver)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ceiling, err := decimal.NewFromString(c.Business.MaxPrincipalAmount)
	if err != nil {
		return fmt.Errorf("MAX_PRINCIPAL_AMOUNT must be a valid decimal: %w", err)
	}
	if !ceiling.IsPositive() {
		return fmt.Errorf("MAX_PRINCIPAL_AMOUNT must be greater than 0")
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("BUSINESS_TIMEZONE must be an IANA zone name: %w", err)
	}

	if len(c.Auth.SecretKey) < minSecretKeyLength {
		return fmt.Errorf("AUTH_SECRET_KEY must be at least %d bytes", minSecretKeyLength)
	}

	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("AUTH_TOKEN_EXPIRY must be a positive duration")
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a positive duration")
	}

	if _, err := cronParser.Parse(c.Scheduler.ReportCron); err != nil {
		return fmt.Errorf("SCHEDULER_REPORT_CRON is not a valid cron expression: %w", err)
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetMaxPrincipalAmount returns the principal ceiling as decimal
func (c *Config) GetMaxPrincipalAmount() decimal.Decimal {
	ceiling, _ := decimal.NewFromString(c.Business.MaxPrincipalAmount)
	return ceiling
}

// GetLocation returns the zone in which "today" is decided
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
