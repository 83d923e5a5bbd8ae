package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	LogLevel             string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS         float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int      `mapstructure:"RATE_LIMIT_BURST"`
	IDStrategy           string   `mapstructure:"ID_STRATEGY"`
	StrictReferences     bool     `mapstructure:"STRICT_REFERENCES"`
	SeedFile             string   `mapstructure:"SEED_FILE"`
	Timezone             string   `mapstructure:"TIMEZONE"`
	OverdueSweepSchedule string   `mapstructure:"OVERDUE_SWEEP_SCHEDULE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("ID_STRATEGY", "sequence")
	v.SetDefault("STRICT_REFERENCES", false)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("OVERDUE_SWEEP_SCHEDULE", "")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("ID_STRATEGY")
	v.BindEnv("STRICT_REFERENCES")
	v.BindEnv("SEED_FILE")
	v.BindEnv("TIMEZONE")
	v.BindEnv("OVERDUE_SWEEP_SCHEDULE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}
	if strings.EqualFold(cfg.OverdueSweepSchedule, "off") {
		cfg.OverdueSweepSchedule = ""
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves TIMEZONE. "Local" and "" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IDGenerator maps ID_STRATEGY to the collections' id generator.
func (c *Config) IDGenerator() (func() memstore.IDGenerator, error) {
	gen, ok := memstore.Strategy(c.IDStrategy)
	if !ok {
		return nil, fmt.Errorf("ID_STRATEGY must be \"sequence\" or \"uuid\", got %q", c.IDStrategy)
	}
	return gen, nil
}

// Level parses LOG_LEVEL; empty means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Validate checks every value that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.IDGenerator(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must not be negative, got %d", c.RateLimitBurst)
	}
	if c.OverdueSweepSchedule != "" {
		if _, err := cron.ParseStandard(c.OverdueSweepSchedule); err != nil {
			return fmt.Errorf("OVERDUE_SWEEP_SCHEDULE %q: %w", c.OverdueSweepSchedule, err)
		}
	}
	return nil
}
