package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	maximumConfiguredSessions = 1024
	maximumRatePerMinute      = 10000
	minimumBootCadence        = 10 * time.Millisecond
	maximumBootCadence        = 10 * time.Second
)

// Config captures startup settings for every entrypoint.
type Config struct {
	Host               string        `env:"PORTFOLIO_SSH_HOST" envDefault:"0.0.0.0"`
	Port               int           `env:"PORTFOLIO_SSH_PORT" envDefault:"2222"`
	HostKeyPath        string        `env:"PORTFOLIO_SSH_HOST_KEY_PATH" envDefault:".data/host_ed25519"`
	IdleTimeout        time.Duration `env:"PORTFOLIO_SSH_IDLE_TIMEOUT" envDefault:"10m"`
	MaxSessions        int           `env:"PORTFOLIO_SSH_MAX_SESSIONS" envDefault:"32"`
	RateLimitPerMinute int           `env:"PORTFOLIO_SSH_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int           `env:"PORTFOLIO_SSH_RATE_LIMIT_BURST" envDefault:"10"`

	HTTPEnabled bool   `env:"PORTFOLIO_HTTP_ENABLED" envDefault:"true"`
	HTTPAddr    string `env:"PORTFOLIO_HTTP_ADDR" envDefault:":8080"`

	ContentPath string        `env:"PORTFOLIO_CONTENT_PATH"`
	BootCadence time.Duration `env:"PORTFOLIO_BOOT_CADENCE" envDefault:"500ms"`

	ThemeVariant    string `env:"PORTFOLIO_THEME" envDefault:"midnight"`
	ThemeForceColor bool   `env:"PORTFOLIO_THEME_FORCE_COLOR"`
	ThemeForceMono  bool   `env:"PORTFOLIO_THEME_FORCE_MONO"`
	ThemeDebug      bool   `env:"PORTFOLIO_THEME_DEBUG"`

	ContactRelayURL      string        `env:"PORTFOLIO_CONTACT_RELAY_URL"`
	ContactRelayTimeout  time.Duration `env:"PORTFOLIO_CONTACT_RELAY_TIMEOUT" envDefault:"10s"`
	ContactStore         string        `env:"PORTFOLIO_CONTACT_STORE" envDefault:"sqlite"`
	ContactStorePath     string        `env:"PORTFOLIO_CONTACT_STORE_PATH" envDefault:".data/contact.db"`
	ContactRetention     time.Duration `env:"PORTFOLIO_CONTACT_RETENTION" envDefault:"8760h"`
	ContactPruneSchedule string        `env:"PORTFOLIO_CONTACT_PRUNE_SCHEDULE" envDefault:"@daily"`

	LogLevel string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"info"`
}

// LoadFromEnv loads runtime configuration from environment variables and
// validates ranges. Every problem is reported, not just the first.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Address returns the SSH listen address.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) normalize() error {
	var errs []error

	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		errs = append(errs, errors.New("PORTFOLIO_SSH_HOST must not be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORTFOLIO_SSH_PORT must be between %d and %d", 1, 65535))
	}

	cleanHostKeyPath := filepath.Clean(strings.TrimSpace(c.HostKeyPath))
	if cleanHostKeyPath == "." {
		errs = append(errs, errors.New("PORTFOLIO_SSH_HOST_KEY_PATH must not resolve to current directory"))
	}
	c.HostKeyPath = cleanHostKeyPath

	if c.IdleTimeout <= 0 {
		errs = append(errs, errors.New("PORTFOLIO_SSH_IDLE_TIMEOUT must be greater than 0"))
	}
	if c.MaxSessions < 1 || c.MaxSessions > maximumConfiguredSessions {
		errs = append(errs, fmt.Errorf("PORTFOLIO_SSH_MAX_SESSIONS must be between %d and %d", 1, maximumConfiguredSessions))
	}
	if c.RateLimitPerMinute < 1 || c.RateLimitPerMinute > maximumRatePerMinute {
		errs = append(errs, fmt.Errorf("PORTFOLIO_SSH_RATE_LIMIT_PER_MINUTE must be between %d and %d", 1, maximumRatePerMinute))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("PORTFOLIO_SSH_RATE_LIMIT_BURST must be at least 1"))
	}

	if c.HTTPEnabled && strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("PORTFOLIO_HTTP_ADDR must not be empty when HTTP is enabled"))
	}

	if c.BootCadence < minimumBootCadence || c.BootCadence > maximumBootCadence {
		errs = append(errs, fmt.Errorf("PORTFOLIO_BOOT_CADENCE must be between %s and %s", minimumBootCadence, maximumBootCadence))
	}

	c.ThemeVariant = strings.ToLower(strings.TrimSpace(c.ThemeVariant))
	if c.ThemeForceColor && c.ThemeForceMono {
		errs = append(errs, errors.New("PORTFOLIO_THEME_FORCE_COLOR and PORTFOLIO_THEME_FORCE_MONO are mutually exclusive"))
	}

	c.ContactRelayURL = strings.TrimSpace(c.ContactRelayURL)
	if c.ContactRelayURL != "" && !strings.HasPrefix(c.ContactRelayURL, "https://") && !strings.HasPrefix(c.ContactRelayURL, "http://") {
		errs = append(errs, errors.New("PORTFOLIO_CONTACT_RELAY_URL must be an http(s) URL"))
	}
	if c.ContactRelayTimeout <= 0 {
		errs = append(errs, errors.New("PORTFOLIO_CONTACT_RELAY_TIMEOUT must be greater than 0"))
	}
	c.ContactStore = strings.ToLower(strings.TrimSpace(c.ContactStore))
	switch c.ContactStore {
	case "sqlite", "file", "none":
	default:
		errs = append(errs, fmt.Errorf("PORTFOLIO_CONTACT_STORE must be one of sqlite, file, none"))
	}
	if c.ContactStore != "none" && strings.TrimSpace(c.ContactStorePath) == "" {
		errs = append(errs, errors.New("PORTFOLIO_CONTACT_STORE_PATH must not be empty"))
	}
	if c.ContactRetention <= 0 {
		errs = append(errs, errors.New("PORTFOLIO_CONTACT_RETENTION must be greater than 0"))
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, errors.New("PORTFOLIO_LOG_LEVEL must be one of debug, info, warn, error"))
	}

	return errors.Join(errs...)
}
