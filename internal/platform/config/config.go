// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Logging   LogConfig       `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// HTTPConfig captures HTTP server level configuration.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig describes the SQL Server connection and pool policy.
type DatabaseConfig struct {
	Server          string        `koanf:"server"`
	Instance        string        `koanf:"instance"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Port            int           `koanf:"port"`
	AppName         string        `koanf:"app_name"`
	DialTimeout     time.Duration `koanf:"dial_timeout"`
	QueryTimeout    time.Duration `koanf:"query_timeout"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// SecurityConfig holds the ingress filter settings.
type SecurityConfig struct {
	AllowedIPs        []string `koanf:"allowed_ips"`
	TrustProxyHeaders bool     `koanf:"trust_proxy_headers"`
}

// RateLimitConfig bounds report requests per client IP. Requests == 0 disables it.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type BreakerConfig struct {
	FailureThreshold int           `koanf:"failure_threshold"`
	SuccessThreshold int           `koanf:"success_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig configures trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8000"},
		Database: DatabaseConfig{
			Server:          "localhost",
			Name:            "database",
			User:            "username",
			Password:        "password",
			Port:            1433,
			AppName:         "erp-sessions",
			DialTimeout:     5 * time.Second,
			QueryTimeout:    10 * time.Second,
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Requests: 60,
			Window:   time.Minute,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 1,
			OpenTimeout:      30 * time.Second,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the loaded configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("HTTP_ADDR is required"))
	}
	if strings.TrimSpace(c.Database.Server) == "" {
		errs = append(errs, errors.New("SERVER is required"))
	}
	if strings.TrimSpace(c.Database.Name) == "" {
		errs = append(errs, errors.New("DATABASE is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port))
	}
	if c.Database.DialTimeout <= 0 {
		errs = append(errs, errors.New("DB_DIAL_TIMEOUT must be positive"))
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, errors.New("QUERY_TIMEOUT must be positive"))
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS and DB_MAX_IDLE_CONNS must not be negative"))
	}
	for _, entry := range c.Security.AllowedIPs {
		if !validAllowlistEntry(entry) {
			errs = append(errs, fmt.Errorf("ALLOWED_IPS entry %q is not an IP address or CIDR prefix", entry))
		}
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must not be negative"))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled"))
	}
	if c.Breaker.FailureThreshold <= 0 || c.Breaker.SuccessThreshold <= 0 {
		errs = append(errs, errors.New("breaker thresholds must be positive"))
	}
	if c.Breaker.OpenTimeout <= 0 {
		errs = append(errs, errors.New("BREAKER_OPEN_TIMEOUT must be positive"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func validAllowlistEntry(entry string) bool {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		_, err := netip.ParsePrefix(entry)
		return err == nil
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}
