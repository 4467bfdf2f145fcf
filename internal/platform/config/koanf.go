package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	platformstrings "erpsessions/pkg/platform/strings"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration: struct defaults, then the config file if one
// exists, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.allowed_ips",
}

// processSliceFields splits comma-separated env values for slice fields.
// YAML lists are deduplicated and trimmed the same way.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		var values []string
		switch val := k.Get(path).(type) {
		case string:
			values = platformstrings.SplitList(val, ",")
		case []any:
			for _, v := range val {
				values = append(values, fmt.Sprint(v))
			}
			values = platformstrings.DedupeAndTrim(values)
		default:
			continue
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_addr": "http.addr",

	// Connection keys keep the names the deployment already uses.
	"server":               "database.server",
	"instance":             "database.instance",
	"database":             "database.name",
	"uid":                  "database.user",
	"password":             "database.password",
	"db_port":              "database.port",
	"app_name":             "database.app_name",
	"db_dial_timeout":      "database.dial_timeout",
	"query_timeout":        "database.query_timeout",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",

	"allowed_ips":         "security.allowed_ips",
	"trust_proxy_headers": "security.trust_proxy_headers",

	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",

	"breaker_failure_threshold": "breaker.failure_threshold",
	"breaker_success_threshold": "breaker.success_threshold",
	"breaker_open_timeout":      "breaker.open_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"otel_exporter_otlp_endpoint": "telemetry.otlp_endpoint",
	"otel_exporter_otlp_insecure": "telemetry.otlp_insecure",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unknown variables return "" and are skipped.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
