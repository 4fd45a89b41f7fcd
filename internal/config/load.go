package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnvVar names an optional YAML file layered between defaults and env vars.
const ConfigFileEnvVar = "CONFIG_FILE"

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"app_env":  "environment",
	"node_env": "environment",

	"server_host": "server.host",
	"server_port": "server.port",

	"db_driver":            "database.driver",
	"database_url":         "database.url",
	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_max_connections":   "database.max_connections",
	"db_min_connections":   "database.min_connections",
	"db_max_conn_lifetime": "database.max_conn_lifetime",
	"db_connect_timeout":   "database.connect_timeout",
	"mongodb_uri":          "database.mongo_uri",
	"mongodb_database":     "database.mongo_database",

	"log_level":  "logger.level",
	"log_format": "logger.format",

	"jwt_secret":            "auth.jwt_secret",
	"auth_token_ttl":        "auth.token_ttl",
	"auth_cookie_name":      "auth.cookie_name",
	"auth_cookie_samesite":  "auth.cookie_same_site",
	"auth_login_rate_limit": "auth.login_rate_limit",

	"client_url":           "cors.allowed_origins",
	"cors_allowed_origins": "cors.allowed_origins",

	"orders_reprice_from_catalog": "orders.reprice_from_catalog",

	"admin_email":    "seed.admin_email",
	"admin_password": "seed.admin_password",
}

// sliceConfigPaths are parsed from comma-separated strings when they come from env vars.
var sliceConfigPaths = []string{
	"cors.allowed_origins",
}

func defaultConfig() *Config {
	return &Config{
		Environment: EnvironmentDevelopment,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Database:        "storefront",
			MaxConnections:  25,
			MinConnections:  5,
			MaxConnLifetime: time.Hour,
			ConnectTimeout:  5 * time.Second,
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "storefront",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			TokenTTL:       7 * 24 * time.Hour,
			CookieName:     "token",
			LoginRateLimit: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Seed: SeedConfig{
			AdminEmail: "admin@store.com",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and environment variables,
// in that order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
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

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}

		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
