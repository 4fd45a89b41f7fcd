package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvironmentDevelopment enables detailed error bodies and strict same-site cookies.
	EnvironmentDevelopment = "development"
	// EnvironmentProduction hides internal error details and marks cookies secure.
	EnvironmentProduction = "production"

	// DriverPostgres selects the pgx-backed repositories.
	DriverPostgres = "postgres"
	// DriverMongo selects the MongoDB-backed repositories.
	DriverMongo = "mongodb"
)

// Config holds all application configuration.
type Config struct {
	Environment string         `koanf:"environment"`
	Server      ServerConfig   `koanf:"server"`
	Database    DatabaseConfig `koanf:"database"`
	Logger      LoggerConfig   `koanf:"logger"`
	Auth        AuthConfig     `koanf:"auth"`
	CORS        CORSConfig     `koanf:"cors"`
	Orders      OrdersConfig   `koanf:"orders"`
	Seed        SeedConfig     `koanf:"seed"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"name"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MongoURI        string        `koanf:"mongo_uri"`
	MongoDatabase   string        `koanf:"mongo_database"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}

// AuthConfig holds session token and cookie configuration.
type AuthConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	CookieName     string        `koanf:"cookie_name"`
	CookieSameSite string        `koanf:"cookie_same_site"` // empty picks a default per environment
	LoginRateLimit int           `koanf:"login_rate_limit"` // requests per minute per IP, 0 disables
}

// CORSConfig holds the origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// OrdersConfig holds order checkout behaviour.
type OrdersConfig struct {
	RepriceFromCatalog bool `koanf:"reprice_from_catalog"`
}

// SeedConfig holds the credentials used by the admin seed command.
type SeedConfig struct {
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Environment != EnvironmentDevelopment && c.Environment != EnvironmentProduction {
		return fmt.Errorf("invalid environment: %s (must be development or production)", c.Environment)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required in production")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}

	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth cookie name is required")
	}

	switch strings.ToLower(c.Auth.CookieSameSite) {
	case "", "strict", "lax", "none":
	default:
		return fmt.Errorf("invalid cookie same-site mode: %s (must be strict, lax, or none)", c.Auth.CookieSameSite)
	}

	if c.Auth.LoginRateLimit < 0 {
		return fmt.Errorf("login rate limit cannot be negative")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.URL != "" {
			if _, err := url.Parse(c.URL); err != nil {
				return fmt.Errorf("invalid database url: %w", err)
			}
		} else {
			if c.Host == "" {
				return fmt.Errorf("database host is required")
			}

			if c.Port < 1 || c.Port > 65535 {
				return fmt.Errorf("invalid database port: %d", c.Port)
			}

			if c.User == "" {
				return fmt.Errorf("database user is required")
			}

			if c.Database == "" {
				return fmt.Errorf("database name is required")
			}
		}

		if c.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}

		if c.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}

		if c.MinConnections > c.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongodb uri is required")
		}

		if c.MongoDatabase == "" {
			return fmt.Errorf("mongodb database name is required")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres or mongodb)", c.Driver)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("database connect timeout must be positive")
	}

	return nil
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
