package parallelme

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML file at path (a missing file is not an error),
// applies PARALLELME_* environment overrides and fills defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err = toml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Config file not found, using defaults and environment", slog.String("path", path))
	default:
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err = env.ParseWithOptions(cfg, env.Options{Prefix: "PARALLELME_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Web     WebConfig     `toml:"web" envPrefix:"WEB_"`
	Mongo   MongoConfig   `toml:"mongo" envPrefix:"MONGO_"`
	Auth    AuthConfig    `toml:"auth" envPrefix:"AUTH_"`
	Gateway GatewayConfig `toml:"gateway" envPrefix:"GATEWAY_"`
	Archive ArchiveConfig `toml:"archive" envPrefix:"ARCHIVE_"`
	App     AppConfig     `toml:"app" envPrefix:"APP_"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LEVEL"`
	Format    string     `toml:"format" env:"FORMAT"` // "text" or "json"
	AddSource bool       `toml:"add_source" env:"ADD_SOURCE"`
}

type WebConfig struct {
	Host           string   `toml:"host" env:"HOST"`
	Port           int      `toml:"port" env:"PORT"`
	Environment    string   `toml:"environment" env:"ENVIRONMENT"`
	AllowedOrigins []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	AuthRateLimit  int      `toml:"auth_rate_limit" env:"AUTH_RATE_LIMIT"` // requests per minute per IP
}

type MongoConfig struct {
	URI            string   `toml:"uri" env:"URI"`
	Database       string   `toml:"database" env:"DATABASE"`
	ConnectTimeout Duration `toml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	MaxPoolSize    uint64   `toml:"max_pool_size" env:"MAX_POOL_SIZE"`
}

type AuthConfig struct {
	JWTSecret  string   `toml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL   Duration `toml:"token_ttl" env:"TOKEN_TTL"`
	BcryptCost int      `toml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type GatewayConfig struct {
	APIKey  string   `toml:"api_key" env:"API_KEY"`
	Model   string   `toml:"model" env:"MODEL"`
	Timeout Duration `toml:"timeout" env:"TIMEOUT"`
	Stub    bool     `toml:"stub" env:"STUB"`
}

// ArchiveConfig points at an S3-compatible bucket for journey exports.
// Export is disabled when Bucket is empty.
type ArchiveConfig struct {
	Endpoint string `toml:"endpoint" env:"ENDPOINT"`
	Region   string `toml:"region" env:"REGION"`
	Bucket   string `toml:"bucket" env:"BUCKET"`
	Key      string `toml:"key" env:"KEY"`
	Secret   string `toml:"secret" env:"SECRET"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

type AppConfig struct {
	Timezone         string `toml:"timezone" env:"TIMEZONE"`
	PersonaCacheSize int    `toml:"persona_cache_size" env:"PERSONA_CACHE_SIZE"`
}

// DefaultConfig returns a development configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           5000,
			Environment:    "development",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			AuthRateLimit:  10,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "parallelme",
			ConnectTimeout: Duration{10 * time.Second},
			MaxPoolSize:    50,
		},
		Auth: AuthConfig{
			TokenTTL:   Duration{7 * 24 * time.Hour},
			BcryptCost: 10,
		},
		Gateway: GatewayConfig{
			Model:   "gemini-2.5-flash",
			Timeout: Duration{60 * time.Second},
		},
		App: AppConfig{
			Timezone:         "Local",
			PersonaCacheSize: 1024,
		},
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Web.Port == 0 {
		c.Web.Port = def.Web.Port
	}
	if c.Web.Environment == "" {
		c.Web.Environment = def.Web.Environment
	}
	if c.Web.AuthRateLimit <= 0 {
		c.Web.AuthRateLimit = def.Web.AuthRateLimit
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = def.Mongo.Database
	}
	if c.Mongo.ConnectTimeout.Duration <= 0 {
		c.Mongo.ConnectTimeout = def.Mongo.ConnectTimeout
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		c.Auth.TokenTTL = def.Auth.TokenTTL
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = def.Auth.BcryptCost
	}
	if c.Gateway.Model == "" {
		c.Gateway.Model = def.Gateway.Model
	}
	if c.Gateway.Timeout.Duration <= 0 {
		c.Gateway.Timeout = def.Gateway.Timeout
	}
	if c.App.Timezone == "" {
		c.App.Timezone = def.App.Timezone
	}
	if c.App.PersonaCacheSize <= 0 {
		c.App.PersonaCacheSize = def.App.PersonaCacheSize
	}
	// Development without a key runs against canned content.
	if c.Gateway.APIKey == "" && !c.IsProduction() {
		c.Gateway.Stub = true
	}
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("auth.jwt_secret is required in production")
		}
		c.Auth.JWTSecret = "dev-secret-change-in-production"
		slog.Warn("Using default JWT secret, set PARALLELME_AUTH_JWT_SECRET before deploying")
	}
	if c.Gateway.APIKey == "" && !c.Gateway.Stub {
		return errors.New("gateway.api_key is required unless gateway.stub is enabled")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}
	return nil
}

// IsProduction reports whether the web environment is production.
func (c *Config) IsProduction() bool {
	return c.Web.Environment == "production"
}

// Location resolves the timezone used for day boundaries in statistics.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// ArchiveEnabled reports whether journey export has a bucket configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}

// Duration decodes Go duration strings such as "10s" from TOML and the environment.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
