// Package config loads the environment-driven settings shared by the API and worker processes.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Environment       string `env:"ENVIRONMENT" envDefault:"local"`
	Port              string `env:"PORT" envDefault:"8080"`
	ProfileType       string `env:"PROFILE_METAOBJECT_TYPE" envDefault:"pooch_profile"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`

	Shopify  ShopifyConfig  `envPrefix:"SHOPIFY_"`
	Temporal TemporalConfig `envPrefix:"TEMPORAL_"`
	Otel     OtelConfig
}

// ShopifyConfig selects the store and Admin API the profiles are written to.
type ShopifyConfig struct {
	Store        string        `env:"STORE"`
	AccessToken  string        `env:"ACCESS_TOKEN"`
	APIVersion   string        `env:"API_VERSION" envDefault:"2025-07"`
	GIDNamespace string        `env:"GID_NAMESPACE" envDefault:"shopify"`
	CallTimeout  time.Duration `env:"CALL_TIMEOUT" envDefault:"15s"`
}

// TemporalConfig points at the cluster used for durable submissions.
type TemporalConfig struct {
	Address   string `env:"ADDRESS" envDefault:"localhost:7233"`
	Namespace string `env:"NAMESPACE" envDefault:"default"`
	// Disabled accepts 1, true or yes.
	Disabled string `env:"DISABLED"`
}

// OtelConfig uses the standard OpenTelemetry variable names.
type OtelConfig struct {
	Exporter     string `env:"OTEL_TRACES_EXPORTER" envDefault:"otlp"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure is on unless set to 0.
	OTLPInsecure string `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"1"`
}

// IsDisabled reports whether Temporal should be skipped.
func (t TemporalConfig) IsDisabled() bool {
	return isTruthy(t.Disabled)
}

// Insecure reports whether the OTLP exporter may use plain HTTP.
func (o OtelConfig) Insecure() bool {
	return strings.TrimSpace(o.OTLPInsecure) != "0"
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Load reads an optional .env file, then the process environment. Variables already set
// in the environment win over the file.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses the given variables only. Used by tests and tools.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate applies basic constraints.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Shopify.Store) == "" {
		errs = append(errs, errors.New("SHOPIFY_STORE is required"))
	}
	if strings.TrimSpace(c.Shopify.AccessToken) == "" {
		errs = append(errs, errors.New("SHOPIFY_ACCESS_TOKEN is required"))
	}
	if c.Shopify.CallTimeout <= 0 {
		errs = append(errs, errors.New("SHOPIFY_CALL_TIMEOUT must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port number, got %q", c.Port))
	}
	for _, origin := range strings.Split(c.CORSAllowedOrigin, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGIN entries must be * or http(s) origins, got %q", origin))
		}
	}
	return errors.Join(errs...)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
