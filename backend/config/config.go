package config

import (
	"strings"
	"time"

	"github.com/parallelme/parallelme/parallelme"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *parallelme.Config
	Debug       bool
	Environment string
}

// NewWebAppConfig creates a new web app configuration
func NewWebAppConfig(cfg *parallelme.Config) *WebAppConfig {
	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       !cfg.IsProduction(),
		Environment: environment,
	}
}

// AllowedOrigins returns the CORS origins in the form the cors middleware expects.
func (w *WebAppConfig) AllowedOrigins() string {
	return strings.Join(w.Config.Web.AllowedOrigins, ",")
}

// AuthRateLimit returns the allowed auth requests per window and the window.
func (w *WebAppConfig) AuthRateLimit() (int, time.Duration) {
	return w.Config.Web.AuthRateLimit, time.Minute
}

// GetWebConfig returns the web configuration
func (w *WebAppConfig) GetWebConfig() parallelme.WebConfig {
	return w.Config.Web
}
