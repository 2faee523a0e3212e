package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"dbpulse.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Migrations selects golang-migrate SQL migrations from ./migrations
	// instead of the AutoMigrate dev fallback.
	Migrations bool `envconfig:"MIGRATIONS" default:"false"`
	Seed       bool `envconfig:"DB_SEED" default:"false"`

	// StrictStatusTransitions turns on the guarded order state machine.
	// Off by default: any status may overwrite any other.
	StrictStatusTransitions bool `envconfig:"STRICT_STATUS_TRANSITIONS" default:"false"`

	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT" default:""`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
