// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-wide settings. Generation parameters that define
// what is generated (seeds, shapes) travel as explicit values instead.
type Config struct {
	CatalogPath string `env:"STARFORGE_CATALOG"   envDefault:""` // Empty disables the catalog
	LogLevel    string `env:"STARFORGE_LOG_LEVEL" envDefault:"info"`
	LogJSON     bool   `env:"STARFORGE_LOG_JSON"  envDefault:"false"`

	Survey SurveyDefaults `envPrefix:"STARFORGE_SURVEY_"`
	Server ServerConfig   `envPrefix:"STARFORGE_"`
}

// ServerConfig configures the HTTP API started by "starforge serve".
type ServerConfig struct {
	Addr           string   `env:"ADDR"             envDefault:":8080"`
	AdminKey       string   `env:"ADMIN_KEY"` // Empty disables POST endpoints
	CORSOrigins    []string `env:"CORS_ORIGINS"     envSeparator:","`
	HeavyPerMinute int      `env:"HEAVY_PER_MINUTE" envDefault:"60"`
	TrustProxy     bool     `env:"TRUST_PROXY"` // Honor X-Forwarded-For from a reverse proxy
}

// SurveyDefaults seeds the CLI survey flags.
type SurveyDefaults struct {
	Seed       uint64  `env:"SEED"       envDefault:"1"`
	Candidates int     `env:"CANDIDATES" envDefault:"500"`
	HalfWidth  float64 `env:"HALF_WIDTH" envDefault:"100"` // pc
}

// Load reads the given .env files (default ".env") if they exist, then
// parses the environment. Variables already set take precedence over files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
