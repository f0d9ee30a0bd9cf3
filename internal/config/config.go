package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xtding233/relic-planner/internal/catalog"
)

// Config is read from RELIC_* environment variables.
type Config struct {
	HTTPAddr      string        `env:"RELIC_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"RELIC_GRPC_ADDR" envDefault:":9090"`
	CatalogURL    string        `env:"RELIC_CATALOG_URL"`
	CatalogFile   string        `env:"RELIC_CATALOG_FILE"` // wins over CatalogURL when set
	PlanDir       string        `env:"RELIC_PLAN_DIR" envDefault:"config"`
	Locale        string        `env:"RELIC_LOCALE" envDefault:"en"`
	FetchTimeout  time.Duration `env:"RELIC_FETCH_TIMEOUT" envDefault:"15s"`
	WatchInterval time.Duration `env:"RELIC_WATCH_INTERVAL" envDefault:"2s"`
	SimTrials     int           `env:"RELIC_SIM_TRIALS" envDefault:"100000"`
}

// Load parses the environment.
func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.CatalogURL == "" {
		c.CatalogURL = catalog.DefaultURL
	}
	if c.SimTrials <= 0 {
		return nil, fmt.Errorf("RELIC_SIM_TRIALS must be > 0, got %d", c.SimTrials)
	}
	return &c, nil
}
