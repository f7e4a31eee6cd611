package taxee

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// DefaultURL is the root of the published taxee statistics.
const DefaultURL = "https://raw.githubusercontent.com/taxee/taxee-tax-statistics/master/src/statistics"

// Config configures a Client. It is read from EQT_TAXEE_* environment
// variables by LoadConfig.
type Config struct {
	URL        string  `envconfig:"URL" default:"https://raw.githubusercontent.com/taxee/taxee-tax-statistics/master/src/statistics"`
	LatestYear int     `envconfig:"LATEST_YEAR" default:"2020"` // later years are served this year's tables.
	Rate       float64 `envconfig:"RATE" default:"4"`           // requests per second.
	Burst      int     `envconfig:"BURST" default:"3"`
	Cache      bool    `envconfig:"CACHE" default:"true"` // keep responses on disk for the day.
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("eqt_taxee", &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot read taxee configuration: %w", err)
	}
	return cfg, nil
}
