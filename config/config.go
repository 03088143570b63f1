// Package config loads the settings of a sampling run from the environment.
//
// Variables are read from the process environment, after loading a .env file
// if one exists. Command-line flags are expected to override the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sarchlab/mcmc"
)

// RunConfig holds the settings of the run command.
type RunConfig struct {
	Sigma       float64 `env:"MCMC_SIGMA" envDefault:"3"`
	BurnIn      int     `env:"MCMC_BURN_IN" envDefault:"0"`
	Steps       int     `env:"MCMC_STEPS" envDefault:"200000"`
	MaxLag      int     `env:"MCMC_MAX_LAG" envDefault:"200"`
	Seed        uint64  `env:"MCMC_SEED"`
	Chains      int     `env:"MCMC_CHAINS" envDefault:"1"`
	Record      string  `env:"MCMC_RECORD"`
	CSV         string  `env:"MCMC_CSV"`
	MonitorPort int     `env:"MCMC_MONITOR_PORT" envDefault:"0"`
}

// Load reads the given .env files, or ".env" if none is given, and parses
// the environment into a RunConfig. Missing files are skipped. Variables
// already set in the environment win over the files.
func Load(files ...string) (RunConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return RunConfig{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg RunConfig
	if err := env.Parse(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config: parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that the sampler packages cannot check on
// their own.
func (c RunConfig) Validate() error {
	if c.Steps < 1 {
		return fmt.Errorf("config: steps %d must be positive: %w",
			c.Steps, mcmc.ErrInvalidParameter)
	}

	if c.MaxLag < 0 || c.MaxLag >= c.Steps {
		return fmt.Errorf("config: max lag %d must be in [0, %d): %w",
			c.MaxLag, c.Steps, mcmc.ErrInvalidParameter)
	}

	if c.Chains < 1 {
		return fmt.Errorf("config: chain count %d must be positive: %w",
			c.Chains, mcmc.ErrInvalidParameter)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("config: monitor port %d out of range: %w",
			c.MonitorPort, mcmc.ErrInvalidParameter)
	}

	return nil
}
