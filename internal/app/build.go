package app

import (
	"fmt"

	"mycelium-ca/internal/core"
	"mycelium-ca/internal/sims/mushroom"
)

// BuildSim constructs the simulation selected by c. A config file is only
// understood by the mushroom sim; other sims are built from the registry
// with the -set overrides.
func BuildSim(c *Config) (core.Sim, error) {
	if c.ConfigPath == "" {
		overrides := c.Overrides.Map()
		if c.Seed != 0 {
			overrides["seed"] = fmt.Sprint(c.Seed)
		}
		return core.Lookup(c.Sim, overrides)
	}
	if c.Sim != "mushroom" {
		return nil, fmt.Errorf("-config is only supported for the mushroom sim, not %q", c.Sim)
	}
	cfg, err := mushroom.LoadConfig(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(c.Overrides.Map()); err != nil {
		return nil, err
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	return mushroom.New(cfg)
}
