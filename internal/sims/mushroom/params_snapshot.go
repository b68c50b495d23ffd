package mushroom

import "mycelium-ca/internal/core"

// Parameters describes the run configuration for the HUD and run logs.
func (s *Sim) Parameters() core.ParameterSnapshot {
	return s.cfg.Parameters()
}

// Parameters groups the configuration values for presentation.
func (c Config) Parameters() core.ParameterSnapshot {
	p := c.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("rows", "Rows", c.Rows),
				core.IntParam("cols", "Cols", c.Cols),
				core.Int64Param("seed", "Seed", c.Seed),
				core.IntParam("workers", "Workers", c.Workers),
			},
		},
		{
			Name: "Lifecycle",
			Params: []core.Parameter{
				core.FloatParam("p_spore_to_hyphae", "Spore to hyphae", p.PSporeToHyphae),
				core.FloatParam("p_mushroom", "Mushroom fruiting", p.PMushroom),
				core.FloatParam("p_spread", "Hyphal spread", p.PSpread),
				core.StringParam("spread_neighborhood", "Spread neighborhood", p.SpreadNeighborhood),
			},
		},
		{
			Name: "Spores",
			Params: []core.Parameter{
				core.StringParam("spore_policy", "Spawn policy", p.SporePolicy),
				core.FloatParam("initial_spore_chance", "Initial spawn chance", p.InitialSporeChance),
				core.StringParam("boundary", "Boundary", p.Boundary),
			},
		},
		{
			Name: "Initial Condition",
			Params: []core.Parameter{
				core.StringParam("init", "Layout", c.Init.Kind),
				core.FloatParam("prob_spore", "Random spore chance", c.Init.ProbSpore),
				core.IntParam("barrier_radius", "Barrier radius", c.Init.BarrierRadius),
			},
		},
	}}
}

// Status reports the live counters of the committed grid.
func (s *Sim) Status() []core.Parameter {
	m := s.engine.Metrics()
	living := 0
	for st := CellState(0); st.Valid(); st++ {
		if st.Living() {
			living += m.Census.Of(st)
		}
	}
	status := []core.Parameter{
		core.IntParam("step", "Step", m.Step),
		core.IntParam("mushrooms", "Mushrooms", m.MushroomCount),
		core.IntParam("living", "Living cells", living),
	}
	if _, ok := s.engine.spawn.(ScalarPolicy); ok {
		status = append(status, core.FloatParam("spore_chance", "Spore chance", m.SporeChance))
	}
	return status
}
