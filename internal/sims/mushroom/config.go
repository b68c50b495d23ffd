package mushroom

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Params holds the transition probabilities and policy selectors.
type Params struct {
	PSporeToHyphae float64 `yaml:"p_spore_to_hyphae"`
	PMushroom      float64 `yaml:"p_mushroom"`
	PSpread        float64 `yaml:"p_spread"`

	Boundary    string `yaml:"boundary"`     // absorbing, periodic or reflecting
	SporePolicy string `yaml:"spore_policy"` // global or local
	// InitialSporeChance seeds the global policy before the first step.
	InitialSporeChance float64 `yaml:"initial_spore_chance"`
	// SpreadNeighborhood is the adjacency for the young-neighbor check.
	SpreadNeighborhood string `yaml:"spread_neighborhood"`
}

// Point is a grid coordinate.
type Point struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// InitConfig selects and parameterizes the initial condition.
type InitConfig struct {
	Kind          string  `yaml:"kind"` // random, single, dual, barrier or points
	ProbSpore     float64 `yaml:"prob_spore"`
	BarrierRadius int     `yaml:"barrier_radius"`
	Points        []Point `yaml:"points"`
}

// Config controls a single simulation run. Values are fixed once the engine
// is built.
type Config struct {
	Rows    int   `yaml:"rows"`
	Cols    int   `yaml:"cols"`
	Seed    int64 `yaml:"seed"`
	Steps   int   `yaml:"steps"`
	Workers int   `yaml:"workers"` // <0 uses GOMAXPROCS

	RecordHistory bool `yaml:"record_history"`

	Params Params     `yaml:"params"`
	Init   InitConfig `yaml:"init"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("mushroom: parsing embedded defaults: %v", err))
	}
	return c
}

// LoadConfig reads a YAML file on top of the embedded defaults. An empty
// path yields the defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// WriteYAML saves the configuration so a run can be reproduced.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports every invalid value as a joined set of ConfigErrors.
func (c Config) Validate() error {
	var errs []error
	if c.Rows <= 0 || c.Cols <= 0 {
		errs = append(errs, configErrorf("dimensions", "grid must be at least 1x1, got %dx%d", c.Rows, c.Cols))
	}
	if c.Steps < 0 {
		errs = append(errs, configErrorf("steps", "must not be negative, got %d", c.Steps))
	}
	probs := []struct {
		key string
		v   float64
	}{
		{"p_spore_to_hyphae", c.Params.PSporeToHyphae},
		{"p_mushroom", c.Params.PMushroom},
		{"p_spread", c.Params.PSpread},
		{"initial_spore_chance", c.Params.InitialSporeChance},
		{"prob_spore", c.Init.ProbSpore},
	}
	for _, p := range probs {
		if !(p.v >= 0 && p.v <= 1) {
			errs = append(errs, configErrorf(p.key, "probability must be in [0,1], got %v", p.v))
		}
	}
	if _, err := ParseBoundary(c.Params.Boundary); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseAdjacency(c.Params.SpreadNeighborhood); err != nil {
		errs = append(errs, err)
	}
	if _, err := NewSpawnPolicy(c.Params.SporePolicy, 0, Absorbing{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseInitKind(c.Init.Kind); err != nil {
		errs = append(errs, err)
	}
	if c.Init.BarrierRadius < 0 {
		errs = append(errs, configErrorf("barrier_radius", "must not be negative, got %d", c.Init.BarrierRadius))
	}
	if kind, err := ParseInitKind(c.Init.Kind); err == nil && kind == InitBarrier &&
		c.Rows > 0 && c.Cols > 0 && c.Init.BarrierRadius >= 0 {
		center := Point{Row: c.Rows / 2, Col: c.Cols / 2}
		if err := checkBarrier(c.Rows, c.Cols, center, c.Init.BarrierRadius); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Rows > 0 && c.Cols > 0 {
		for _, p := range c.Init.Points {
			if p.Row < 0 || p.Row >= c.Rows || p.Col < 0 || p.Col >= c.Cols {
				errs = append(errs, configErrorf("points", "seed (%d,%d) lies outside the %dx%d grid", p.Row, p.Col, c.Rows, c.Cols))
			}
		}
	}
	return errors.Join(errs...)
}

// FromMap applies flag-style key/value overrides on top of the defaults.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if err := c.ApplyOverrides(cfg); err != nil {
		return c, err
	}
	return c, nil
}

// ApplyOverrides sets the fields named by cfg. Unknown keys and unparsable
// values are reported, never skipped.
func (c *Config) ApplyOverrides(cfg map[string]string) error {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		if err := c.set(k, cfg[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Config) set(key, v string) error {
	v = strings.TrimSpace(v)
	switch key {
	case "rows", "h":
		return parseInt(key, v, &c.Rows)
	case "cols", "w":
		return parseInt(key, v, &c.Cols)
	case "steps":
		return parseInt(key, v, &c.Steps)
	case "workers":
		return parseInt(key, v, &c.Workers)
	case "seed":
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return configErrorf(key, "not an integer: %q", v)
		}
		c.Seed = parsed
	case "record_history":
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return configErrorf(key, "not a boolean: %q", v)
		}
		c.RecordHistory = parsed
	case "p_spore_to_hyphae":
		return parseFloat(key, v, &c.Params.PSporeToHyphae)
	case "p_mushroom":
		return parseFloat(key, v, &c.Params.PMushroom)
	case "p_spread":
		return parseFloat(key, v, &c.Params.PSpread)
	case "initial_spore_chance":
		return parseFloat(key, v, &c.Params.InitialSporeChance)
	case "boundary":
		c.Params.Boundary = v
	case "spore_policy":
		c.Params.SporePolicy = v
	case "spread_neighborhood":
		c.Params.SpreadNeighborhood = v
	case "init", "init_kind":
		c.Init.Kind = v
	case "prob_spore":
		return parseFloat(key, v, &c.Init.ProbSpore)
	case "barrier_radius":
		return parseInt(key, v, &c.Init.BarrierRadius)
	case "points":
		pts, err := parsePoints(v)
		if err != nil {
			return err
		}
		c.Init.Points = pts
	default:
		return configErrorf(key, "unknown parameter")
	}
	return nil
}

func parseInt(key, v string, dst *int) error {
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return configErrorf(key, "not an integer: %q", v)
	}
	*dst = parsed
	return nil
}

func parseFloat(key, v string, dst *float64) error {
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return configErrorf(key, "not a number: %q", v)
	}
	*dst = parsed
	return nil
}

// parsePoints reads "r:c;r:c" seed lists.
func parsePoints(v string) ([]Point, error) {
	if v == "" {
		return nil, nil
	}
	var pts []Point
	for _, part := range strings.Split(v, ";") {
		rc := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(rc) != 2 {
			return nil, configErrorf("points", "want row:col, got %q", part)
		}
		r, errR := strconv.Atoi(strings.TrimSpace(rc[0]))
		c, errC := strconv.Atoi(strings.TrimSpace(rc[1]))
		if errR != nil || errC != nil {
			return nil, configErrorf("points", "want integer row:col, got %q", part)
		}
		pts = append(pts, Point{Row: r, Col: c})
	}
	return pts, nil
}
