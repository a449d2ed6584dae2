package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// TopologySection selects the network. Inline wins over File, File wins
// over Preset.
type TopologySection struct {
	Preset        string           `yaml:"preset"`
	File          string           `yaml:"file"`
	Slots         int              `yaml:"slots"`         // slot capacity for presets
	Bidirectional *bool            `yaml:"bidirectional"` // overrides the preset/file setting
	Inline        *topology.Config `yaml:"inline"`
}

// RunConfig represents the full run YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Topology   TopologySection `yaml:"topology"`
	Simulation sim.SimConfig   `yaml:"simulation"`
	Loads      []float64       `yaml:"loads"` // optional sweep; overrides simulation.load
	Confidence float64         `yaml:"confidence"`
}

// DefaultRunConfig returns NSFNET with 320 slots per fiber and the default
// simulation parameters.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Topology: TopologySection{
			Preset: "nsfnet",
			Slots:  320,
		},
		Simulation: sim.DefaultSimConfig(),
		Confidence: 0.95,
	}
}

// loadRunConfig parses a run config file on top of the defaults.
// Uses strict field checking: typos must cause errors.
func loadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}

// buildTopology resolves the topology section into a Topology.
func buildTopology(sec TopologySection) (*topology.Topology, error) {
	var (
		cfg topology.Config
		err error
	)
	switch {
	case sec.Inline != nil:
		cfg = *sec.Inline
	case sec.File != "":
		cfg, err = topology.LoadConfig(sec.File)
	default:
		cfg, err = topology.Preset(sec.Preset, sec.Slots)
	}
	if err != nil {
		return nil, err
	}
	if sec.Bidirectional != nil {
		cfg.Bidirectional = *sec.Bidirectional
	}
	return topology.New(cfg)
}

// loads returns the offered loads to sweep over.
func (c RunConfig) loads() []float64 {
	if len(c.Loads) > 0 {
		return c.Loads
	}
	return []float64{c.Simulation.Load}
}

// validate checks every load of the sweep against the topology before any
// run starts.
func (c RunConfig) validate(numNodes int) error {
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("%w: confidence must be in (0, 1), got %v", sim.ErrInvalidConfig, c.Confidence)
	}
	for _, load := range c.loads() {
		sc := c.Simulation
		sc.Load = load
		if err := sc.Validate(numNodes); err != nil {
			return err
		}
	}
	return nil
}
