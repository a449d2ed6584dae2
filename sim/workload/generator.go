// Package workload generates lightpath requests, one stream per source node.
package workload

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// GeneratorConfig parameterizes one source's request stream.
type GeneratorConfig struct {
	Source       int   // source node id
	Destinations []int // candidate destination ids, source excluded
	// MeanHolding is the mean lightpath holding time in ticks.
	MeanHolding float64
	// Load is the per-node offered load; the mean gap between two requests
	// of this source is MeanHolding / (Load * (NumNodes - 1)).
	Load     float64
	NumNodes int
	MaxSlots int
	Quota    int // requests emitted before the terminal marker
}

// Generator is a sim.RequestSource producing the arrivals of one source
// node. Each generator owns its counter, clock and random stream; nothing is
// shared between generators.
type Generator struct {
	cfg      GeneratorConfig
	rng      *rand.Rand
	holding  *ExponentialSampler
	gap      *ExponentialSampler
	slots    *UniformIntSampler
	clock    int64
	sent     int
	finished bool
}

var _ sim.RequestSource = (*Generator)(nil)

// NewGenerator validates cfg and returns a generator drawing from rng.
func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) (*Generator, error) {
	switch {
	case rng == nil:
		return nil, fmt.Errorf("source %d: nil random stream", cfg.Source)
	case len(cfg.Destinations) == 0:
		return nil, fmt.Errorf("source %d: no destinations", cfg.Source)
	case !(cfg.MeanHolding > 0):
		return nil, fmt.Errorf("source %d: mean holding must be positive, got %v", cfg.Source, cfg.MeanHolding)
	case !(cfg.Load > 0):
		return nil, fmt.Errorf("source %d: load must be positive, got %v", cfg.Source, cfg.Load)
	case cfg.NumNodes < 2:
		return nil, fmt.Errorf("source %d: need at least 2 nodes, got %d", cfg.Source, cfg.NumNodes)
	case cfg.MaxSlots < 1:
		return nil, fmt.Errorf("source %d: max slots must be >= 1, got %d", cfg.Source, cfg.MaxSlots)
	case cfg.Quota < 0:
		return nil, fmt.Errorf("source %d: negative quota %d", cfg.Source, cfg.Quota)
	}
	for _, d := range cfg.Destinations {
		if d == cfg.Source {
			return nil, fmt.Errorf("source %d: listed as its own destination", cfg.Source)
		}
	}
	meanGap := cfg.MeanHolding / (cfg.Load * float64(cfg.NumNodes-1))
	cfg.Destinations = append([]int(nil), cfg.Destinations...)
	return &Generator{
		cfg:     cfg,
		rng:     rng,
		holding: NewExponentialSampler(cfg.MeanHolding),
		gap:     NewExponentialSampler(meanGap),
		slots:   NewUniformIntSampler(cfg.MaxSlots),
	}, nil
}

// Source returns the source node id.
func (g *Generator) Source() int { return g.cfg.Source }

// Sent returns the number of requests emitted so far.
func (g *Generator) Sent() int { return g.sent }

// MeanGap returns the mean inter-arrival gap in ticks.
func (g *Generator) MeanGap() float64 { return g.gap.Mean() }

// Next returns the next request, or nil once the quota is reached.
// Draw order per request: holding time, gap, destination, slot count.
func (g *Generator) Next() *sim.Request {
	if g.finished {
		return nil
	}
	if g.sent >= g.cfg.Quota {
		g.finished = true
		logrus.Debugf("source %d: quota of %d requests reached", g.cfg.Source, g.cfg.Quota)
		return nil
	}
	duration := g.holding.Sample(g.rng)
	g.clock += g.gap.Sample(g.rng)
	dst := g.cfg.Destinations[g.rng.Intn(len(g.cfg.Destinations))]
	n := g.slots.Sample(g.rng)

	id := fmt.Sprintf("lp_%d_%d", g.cfg.Source, g.sent)
	g.sent++
	return sim.NewRequest(id, g.cfg.Source, dst, g.clock, duration, n)
}

// NewGenerators builds one generator per node of topo. Each draws from its
// own stream rng.ForSubsystem(sim.SubsystemSource(id)), so adding or
// removing a source never perturbs the others.
func NewGenerators(topo *topology.Topology, cfg sim.SimConfig, rng *sim.PartitionedRNG) ([]*Generator, error) {
	if err := cfg.Validate(topo.NumNodes()); err != nil {
		return nil, err
	}
	ids := topo.NodeIDs()
	gens := make([]*Generator, 0, len(ids))
	for _, src := range ids {
		dsts := make([]int, 0, len(ids)-1)
		for _, d := range ids {
			if d != src {
				dsts = append(dsts, d)
			}
		}
		g, err := NewGenerator(GeneratorConfig{
			Source:       src,
			Destinations: dsts,
			MeanHolding:  float64(sim.SecondsToTicks(cfg.AvgHoldingSeconds)),
			Load:         cfg.Load,
			NumNodes:     len(ids),
			MaxSlots:     cfg.MaxSlots,
			Quota:        cfg.MaxRequests,
		}, rng.ForSubsystem(sim.SubsystemSource(src)))
		if err != nil {
			return nil, fmt.Errorf("building generator: %w", err)
		}
		gens = append(gens, g)
	}
	return gens, nil
}
