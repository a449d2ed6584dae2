package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
	"github.com/simmonsmoreno/elastic-optical-network/sim/observability"
	"github.com/simmonsmoreno/elastic-optical-network/sim/pacing"
	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
	"github.com/simmonsmoreno/elastic-optical-network/sim/trace"
	"github.com/simmonsmoreno/elastic-optical-network/sim/workload"
)

// runOptions carries the presentation settings of a run; none of them
// influence admission decisions.
type runOptions struct {
	ShowResources bool
	TraceOutput   string
	TraceLevel    trace.TraceLevel
	Realtime      bool
	Speed         float64
	Metrics       *observability.Collector
}

// LoadResult is the outcome of one run of a load sweep.
type LoadResult struct {
	Load    float64
	Summary sim.Summary
	Steps   int
	EndTick int64
}

// runSweep runs one independent simulation per load over a shared
// controller, resetting it between runs. Each run restarts every random
// stream from the configured seed.
func runSweep(ctx context.Context, cfg RunConfig, topo *topology.Topology, opts runOptions, out io.Writer) ([]LoadResult, error) {
	if err := cfg.validate(topo.NumNodes()); err != nil {
		return nil, err
	}
	controller := sim.NewAdmissionController(topo, spectrum.NewAllocator(cfg.Simulation.Policy), cfg.Simulation.Transceivers)
	loads := cfg.loads()

	results := make([]LoadResult, 0, len(loads))
	for i, load := range loads {
		if i > 0 {
			controller.Reset()
		}
		sc := cfg.Simulation
		sc.Load = load
		runCtx, span := observability.StartRunSpan(ctx, sc)
		res, err := runOnce(runCtx, sc, cfg.Confidence, controller, opts, traceOutputPath(opts.TraceOutput, load, len(loads) > 1))
		observability.EndRunSpan(span, res.Summary, err)
		if err != nil {
			return results, err
		}
		fmt.Fprintf(out, "\n--- load %.3f ---\n", load)
		res.Summary.Print(out)
		if opts.ShowResources {
			printResources(out, controller)
		}
		results = append(results, res)
	}
	if len(results) > 1 {
		printSweep(out, results)
	}
	return results, nil
}

// runOnce executes a single simulation with the given parameters.
func runOnce(ctx context.Context, sc sim.SimConfig, confidence float64, controller *sim.AdmissionController, opts runOptions, tracePath string) (LoadResult, error) {
	topo := controller.Topology()
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
	gens, err := workload.NewGenerators(topo, sc, rng)
	if err != nil {
		return LoadResult{}, err
	}

	s := sim.NewSimulator(sc.HorizonTicks(), controller)
	stats := sim.NewStatisticsCollector(sc.Trim)
	s.AddObserver(stats)

	var st *trace.SimulationTrace
	if tracePath != "" {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
		s.AddObserver(sim.NewTraceRecorder(st))
	}
	if opts.Metrics != nil {
		s.AddObserver(opts.Metrics)
	}
	for _, g := range gens {
		s.AddSource(g)
	}

	logrus.Infof("Starting simulation: %d nodes, %d fibers, %d slots, load=%.3f, policy=%s, seed=%d",
		topo.NumNodes(), topo.NumEdges(), topo.SlotCount(), sc.Load, policyName(sc.Policy), sc.Seed)
	startTime := time.Now()

	if opts.Realtime {
		p, err := pacing.New(opts.Speed)
		if err != nil {
			return LoadResult{}, err
		}
		if err := p.Run(ctx, s); err != nil {
			return LoadResult{}, fmt.Errorf("paced run interrupted: %w", err)
		}
		s.Finish()
	} else {
		s.Run()
	}
	logrus.Infof("Simulation finished in %v (wall clock)", time.Since(startTime))

	if st != nil {
		if err := writeTrace(tracePath, st); err != nil {
			return LoadResult{}, err
		}
		ts := trace.Summarize(st)
		logrus.Infof("Trace: %d decisions (%d admitted, %d blocked), written to %s",
			ts.TotalDecisions, ts.AdmittedCount, ts.BlockedCount, tracePath)
	}

	return LoadResult{
		Load:    sc.Load,
		Summary: stats.Summarize(confidence),
		Steps:   s.Steps(),
		EndTick: s.Now(),
	}, nil
}

func writeTrace(path string, st *trace.SimulationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := st.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// traceOutputPath returns base, or base with a load suffix when a sweep
// writes one trace per load.
func traceOutputPath(base string, load float64, sweep bool) string {
	if base == "" || !sweep {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_load" + strconv.FormatFloat(load, 'f', -1, 64) + ext
}

func policyName(p string) string {
	if p == "" {
		return spectrum.PolicyFirstFit
	}
	return p
}
