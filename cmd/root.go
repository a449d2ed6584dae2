package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simmonsmoreno/elastic-optical-network/sim/observability"
	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
	"github.com/simmonsmoreno/elastic-optical-network/sim/trace"
)

var (
	// CLI flags for the run config
	configPath    string    // Run config YAML
	seed          int64     // Seed for request generation
	horizon       float64   // Simulation horizon in seconds (0 = until sources are exhausted)
	logLevel      string    // Log verbosity level
	preset        string    // Named topology
	topologyFile  string    // Topology YAML
	slots         int       // Slots per fiber for presets
	bidirectional bool      // Treat every fiber as usable in both directions
	loads         []float64 // Per-node offered loads, one run each
	avgHolding    float64   // Mean lightpath holding time in seconds
	maxSlots      int       // Slot demand is uniform in [1, max-slots]
	maxRequests   int       // Requests per source node
	transceivers  int       // Tx and rx per node
	policy        string    // Spectrum allocation policy
	trim          int       // Samples dropped at each end of a run
	confidence    float64   // Confidence level of the blocking interval

	// CLI flags for presentation
	showResources bool    // Print resource tables after each run
	traceOutput   string  // Decision trace JSON path
	traceLevel    string  // Decision trace verbosity
	realtime      bool    // Pace the run against the wall clock
	speed         float64 // Simulated seconds per wall second when pacing
	metricsAddr   string  // Address of the Prometheus /metrics endpoint

	// CLI flags for OpenTelemetry run tracing (defaults from EON_TRACING_* env)
	otelEnabled     bool
	otelExporter    string
	otelEndpoint    string
	otelSampleRatio float64
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "eon-sim",
	Short: "Discrete-event simulator for lightpath admission in elastic optical networks",
}

// runCmd executes the simulation using the run config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the admission simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		topo, err := buildTopology(cfg.Topology)
		if err != nil {
			logrus.Fatalf("Invalid topology: %v", err)
		}
		if err := cfg.validate(topo.NumNodes()); err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q", traceLevel)
		}
		if realtime && !(speed > 0) {
			logrus.Fatalf("--speed must be > 0, got %v", speed)
		}

		opts := runOptions{
			ShowResources: showResources,
			TraceOutput:   traceOutput,
			TraceLevel:    trace.TraceLevel(traceLevel),
			Realtime:      realtime,
			Speed:         speed,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if metricsAddr != "" {
			reg := prometheus.NewRegistry()
			collector, err := observability.NewCollector(reg)
			if err != nil {
				logrus.Fatalf("Registering metrics: %v", err)
			}
			opts.Metrics = collector
			srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(collector), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logrus.Errorf("metrics server: %v", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logrus.Infof("Serving metrics on %s/metrics", metricsAddr)
		}

		shutdown, err := observability.InitTracing(ctx, tracingConfig(cmd))
		if err != nil {
			logrus.Fatalf("Initialising tracing: %v", err)
		}
		defer observability.ShutdownWithTimeout(context.Background(), shutdown)

		if _, err := runSweep(ctx, cfg, topo, opts, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// topologyCmd prints the resolved topology
var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Print the nodes and fibers of a topology",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		topo, err := buildTopology(cfg.Topology)
		if err != nil {
			logrus.Fatalf("Invalid topology: %v", err)
		}
		printTopology(os.Stdout, topo)
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func metricsMux(c *observability.Collector) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return mux
}

// resolveRunConfig loads --config (if any) and applies every flag the user
// set explicitly. Flag defaults never overwrite values from the file.
func resolveRunConfig(cmd *cobra.Command) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadRunConfig(configPath); err != nil {
			return cfg, err
		}
	}
	applyFlagOverrides(cmd, &cfg)
	return cfg, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Topology.Preset = preset
		cfg.Topology.File = ""
		cfg.Topology.Inline = nil
	}
	if flags.Changed("topology-file") {
		cfg.Topology.File = topologyFile
		cfg.Topology.Inline = nil
	}
	if flags.Changed("slots") {
		cfg.Topology.Slots = slots
	}
	if flags.Changed("bidirectional") {
		b := bidirectional
		cfg.Topology.Bidirectional = &b
	}
	if flags.Lookup("seed") == nil {
		return // topology-only command
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.Simulation.HorizonSeconds = horizon
	}
	if flags.Changed("load") {
		cfg.Loads = append([]float64(nil), loads...)
	}
	if flags.Changed("avg-holding") {
		cfg.Simulation.AvgHoldingSeconds = avgHolding
	}
	if flags.Changed("max-slots") {
		cfg.Simulation.MaxSlots = maxSlots
	}
	if flags.Changed("max-requests") {
		cfg.Simulation.MaxRequests = maxRequests
	}
	if flags.Changed("transceivers") {
		cfg.Simulation.Transceivers = transceivers
	}
	if flags.Changed("policy") {
		cfg.Simulation.Policy = policy
	}
	if flags.Changed("trim") {
		cfg.Simulation.Trim = trim
	}
	if flags.Changed("confidence") {
		cfg.Confidence = confidence
	}
}

// tracingConfig starts from the environment and applies explicitly set flags.
func tracingConfig(cmd *cobra.Command) observability.TracingConfig {
	tc := observability.TracingConfigFromEnv()
	flags := cmd.Flags()
	if flags.Changed("otel") {
		tc.Enabled = otelEnabled
	}
	if flags.Changed("otel-exporter") {
		tc.Exporter = otelExporter
	}
	if flags.Changed("otel-endpoint") {
		tc.Endpoint = otelEndpoint
	}
	if flags.Changed("otel-sample-ratio") {
		tc.SampleRatio = otelSampleRatio
	}
	return tc
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func registerTopologyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "Run config YAML (flags override its values)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&preset, "preset", "nsfnet", "Topology preset ("+strings.Join(topology.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&topologyFile, "topology-file", "", "Topology YAML (nodes, edges, slots, bidirectional)")
	cmd.Flags().IntVar(&slots, "slots", 320, "Slots per fiber for presets")
	cmd.Flags().BoolVar(&bidirectional, "bidirectional", false, "Treat every fiber as usable in both directions")
}

// init sets up CLI flags and subcommands
func init() {
	def := DefaultRunConfig().Simulation

	registerTopologyFlags(runCmd)
	runCmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for random request generation")
	runCmd.Flags().Float64Var(&horizon, "horizon", 0, "Simulation horizon in seconds (0 = until every source is exhausted)")
	runCmd.Flags().Float64SliceVar(&loads, "load", []float64{def.Load}, "Per-node offered load; several values run a sweep")
	runCmd.Flags().Float64Var(&avgHolding, "avg-holding", def.AvgHoldingSeconds, "Mean lightpath holding time in seconds")
	runCmd.Flags().IntVar(&maxSlots, "max-slots", def.MaxSlots, "Maximum slots per request")
	runCmd.Flags().IntVar(&maxRequests, "max-requests", def.MaxRequests, "Requests generated per source node")
	runCmd.Flags().IntVar(&transceivers, "transceivers", def.Transceivers, "Transmitters and receivers per node")
	runCmd.Flags().StringVar(&policy, "policy", def.Policy, "Spectrum allocation policy ("+strings.Join(spectrum.PolicyNames(), ", ")+")")
	runCmd.Flags().IntVar(&trim, "trim", def.Trim, "Samples discarded at each end of the run")
	runCmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence level of the blocking probability interval")

	runCmd.Flags().BoolVar(&showResources, "show-resources", false, "Print transceiver and fiber tables after each run")
	runCmd.Flags().StringVar(&traceOutput, "trace-output", "", "Write the decision trace as JSON to this path")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelDecisions), "Trace verbosity (none, decisions, full)")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Pace the simulation against the wall clock")
	runCmd.Flags().Float64Var(&speed, "speed", 1, "Simulated seconds per wall-clock second with --realtime")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	runCmd.Flags().BoolVar(&otelEnabled, "otel", false, "Emit one OpenTelemetry span per run")
	runCmd.Flags().StringVar(&otelExporter, "otel-exporter", "stdout", "Span exporter (stdout, otlp)")
	runCmd.Flags().StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP gRPC endpoint (default localhost:4317)")
	runCmd.Flags().Float64Var(&otelSampleRatio, "otel-sample-ratio", 1, "Fraction of runs traced")

	registerTopologyFlags(topologyCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(topologyCmd)
}
