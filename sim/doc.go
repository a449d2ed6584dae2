// Package sim provides the discrete-event engine that decides lightpath
// admission in an elastic optical network.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - request.go: Request lifecycle (pending → active → released, or pending → blocked)
//   - admission.go: AdmissionController, the only writer of ResourceState
//   - simulator.go: The event loop, lazy release on arrival, observer fan-out
//
// # Architecture
//
// The sim package owns the mutable state and the clock; pure helpers live in
// sub-packages:
//   - sim/topology/: nodes, fibers, presets and deterministic shortest paths
//   - sim/spectrum/: first-fit and best-gap slot selection
//   - sim/workload/: one request generator per source node
//   - sim/trace/: per-decision records for post-run analysis
//   - sim/observability/: Prometheus metrics fed as an Observer
//   - sim/pacing/: optional wall-clock pacing driven through Step
//
// # Key Interfaces
//
//   - RequestSource: produces one source's arrivals, nil when exhausted
//   - Observer: receives every Outcome and every release, read-only
//   - spectrum.Allocator: picks n consecutive slots out of a candidate set
package sim
