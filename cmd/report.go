package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// printResources writes the transceiver and fiber occupancy tables of the
// controller's current state. It only reads a clone.
func printResources(w io.Writer, controller *sim.AdmissionController) {
	res := controller.Resources().Clone()
	topo := controller.Topology()

	fmt.Fprintln(w, "=== Transceivers ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Node\tTx free\tRx free\tCapacity")
	for _, id := range topo.NodeIDs() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", id, res.TxFree(id), res.RxFree(id), res.TransceiverCapacity())
	}
	tw.Flush()

	fmt.Fprintln(w, "=== Fibers ===")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Edge\tFrom\tTo\tBusy\tFree\tUtilization")
	for _, e := range topo.Edges() {
		busy := res.BusyOnEdge(e.ID)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%.2f%%\n", e.ID, e.From, e.To, busy, topo.SlotCount()-busy,
			100*float64(busy)/float64(topo.SlotCount()))
	}
	tw.Flush()
}

// printSweep writes one line per load of a sweep.
func printSweep(w io.Writer, results []LoadResult) {
	fmt.Fprintln(w, "\n=== Load Sweep ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Load\tAdmitted\tBlocked\tBlocking P\tCI low\tCI high")
	for _, r := range results {
		s := r.Summary
		if !s.Valid {
			fmt.Fprintf(tw, "%.3f\t%d\t%d\tn/a\tn/a\tn/a\n", r.Load, s.Admitted, s.Blocked)
			continue
		}
		fmt.Fprintf(tw, "%.3f\t%d\t%d\t%.4f\t%.4f\t%.4f\n", r.Load, s.Admitted, s.Blocked,
			s.BlockingProbability, s.CILow, s.CIHigh)
	}
	tw.Flush()
}

// printTopology writes each node with its outgoing fibers.
func printTopology(w io.Writer, topo *topology.Topology) {
	fmt.Fprintf(w, "%d nodes, %d fibers, %d slots per fiber", topo.NumNodes(), topo.NumEdges(), topo.SlotCount())
	if topo.Bidirectional() {
		fmt.Fprint(w, ", bidirectional")
	}
	fmt.Fprintln(w)
	out := make(map[int][]int, topo.NumNodes())
	for _, e := range topo.Edges() {
		out[e.From] = append(out[e.From], e.To)
	}
	for _, id := range topo.NodeIDs() {
		fmt.Fprintf(w, "%d\n", id)
		for i, to := range out[id] {
			branch := "├──"
			if i == len(out[id])-1 {
				branch = "└──"
			}
			fmt.Fprintf(w, "  %s %d\n", branch, to)
		}
	}
}
