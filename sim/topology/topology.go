// Package topology describes the static fiber graph of an elastic optical
// network: node ids, directed fiber edges and the per-fiber slot capacity.
// A Topology is built once and is read-only for the rest of a simulation.
package topology

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/graph/path"
)

var (
	// ErrInvalidTopology is returned when a topology definition cannot be built.
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrNoPath is returned when two nodes are not connected.
	ErrNoPath = errors.New("no path")
)

// Config is the value-only description of a topology.
type Config struct {
	Nodes []int    `yaml:"nodes"`
	Edges [][2]int `yaml:"edges"`
	Slots int      `yaml:"slots"` // spectrum slots per fiber (S)
	// Bidirectional makes every listed edge traversable in both directions
	// over the same fiber. When false only the listed direction is routable.
	Bidirectional bool `yaml:"bidirectional"`
}

// Edge is a fiber between two nodes. ID is the position of the edge in the
// topology's edge list and indexes the slot arrays of the resource state.
type Edge struct {
	ID   int
	From int
	To   int
}

// Topology is the fiber graph. All lookups are by small integer ids.
type Topology struct {
	nodeIDs       []int
	index         map[int]int
	edges         []Edge
	lookup        map[[2]int]int
	slots         int
	bidirectional bool

	graph *routingGraph

	mu      sync.Mutex
	spCache map[int]path.Shortest
}

// New validates cfg and builds a Topology from it.
func New(cfg Config) (*Topology, error) {
	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidTopology)
	}
	if cfg.Slots <= 0 {
		return nil, fmt.Errorf("%w: slots per fiber must be > 0, got %d", ErrInvalidTopology, cfg.Slots)
	}

	t := &Topology{
		index:         make(map[int]int, len(cfg.Nodes)),
		lookup:        make(map[[2]int]int, len(cfg.Edges)),
		slots:         cfg.Slots,
		bidirectional: cfg.Bidirectional,
		spCache:       make(map[int]path.Shortest),
	}

	ids := append([]int(nil), cfg.Nodes...)
	sort.Ints(ids)
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			return nil, fmt.Errorf("%w: duplicate node %d", ErrInvalidTopology, id)
		}
		t.index[id] = i
	}
	t.nodeIDs = ids

	for i, e := range cfg.Edges {
		from, to := e[0], e[1]
		if _, ok := t.index[from]; !ok {
			return nil, fmt.Errorf("%w: edge %d references unknown node %d", ErrInvalidTopology, i, from)
		}
		if _, ok := t.index[to]; !ok {
			return nil, fmt.Errorf("%w: edge %d references unknown node %d", ErrInvalidTopology, i, to)
		}
		if from == to {
			return nil, fmt.Errorf("%w: edge %d is a self loop on node %d", ErrInvalidTopology, i, from)
		}
		if _, dup := t.lookup[[2]int{from, to}]; dup {
			return nil, fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalidTopology, from, to)
		}
		t.lookup[[2]int{from, to}] = i
		t.edges = append(t.edges, Edge{ID: i, From: from, To: to})
	}

	t.graph = newRoutingGraph(t.nodeIDs, t.edges, t.bidirectional)
	return t, nil
}

// NumNodes returns the number of nodes.
func (t *Topology) NumNodes() int { return len(t.nodeIDs) }

// NumEdges returns the number of fiber edges.
func (t *Topology) NumEdges() int { return len(t.edges) }

// SlotCount returns the number of spectrum slots on every fiber.
func (t *Topology) SlotCount() int { return t.slots }

// Bidirectional reports whether edges are routable in both directions.
func (t *Topology) Bidirectional() bool { return t.bidirectional }

// NodeIDs returns the node ids in ascending order.
func (t *Topology) NodeIDs() []int {
	return append([]int(nil), t.nodeIDs...)
}

// NodeIndex maps a node id to its dense index in [0, NumNodes).
func (t *Topology) NodeIndex(id int) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Edges returns a copy of the edge list, ordered by edge id.
func (t *Topology) Edges() []Edge {
	return append([]Edge(nil), t.edges...)
}

// Edge returns the edge with the given id.
func (t *Topology) Edge(id int) Edge {
	return t.edges[id]
}

// EdgeBetween returns the id of the fiber connecting u and v. The edge may be
// stored as u->v or v->u; the u->v direction is preferred when both exist.
func (t *Topology) EdgeBetween(u, v int) (int, bool) {
	if id, ok := t.lookup[[2]int{u, v}]; ok {
		return id, true
	}
	id, ok := t.lookup[[2]int{v, u}]
	return id, ok
}

// PathEdges maps consecutive node pairs of a path to edge ids.
func (t *Topology) PathEdges(nodes []int) ([]int, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("%w: path needs at least two nodes", ErrNoPath)
	}
	ids := make([]int, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		id, ok := t.EdgeBetween(nodes[i], nodes[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: no fiber between %d and %d", ErrNoPath, nodes[i], nodes[i+1])
		}
		ids = append(ids, id)
	}
	return ids, nil
}
