package topology

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// routingGraph is a gonum graph.Directed whose node iterators are ordered by
// id. gonum's simple graphs iterate maps, so equal-cost paths could differ
// from run to run; ordered iterators keep Dijkstra's tie-break stable.
type routingGraph struct {
	nodes []graph.Node
	byID  map[int64]graph.Node
	from  map[int64][]graph.Node
	to    map[int64][]graph.Node
}

func newRoutingGraph(nodeIDs []int, edges []Edge, bidirectional bool) *routingGraph {
	g := &routingGraph{
		byID: make(map[int64]graph.Node, len(nodeIDs)),
		from: make(map[int64][]graph.Node),
		to:   make(map[int64][]graph.Node),
	}
	for _, id := range nodeIDs {
		n := simple.Node(id)
		g.nodes = append(g.nodes, n)
		g.byID[n.ID()] = n
	}
	for _, e := range edges {
		g.addArc(int64(e.From), int64(e.To))
		if bidirectional {
			g.addArc(int64(e.To), int64(e.From))
		}
	}
	for _, adj := range []map[int64][]graph.Node{g.from, g.to} {
		for id := range adj {
			ns := adj[id]
			sort.Slice(ns, func(i, j int) bool { return ns[i].ID() < ns[j].ID() })
		}
	}
	return g
}

func (g *routingGraph) addArc(u, v int64) {
	if g.HasEdgeFromTo(u, v) {
		return
	}
	g.from[u] = append(g.from[u], g.byID[v])
	g.to[v] = append(g.to[v], g.byID[u])
}

func (g *routingGraph) Node(id int64) graph.Node {
	n, ok := g.byID[id]
	if !ok {
		return nil
	}
	return n
}

func (g *routingGraph) Nodes() graph.Nodes { return iterator.NewOrderedNodes(g.nodes) }

func (g *routingGraph) From(id int64) graph.Nodes { return iterator.NewOrderedNodes(g.from[id]) }

func (g *routingGraph) To(id int64) graph.Nodes { return iterator.NewOrderedNodes(g.to[id]) }

func (g *routingGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

func (g *routingGraph) HasEdgeFromTo(uid, vid int64) bool {
	for _, n := range g.from[uid] {
		if n.ID() == vid {
			return true
		}
	}
	return false
}

func (g *routingGraph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: g.byID[uid], T: g.byID[vid]}
}

// ShortestPath returns the minimum-hop node sequence from src to dst.
// Shortest-path trees are computed once per source and cached, so repeated
// queries on the same Topology always return the same route.
func (t *Topology) ShortestPath(src, dst int) ([]int, error) {
	if _, ok := t.index[src]; !ok {
		return nil, fmt.Errorf("%w: unknown source node %d", ErrNoPath, src)
	}
	if _, ok := t.index[dst]; !ok {
		return nil, fmt.Errorf("%w: unknown destination node %d", ErrNoPath, dst)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: source equals destination (%d)", ErrNoPath, src)
	}

	tree := t.shortestTree(src)
	nodes, _ := tree.To(int64(dst))
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrNoPath, src, dst)
	}
	route := make([]int, len(nodes))
	for i, n := range nodes {
		route[i] = int(n.ID())
	}
	return route, nil
}

func (t *Topology) shortestTree(src int) path.Shortest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tree, ok := t.spCache[src]; ok {
		return tree
	}
	tree := path.DijkstraFrom(t.graph.byID[int64(src)], t.graph)
	t.spCache[src] = tree
	return tree
}
