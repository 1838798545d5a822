// Package flow implements the max-flow / min-cut solver (spec §4.4,
// component C4): a single source-sink max flow from NullableSink to
// NonNullSink over the completed nullgraph.Store, computed with
// Edmonds-Karp (BFS augmenting paths), after which every edge's Capacity
// field holds its own residual capacity rather than its original one.
//
// C4 runs single-threaded, after every translation unit's C2 and C3 passes
// have completed (spec §5): the whole point of the flow computation is a
// global min cut, so it cannot start until the graph is complete.
package flow

import (
	"github.com/nullaware/nullinfer/internal/nullgraph"
)

// pairKey identifies an ordered pair of node indices for the aggregated
// residual graph; parallel edges between the same two nodes are summed
// into one capacity, matching spec §4.1's "duplicate edges ... treated as
// parallel capacity".
type pairKey struct{ from, to int }

// Solve runs Edmonds-Karp from NullableSink to NonNullSink over every node
// in store, then writes each edge's post-flow residual capacity back into
// its Capacity field (spec §4.4). It returns the total flow value.
func Solve(store *nullgraph.Store) int {
	nodes := store.AllNodes()
	index := make(map[*nullgraph.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	// cap[a][b] is the aggregated residual capacity from node a to node b;
	// cap[b][a] tracks the reverse residual used for flow cancellation.
	cap := make(map[pairKey]int)
	// orig remembers each individual edge's starting capacity, in arena
	// order, for the final greedy distribution pass.
	type origEdge struct {
		edge     *nullgraph.Edge
		from, to int
	}
	var origEdges []origEdge

	addCap := func(from, to, c int) {
		if c == 0 {
			return
		}
		k := pairKey{from, to}
		cap[k] += c
		if cap[k] > nullgraph.InfiniteCapacity {
			cap[k] = nullgraph.InfiniteCapacity
		}
	}

	for _, n := range nodes {
		for _, e := range n.Outgoing() {
			from, to := index[e.Source], index[e.Target]
			addCap(from, to, e.Capacity)
			if _, ok := cap[pairKey{to, from}]; !ok {
				cap[pairKey{to, from}] = 0
			}
			origEdges = append(origEdges, origEdge{e, from, to})
		}
	}

	src := index[store.NullableSink()]
	sink := index[store.NonNullSink()]

	total := 0
	for {
		parent := bfsAugmentingPath(nodes, index, cap, src, sink)
		if parent == nil {
			break
		}
		bottleneck := nullgraph.InfiniteCapacity
		for v := sink; v != src; {
			u := parent[v]
			if c := cap[pairKey{u, v}]; c < bottleneck {
				bottleneck = c
			}
			v = u
		}
		for v := sink; v != src; {
			u := parent[v]
			cap[pairKey{u, v}] -= bottleneck
			cap[pairKey{v, u}] += bottleneck
			v = u
		}
		total += bottleneck
	}

	// Distribute each aggregated pair's remaining residual capacity back
	// to its individual edges greedily, in arena order, so the totals
	// still match (spec §4.4, "each edge's own residual capacity").
	remaining := make(map[pairKey]int, len(cap))
	for k, c := range cap {
		remaining[k] = c
	}
	for _, oe := range origEdges {
		k := pairKey{oe.from, oe.to}
		r := oe.edge.Capacity
		if remaining[k] < r {
			r = remaining[k]
		}
		if r < 0 {
			r = 0
		}
		remaining[k] -= r
		oe.edge.Capacity = r
	}

	return total
}

// bfsAugmentingPath finds a shortest (by edge count) path of positive
// residual capacity from src to sink, returning a parent map, or nil if
// sink is unreachable.
func bfsAugmentingPath(nodes []*nullgraph.Node, index map[*nullgraph.Node]int, cap map[pairKey]int, src, sink int) []int {
	parent := make([]int, len(nodes))
	visited := make([]bool, len(nodes))
	for i := range parent {
		parent[i] = -1
	}
	visited[src] = true
	queue := []int{src}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == sink {
			return parent
		}
		// Walk candidate neighbours by arena index rather than ranging cap
		// (a map) directly: map iteration order is randomized per run, and
		// when a graph admits more than one min-cut that would make which
		// edges end up saturated nondeterministic, violating spec §8's
		// "running analyze twice produces structurally identical output".
		for to := range nodes {
			if visited[to] {
				continue
			}
			if c := cap[pairKey{u, to}]; c > 0 {
				visited[to] = true
				parent[to] = u
				queue = append(queue, to)
			}
		}
	}
	if !visited[sink] {
		return nil
	}
	return parent
}
