// Package labels implements the two-phase label propagator (spec §4.5,
// component C5): after C4's max flow has saturated the min cut, this
// package walks the residual graph to decide every node's final NullType.
//
// C5 runs single-threaded, after C4, and is the only part of the engine
// allowed to write Node labels (spec §3).
package labels

import "github.com/nullaware/nullinfer/internal/nullgraph"

// Options tunes Propagate's behavior (internal/config wires these from
// the engine's own configuration).
type Options struct {
	// ParameterTieBreak enables step 4 (spec §4.5): without it, a
	// parameter the min cut left undetermined falls through to the
	// closed-world default (NonNull) like any other node.
	ParameterTieBreak bool
}

// DefaultOptions matches spec §4.5 exactly: the parameter tie-break runs.
func DefaultOptions() Options { return Options{ParameterTieBreak: true} }

// Propagate assigns a final NullType to every node in store with
// DefaultOptions. See PropagateWithOptions.
func Propagate(store *nullgraph.Store) {
	PropagateWithOptions(store, DefaultOptions())
}

// PropagateWithOptions assigns a final NullType to every node in store,
// following spec §4.5's steps in order: reset, non-null phase, nullable
// phase, an optional parameter tie-break, then a final sweep defaulting
// anything still Infer to NonNull. By the time it returns, no node's
// NullType() is Infer.
func PropagateWithOptions(store *nullgraph.Store, opts Options) {
	nodes := store.AllNodes()

	resetSinks(store)
	nonNullPhase(store, nodes)
	nullablePhase(store, nodes)
	if opts.ParameterTieBreak {
		parameterTieBreak(nodes)
	}
	finalSweep(nodes)
}

func resetSinks(store *nullgraph.Store) {
	store.NullableSink().SetLabel(nullgraph.Nullable)
	store.NonNullSink().SetLabel(nullgraph.NonNull)
}

// nonNullPhase labels NonNull every node that can reach NonNullSink by
// walking backward over incoming edges with positive residual capacity
// (spec §4.5 step 2: "saturated edges prune the non-null phase's reach").
func nonNullPhase(store *nullgraph.Store, nodes []*nullgraph.Node) {
	visited := make(map[*nullgraph.Node]bool, len(nodes))
	queue := []*nullgraph.Node{store.NonNullSink()}
	visited[store.NonNullSink()] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range cur.Incoming() {
			if e.Capacity <= 0 {
				continue
			}
			src := e.Source.Representative()
			if visited[src] || src.IsSink() {
				continue
			}
			visited[src] = true
			src.SetLabel(nullgraph.NonNull)
			queue = append(queue, src)
		}
	}
}

// nullablePhase labels Nullable every still-unlabelled node reachable
// forward from NullableSink, over every edge regardless of residual
// capacity (spec §4.5 step 3: "the nullable phase is not pruned by
// saturation").
func nullablePhase(store *nullgraph.Store, nodes []*nullgraph.Node) {
	visited := make(map[*nullgraph.Node]bool, len(nodes))
	queue := []*nullgraph.Node{store.NullableSink()}
	visited[store.NullableSink()] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range cur.Outgoing() {
			tgt := e.Target.Representative()
			if visited[tgt] || tgt.IsSink() {
				continue
			}
			visited[tgt] = true
			if tgt.RawNullType() == nullgraph.Infer {
				tgt.SetLabel(nullgraph.Nullable)
			}
			queue = append(queue, tgt)
		}
	}
}

// parameterTieBreak biases any still-Infer, caller-controlled position
// toward Nullable (spec §4.5 step 4): a parameter reachable by neither
// phase is one the min cut left undetermined, and a caller-supplied value
// should be assumed nullable rather than silently forced non-null.
func parameterTieBreak(nodes []*nullgraph.Node) {
	for _, n := range nodes {
		if !n.IsInputPosition() {
			continue
		}
		rep := n.Representative()
		if rep.RawNullType() == nullgraph.Infer {
			rep.SetLabel(nullgraph.Nullable)
		}
	}
}

// finalSweep copies every node's representative label down to itself
// (Oblivious and explicitly-pinned nodes are already resolved by earlier
// phases) and defaults anything still Infer to NonNull (spec §4.5 step 5,
// "closed-world default").
func finalSweep(nodes []*nullgraph.Node) {
	for _, n := range nodes {
		rep := n.Representative()
		if rep.RawNullType() == nullgraph.Infer {
			rep.SetLabel(nullgraph.NonNull)
		}
		if n != rep && n.RawNullType() != rep.RawNullType() {
			n.SetLabel(rep.RawNullType())
		}
	}
}

// CheckConsistency verifies the two invariants Propagate must establish:
// no node is left Infer, and every node's own label agrees with its
// equivalence class representative's label. It returns the first node
// that violates either, or nil if every node is consistent.
func CheckConsistency(store *nullgraph.Store) *nullgraph.Node {
	for _, n := range store.AllNodes() {
		if n.NullType() == nullgraph.Infer {
			return n
		}
		if n.RawNullType() != n.Representative().RawNullType() {
			return n
		}
	}
	return nil
}
