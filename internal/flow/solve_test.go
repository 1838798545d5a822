package flow

import (
	"testing"

	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// TestSolveLeavesUnreachableDereferenceUnsaturated is spec §8 scenario 5
// (unchecked dereference): a single parameter node feeds a capacity-1 error
// edge to NonNullSink, but nothing connects NullableSink to the parameter,
// so max flow is 0 and that edge keeps its full capacity (residual 1).
func TestSolveLeavesUnreachableDereferenceUnsaturated(t *testing.T) {
	s := nullgraph.NewStore()
	param := s.NewNode(semantic.Position{}, "s")
	e := s.AddEdge(param, s.NonNullSink(), 1, "dereference")
	e.IsError = true

	flow := Solve(s)
	if flow != 0 {
		t.Fatalf("flow = %d, want 0 (no NullableSink source path exists)", flow)
	}
	if e.Capacity != 1 {
		t.Fatalf("edge capacity = %d, want untouched 1 (no flow ever reached it)", e.Capacity)
	}
}

// TestSolveSaturatesForcedPath mirrors spec §8 scenario 5's actual shape:
// NullableSink -> param (explicit ?) -> NonNullSink (dereference). The
// min-cut must saturate the single capacity-1 edge on the path.
func TestSolveSaturatesForcedPath(t *testing.T) {
	s := nullgraph.NewStore()
	param := s.NewNode(semantic.Position{}, "s")
	s.AddEdge(s.NullableSink(), param, nullgraph.InfiniteCapacity, "explicit ?")
	deref := s.AddEdge(param, s.NonNullSink(), 1, "dereference")
	deref.IsError = true

	flow := Solve(s)
	if flow != 1 {
		t.Fatalf("flow = %d, want 1", flow)
	}
	if deref.Capacity != 0 {
		t.Fatalf("dereference edge residual = %d, want 0 (saturated)", deref.Capacity)
	}
}

// TestSolveParallelEdgesAggregate checks spec §4.1's "duplicate edges are
// permitted; the solver treats them as parallel capacity": two capacity-1
// edges between the same pair behave like one capacity-2 edge.
func TestSolveParallelEdgesAggregate(t *testing.T) {
	s := nullgraph.NewStore()
	a := s.NewNode(semantic.Position{}, "a")
	s.AddEdge(s.NullableSink(), a, 1, "e1")
	s.AddEdge(s.NullableSink(), a, 1, "e2")
	s.AddEdge(a, s.NonNullSink(), nullgraph.InfiniteCapacity, "sink")

	flow := Solve(s)
	if flow != 2 {
		t.Fatalf("flow = %d, want 2 (two parallel unit-capacity edges)", flow)
	}
}

// TestSolveGuardedReturnHasNoPath is spec §8 scenario 2 ("a ?? ''"): the
// guarded value has no forced path to NonNullSink, so max flow stays 0 and
// nothing saturates.
func TestSolveGuardedReturnHasNoPath(t *testing.T) {
	s := nullgraph.NewStore()
	param := s.NewNode(semantic.Position{}, "x")
	ret := s.NewNode(semantic.Position{}, "return")
	s.AddEdge(s.NullableSink(), param, nullgraph.InfiniteCapacity, "explicit ?")
	// a ?? "" : only the literal "" feeds ret with a forced non-null edge
	// in a guarded return; param itself never reaches ret.
	s.AddEdge(ret, s.NonNullSink(), 1, "unused")

	flow := Solve(s)
	if flow != 0 {
		t.Fatalf("flow = %d, want 0", flow)
	}
	_ = param
}
