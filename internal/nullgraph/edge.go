package nullgraph

// InfiniteCapacity stands in for "∞" (spec §3): large enough that no
// realistic translation-unit graph could ever saturate it through ordinary
// flow, reserved for equivalence-unification edges and pinned-annotation
// edges that must never be cut.
const InfiniteCapacity = 1 << 30

// Edge is a directed flow edge (spec §3). Edges are created exclusively
// during C3 (internal/edges), including the pinning edges
// edges.PinExplicitAnnotations adds for explicit `T?` annotations; the
// only other source is the two synthetic edges Store.Unify adds itself.
type Edge struct {
	Source *Node
	Target *Node

	// Capacity holds the original capacity until C4 runs, and the residual
	// capacity (original minus flow) afterward (spec §3, §4.4).
	Capacity int

	// IsError marks an edge asserted "required non-null" by the host
	// (e.g. a dereference context). Surfaced as a diagnostic only if the
	// solver finds nonzero flow through it (spec §3, §7.3).
	IsError bool

	// Label is a diagnostic string describing the edge's origin, e.g.
	// "assignment at L:C" or "argument of T" (spec §3).
	Label string
}
