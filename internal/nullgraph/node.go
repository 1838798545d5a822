package nullgraph

import "github.com/nullaware/nullinfer/internal/semantic"

// NullType is the label carried by a Node, see spec §3.
type NullType int

const (
	// Infer marks a node whose label has not yet been decided by the solver.
	Infer NullType = iota
	// Nullable marks a node that must (or may) be null.
	Nullable
	// NonNull marks a node that must not be null.
	NonNull
	// Oblivious marks a value-typed or otherwise inapplicable position.
	// Oblivious never changes and is never reached by inference.
	Oblivious
)

func (n NullType) String() string {
	switch n {
	case Nullable:
		return "Nullable"
	case NonNull:
		return "NonNull"
	case Oblivious:
		return "Oblivious"
	default:
		return "Infer"
	}
}

// Node is one inferrable nullability position (spec §3). Nodes are created
// exclusively during C2 (internal/builder), referenced by stable index so
// that the union-find and edge lists never need to move or reallocate once
// published (spec §9, "represent nodes in a single arena and reference them
// by stable index").
type Node struct {
	id       int
	nullType NullType

	// replacedWith is the union-find parent. A node whose replacedWith is
	// itself is its own representative.
	replacedWith *Node

	// rank is used for union-by-rank; it is meaningless once a node has a
	// non-self replacedWith.
	rank int

	incoming []*Edge
	outgoing []*Edge

	location semantic.Position
	name     string

	// isInputPosition marks a node that was registered as a parameter or
	// other caller-controlled location, eligible for the parameter
	// tie-break in C5 (spec §4.5 step 4).
	isInputPosition bool

	// isSink marks NullableSink/NonNullSink; sinks are never merged into
	// an equivalence class headed by another node (spec §3 invariant).
	isSink bool
}

// ID returns the node's stable arena index.
func (n *Node) ID() int { return n.id }

// Name returns the node's human-readable label.
func (n *Node) Name() string { return n.name }

// Location returns the node's best-effort source position.
func (n *Node) Location() semantic.Position { return n.location }

// IsInputPosition reports whether this node is eligible for the
// parameter-bias tie-break (spec §4.5 step 4).
func (n *Node) IsInputPosition() bool { return n.isInputPosition }

// NullType returns the node's current label. During C2/C3 this is always
// Infer or Oblivious, apart from the two sinks' fixed labels (a node pinned
// by an explicit `T?` annotation only gains an edge from NullableSink and
// stays Infer); C5 is the only phase allowed to change it
// further (spec §3, "Labels are written exclusively during C5").
func (n *Node) NullType() NullType { return n.Representative().nullType }

// setNullType assigns a label directly to this node without touching its
// representative; callers must already be operating on a representative
// (internal/labels enforces this).
func (n *Node) setNullType(t NullType) { n.nullType = t }

// SetLabel assigns n's label directly. It is exported solely for
// internal/labels (C5), the only phase allowed to write labels (spec §3,
// "Labels are written exclusively during C5"); every other package must
// treat NullType as read-only. Callers must pass a representative node
// (n.Representative()), never an arbitrary member of an equivalence class.
func (n *Node) SetLabel(t NullType) { n.setNullType(t) }

// RawNullType returns n's own label without resolving to its
// representative, used by internal/labels' consistency check
// (n.NullType() == n.Representative().NullType()).
func (n *Node) RawNullType() NullType { return n.nullType }

// Representative returns the union-find representative for n, compressing
// the path (halving) as it walks so repeated lookups stay near O(1)
// amortized (spec §9 supplement: the spec describes the union but not the
// compression strategy).
func (n *Node) Representative() *Node {
	for n.replacedWith != n {
		n.replacedWith = n.replacedWith.replacedWith
		n = n.replacedWith
	}
	return n
}

// IsSink reports whether n is NullableSink or NonNullSink.
func (n *Node) IsSink() bool { return n.isSink }

// Incoming returns the node's incoming edges (adjacency list, spec §3).
func (n *Node) Incoming() []*Edge { return n.incoming }

// Outgoing returns the node's outgoing edges.
func (n *Node) Outgoing() []*Edge { return n.outgoing }
