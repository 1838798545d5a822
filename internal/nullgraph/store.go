// Package nullgraph is the type system / node store (spec §4.1, component
// C1). It owns every NullabilityNode, the two synthetic sinks, the
// per-translation-unit syntax mapping, and the symbol-to-TypeWithNode
// memoisation table that lets C2 and C3 agree on node identity across
// translation units without a second traversal pass touching every symbol
// under a single lock (spec §9, "double-pass builder").
package nullgraph

import (
	"sync"

	"github.com/nullaware/nullinfer/internal/semantic"
)

// TypeWithNode pairs a host-language type with the node that applies to its
// outermost reference layer. Children holds the nested TypeWithNode values
// for generic type arguments or array element types, in declaration order
// (spec §3).
type TypeWithNode struct {
	HostType semantic.Type
	Node     *Node
	Layer    Layer
	Children []*TypeWithNode
}

// SyntaxToNodeMapping maps a syntax-node identity to its nullability node,
// required by the emitter (spec §3).
type SyntaxToNodeMapping map[semantic.Syntax]*Node

// Store is the concurrency-safe node/edge arena shared by every
// translation unit (spec §4.1). The zero value is not usable; construct
// one with NewStore.
type Store struct {
	mu sync.Mutex

	nodes []*Node

	nullableSink *Node
	nonNullSink  *Node
	oblivious    *Node

	symbolTypes map[semanticSymbolKey]*TypeWithNode

	mappings map[semantic.TranslationUnit]SyntaxToNodeMapping
}

// semanticSymbolKey exists only so a nil-ish or non-comparable Symbol
// cannot panic the whole store; hosts are expected to hand back comparable
// symbols (pointers or interned IDs) such as go/types' types.Object.
type semanticSymbolKey = semantic.Symbol

// NewStore constructs an empty Store with its two sinks already present.
func NewStore() *Store {
	s := &Store{
		symbolTypes: make(map[semanticSymbolKey]*TypeWithNode),
		mappings:    make(map[semantic.TranslationUnit]SyntaxToNodeMapping),
	}
	s.nullableSink = s.newNodeLocked(semantic.Position{}, "NullableSink")
	s.nullableSink.nullType = Nullable
	s.nullableSink.isSink = true
	s.nonNullSink = s.newNodeLocked(semantic.Position{}, "NonNullSink")
	s.nonNullSink.nullType = NonNull
	s.nonNullSink.isSink = true
	s.oblivious = s.newNodeLocked(semantic.Position{}, "Oblivious")
	s.oblivious.nullType = Oblivious
	return s
}

func (s *Store) newNodeLocked(loc semantic.Position, name string) *Node {
	n := &Node{
		id:       len(s.nodes),
		nullType: Infer,
		rank:     0,
		location: loc,
		name:     name,
	}
	n.replacedWith = n
	s.nodes = append(s.nodes, n)
	return n
}

// NewNode allocates a fresh Infer node (spec §4.1).
func (s *Store) NewNode(loc semantic.Position, name string) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newNodeLocked(loc, name)
}

// NewOblivious returns the shared singleton used for value types (spec
// §4.1). It is always labelled Oblivious and is never unified with any
// other node.
func (s *Store) NewOblivious() *Node {
	return s.oblivious
}

// NullableSink returns the NullableSink node.
func (s *Store) NullableSink() *Node { return s.nullableSink }

// NonNullSink returns the NonNullSink node.
func (s *Store) NonNullSink() *Node { return s.nonNullSink }

// MarkInputPosition flags n as a parameter or other caller-controlled
// position, eligible for the C5 parameter tie-break (spec §4.5 step 4).
func (s *Store) MarkInputPosition(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.isInputPosition = true
}

// AddEdge registers a directed edge from src to tgt (spec §4.1). Duplicate
// edges between the same pair of nodes are permitted and are treated as
// parallel capacity by the solver.
func (s *Store) AddEdge(src, tgt *Node, capacity int, label string) *Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEdgeLocked(src, tgt, capacity, label)
}

func (s *Store) addEdgeLocked(src, tgt *Node, capacity int, label string) *Edge {
	e := &Edge{Source: src, Target: tgt, Capacity: capacity, Label: label}
	src.outgoing = append(src.outgoing, e)
	tgt.incoming = append(tgt.incoming, e)
	return e
}

// Unify merges a and b into one union-find equivalence class and adds two
// infinite-capacity edges a<->b so the solver can never separate them
// (spec §4.1). If either class is headed by a sink, only the two edges are
// added and the classes are not merged (spec §3 invariant).
func (s *Store) Unify(a, b *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ra, rb := a.Representative(), b.Representative()
	if ra == rb {
		s.addEdgeLocked(a, b, InfiniteCapacity, "unify")
		s.addEdgeLocked(b, a, InfiniteCapacity, "unify")
		return
	}
	if ra.isSink || rb.isSink {
		// Sinks are never merged (spec §3); still wire the infinite edges
		// so the solver treats them as equal without touching replacedWith.
		s.addEdgeLocked(a, b, InfiniteCapacity, "unify")
		s.addEdgeLocked(b, a, InfiniteCapacity, "unify")
		return
	}

	if ra.rank < rb.rank {
		ra, rb = rb, ra
	}
	rb.replacedWith = ra
	if ra.rank == rb.rank {
		ra.rank++
	}

	s.addEdgeLocked(a, b, InfiniteCapacity, "unify")
	s.addEdgeLocked(b, a, InfiniteCapacity, "unify")
}

// SymbolType returns the memoised TypeWithNode for sym, computing it via
// compute on first request. compute must not call SymbolType for sym
// itself (that would deadlock nothing here, since the lock is released
// before compute runs, but would defeat memoisation); it may freely call
// SymbolType for other symbols it depends on, e.g. a generic field
// position substituting a type argument's own TypeWithNode (spec §4.1,
// §4.3 "Generic substitution").
func (s *Store) SymbolType(sym semantic.Symbol, compute func() *TypeWithNode) *TypeWithNode {
	s.mu.Lock()
	if tw, ok := s.symbolTypes[sym]; ok {
		s.mu.Unlock()
		return tw
	}
	s.mu.Unlock()

	tw := compute()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.symbolTypes[sym]; ok {
		// Another goroutine computed it first; discard ours to preserve
		// the "same TypeWithNode by identity" guarantee (spec §4.1).
		return existing
	}
	s.symbolTypes[sym] = tw
	return tw
}

// RegisterNodes publishes a translation unit's syntax→node mapping. Called
// once per TU after C2 (spec §4.1).
func (s *Store) RegisterNodes(tu semantic.TranslationUnit, mapping SyntaxToNodeMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[tu] = mapping
}

// Mapping returns the published mapping for tu, if any.
func (s *Store) Mapping(tu semantic.TranslationUnit) (SyntaxToNodeMapping, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mappings[tu]
	return m, ok
}

// AllNodes returns every node in the arena, in stable creation order (spec
// §5, "deterministic given a deterministic TU ordering").
func (s *Store) AllNodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// NodesInInputPositions returns every node flagged as a parameter or other
// caller-controlled position (spec §4.1, §4.5 step 4).
func (s *Store) NodesInInputPositions() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, n := range s.nodes {
		if n.isInputPosition {
			out = append(out, n)
		}
	}
	return out
}
