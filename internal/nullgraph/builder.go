package nullgraph

import "github.com/nullaware/nullinfer/internal/semantic"

// Builder is a per-translation-unit local buffer for node creation (spec
// §4.1, §9 "double-pass builder"). Using a Builder instead of calling
// Store.NewNode directly keeps lock contention at O(number of translation
// units): every node created through a Builder is invisible to the rest of
// the Store until a single call to Flush appends the whole batch and
// assigns final stable arena indices.
type Builder struct {
	store   *Store
	pending []*Node
}

// NewBuilder returns a Builder that will flush into s.
func (s *Store) NewBuilder() *Builder {
	return &Builder{store: s}
}

// NewNode allocates a fresh Infer node in this builder's local buffer.
func (b *Builder) NewNode(loc semantic.Position, name string) *Node {
	n := &Node{id: -1, nullType: Infer, location: loc, name: name}
	n.replacedWith = n
	b.pending = append(b.pending, n)
	return n
}

// NewOblivious returns the store's shared Oblivious singleton.
func (b *Builder) NewOblivious() *Node {
	return b.store.NewOblivious()
}

// MarkInputPosition flags n as a parameter or other caller-controlled
// position, eligible for the C5 parameter tie-break.
func (b *Builder) MarkInputPosition(n *Node) {
	n.isInputPosition = true
}

// Flush publishes every node created through this builder into the Store's
// arena, assigns them final stable indices, and registers the translation
// unit's syntax→node mapping (spec §4.1, "register_nodes").
func (b *Builder) Flush(tu semantic.TranslationUnit, mapping SyntaxToNodeMapping) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, n := range b.pending {
		n.id = len(b.store.nodes)
		b.store.nodes = append(b.store.nodes, n)
	}
	b.store.mappings[tu] = mapping
}
