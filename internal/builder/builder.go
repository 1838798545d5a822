package builder

import (
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Build runs C2 over a single translation unit: it creates one
// NullabilityNode per qualifying type-bearing syntactic position, memoises
// the TypeWithNode composite for every declared symbol, and returns the
// syntax→node mapping C3 and the emitter both need.
//
// Build does not touch any other translation unit's state beyond the
// cross-TU symbol memoisation already serialized inside store (spec §4.2,
// "does not read other translation units").
func Build(store *nullgraph.Store, model semantic.Model, unit Unit) nullgraph.SyntaxToNodeMapping {
	nb := store.NewBuilder()
	mapping := make(nullgraph.SyntaxToNodeMapping)

	for _, ref := range unit.TopLevel {
		buildRef(store, nb, model, ref, mapping)
	}

	nb.Flush(unit.Handle, mapping)
	return mapping
}

// buildRef creates (or reuses, via symbol memoisation) the node for ref
// and recurses into its generic-argument / array-element children.
func buildRef(store *nullgraph.Store, nb *nullgraph.Builder, model semantic.Model, ref *TypeRef, mapping nullgraph.SyntaxToNodeMapping) *nullgraph.TypeWithNode {
	var tw *nullgraph.TypeWithNode

	if ref.Symbol != nil {
		// Declared symbols are memoised once, globally: every later
		// reference to this symbol (in this TU or another) must resolve
		// to the identical TypeWithNode (spec §4.1).
		tw = store.SymbolType(ref.Symbol, func() *nullgraph.TypeWithNode {
			return newTypeWithNode(store, nb, model, ref, mapping)
		})
	} else {
		tw = newTypeWithNode(store, nb, model, ref, mapping)
	}

	if ref.Syntax != nil {
		mapping[ref.Syntax] = tw.Node
	}
	if ref.Layer == nullgraph.LayerParameter {
		nb.MarkInputPosition(tw.Node)
	}
	return tw
}

func newTypeWithNode(store *nullgraph.Store, nb *nullgraph.Builder, model semantic.Model, ref *TypeRef, mapping nullgraph.SyntaxToNodeMapping) *nullgraph.TypeWithNode {
	var node *nullgraph.Node
	if model.CanBeMadeNullable(ref.Type) {
		node = nb.NewNode(model.PositionOf(ref.Syntax), ref.Layer.String())
	} else {
		node = nb.NewOblivious()
	}

	tw := &nullgraph.TypeWithNode{HostType: ref.Type, Node: node, Layer: ref.Layer}
	for _, child := range ref.Children {
		tw.Children = append(tw.Children, buildRef(store, nb, model, child, mapping))
	}
	return tw
}
