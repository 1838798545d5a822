package edges

import (
	"github.com/nullaware/nullinfer/internal/builder"
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Build runs C3 over a batch of Actions, adding the flow edges spec §4.3
// describes for each. Actions from different translation units may be
// built concurrently (the engine fans this call out per-TU); Build itself
// only ever calls nullgraph.Store methods, which are safe for concurrent
// use.
func Build(store *nullgraph.Store, actions []Action) {
	for _, a := range actions {
		apply(store, a)
	}
}

// PinExplicitAnnotations walks a translation unit's TypeRef tree (already
// built by internal/builder) and pins every explicitly-spelled `T?`
// position to NullableSink. It is kept separate from internal/builder
// because spec §3 reserves edge creation for C3, even though the
// information driving it (ExplicitNullable) was recorded during C2.
func PinExplicitAnnotations(store *nullgraph.Store, mapping nullgraph.SyntaxToNodeMapping, unit builder.Unit) {
	for _, ref := range unit.TopLevel {
		pinExplicit(store, mapping, ref)
	}
}

func pinExplicit(store *nullgraph.Store, mapping nullgraph.SyntaxToNodeMapping, ref *builder.TypeRef) {
	if ref.ExplicitNullable && ref.Syntax != nil {
		if n, ok := mapping[ref.Syntax]; ok {
			store.AddEdge(store.NullableSink(), n, nullgraph.InfiniteCapacity, "explicit ?")
		}
	}
	for _, c := range ref.Children {
		pinExplicit(store, mapping, c)
	}
}

// SubstituteGenericArgument wires a generic declaration's field/member node
// (e.g. Box<T>'s T-typed field) to a concrete instantiation site's type
// argument node (e.g. Box<string>'s string argument), spec §4.3's "Generic
// substitution" row. Reference-type generic arguments are invariant, so
// both directions are connected, the same as an invariant child recursion.
func SubstituteGenericArgument(store *nullgraph.Store, declared, instantiated *nullgraph.TypeWithNode) {
	connect(store, declared, instantiated, 1, "generic substitution")
	connect(store, instantiated, declared, 1, "generic substitution")
}

func apply(store *nullgraph.Store, a Action) {
	switch a.Kind {
	case Assign:
		connect(store, a.Producer, a.Consumer, 1, a.Label)

	case Return:
		connect(store, a.Producer, a.Consumer, 1, a.Label)

	case Argument:
		connect(store, a.Producer, a.Consumer, 1, a.Label)

	case CallReturn:
		connect(store, a.Producer, a.Consumer, 1, a.Label)

	case NullLiteral:
		store.AddEdge(store.NullableSink(), a.Consumer.Node, nullgraph.InfiniteCapacity, a.Label)

	case ConditionalAccess:
		store.AddEdge(store.NullableSink(), a.Consumer.Node, nullgraph.InfiniteCapacity, a.Label)

	case Dereference:
		// Flow-analysis hint (spec §4.3): if the host already proved the
		// dereferenced expression is non-null here, no constraint (and no
		// diagnostic edge) is needed at all — spec §8 scenario 4.
		if a.ProducerFlowState == semantic.FlowDefinitelyNotNull {
			return
		}
		e := store.AddEdge(a.Producer.Node, store.NonNullSink(), 1, a.Label)
		e.IsError = true

	case NullCoalescing:
		// The nullable phase (internal/labels) walks every outgoing edge
		// regardless of residual capacity (spec §4.5 step 3), so a
		// capacity-0 edge alone would not stop the left operand's
		// nullability from propagating to result — it would only affect
		// the max-flow computation. When the host's own flow analysis has
		// already narrowed the left operand to non-null at this point
		// (`??`'s own semantics: the left branch only contributes when it
		// is non-null), the edge is omitted entirely, the same way
		// Dereference omits its edge under the identical condition (spec
		// §8 scenario 2: `x ?? ""` must leave the result non-null even
		// though x itself is nullable).
		if a.ProducerFlowState != semantic.FlowDefinitelyNotNull {
			store.AddEdge(a.Producer.Node, a.Consumer.Node, 1, a.Label)
		}
		store.AddEdge(a.Operand2.Node, a.Consumer.Node, 1, a.Label)

	case OverrideParam:
		unifyTree(store, a.Producer, a.Consumer)

	case OverrideReturn:
		unifyTree(store, a.Producer, a.Consumer)
	}
}

// connect wires producer -> consumer at capacity, then recurses pairwise
// into their generic-argument/array-element children, picking direction
// per child from that child's own Layer.RecursionVariance() (spec §4.3).
func connect(store *nullgraph.Store, producer, consumer *nullgraph.TypeWithNode, capacity int, label string) {
	if producer == nil || consumer == nil {
		return
	}
	store.AddEdge(producer.Node, consumer.Node, capacity, label)

	n := len(producer.Children)
	if len(consumer.Children) < n {
		n = len(consumer.Children)
	}
	for i := 0; i < n; i++ {
		pc, cc := producer.Children[i], consumer.Children[i]
		switch cc.Layer.RecursionVariance() {
		case nullgraph.VarianceInvariant:
			connect(store, pc, cc, 1, label)
			connect(store, cc, pc, 1, label)
		case nullgraph.VarianceCovariant:
			connect(store, pc, cc, 1, label)
		case nullgraph.VarianceContravariant:
			connect(store, cc, pc, 1, label)
		}
	}
}

// unifyTree force-merges a and b's equivalence classes, then recurses
// pairwise into their children, skipping the shared Oblivious singleton
// (which must never be unified with anything, since it is not per-position).
func unifyTree(store *nullgraph.Store, a, b *nullgraph.TypeWithNode) {
	if a == nil || b == nil || a.Node == store.NewOblivious() || b.Node == store.NewOblivious() {
		return
	}
	store.Unify(a.Node, b.Node)

	n := len(a.Children)
	if len(b.Children) < n {
		n = len(b.Children)
	}
	for i := 0; i < n; i++ {
		unifyTree(store, a.Children[i], b.Children[i])
	}
}
