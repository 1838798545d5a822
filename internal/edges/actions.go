// Package edges implements the edge builder (spec §4.3, component C3):
// the second pass over a translation unit, which is where "the semantic
// heart of the engine" lives — the table of flow-edge rules in spec
// §4.3.
//
// Like internal/builder, this package does not walk a concrete host AST.
// The host toolchain (or, for this repository's own tests and demo,
// internal/gosem) reduces each construct relevant to nullability flow
// (an assignment, a return, an argument pass, a dereference, ...) to an
// Action value built from the TypeWithNode composites internal/builder
// and internal/nullgraph.Store.SymbolType already produced.
package edges

import (
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Kind names one row of the spec §4.3 rule table.
type Kind int

const (
	// Assign covers `lhs = rhs`, including field/local initialisation.
	Assign Kind = iota
	// Return covers `return e` from a method.
	Return
	// Argument covers a call argument flowing into a parameter.
	Argument
	// CallReturn covers a method call's return value flowing to its call
	// site.
	CallReturn
	// NullLiteral covers a literal `null`/`nil`.
	NullLiteral
	// Dereference covers a non-null-dereference consumer: member access,
	// indexer, or an explicit `!` suppression consumer.
	Dereference
	// ConditionalAccess covers `x?.Foo`.
	ConditionalAccess
	// NullCoalescing covers `a ?? b`.
	NullCoalescing
	// OverrideParam unifies an overriding method's parameter with the
	// overridden method's parameter (contravariant position, spec §4.3's
	// override row and the §9 Open Question about unifying rather than
	// allowing divergence).
	OverrideParam
	// OverrideReturn unifies an overriding method's return type with the
	// overridden method's return type (covariant position).
	OverrideReturn
)

// Action is one instance of a spec §4.3 rule, already resolved to the
// TypeWithNode composites it connects.
type Action struct {
	Kind     Kind
	Position semantic.Position
	Label    string

	// Producer is the "nullable end": the rhs of an assignment, the
	// returned expression, the passed argument, the callee's return type,
	// the dereferenced expression, or coalescing's left operand.
	Producer *nullgraph.TypeWithNode

	// Consumer is the "non-null end": the assignment target, the method's
	// declared return type, the parameter, the call site, or coalescing's
	// result.
	Consumer *nullgraph.TypeWithNode

	// Operand2 is NullCoalescing's right-hand operand (`b` in `a ?? b`).
	Operand2 *nullgraph.TypeWithNode

	// ProducerFlowState is the host's flow-analysis verdict immediately
	// before this construct, consulted by Dereference and NullCoalescing
	// (spec §4.3's flow-analysis-hint row).
	ProducerFlowState semantic.FlowState
}
