// Package semantic defines the collaborator contracts the nullability
// inference engine needs from a host-language toolchain. Nothing in this
// package parses or type-checks source; it only describes what a host must
// answer about syntax it has already resolved (spec §6).
package semantic

// Position is an optional source location, used only for diagnostics.
type Position struct {
	File   string
	Line   int
	Column int
}

// Symbol is an opaque handle to a declared host-language symbol (parameter,
// field, property, method, local). The engine never inspects a Symbol's
// contents; it only uses it as a map key into Model and as the identity
// memoised by the type system (spec §4.1, symbol_type).
type Symbol any

// Syntax is an opaque handle to a syntax node in the host language's AST.
// Used as the key of the per-translation-unit SyntaxToNodeMapping (spec §3).
type Syntax any

// Type is an opaque handle to a host-language resolved type.
type Type any

// FlowState is the result of the host's own flow analysis at a given point,
// consumed only by the "flow-analysis hint" edge rule (spec §4.3).
type FlowState int

const (
	FlowUnknown FlowState = iota
	FlowDefinitelyNotNull
	FlowMaybeNull
)

// TranslationUnit is an opaque handle to one host compilation unit (file,
// module, whatever granularity the host parallelizes over). The driver
// (spec §4.6, §5) schedules C2 and C3 once per TranslationUnit.
type TranslationUnit any

// Model is the semantic collaborator a host toolchain must provide per
// translation unit (spec §6). Implementations are read-only after
// construction and may be shared across the builder/edge-builder goroutines
// the driver spawns (spec §5, "semantic model... may be shared across
// reader threads").
type Model interface {
	// SymbolFor resolves the symbol a syntax node refers to, if any.
	SymbolFor(s Syntax) (Symbol, bool)

	// TypeFor resolves the static type of an expression syntax node.
	TypeFor(s Syntax) (Type, bool)

	// IsReferenceType reports whether t is a reference type (as opposed to
	// a value type, which the builder maps to the shared Oblivious node).
	IsReferenceType(t Type) bool

	// CanBeMadeNullable reports whether t's outermost layer can carry a
	// nullability annotation: reference types, unconstrained type
	// parameters, and generic types whose innermost layer qualifies.
	CanBeMadeNullable(t Type) bool

	// FlowStateBefore reports the host's own flow-analysis verdict
	// immediately before the given syntax node executes. Optional: hosts
	// that do not perform flow analysis may always return FlowUnknown.
	FlowStateBefore(s Syntax) FlowState

	// PositionOf returns a best-effort source location for diagnostics.
	PositionOf(s Syntax) Position
}
