// Package builder implements the node builder (spec §4.2, component C2):
// the first pass over a translation unit that creates one nullability node
// per reference-typed syntactic position and memoises declared symbols'
// TypeWithNode composites.
//
// Since parsing and semantic analysis of the host language are explicitly
// out of scope (spec §1), this package does not walk a concrete AST
// itself. Instead the host toolchain describes each translation unit as a
// tree of TypeRef values — one per type-bearing syntactic position — which
// is exactly the information spec §4.2 says C2 needs: the position's kind,
// its resolved host type, whether the source spelled it with an explicit
// `T?`, and its nested generic-argument/array-element layers.
package builder

import (
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// TypeRef is one syntactic reference-type position in a translation unit.
// A TypeRef with a non-nil Symbol is a declaration site (parameter, field,
// local, method return) whose node must be memoised via
// nullgraph.Store.SymbolType so every later reference to that symbol
// resolves to the identical node; a TypeRef without a Symbol is an
// anonymous layer (a generic type argument, an array element) that still
// needs its own node but is never looked up by symbol identity.
type TypeRef struct {
	Layer nullgraph.Layer

	Syntax semantic.Syntax
	Symbol semantic.Symbol // nil for anonymous layers
	Type   semantic.Type

	// ExplicitNullable is true when the source spelled this position as
	// `T?` (spec §4.2 item 2); the edge pinning it to NullableSink is
	// added later, during C3 (internal/edges), since spec §3 reserves
	// edge creation for that pass.
	ExplicitNullable bool

	Children []*TypeRef
}

// Unit is one translation unit's full set of top-level type-bearing
// positions (every parameter, return type, field, and local declaration).
type Unit struct {
	Handle   semantic.TranslationUnit
	TopLevel []*TypeRef
}
