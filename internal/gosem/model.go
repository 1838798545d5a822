// Package gosem is a semantic.Model implementation over real Go source,
// using golang.org/x/tools/go/packages and go/types. It exists both as an
// integration-test fixture and as the engine's demo host: Go has no
// syntactic `T?`, so this model treats a pointer type `*T` as the
// host-language analogue of a nullable reference type `T?`. The other
// nilable kinds (interface, map, slice, channel, function) are
// nullable-capable too; struct and basic value types are not (Oblivious
// once they reach internal/builder, since those values are never nil).
package gosem

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/nullaware/nullinfer/internal/semantic"
)

// Package wraps one loaded Go package as a semantic.Model.
type Package struct {
	pkg *packages.Package
}

// Load resolves pattern (a Go package path or pattern, e.g. "./...") in
// dir using go/packages, with full type information loaded, and returns
// one semantic.Model per matched package.
func Load(dir, pattern string) ([]*Package, error) {
	cfg := &packages.Config{
		Dir: dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("gosem: loading %q: %w", pattern, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("gosem: %q failed to type-check", pattern)
	}

	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, &Package{pkg: p})
	}
	return out, nil
}

// Files returns this package's parsed files, each a semantic.TranslationUnit.
func (p *Package) Files() []*ast.File {
	return p.pkg.Syntax
}

// Fset returns the file set positions are resolved against.
func (p *Package) Fset() *token.FileSet {
	return p.pkg.Fset
}

// SymbolFor resolves the types.Object an identifier refers to, checking
// both definition and use sites.
func (p *Package) SymbolFor(s semantic.Syntax) (semantic.Symbol, bool) {
	ident, ok := s.(*ast.Ident)
	if !ok {
		return nil, false
	}
	if obj := p.pkg.TypesInfo.Defs[ident]; obj != nil {
		return obj, true
	}
	if obj := p.pkg.TypesInfo.Uses[ident]; obj != nil {
		return obj, true
	}
	return nil, false
}

// TypeFor resolves the static type of an expression.
func (p *Package) TypeFor(s semantic.Syntax) (semantic.Type, bool) {
	expr, ok := s.(ast.Expr)
	if !ok {
		return nil, false
	}
	t := p.pkg.TypesInfo.TypeOf(expr)
	if t == nil {
		return nil, false
	}
	return t, true
}

// IsReferenceType reports whether t is one of Go's inherently nilable
// kinds: pointer, interface, map, slice, channel, or function.
func (p *Package) IsReferenceType(t semantic.Type) bool {
	return isReferenceType(t)
}

func isReferenceType(t semantic.Type) bool {
	gt, ok := t.(types.Type)
	if !ok {
		return false
	}
	switch gt.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return true
	default:
		return false
	}
}

// CanBeMadeNullable reports whether t's outermost layer can carry a
// nullability annotation. In this Go mapping, that is exactly the
// reference kinds: a *T position is the one that can be written nullable
// or non-null; a struct or basic value never can.
func (p *Package) CanBeMadeNullable(t semantic.Type) bool {
	return isReferenceType(t)
}

// FlowStateBefore always reports FlowUnknown: this model performs no flow
// analysis of its own, so internal/edges' flow-analysis-hint rule never
// fires for Go-sourced translation units (spec §6, "optional: hosts that
// do not perform flow analysis may always return FlowUnknown").
func (p *Package) FlowStateBefore(semantic.Syntax) semantic.FlowState {
	return semantic.FlowUnknown
}

// PositionOf returns s's position if s is an ast.Node, or the zero
// Position otherwise.
func (p *Package) PositionOf(s semantic.Syntax) semantic.Position {
	node, ok := s.(ast.Node)
	if !ok {
		return semantic.Position{}
	}
	pos := p.pkg.Fset.Position(node.Pos())
	return semantic.Position{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// MultiPackageModel combines every Package loaded by one Load call into a
// single semantic.Model, delegating SymbolFor/TypeFor to whichever
// package's TypesInfo actually resolves the syntax node (every package
// from the same Load call shares one token.FileSet, so PositionOf and the
// type predicates, which only inspect the go/types.Type itself, are safe
// to answer from any member).
type MultiPackageModel struct {
	Packages []*Package
}

// NewModel wraps pkgs (typically the result of a single Load call) as one
// semantic.Model.
func NewModel(pkgs []*Package) *MultiPackageModel {
	return &MultiPackageModel{Packages: pkgs}
}

func (m *MultiPackageModel) SymbolFor(s semantic.Syntax) (semantic.Symbol, bool) {
	for _, p := range m.Packages {
		if sym, ok := p.SymbolFor(s); ok {
			return sym, true
		}
	}
	return nil, false
}

func (m *MultiPackageModel) TypeFor(s semantic.Syntax) (semantic.Type, bool) {
	for _, p := range m.Packages {
		if t, ok := p.TypeFor(s); ok {
			return t, true
		}
	}
	return nil, false
}

func (m *MultiPackageModel) IsReferenceType(t semantic.Type) bool   { return isReferenceType(t) }
func (m *MultiPackageModel) CanBeMadeNullable(t semantic.Type) bool { return isReferenceType(t) }

func (m *MultiPackageModel) FlowStateBefore(semantic.Syntax) semantic.FlowState {
	return semantic.FlowUnknown
}

func (m *MultiPackageModel) PositionOf(s semantic.Syntax) semantic.Position {
	if len(m.Packages) == 0 {
		return semantic.Position{}
	}
	return m.Packages[0].PositionOf(s)
}

var _ semantic.Model = (*MultiPackageModel)(nil)
