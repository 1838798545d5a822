package gosem

import (
	"go/ast"
	"go/types"

	"github.com/nullaware/nullinfer/internal/builder"
	"github.com/nullaware/nullinfer/internal/edges"
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Source adapts a set of loaded gosem Packages into an engine.Source,
// treating each parsed *ast.File as one translation unit. It declares
// nodes for parameters, results, struct fields, and explicitly typed var
// declarations, and it turns identifier-to-identifier assignments, nil
// assignments, and selector expressions on an identifier into edge
// actions.
//
// It is not a complete Go flow analysis: it never attempts to prove a
// pointer non-nil from a preceding `if x != nil` guard (so it always
// reports semantic.FlowUnknown), and it emits no actions for return
// statements, call arguments, call-site returns, or index expressions.
// It exists to drive the engine against real, type-checked Go source, not
// to replace a purpose-built host adapter.
type Source struct {
	Packages []*Package
}

// NewSource wraps pkgs as an engine.Source.
func NewSource(pkgs []*Package) *Source {
	return &Source{Packages: pkgs}
}

func (s *Source) fileOwner(f *ast.File) *Package {
	for _, p := range s.Packages {
		for _, file := range p.pkg.Syntax {
			if file == f {
				return p
			}
		}
	}
	return nil
}

// TranslationUnits returns every parsed file across every loaded package.
func (s *Source) TranslationUnits() []semantic.TranslationUnit {
	var out []semantic.TranslationUnit
	for _, p := range s.Packages {
		for _, f := range p.pkg.Syntax {
			out = append(out, f)
		}
	}
	return out
}

// BuildUnit walks f's declarations and produces one TypeRef per function
// parameter, result, struct field, and var declared with an explicit type,
// at package level or inside a function body. A var without an explicit
// type gets no TypeRef.
func (s *Source) BuildUnit(tu semantic.TranslationUnit) builder.Unit {
	f := tu.(*ast.File)
	pkg := s.fileOwner(f)
	unit := builder.Unit{Handle: tu}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Type.Params != nil {
				for _, field := range d.Type.Params.List {
					unit.TopLevel = append(unit.TopLevel, fieldRefs(pkg, field, nullgraph.LayerParameter)...)
				}
			}
			if d.Type.Results != nil {
				for _, field := range d.Type.Results.List {
					unit.TopLevel = append(unit.TopLevel, fieldRefs(pkg, field, nullgraph.LayerReturn)...)
				}
			}
			ast.Inspect(d.Body, func(n ast.Node) bool {
				gd, ok := n.(*ast.GenDecl)
				if ok {
					unit.TopLevel = append(unit.TopLevel, genDeclRefs(pkg, gd)...)
				}
				return true
			})

		case *ast.GenDecl:
			unit.TopLevel = append(unit.TopLevel, genDeclRefs(pkg, d)...)
		}
	}

	return unit
}

func genDeclRefs(pkg *Package, d *ast.GenDecl) []*builder.TypeRef {
	var out []*builder.TypeRef
	for _, spec := range d.Specs {
		switch sp := spec.(type) {
		case *ast.ValueSpec:
			if sp.Type == nil {
				continue
			}
			for _, name := range sp.Names {
				out = append(out, typeRefFor(pkg, name, sp.Type, nullgraph.LayerLocal))
			}
		case *ast.TypeSpec:
			st, ok := sp.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			for _, field := range st.Fields.List {
				out = append(out, fieldRefs(pkg, field, nullgraph.LayerField)...)
			}
		}
	}
	return out
}

func fieldRefs(pkg *Package, field *ast.Field, layer nullgraph.Layer) []*builder.TypeRef {
	if len(field.Names) == 0 {
		return []*builder.TypeRef{typeRefFor(pkg, field.Type, field.Type, layer)}
	}
	out := make([]*builder.TypeRef, 0, len(field.Names))
	for _, name := range field.Names {
		out = append(out, typeRefFor(pkg, name, field.Type, layer))
	}
	return out
}

// typeRefFor builds the TypeRef for a declared position: symbolSyntax is
// the identifier whose types.Object is memoised (nil-able: anonymous
// positions pass the type expression itself and get no Symbol);
// typeExpr is the type's own syntax, recursed into for slice/map layers.
func typeRefFor(pkg *Package, symbolSyntax, typeExpr ast.Expr, layer nullgraph.Layer) *builder.TypeRef {
	t := pkg.pkg.TypesInfo.TypeOf(typeExpr)
	ref := &builder.TypeRef{
		Layer:  layer,
		Syntax: typeExpr,
		Type:   t,
	}
	if ident, ok := symbolSyntax.(*ast.Ident); ok {
		if obj := pkg.pkg.TypesInfo.Defs[ident]; obj != nil {
			ref.Symbol = obj
		}
	}

	switch underlying := t.Underlying().(type) {
	case *types.Slice:
		ref.Children = []*builder.TypeRef{elementRef(pkg, underlying.Elem(), nullgraph.LayerArrayElement)}
	case *types.Map:
		ref.Children = []*builder.TypeRef{elementRef(pkg, underlying.Elem(), nullgraph.LayerTypeArgument)}
	}
	return ref
}

// elementRef builds an anonymous child TypeRef for a slice element or map
// value type, which has no syntax of its own distinct from its parent's.
func elementRef(pkg *Package, t types.Type, layer nullgraph.Layer) *builder.TypeRef {
	ref := &builder.TypeRef{Layer: layer, Type: t}
	switch underlying := t.Underlying().(type) {
	case *types.Slice:
		ref.Children = []*builder.TypeRef{elementRef(pkg, underlying.Elem(), nullgraph.LayerArrayElement)}
	case *types.Map:
		ref.Children = []*builder.TypeRef{elementRef(pkg, underlying.Elem(), nullgraph.LayerTypeArgument)}
	}
	return ref
}

// Actions walks f a second time, now translating assignments, nil
// assignments, and selector dereferences into edges.Action values. It resolves
// each identifier's TypeWithNode via store.SymbolType, which is safe
// because every symbol referenced here was already built during BuildUnit
// (possibly in a different file of the same package).
func (s *Source) Actions(store *nullgraph.Store, tu semantic.TranslationUnit, mapping nullgraph.SyntaxToNodeMapping) []edges.Action {
	f := tu.(*ast.File)
	pkg := s.fileOwner(f)
	var out []edges.Action

	lookup := func(expr ast.Expr) *nullgraph.TypeWithNode {
		ident, ok := expr.(*ast.Ident)
		if !ok {
			return nil
		}
		obj := pkg.pkg.TypesInfo.Uses[ident]
		if obj == nil {
			obj = pkg.pkg.TypesInfo.Defs[ident]
		}
		if obj == nil {
			return nil
		}
		return store.SymbolType(obj, func() *nullgraph.TypeWithNode {
			panic("gosem: Actions referenced a symbol BuildUnit never built: " + obj.Name())
		})
	}

	ast.Inspect(f, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.AssignStmt:
			for i, rhs := range node.Rhs {
				if i >= len(node.Lhs) {
					break
				}
				lhs := lookup(node.Lhs[i])
				if lhs == nil {
					continue
				}
				if isNilLiteral(rhs) {
					out = append(out, edges.Action{Kind: edges.NullLiteral, Consumer: lhs, Label: "nil assignment"})
					continue
				}
				if rv := lookup(rhs); rv != nil {
					out = append(out, edges.Action{Kind: edges.Assign, Producer: rv, Consumer: lhs, Label: "assignment"})
				}
			}

		case *ast.SelectorExpr:
			if tw := lookup(node.X); tw != nil && pkg.IsReferenceType(mustType(pkg, node.X)) {
				if _, ok := node.X.(*ast.Ident); ok {
					out = append(out, edges.Action{
						Kind:              edges.Dereference,
						Producer:          tw,
						Label:             "selector dereference",
						ProducerFlowState: semantic.FlowUnknown,
					})
				}
			}
		}
		return true
	})

	return out
}

func mustType(pkg *Package, expr ast.Expr) types.Type {
	return pkg.pkg.TypesInfo.TypeOf(expr)
}

func isNilLiteral(e ast.Expr) bool {
	ident, ok := e.(*ast.Ident)
	return ok && ident.Name == "nil"
}
