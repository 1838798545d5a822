// Package rewrite declares the two syntax-rewriting collaborators spec §6
// treats as external: a normaliser that adds `?` to every reference-typed
// position before analysis, and the emitter that writes each node's final
// label back into source text. Neither performs semantic analysis; both
// are trivial tree transformations given a label.
package rewrite

import (
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// AllNullableRewriter produces a normalised compilation where every
// syntactic reference-typed position is spelled `T?` (spec §6). The engine
// expects this as its input shape, so that an unannotated position always
// means "the host never committed to non-null" rather than "the original
// author wrote non-null and meant it".
type AllNullableRewriter interface {
	MakeAllReferenceTypesNullable(compilation any) (any, error)
}

// AnnotationRewriter applies C5's final labels back onto a translation
// unit's syntax (spec §6's emit_annotations): for every type-bearing
// syntax node whose mapped node is Nullable, wrap it in `?`; for NonNull,
// strip any `?`. Oblivious nodes are left untouched.
type AnnotationRewriter interface {
	Rewrite(tu semantic.TranslationUnit, mapping nullgraph.SyntaxToNodeMapping) (any, error)
}

// EmitAnnotations runs r once per translation unit in mappings, in the
// order units lists (spec §2, "a syntax rewriter then queries C1 for each
// syntax node's final label"). It is a thin convenience wrapper: hosts
// free to call AnnotationRewriter.Rewrite themselves need not use it.
func EmitAnnotations(r AnnotationRewriter, units []semantic.TranslationUnit, mappings map[semantic.TranslationUnit]nullgraph.SyntaxToNodeMapping) (map[semantic.TranslationUnit]any, error) {
	out := make(map[semantic.TranslationUnit]any, len(units))
	for _, tu := range units {
		rewritten, err := r.Rewrite(tu, mappings[tu])
		if err != nil {
			return nil, err
		}
		out[tu] = rewritten
	}
	return out, nil
}
