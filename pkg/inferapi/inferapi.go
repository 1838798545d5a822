// Package inferapi is the nullability inference engine's public embedding
// API: a thin wrapper around the internal pipeline that a host toolchain
// links against directly. Model, Source, and Diagnostic are aliases of
// internal types, and Source's methods take internal/builder,
// internal/nullgraph, and internal/edges values, so a Source
// implementation still works with those packages' types.
package inferapi

import (
	"context"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nullaware/nullinfer/internal/diagnostics"
	"github.com/nullaware/nullinfer/internal/engine"
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/rewrite"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Model is the semantic collaborator a host must implement (spec §6); it
// is exactly internal/semantic.Model, re-exported here under this
// package's name.
type Model = semantic.Model

// Source is the translation-unit feed a host must implement; it is
// exactly internal/engine.Source, re-exported here under this package's
// name.
type Source = engine.Source

// ProgressFunc reports incremental progress during Analyze.
type ProgressFunc = engine.ProgressFunc

// Diagnostic is one surfaced "possible null dereference" warning.
type Diagnostic = diagnostics.Diagnostic

// Engine analyzes a host compilation and can emit its annotated form.
type Engine struct {
	inner *engine.Engine
}

// New constructs an Engine for the given semantic model and translation
// unit source.
func New(model Model, source Source) *Engine {
	return &Engine{inner: engine.New(model, source)}
}

// WithProgress attaches a progress callback and returns the same Engine
// for chaining.
func (e *Engine) WithProgress(p ProgressFunc) *Engine {
	e.inner.Progress = p
	return e
}

// Result is one completed analysis: every node's final label (queryable
// via Mapping), the deduplicated diagnostics, the computed max flow value
// (mostly useful for tests asserting the min-cut invariants), and the run's
// own identity and timing.
type Result struct {
	Diagnostics []Diagnostic
	MaxFlow     int
	RunID       string
	StartedAt   *timestamppb.Timestamp
	FinishedAt  *timestamppb.Timestamp

	store *nullgraph.Store
}

// Analyze runs C2 through C5 over every translation unit Source lists.
func (e *Engine) Analyze(ctx context.Context) (*Result, error) {
	r, err := e.inner.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Diagnostics: r.Diagnostics,
		MaxFlow:     r.MaxFlow,
		RunID:       r.RunID,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		store:       r.Store,
	}, nil
}

// Mapping returns the published syntax→node mapping for tu, and whether
// one was published (it will not be if tu was never returned by
// Source.TranslationUnits()).
func (r *Result) Mapping(tu semantic.TranslationUnit) (nullgraph.SyntaxToNodeMapping, bool) {
	return r.store.Mapping(tu)
}

// EmitAnnotations runs an AnnotationRewriter over every translation unit,
// using each unit's mapping from this Result (spec §6's emit_annotations).
func (r *Result) EmitAnnotations(rewriter rewrite.AnnotationRewriter, units []semantic.TranslationUnit) (map[semantic.TranslationUnit]any, error) {
	mappings := make(map[semantic.TranslationUnit]nullgraph.SyntaxToNodeMapping, len(units))
	for _, tu := range units {
		if m, ok := r.store.Mapping(tu); ok {
			mappings[tu] = m
		}
	}
	return rewrite.EmitAnnotations(rewriter, units, mappings)
}
