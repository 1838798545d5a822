// Package engine is the driver (spec §4.6, component C6): it owns a
// nullgraph.Store and runs C2, C3, C4, and C5 over a set of translation
// units in the order spec §5 requires — every TU's C2 complete and
// published before any TU's C3 begins, then C4, then C5, each a hard
// barrier.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nullaware/nullinfer/internal/builder"
	"github.com/nullaware/nullinfer/internal/config"
	"github.com/nullaware/nullinfer/internal/diagnostics"
	"github.com/nullaware/nullinfer/internal/edges"
	"github.com/nullaware/nullinfer/internal/flow"
	"github.com/nullaware/nullinfer/internal/labels"
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

// Source is what a host toolchain feeds the engine: the set of
// translation units, each one's type-bearing positions (for C2), and each
// one's flow-relevant actions (for C3, which needs C2's syntax→node
// mapping to resolve call-site/callee references that cross translation
// units).
type Source interface {
	// TranslationUnits lists every unit the engine should analyze. The
	// engine schedules C2 across all of them before starting any C3 (spec
	// §5), so their relative order only affects diagnostic ordering, not
	// correctness.
	TranslationUnits() []semantic.TranslationUnit

	// BuildUnit returns tu's top-level type-bearing positions, consumed by
	// internal/builder.
	BuildUnit(tu semantic.TranslationUnit) builder.Unit

	// Actions returns tu's flow-relevant constructs, consumed by
	// internal/edges. store is passed so the host can resolve a
	// TypeWithNode for any symbol C2 already built, via store.SymbolType
	// with a compute func that panics (every symbol Actions needs must
	// have been built during BuildUnit, in this TU or another — C3 never
	// runs before every TU's C2 has published, spec §5). mapping is tu's
	// own published syntax→node mapping, for resolving anonymous
	// expressions that were never a declared symbol.
	Actions(store *nullgraph.Store, tu semantic.TranslationUnit, mapping nullgraph.SyntaxToNodeMapping) []edges.Action
}

// ProgressFunc, if non-nil, is invoked after each stage completes one
// translation unit (stage "build" or "edges") or the whole analysis
// reaches a barrier (stage "flow", "labels"), supplementing spec §4.6 with
// the kind of incremental feedback long-running analyses need.
type ProgressFunc func(stage string, unit semantic.TranslationUnit)

// Result is the outcome of one full Analyze run. RunID, StartedAt, and
// FinishedAt let a caller (cmd/nullinfer's history cache, a long-running
// host correlating repeated analyses) identify and timestamp this run
// without minting its own IDs.
type Result struct {
	Store       *nullgraph.Store
	Diagnostics []diagnostics.Diagnostic
	MaxFlow     int

	RunID      string
	StartedAt  *timestamppb.Timestamp
	FinishedAt *timestamppb.Timestamp
}

// Engine runs the full C2-C5 pipeline described by spec §4.6.
type Engine struct {
	Model    semantic.Model
	Source   Source
	Progress ProgressFunc
	Config   config.Config
}

// New constructs an Engine ready to Analyze, using config.Default().
func New(model semantic.Model, source Source) *Engine {
	return &Engine{Model: model, Source: source, Config: config.Default()}
}

// Analyze runs C2 through C5 to completion and returns the resulting
// Store and collected diagnostics. It honors ctx cancellation at every
// translation-unit boundary and at each stage barrier (spec §4.6).
func (e *Engine) Analyze(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	started := timestamppb.New(time.Now())

	store := nullgraph.NewStore()
	units := e.Source.TranslationUnits()

	mappings, err := e.runBuildStage(ctx, store, units)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.runEdgeStage(ctx, store, units, mappings); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxFlow := flow.Solve(store)
	e.report("flow", nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	labels.PropagateWithOptions(store, labels.Options{ParameterTieBreak: e.Config.ParameterTieBreak})
	e.report("labels", nil)

	diags := collectDiagnostics(store)

	return &Result{
		Store:       store,
		Diagnostics: diags,
		MaxFlow:     maxFlow,
		RunID:       runID,
		StartedAt:   started,
		FinishedAt:  timestamppb.New(time.Now()),
	}, nil
}

// runBuildStage runs C2 across every translation unit in parallel (spec
// §5, "coarse parallel-for across translation units") and returns each
// unit's published syntax→node mapping, needed by C3.
func (e *Engine) runBuildStage(ctx context.Context, store *nullgraph.Store, units []semantic.TranslationUnit) (map[semantic.TranslationUnit]builtUnit, error) {
	results := make(chan builtUnit, len(units))

	g, gctx := errgroup.WithContext(ctx)
	if e.Config.MaxConcurrentUnits > 0 {
		g.SetLimit(e.Config.MaxConcurrentUnits)
	}
	for _, tu := range units {
		tu := tu
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unit := e.Source.BuildUnit(tu)
			mapping := builder.Build(store, e.Model, unit)
			e.report("build", tu)
			results <- builtUnit{tu, unit, mapping}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	built := make(map[semantic.TranslationUnit]builtUnit, len(units))
	for r := range results {
		built[r.tu] = r
	}
	return built, nil
}

// builtUnit bundles C2's output for one translation unit: its BuildUnit
// input (still needed by C3 to pin explicit ? annotations, spec §4.2 item
// 2) and its published syntax->node mapping.
type builtUnit struct {
	tu      semantic.TranslationUnit
	unit    builder.Unit
	mapping nullgraph.SyntaxToNodeMapping
}

// runEdgeStage runs C3 across every translation unit in parallel, only
// after every unit's C2 has published (spec §5's hard barrier). For each
// unit it first pins every explicitly-spelled `T?` position to
// NullableSink (spec §4.2 item 2, deferred to C3 per spec §3's "edges are
// created exclusively during C3"), then runs the host's own flow-edge
// rules.
func (e *Engine) runEdgeStage(ctx context.Context, store *nullgraph.Store, units []semantic.TranslationUnit, built map[semantic.TranslationUnit]builtUnit) error {
	g, gctx := errgroup.WithContext(ctx)
	if e.Config.MaxConcurrentUnits > 0 {
		g.SetLimit(e.Config.MaxConcurrentUnits)
	}
	for _, tu := range units {
		tu := tu
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := built[tu]
			edges.PinExplicitAnnotations(store, b.mapping, b.unit)
			actions := e.Source.Actions(store, tu, b.mapping)
			edges.Build(store, actions)
			e.report("edges", tu)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) report(stage string, tu semantic.TranslationUnit) {
	if e.Progress != nil {
		e.Progress(stage, tu)
	}
}

// collectDiagnostics scans every edge for nonzero flow through an IsError
// edge (spec §7.3: "surfaced only when nonzero flow passes through them
// after max-flow") and turns each into a Diagnostic.
func collectDiagnostics(store *nullgraph.Store) []diagnostics.Diagnostic {
	c := diagnostics.NewCollector()
	for _, n := range store.AllNodes() {
		for _, e := range n.Outgoing() {
			if !e.IsError {
				continue
			}
			// Capacity now holds residual capacity; the original capacity
			// for these edges is always 1 (internal/edges only ever builds
			// Dereference edges with capacity 1), so any flow at all means
			// residual capacity dropped to 0.
			if e.Capacity > 0 {
				continue
			}
			c.Add(diagnostics.Diagnostic{
				ID:       "nullinfer.possible-null-dereference",
				Severity: diagnostics.SeverityWarning,
				Message:  "possible null dereference of " + e.Source.Name(),
				Label:    e.Label,
				Position: e.Source.Location(),
			})
		}
	}
	return c.All()
}
