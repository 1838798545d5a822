package inferapi

import (
	"context"
	"testing"

	"github.com/nullaware/nullinfer/internal/builder"
	"github.com/nullaware/nullinfer/internal/edges"
	"github.com/nullaware/nullinfer/internal/nullgraph"
	"github.com/nullaware/nullinfer/internal/semantic"
)

type fakeModel struct{}

func (fakeModel) SymbolFor(s semantic.Syntax) (semantic.Symbol, bool)  { return nil, false }
func (fakeModel) TypeFor(s semantic.Syntax) (semantic.Type, bool)      { return nil, false }
func (fakeModel) IsReferenceType(t semantic.Type) bool                 { return t != "value" }
func (fakeModel) CanBeMadeNullable(t semantic.Type) bool               { return t != "value" }
func (fakeModel) FlowStateBefore(s semantic.Syntax) semantic.FlowState { return semantic.FlowUnknown }
func (fakeModel) PositionOf(s semantic.Syntax) semantic.Position       { return semantic.Position{} }

type emptySource struct{}

func (emptySource) TranslationUnits() []semantic.TranslationUnit { return nil }
func (emptySource) BuildUnit(tu semantic.TranslationUnit) builder.Unit {
	return builder.Unit{Handle: tu}
}
func (emptySource) Actions(store *nullgraph.Store, tu semantic.TranslationUnit, mapping nullgraph.SyntaxToNodeMapping) []edges.Action {
	return nil
}

func TestAnalyzeReturnsRunIdentityAndTimestamps(t *testing.T) {
	e := New(fakeModel{}, emptySource{})

	result, err := e.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze returned an error: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("RunID must be populated")
	}
	if result.StartedAt == nil || result.FinishedAt == nil {
		t.Fatalf("StartedAt/FinishedAt must be populated")
	}
	if result.FinishedAt.AsTime().Before(result.StartedAt.AsTime()) {
		t.Fatalf("FinishedAt must not precede StartedAt")
	}
}

func TestWithProgressChains(t *testing.T) {
	var stages []string
	e := New(fakeModel{}, emptySource{}).WithProgress(func(stage string, _ semantic.TranslationUnit) {
		stages = append(stages, stage)
	})

	if _, err := e.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze returned an error: %v", err)
	}
	if len(stages) == 0 {
		t.Fatalf("WithProgress callback was never invoked")
	}
}
