// Package diagnostics collects the user-visible output of an analysis run:
// the "nullable value dereferenced" warnings spec §7 calls diagnostic
// edges, deduplicated and sorted the way internal/analyzer.walker.getErrors
// deduplicates and sorts its own *diagnostics.DiagnosticError values.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nullaware/nullinfer/internal/semantic"
)

// correlationNamespace seeds the stable per-diagnostic UUID (SPEC_FULL.md §4's
// "a caller can correlate a diagnostic across repeated runs"): a v5 UUID
// derived from a diagnostic's position and label is identical every time
// the same site produces the same diagnostic, unlike a fresh random UUID
// per run.
var correlationNamespace = uuid.MustParse("d9a716d4-430e-4b6b-9e9a-1f6c9c6e3f3a")

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is the surfaced form of a diagnostic edge (spec §4.3's
// "non-null dereference" rule, §7.3): an edge that was asserted required
// non-null by the host yet the solver found nonzero flow through it.
type Diagnostic struct {
	ID       string
	Severity Severity
	Message  string
	Label    string // edge origin, e.g. "argument of T", copied from NullabilityEdge.label
	Position semantic.Position

	// CorrelationID is a v5 UUID derived from Position and Label, stable
	// across repeated analyses of the same unchanged source (SPEC_FULL.md §4).
	CorrelationID uuid.UUID
}

func (d Diagnostic) key() string {
	return fmt.Sprintf("%s:%d:%d:%s", d.Position.File, d.Position.Line, d.Position.Column, d.Label)
}

func (d Diagnostic) withCorrelationID() Diagnostic {
	d.CorrelationID = uuid.NewSHA1(correlationNamespace, []byte(d.key()))
	return d
}

// Collector accumulates diagnostics during ObserveSiteExplanation-style
// traversal and returns them deduplicated and in deterministic order.
// Not safe for concurrent use; the engine owns exactly one Collector and
// C4/C5 run single-threaded (spec §5).
type Collector struct {
	byKey map[string]Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{byKey: make(map[string]Diagnostic)}
}

// Add records d, overwriting any earlier diagnostic with the same position
// and label (idempotent re-analysis should not duplicate warnings).
func (c *Collector) Add(d Diagnostic) {
	c.byKey[d.key()] = d.withCorrelationID()
}

// All returns the collected diagnostics sorted by file, line, column, then
// label, so repeated runs on the same input produce byte-identical output
// (spec §8's determinism property, extended to diagnostics).
func (c *Collector) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(c.byKey))
	for _, d := range c.byKey {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position.File != b.Position.File {
			return a.Position.File < b.Position.File
		}
		if a.Position.Line != b.Position.Line {
			return a.Position.Line < b.Position.Line
		}
		if a.Position.Column != b.Position.Column {
			return a.Position.Column < b.Position.Column
		}
		return a.Label < b.Label
	})
	return out
}
