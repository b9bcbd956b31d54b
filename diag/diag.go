// Package diag defines the diagnostic records produced by parsing and
// validation: fatal compile errors and non-fatal upgrade warnings, each
// carrying a source range and optional quick-fix actions.
package diag

import "sort"

type Position struct {
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the byte offset falls inside the span.
// The end offset is exclusive.
func (s Span) Contains(offset int) bool {
	return s.Start.Offset <= offset && offset < s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// CodeAction is a quick fix a tool may offer alongside a diagnostic:
// replacing the diagnostic's range with Replacement.
type CodeAction struct {
	Label       string
	Replacement string
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
	Actions  []CodeAction
}

// NewError creates a fatal diagnostic: the construct it is attached to is
// invalid.
func NewError(span Span, message string) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Message: message, Span: span}
}

// NewUpgradeWarning creates an advisory diagnostic for a deprecated form
// that is still accepted, with suggested rewrites.
func NewUpgradeWarning(span Span, message string, actions ...CodeAction) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Message: message, Span: span, Actions: actions}
}

// Sort orders diagnostics by start offset, errors before warnings at the
// same position. The sort is stable so same-position diagnostics keep
// their discovery order.
func Sort(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Span.Start.Offset != diags[j].Span.Start.Offset {
			return diags[i].Span.Start.Offset < diags[j].Span.Start.Offset
		}
		return diags[i].Severity < diags[j].Severity
	})
}
