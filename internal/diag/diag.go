// Package diag defines source spans and diagnostic records shared by every
// stage of the relanote pipeline (lexer, parser, resolver, types, evaluator,
// renderer). No stage panics or unwinds across a package boundary on a
// recoverable problem: each stage returns its partial result alongside a
// []Diagnostic, and the host facade accumulates them in source order.
package diag

import "fmt"

// Span is a half-open byte range [Start, End) into a single source file.
// Every AST, resolved, and typed node carries one.
type Span struct {
	Start int
	End   int
}

// Contains reports whether s fully contains other, used by tests that check
// the "every node's span lies within its parent's span" invariant.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Severity classifies a Diagnostic for both human display and the LSP
// severity mapping (error -> Error, warning -> Warning, info -> Information).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (sv Severity) String() string {
	switch sv {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Kind is a stable, machine-checkable tag for a Diagnostic, used by tests and
// by the LSP surface to distinguish e.g. a TypeError from a ParseError
// without string-matching the message.
type Kind string

const (
	KindLexError            Kind = "LexError"
	KindParseError          Kind = "ParseError"
	KindModuleNotFound      Kind = "ModuleNotFound"
	KindCircularModule      Kind = "CircularModule"
	KindDuplicateName       Kind = "DuplicateName"
	KindUnresolvedIdent     Kind = "UnresolvedIdentifier"
	KindTypeError           Kind = "TypeError"
	KindOccursCheck         Kind = "OccursCheck"
	KindArityMismatch       Kind = "ArityMismatch"
	KindEvalError           Kind = "EvalError"
	KindRenderError         Kind = "RenderError"
)

// Diagnostic is a single message attached to a span, with a severity driving
// presentation and a Kind driving programmatic handling.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Span     Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %d:%d: %s", d.Severity, d.Kind, d.Span.Start, d.Span.End, d.Message)
}

// Bag accumulates diagnostics in source order. It is the pipeline's sole
// error channel: stages never throw across a package boundary, they append
// to a Bag and keep going.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostics accumulator.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Errorf appends an error-severity diagnostic with a Kind and formatted message.
func (b *Bag) Errorf(kind Kind, span Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: SeverityError, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span})
}

// Warnf appends a warning-severity diagnostic.
func (b *Bag) Warnf(kind Kind, span Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: SeverityWarning, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span})
}

// Infof appends an info-severity diagnostic.
func (b *Bag) Infof(kind Kind, span Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: SeverityInfo, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span})
}

// Extend appends every diagnostic from other, preserving relative order.
// Used to merge a sub-module's diagnostics into the root compilation's bag.
func (b *Bag) Extend(other []Diagnostic) {
	b.items = append(b.items, other...)
}

// Items returns the accumulated diagnostics.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any accumulated diagnostic is SeverityError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
