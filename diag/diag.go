// Package diag implements the toolchain's diagnostics: structured errors
// with a primary site, an ordered list of notes, and a stable report
// format shared by the parser and grammar validator.
//
// Grounded on the teacher's Error interface (Message/Token) in
// error.go, extended with an ordered Notes list per spec.md §4.G/§7.
package diag

import (
	"fmt"
	"sort"

	"github.com/alecthomas/ebnflang/source"
)

// Kind classifies a Diagnostic for callers that want to branch on it
// (e.g. a host deciding whether a RecursiveTokenRule is fatal).
type Kind string

const (
	Syntax              Kind = "syntax"
	DuplicateDefinition Kind = "duplicate-definition"
	UndefinedSymbol     Kind = "undefined-symbol"
	UnreachableSymbol   Kind = "unreachable-symbol"
	RecursiveTokenRule  Kind = "recursive-token-rule"
	IllegalCharacter    Kind = "illegal-character"
)

// Note is a secondary annotation attached to a Diagnostic, e.g. "first
// defined here" pointing at an earlier definition.
type Note struct {
	Message string
	Range   source.Range
}

// Diagnostic is a single error: a kind, a human-readable message, a
// primary site, and zero or more ordered notes.
type Diagnostic struct {
	Kind    Kind
	Message string
	Primary source.Range
	Notes   []Note
}

func (d *Diagnostic) Error() string { return d.Message }

// WithNote appends a note and returns the receiver, for construction in
// a single expression.
func (d *Diagnostic) WithNote(message string, rng source.Range) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message, Range: rng})
	return d
}

// Equal reports whether two diagnostics compare equal per spec.md §4.G:
// same message and all ranges matching, primary included.
func (d *Diagnostic) Equal(other *Diagnostic) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	if d.Message != other.Message || d.Primary != other.Primary || len(d.Notes) != len(other.Notes) {
		return false
	}
	for i, n := range d.Notes {
		if n != other.Notes[i] {
			return false
		}
	}
	return true
}

// New constructs a Diagnostic at the given site.
func New(kind Kind, primary source.Range, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Primary: primary}
}

// Log is an ordered set of diagnostics accumulated across one or more
// validation passes, per spec.md §5 ("errors collected in source order;
// across passes, the union preserves per-pass ordering").
type Log struct {
	diags []*Diagnostic
}

// Add appends a diagnostic to the log, skipping one that already
// compares Equal to an existing entry (an error log is an ordered set).
func (l *Log) Add(d *Diagnostic) {
	for _, existing := range l.diags {
		if existing.Equal(d) {
			return
		}
	}
	l.diags = append(l.diags, d)
}

// Errorf is shorthand for Add(New(...)).
func (l *Log) Errorf(kind Kind, primary source.Range, format string, args ...interface{}) *Diagnostic {
	d := New(kind, primary, format, args...)
	l.Add(d)
	return d
}

// Empty reports whether the log has no diagnostics.
func (l *Log) Empty() bool { return len(l.diags) == 0 }

// Diagnostics returns the log's diagnostics sorted by primary range's
// start position, the order the report is rendered in.
func (l *Log) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(l.diags))
	copy(out, l.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Primary.StartPos().Before(out[j].Primary.StartPos())
	})
	return out
}

// Err returns the log as an error (via Report) if non-empty, else nil —
// the idiom a pass-ending constructor uses to "throw the collected set
// only at the end" (spec.md §4.D).
func (l *Log) Err() error {
	if l.Empty() {
		return nil
	}
	return fmt.Errorf("%s", l.Report())
}

// Report renders every diagnostic as
// "file:line.col[-endcol|-endline:endcol]: error: message" followed by
// each note on its own line as "file:line.col: note(i): message".
func (l *Log) Report() string {
	out := ""
	for _, d := range l.Diagnostics() {
		out += fmt.Sprintf("%s: error: %s\n", d.Primary.String(), d.Message)
		for i, n := range d.Notes {
			at := source.Range{File: n.Range.File, Start: n.Range.Start, End: n.Range.Start}
			out += fmt.Sprintf("%s: note(%d): %s\n", at.String(), i+1, n.Message)
		}
	}
	return out
}
