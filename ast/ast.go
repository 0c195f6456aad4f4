// Package ast holds the grammar toolchain's AST (spec.md §3): Symbol,
// Term and its variants, Alternative/AlternativeList, and
// Definition/DefinitionList, plus the recursive-descent parser
// (parse.go, spec.md §4.C) that builds them from a lexer.Token stream.
//
// Grounded on the teacher's node interface in nodes.go — a recursive
// tagged variant reached through a small capability interface rather
// than a class hierarchy — generalized from participle's
// struct-tag-grammar nodes (disjunction/sequence/capture/...) to this
// dialect's terms (Group/Sym/Literal/Regexp/Quantified).
package ast

import (
	"fmt"
	"strings"

	"github.com/alecthomas/ebnflang/source"
)

// Symbol is a name with provenance. Equality and hashing use only the
// name (spec.md §3): two Symbol values naming the same identifier are
// the same symbol regardless of where each was written.
type Symbol struct {
	Name  string
	Range source.Range
}

// Equal compares symbols by name only.
func (s Symbol) Equal(other Symbol) bool { return s.Name == other.Name }

func (s Symbol) String() string { return s.Name }

// Quantifier is the suffix on a Quantified term.
type Quantifier byte

const (
	QuantStar     Quantifier = '*'
	QuantPlus     Quantifier = '+'
	QuantQuestion Quantifier = '?'
)

// EBNFNode is the capability every AST node offers for provenance and
// diagnostics: its source range and a depth-limited textual dump (from
// which the lowering derives a generated BNF symbol's display name). Modeled
// as a small interface rather than a base class, per spec.md §9's
// "Recursive sum types" design note.
type EBNFNode interface {
	SourceRange() source.Range
	Dump(level int) string
}

// Term is the tagged union of term shapes (spec.md §3): Group, Sym,
// Literal, Regexp, and Quantified. Exactly one of the typed fields is
// set, discriminated by Kind.
//
// Two Terms are equal iff structurally equal ignoring source ranges
// (spec.md §3, §9) — Term.Equal implements this directly rather than
// via reflect.DeepEqual, since ranges are embedded at every level and a
// naive deep-equal would make every syntactically-identical subterm
// written at a different location compare unequal, defeating the
// lowering's memo table (spec.md §4.E).
type Term struct {
	Kind       TermKind
	Range      source.Range
	Group      AlternativeList
	Sym        Symbol
	Text       string     // Literal text or Regexp pattern
	Inner      *Term      // Quantified's operand
	Quantifier Quantifier // valid only when Kind == TermQuantified
}

// TermKind discriminates the Term union.
type TermKind int

const (
	TermGroup TermKind = iota
	TermSym
	TermLiteral
	TermRegexp
	TermQuantified
)

func GroupTerm(alts AlternativeList, rng source.Range) Term {
	return Term{Kind: TermGroup, Group: alts, Range: rng}
}

func SymTerm(sym Symbol) Term {
	return Term{Kind: TermSym, Sym: sym, Range: sym.Range}
}

func LiteralTerm(text string, rng source.Range) Term {
	return Term{Kind: TermLiteral, Text: text, Range: rng}
}

func RegexpTerm(pattern string, rng source.Range) Term {
	return Term{Kind: TermRegexp, Text: pattern, Range: rng}
}

func QuantifiedTerm(inner Term, q Quantifier, rng source.Range) Term {
	return Term{Kind: TermQuantified, Inner: &inner, Quantifier: q, Range: rng}
}

// SourceRange implements EBNFNode.
func (t Term) SourceRange() source.Range { return t.Range }

// Equal compares two terms structurally, ignoring source ranges.
func (t Term) Equal(other Term) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TermGroup:
		return t.Group.Equal(other.Group)
	case TermSym:
		return t.Sym.Equal(other.Sym)
	case TermLiteral, TermRegexp:
		return t.Text == other.Text
	case TermQuantified:
		return t.Quantifier == other.Quantifier && t.Inner.Equal(*other.Inner)
	}
	return false
}

// Key returns a value usable as a Go map key that respects Term.Equal's
// range-blind equality — Term itself cannot be a map key directly
// because AlternativeList/Inner contain slices/pointers whose built-in
// equality is not what we want. The lowering (package lower) builds its
// memo table keyed on this string rendering rather than on Term values.
func (t Term) Key() string {
	switch t.Kind {
	case TermGroup:
		parts := make([]string, len(t.Group))
		for i, alt := range t.Group {
			parts[i] = alt.key()
		}
		return "G(" + strings.Join(parts, "|") + ")"
	case TermSym:
		return "S(" + t.Sym.Name + ")"
	case TermLiteral:
		return fmt.Sprintf("L(%q)", t.Text)
	case TermRegexp:
		return fmt.Sprintf("R(%q)", t.Text)
	case TermQuantified:
		return fmt.Sprintf("Q(%c,%s)", t.Quantifier, t.Inner.Key())
	}
	return ""
}

// Dump renders a depth-limited textual form of the term, used by the
// lowering's bnfSymbolName synthesis.
// Grounded on the teacher's stringer.go depth-limited recursive dump.
func (t Term) Dump(level int) string {
	if level <= 0 {
		return "..."
	}
	switch t.Kind {
	case TermGroup:
		parts := make([]string, len(t.Group))
		for i, alt := range t.Group {
			parts[i] = alt.dump(level)
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case TermSym:
		return t.Sym.Name
	case TermLiteral:
		return fmt.Sprintf("%q", t.Text)
	case TermRegexp:
		return fmt.Sprintf("/%s/", t.Text)
	case TermQuantified:
		return t.Inner.Dump(level-1) + string(t.Quantifier)
	}
	return "?"
}

// Alternative is an ordered sequence of Terms.
type Alternative []Term

func (a Alternative) Equal(other Alternative) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if !a[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (a Alternative) key() string {
	parts := make([]string, len(a))
	for i, t := range a {
		parts[i] = t.Key()
	}
	return strings.Join(parts, " ")
}

func (a Alternative) dump(level int) string {
	parts := make([]string, len(a))
	for i, t := range a {
		parts[i] = t.Dump(level)
	}
	return strings.Join(parts, " ")
}

// Dump implements EBNFNode so an Alternative can be passed as the
// provenance source_node for a top-level BNF rule (spec.md §4.E).
func (a Alternative) Dump(level int) string { return a.dump(level) }

// SourceRange is the union of every term's range in the alternative.
func (a Alternative) SourceRange() source.Range {
	out := source.NoneRange
	for _, t := range a {
		out = out.Extend(t.Range)
	}
	return out
}

// AlternativeList is an ordered sequence of Alternatives. No
// de-duplication: order reflects source order (spec.md §3).
type AlternativeList []Alternative

func (l AlternativeList) Equal(other AlternativeList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !l[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (l AlternativeList) key() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.key()
	}
	return strings.Join(parts, ";")
}

// RuleKind classifies a Definition per spec.md §3.
type RuleKind int

const (
	Plain RuleKind = iota
	Token
	OneOf
	Regexp
)

func (k RuleKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Token:
		return "token"
	case OneOf:
		return "one of"
	case Regexp:
		return "regexp"
	default:
		return "unknown"
	}
}

// Definition is a single rule: its kind, left-hand-side symbol, and its
// ordered alternatives.
type Definition struct {
	Kind         RuleKind
	LHS          Symbol
	Alternatives AlternativeList
	Range        source.Range
}

func (d *Definition) SourceRange() source.Range { return d.Range }

func (d *Definition) Dump(level int) string {
	if level <= 0 {
		return d.LHS.Name + " ::= ..."
	}
	parts := make([]string, len(d.Alternatives))
	for i, a := range d.Alternatives {
		parts[i] = a.dump(level - 1)
	}
	return d.LHS.Name + " ::= " + strings.Join(parts, " | ")
}

// DefinitionList is the AST produced by the parser: an ordered list of
// rules, in source order.
type DefinitionList []*Definition
