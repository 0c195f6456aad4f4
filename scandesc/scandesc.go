// Package scandesc derives a scanner description from a validated
// grammar without running the lowering (spec.md §4.F): the distinct
// literal set, one named regular expression per Token/OneOf/Regexp
// definition, and a reserved terminal for unrecognized input.
//
// Grounded on the teacher's lexer/ebnf/ebnf.go: its optimize/
// characterSet idiom of collapsing a run of single-character
// alternatives into one character class is reused for (one of) pattern
// synthesis. Its matching engine (ebnfLexer.match) has no counterpart
// here — this package only describes a scanner, spec.md §1's Non-goals
// explicitly keep CORE from running one.
package scandesc

import (
	"regexp"
	"strings"

	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/grammar"
)

// UnrecognizedTerminal is the synthetic terminal the scanner emits for
// any input character matching no literal and no named pattern
// (spec.md §4.F).
const UnrecognizedTerminal = "UNRECOGNIZED_CHARACTER"

// Pattern is one named regular expression contributed by a
// Token/OneOf/Regexp definition.
type Pattern struct {
	Name   string
	Def    *ast.Definition
	Regexp string
}

// Description is the toolchain's scanner description: the grammar's
// literal set, its named patterns (in source order), and the
// unrecognized-character terminal's name.
type Description struct {
	Literals             []string
	Patterns             []Pattern
	UnrecognizedTerminal string
}

// Describe derives a scanner description from g. g is assumed already
// validated (package grammar): every symbol referenced from within a
// Token rule resolves, and the Token subgraph is acyclic, which is
// what lets encodeTerm's recursion below terminate.
func Describe(g *grammar.Grammar) *Description {
	d := &Description{
		Literals:             g.Literals(),
		UnrecognizedTerminal: UnrecognizedTerminal,
	}
	for _, def := range g.Definitions {
		switch def.Kind {
		case ast.Token, ast.OneOf, ast.Regexp:
			d.Patterns = append(d.Patterns, Pattern{
				Name:   def.LHS.Name,
				Def:    def,
				Regexp: encodeDefinition(g, def),
			})
		}
	}
	return d
}

// encodeDefinition renders one Token/OneOf/Regexp definition's body as
// a single regular expression (spec.md §4.F).
func encodeDefinition(g *grammar.Grammar, def *ast.Definition) string {
	switch def.Kind {
	case ast.Regexp:
		parts := make([]string, len(def.Alternatives))
		for i, alt := range def.Alternatives {
			parts[i] = alt[0].Text
		}
		return group(parts)

	case ast.OneOf:
		lits := make([]string, len(def.Alternatives))
		for i, alt := range def.Alternatives {
			lits[i] = alt[0].Text
		}
		if cc, ok := characterClass(lits); ok {
			return cc
		}
		escaped := make([]string, len(lits))
		for i, l := range lits {
			escaped[i] = regexp.QuoteMeta(l)
		}
		return group(escaped)

	case ast.Token:
		parts := make([]string, len(def.Alternatives))
		for i, alt := range def.Alternatives {
			var sb strings.Builder
			for _, t := range alt {
				sb.WriteString(encodeTerm(g, t))
			}
			parts[i] = sb.String()
		}
		return group(parts)

	default:
		return regexp.QuoteMeta(def.LHS.Name)
	}
}

// encodeTerm renders one term inside a Token body, expanding a
// referenced Token/OneOf/Regexp symbol inline and applying a
// quantifier outside the expansion (spec.md §4.F).
func encodeTerm(g *grammar.Grammar, t ast.Term) string {
	switch t.Kind {
	case ast.TermLiteral:
		return regexp.QuoteMeta(t.Text)

	case ast.TermRegexp:
		return t.Text

	case ast.TermSym:
		def, ok := g.Lookup(t.Sym.Name)
		if !ok {
			return regexp.QuoteMeta(t.Sym.Name)
		}
		return "(?:" + encodeDefinition(g, def) + ")"

	case ast.TermGroup:
		parts := make([]string, len(t.Group))
		for i, alt := range t.Group {
			var sb strings.Builder
			for _, inner := range alt {
				sb.WriteString(encodeTerm(g, inner))
			}
			parts[i] = sb.String()
		}
		return group(parts)

	case ast.TermQuantified:
		return "(?:" + encodeTerm(g, *t.Inner) + ")" + string(t.Quantifier)
	}
	return ""
}

// group wraps alternatives in a non-capturing group, or returns the
// sole alternative bare.
func group(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

// characterClass renders a set of single-rune literals as "[...]"
// instead of an alternation, the way the teacher's optimizer collapses
// single-character alternatives into one character class. Reports
// false if any literal is not exactly one rune.
func characterClass(lits []string) (string, bool) {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, l := range lits {
		r := []rune(l)
		if len(r) != 1 {
			return "", false
		}
		switch r[0] {
		case ']', '\\', '^', '-':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r[0])
	}
	sb.WriteByte(']')
	return sb.String(), true
}
