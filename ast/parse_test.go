package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/source"
)

func parse(t *testing.T, text string) (ast.DefinitionList, *source.File) {
	t.Helper()
	f := source.NewFile("g.ebnf", text, 1)
	defs, log := ast.Parse(f)
	require.True(t, log.Empty(), "unexpected diagnostics: %s", log.Report())
	return defs, f
}

func TestParsePlainSequence(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  a b\n")
	require.Len(t, defs, 1)
	d := defs[0]
	require.Equal(t, ast.Plain, d.Kind)
	require.Equal(t, "start", d.LHS.Name)
	require.Len(t, d.Alternatives, 1)
	require.Equal(t, ast.Alternative{
		ast.SymTerm(ast.Symbol{Name: "a"}),
		ast.SymTerm(ast.Symbol{Name: "b"}),
	}, stripRanges(d.Alternatives[0]))
}

func TestParseAlternationWrapsGroupWhenMultiple(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  a | b\n")
	d := defs[0]
	require.Len(t, d.Alternatives, 1)
	alt := d.Alternatives[0]
	require.Len(t, alt, 1)
	require.Equal(t, ast.TermGroup, alt[0].Kind)
	require.Len(t, alt[0].Group, 2)
}

func TestParseMultipleBodyLinesAreSeparateAlternatives(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  'a'\n  'b'\n")
	d := defs[0]
	require.Len(t, d.Alternatives, 2)
	require.Equal(t, ast.TermLiteral, d.Alternatives[0][0].Kind)
	require.Equal(t, "a", d.Alternatives[0][0].Text)
	require.Equal(t, "b", d.Alternatives[1][0].Text)
}

func TestParseQuantifiers(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  a* b+ c?\n")
	alt := defs[0].Alternatives[0]
	require.Len(t, alt, 3)
	require.Equal(t, ast.TermQuantified, alt[0].Kind)
	require.Equal(t, ast.QuantStar, alt[0].Quantifier)
	require.Equal(t, ast.QuantPlus, alt[1].Quantifier)
	require.Equal(t, ast.QuantQuestion, alt[2].Quantifier)
}

func TestParseQuotedLiteralStripsQuotesAndBackslashes(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  'it\\'s'\n")
	term := defs[0].Alternatives[0][0]
	require.Equal(t, ast.TermLiteral, term.Kind)
	require.Equal(t, "it's", term.Text)
}

func TestParseOneOfRule(t *testing.T) {
	defs, _ := parse(t, "digit ::= (one of)\n  0 1 2\n")
	d := defs[0]
	require.Equal(t, ast.OneOf, d.Kind)
	require.Len(t, d.Alternatives, 3)
	require.Equal(t, "0", d.Alternatives[0][0].Text)
}

func TestParseRegexpRule(t *testing.T) {
	defs, _ := parse(t, "number ::= (regexp)\n  [0-9]+\n")
	d := defs[0]
	require.Equal(t, ast.Regexp, d.Kind)
	require.Len(t, d.Alternatives, 1)
	require.Equal(t, ast.TermRegexp, d.Alternatives[0][0].Kind)
	require.Equal(t, "[0-9]+", d.Alternatives[0][0].Text)
}

func TestParseGroupAndNesting(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  (a | b) c\n")
	alt := defs[0].Alternatives[0]
	require.Len(t, alt, 2)
	require.Equal(t, ast.TermGroup, alt[0].Kind)
	require.Len(t, alt[0].Group, 2)
	require.Equal(t, ast.TermSym, alt[1].Kind)
}

func TestParseMultipleRules(t *testing.T) {
	defs, _ := parse(t, "start ::=\n  a\na ::=\n  'x'\n")
	require.Len(t, defs, 2)
	require.Equal(t, "start", defs[0].LHS.Name)
	require.Equal(t, "a", defs[1].LHS.Name)
}

func TestParseSyntaxErrorYieldsNoPartialAST(t *testing.T) {
	f := source.NewFile("g.ebnf", "start ::=\n  (a\n", 1)
	defs, log := ast.Parse(f)
	require.Nil(t, defs)
	require.False(t, log.Empty())
}

// stripRanges clears source ranges so structural term comparisons can
// ignore provenance, mirroring Term.Equal's own range-blind discipline.
func stripRanges(alt ast.Alternative) ast.Alternative {
	out := make(ast.Alternative, len(alt))
	for i, term := range alt {
		term.Range = source.Range{}
		term.Sym.Range = source.Range{}
		out[i] = term
	}
	return out
}
