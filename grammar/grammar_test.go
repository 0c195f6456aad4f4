package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/diag"
	"github.com/alecthomas/ebnflang/grammar"
	"github.com/alecthomas/ebnflang/source"
)

func mustParse(t *testing.T, text string) ast.DefinitionList {
	t.Helper()
	defs, log := ast.Parse(source.NewFile("g.ebnf", text, 1))
	require.True(t, log.Empty(), "unexpected parse diagnostics: %s", log.Report())
	return defs
}

func TestNewValidGrammar(t *testing.T) {
	defs := mustParse(t, "start ::=\n  greeting\ngreeting ::= (one of)\n  hi bye\n")
	g, log := grammar.New(defs, "start")
	require.True(t, log.Empty())
	require.NotNil(t, g)
	require.Equal(t, "start", g.Start.Name)
	require.Len(t, g.Nonterminals(), 1)
	require.Len(t, g.OneOfRules(), 1)
}

func TestDuplicateDefinition(t *testing.T) {
	defs := mustParse(t, "start ::=\n  'a'\nstart ::=\n  'b'\n")
	g, log := grammar.New(defs, "start")
	require.Nil(t, g)
	diags := log.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, diag.DuplicateDefinition, diags[0].Kind)
}

func TestUndefinedSymbol(t *testing.T) {
	defs := mustParse(t, "start ::=\n  missing\n")
	g, log := grammar.New(defs, "start")
	require.Nil(t, g)
	require.Contains(t, log.Report(), `"missing" is not defined`)
}

func TestUnreachableSymbol(t *testing.T) {
	defs := mustParse(t, "start ::=\n  'a'\norphan ::=\n  'b'\n")
	g, log := grammar.New(defs, "start")
	require.Nil(t, g)
	require.Contains(t, log.Report(), `"orphan" is unreachable`)
}

func TestRecursiveTokenRule(t *testing.T) {
	defs := mustParse(t, "start ::=\n  ident\nident ::= (token)\n  ident\n")
	g, log := grammar.New(defs, "start")
	require.Nil(t, g)
	require.Contains(t, log.Report(), "recursive")
}

func TestRegexpOnlyReferenceableFromTokenRule(t *testing.T) {
	defs := mustParse(t, "start ::=\n  digits\ndigits ::= (regexp)\n  [0-9]+\n")
	g, log := grammar.New(defs, "start")
	require.Nil(t, g)
	require.False(t, log.Empty())
}

func TestRegexpReferenceableFromTokenRule(t *testing.T) {
	defs := mustParse(t, "start ::=\n  number\nnumber ::= (token)\n  digits\ndigits ::= (regexp)\n  [0-9]+\n")
	g, log := grammar.New(defs, "start")
	require.True(t, log.Empty())
	require.NotNil(t, g)
}

func TestLiterals(t *testing.T) {
	defs := mustParse(t, "start ::=\n  'a' 'b'\n")
	g, _ := grammar.New(defs, "start")
	require.Equal(t, []string{"a", "b"}, g.Literals())
}

func TestGrammarString(t *testing.T) {
	defs := mustParse(t, "start ::=\n  'a' | 'b'\n")
	g, _ := grammar.New(defs, "start")
	require.Contains(t, g.String(), "start ::=")
}
