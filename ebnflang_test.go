package ebnflang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alecthomas/ebnflang"
	"github.com/alecthomas/ebnflang/source"
)

func compile(t *testing.T, text string) *ebnflang.Result {
	t.Helper()
	r := ebnflang.Compile(source.NewFile("g.ebnf", text, 1), "start")
	require.True(t, r.Log.Empty(), "unexpected diagnostics: %s", r.Log.Report())
	return r
}

// ruleSet renders every rule as "LHS -> RHS1 RHS2" (or "LHS -> ε" for an
// empty production) keyed by symbol name, order-independent, mirroring
// spec.md §8's "BNF rules (as a set)" scenarios.
func ruleSet(r *ebnflang.Result) map[string]bool {
	out := map[string]bool{}
	for _, rule := range r.BNF.Rules {
		s := r.BNF.SymbolName[rule.LHS] + " ->"
		if len(rule.RHS) == 0 {
			s += " ε"
		}
		for _, sym := range rule.RHS {
			s += " " + r.BNF.SymbolName[sym]
		}
		out[s] = true
	}
	return out
}

func freshNonterminal(r *ebnflang.Result) string {
	for _, rule := range r.BNF.Rules {
		if rule.LHS != r.BNF.Start {
			return r.BNF.SymbolName[rule.LHS]
		}
	}
	return ""
}

// litA is the bnfSymbolName the lowering assigns to a literal 'a' term:
// a back-ticked Dump, since a Literal term is never a bare Sym
// reference (spec.md §4.E).
const litA = "`\"a\"`"

func TestEndToEndSingleLiteral(t *testing.T) {
	r := compile(t, "start ::=\n  'a'\n")
	require.Equal(t, map[string]bool{"start -> " + litA: true}, ruleSet(r))
	require.Equal(t, []string{"a"}, r.Scanner.Literals)
	require.Empty(t, r.Scanner.Patterns)
}

func TestEndToEndStar(t *testing.T) {
	r := compile(t, "start ::=\n  'a'*\n")
	q := freshNonterminal(r)
	require.Equal(t, map[string]bool{
		"start -> " + q:       true,
		q + " -> ε":           true,
		q + " -> " + q + " " + litA: true,
	}, ruleSet(r))
}

func TestEndToEndPlus(t *testing.T) {
	r := compile(t, "start ::=\n  'a'+\n")
	q := freshNonterminal(r)
	require.Equal(t, map[string]bool{
		"start -> " + q:              true,
		q + " -> " + litA:            true,
		q + " -> " + q + " " + litA: true,
	}, ruleSet(r))
}

func TestEndToEndQuestion(t *testing.T) {
	r := compile(t, "start ::=\n  'a'?\n")
	q := freshNonterminal(r)
	require.Equal(t, map[string]bool{
		"start -> " + q: true,
		q + " -> ε":     true,
		q + " -> " + litA: true,
	}, ruleSet(r))
}

func TestEndToEndStarThenGroup(t *testing.T) {
	r := compile(t, "start ::=\n  'b'* ('c' | 'd')\n")
	rules := ruleSet(r)
	require.Len(t, rules, 5)

	var startRule string
	for s := range rules {
		if len(s) >= 8 && s[:8] == "start ->" {
			startRule = s
		}
	}
	require.NotEmpty(t, startRule)
}

func TestEndToEndTokenLeafWithInlinedOneOf(t *testing.T) {
	r := compile(t, "start ::=\n  a | b\na ::= (token)\n  'x' b\nb ::= (one of)\n  y z\n")
	require.Equal(t, []string{"x", "y", "z"}, r.Scanner.Literals)

	var aPattern string
	for _, p := range r.Scanner.Patterns {
		if p.Name == "a" {
			aPattern = p.Regexp
		}
	}
	require.Equal(t, `x(?:[yz])`, aPattern)

	for _, rule := range r.BNF.Rules {
		require.NotEqual(t, "a", r.BNF.SymbolName[rule.LHS])
	}
}

func TestEndToEndUndefinedSymbolStopsBeforeLowering(t *testing.T) {
	r := ebnflang.Compile(source.NewFile("g.ebnf", "start ::=\n  missing\n", 1), "start")
	require.False(t, r.Log.Empty())
	require.Nil(t, r.Grammar)
	require.Nil(t, r.BNF)
	require.Nil(t, r.Scanner)
}
