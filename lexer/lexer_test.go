package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alecthomas/ebnflang/lexer"
	"github.com/alecthomas/ebnflang/source"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func lex(t *testing.T, text string) []lexer.Token {
	t.Helper()
	return lexer.Lex(source.NewFile("g.ebnf", text, 1))
}

func TestLexPlainRuleMultiLine(t *testing.T) {
	toks := lex(t, "a ::=\n  b c\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS,
		lexer.SYMBOL_NAME, lexer.SYMBOL_NAME, lexer.EOL,
		lexer.EOF,
	}, kinds(toks))
	require.Equal(t, "a", toks[0].Lexeme)
	require.Equal(t, "b", toks[2].Lexeme)
	require.Equal(t, "c", toks[3].Lexeme)
}

func TestLexQuotedLiteralAndOr(t *testing.T) {
	toks := lex(t, "start ::=\n  'a' | 'b'\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS,
		lexer.QUOTED_LITERAL, lexer.OR, lexer.QUOTED_LITERAL, lexer.EOL,
		lexer.EOF,
	}, kinds(toks))
	require.Equal(t, "'a'", toks[2].Lexeme)
}

func TestLexQuantifiersAndGroups(t *testing.T) {
	toks := lex(t, "start ::=\n  (a b)* c+ d?\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS,
		lexer.LPAREN, lexer.SYMBOL_NAME, lexer.SYMBOL_NAME, lexer.RPAREN, lexer.STAR,
		lexer.SYMBOL_NAME, lexer.PLUS,
		lexer.SYMBOL_NAME, lexer.QUESTION,
		lexer.EOL, lexer.EOF,
	}, kinds(toks))
}

func TestLexOneOfBody(t *testing.T) {
	toks := lex(t, "digit ::= (one of)\n  0 1 2\n  3 4\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS, lexer.ONE_OF_KIND,
		lexer.LITERAL, lexer.LITERAL, lexer.LITERAL, lexer.LITERAL, lexer.LITERAL,
		lexer.EOF,
	}, kinds(toks))
	lits := make([]string, 0, 5)
	for _, tok := range toks {
		if tok.Kind == lexer.LITERAL {
			lits = append(lits, tok.Lexeme)
		}
	}
	require.Equal(t, []string{"0", "1", "2", "3", "4"}, lits)
}

func TestLexRegexpBody(t *testing.T) {
	toks := lex(t, "number ::= (regexp)\n  [0-9]+\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS, lexer.REGEXP_KIND,
		lexer.REGEXP,
		lexer.EOF,
	}, kinds(toks))
	require.Equal(t, "[0-9]+", toks[3].Lexeme)
}

func TestLexTokenBody(t *testing.T) {
	toks := lex(t, "ident ::= (token)\n  letter (letter | digit)*\n")
	require.Equal(t, []lexer.Kind{
		lexer.LHS, lexer.IS_DEFINED_AS, lexer.TOKEN_KIND,
		lexer.SYMBOL_NAME, lexer.LPAREN, lexer.SYMBOL_NAME, lexer.OR, lexer.SYMBOL_NAME, lexer.RPAREN, lexer.STAR,
		lexer.EOL, lexer.EOF,
	}, kinds(toks))
}

func TestLexIllegalCharacter(t *testing.T) {
	toks := lex(t, "a ::=\n  @\n")
	require.Contains(t, kinds(toks), lexer.ILLEGAL_CHARACTER)
	for _, tok := range toks {
		if tok.Kind == lexer.ILLEGAL_CHARACTER {
			require.Equal(t, "@", tok.Lexeme)
		}
	}
}

func TestTokenEqualIgnoresRange(t *testing.T) {
	a := lexer.Token{Kind: lexer.SYMBOL_NAME, Lexeme: "x", Range: source.Range{}}
	f := source.NewFile("g.ebnf", "x", 1)
	b := lexer.Token{Kind: lexer.SYMBOL_NAME, Lexeme: "x", Range: source.Range{File: f, Start: 0, End: 1}}
	require.True(t, a.Equal(b))
}
