// Package lexer implements the grammar toolchain's context-sensitive EBNF
// lexer (spec.md §4.B): a stateful scanner whose tokenization mode
// changes per rule-kind annotation (token, one of, regexp, plain).
//
// Grounded on the teacher participle's lexer package shape (Position,
// Token, an EOF sentinel), generalized from a single fixed lexing mode
// into the two-nested-loop mode machine this grammar dialect needs.
package lexer

import (
	"fmt"

	"github.com/alecthomas/ebnflang/source"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL_CHARACTER Kind = iota
	EOF

	LHS           // the symbol name heading a rule, e.g. "start" in "start ::="
	IS_DEFINED_AS // "::="
	EOL           // end of a plain/token body line

	OR       // "|"
	STAR     // "*"
	PLUS     // "+"
	QUESTION // "?"
	LPAREN   // "("
	RPAREN   // ")"

	SYMBOL_NAME    // bare identifier reference
	QUOTED_LITERAL // 'single quoted, \\ escaped'
	LITERAL        // a one-of body word
	REGEXP         // a (regexp) body line

	ONE_OF_KIND // "(one of)"
	TOKEN_KIND  // "(token)"
	REGEXP_KIND // "(regexp)"
)

func (k Kind) String() string {
	switch k {
	case ILLEGAL_CHARACTER:
		return "ILLEGAL_CHARACTER"
	case EOF:
		return "EOF"
	case LHS:
		return "LHS"
	case IS_DEFINED_AS:
		return "IS_DEFINED_AS"
	case EOL:
		return "EOL"
	case OR:
		return "OR"
	case STAR:
		return "STAR"
	case PLUS:
		return "PLUS"
	case QUESTION:
		return "QUESTION"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case SYMBOL_NAME:
		return "SYMBOL_NAME"
	case QUOTED_LITERAL:
		return "QUOTED_LITERAL"
	case LITERAL:
		return "LITERAL"
	case REGEXP:
		return "REGEXP"
	case ONE_OF_KIND:
		return "ONE_OF_KIND"
	case TOKEN_KIND:
		return "TOKEN_KIND"
	case REGEXP_KIND:
		return "REGEXP_KIND"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexeme with its kind and source range. The range is
// a provenance attribute only: it is deliberately excluded from Equal so
// that two tokens scanned from different positions, but with the same
// kind and lexeme, compare equal.
type Token struct {
	Kind   Kind
	Lexeme string
	Range  source.Range
}

// Equal compares kind and lexeme only, per spec.md §3's Token definition.
func (t Token) Equal(other Token) bool {
	return t.Kind == other.Kind && t.Lexeme == other.Lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

// EOFToken builds the sentinel token emitted once a file is exhausted.
func EOFToken(pos source.Position) Token {
	return Token{Kind: EOF, Range: source.Range{File: pos.File, Start: pos.Index, End: pos.Index}}
}
