package ast

import (
	"strings"

	"github.com/alecthomas/ebnflang/diag"
	"github.com/alecthomas/ebnflang/lexer"
	"github.com/alecthomas/ebnflang/source"
)

// Parse reduces a file's token stream into an AST DefinitionList
// (spec.md §4.C), grounded on the teacher's parser.go recursive-descent
// shape (parseDisjunction/parseSequence/parseTerm), retargeted from
// Go-struct-tag grammars to this dialect's rule-kind-aware rhs_list
// grammar:
//
//	grammar       ::= rule_list
//	rule_list     ::= ε | rule_list rule
//	rule          ::= LHS IS_DEFINED_AS kind rhs_list
//	                | LHS IS_DEFINED_AS ONE_OF_KIND one_of_list
//	kind          ::= ε | TOKEN_KIND | REGEXP_KIND
//	rhs_list      ::= rhs_line | rhs_list rhs_line
//	rhs_line      ::= alt_list EOL | REGEXP+
//	one_of_list   ::= LITERAL | one_of_list LITERAL
//	alt_list      ::= alt | alt_list OR alt
//	alt           ::= ε | term_list
//	term_list     ::= term | term_list term
//	term          ::= LPAREN alt_list RPAREN
//	                | SYMBOL_NAME
//	                | QUOTED_LITERAL
//	                | term (STAR | PLUS | QUESTION)
//
// On a syntax error the parser yields no partial AST (spec.md §4.C):
// the first error aborts parsing and Parse returns a nil DefinitionList
// alongside the populated diag.Log.
func Parse(file *source.File) (DefinitionList, *diag.Log) {
	p := &parser{toks: lexer.Lex(file)}
	var defs DefinitionList
	for p.peek().Kind != lexer.EOF {
		d := p.parseRule()
		if d == nil {
			return nil, &p.log
		}
		defs = append(defs, d)
	}
	return defs, &p.log
}

type parser struct {
	toks []lexer.Token
	pos  int
	log  diag.Log
	err  bool
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) next() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

// errorf records the first syntax error encountered; subsequent calls
// are ignored so the report carries a single primary error, per
// spec.md §4.C's "single error carrying the offending token's range".
func (p *parser) errorf(t lexer.Token, format string, args ...interface{}) {
	if p.err {
		return
	}
	p.err = true
	p.log.Errorf(diag.Syntax, t.Range, format, args...)
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, bool) {
	t := p.peek()
	if t.Kind != k {
		p.errorf(t, "expected %s but got %q", k, t.Lexeme)
		return t, false
	}
	return p.next(), true
}

func (p *parser) parseRule() *Definition {
	lhsTok, ok := p.expect(lexer.LHS)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.IS_DEFINED_AS); !ok {
		return nil
	}

	kind := Plain
	switch p.peek().Kind {
	case lexer.TOKEN_KIND:
		p.next()
		kind = Token
	case lexer.REGEXP_KIND:
		p.next()
		kind = Regexp
	case lexer.ONE_OF_KIND:
		p.next()
		kind = OneOf
	}

	lhs := Symbol{Name: lhsTok.Lexeme, Range: lhsTok.Range}

	var alts AlternativeList
	var bodyRange source.Range
	switch kind {
	case OneOf:
		alts, bodyRange = p.parseOneOfList()
	case Regexp:
		alts, bodyRange = p.parseRegexpLines()
	default:
		alts, bodyRange = p.parseRhsList()
	}
	if p.err {
		return nil
	}

	return &Definition{Kind: kind, LHS: lhs, Alternatives: alts, Range: lhsTok.Range.Extend(bodyRange)}
}

// parseOneOfList consumes one or more LITERAL tokens, each its own
// single-term alternative.
func (p *parser) parseOneOfList() (AlternativeList, source.Range) {
	var alts AlternativeList
	rng := source.NoneRange
	for p.peek().Kind == lexer.LITERAL {
		t := p.next()
		alts = append(alts, Alternative{LiteralTerm(t.Lexeme, t.Range)})
		rng = rng.Extend(t.Range)
	}
	if len(alts) == 0 {
		p.errorf(p.peek(), "expected a literal in one-of body but got %q", p.peek().Lexeme)
		return nil, rng
	}
	return alts, rng
}

// parseRegexpLines consumes one or more REGEXP tokens, each its own
// single-term alternative containing a Regexp(text, pos) term.
func (p *parser) parseRegexpLines() (AlternativeList, source.Range) {
	var alts AlternativeList
	rng := source.NoneRange
	for p.peek().Kind == lexer.REGEXP {
		t := p.next()
		alts = append(alts, Alternative{RegexpTerm(t.Lexeme, t.Range)})
		rng = rng.Extend(t.Range)
	}
	if len(alts) == 0 {
		p.errorf(p.peek(), "expected a regular expression body but got %q", p.peek().Lexeme)
		return nil, rng
	}
	return alts, rng
}

// parseRhsList consumes one or more rhs_line bodies, stopping at the
// next rule header or end of input.
func (p *parser) parseRhsList() (AlternativeList, source.Range) {
	var alts AlternativeList
	rng := source.NoneRange
	for {
		k := p.peek().Kind
		if k == lexer.EOF || k == lexer.LHS {
			break
		}
		alt, lineRng, ok := p.parseRhsLine()
		if !ok {
			return nil, rng
		}
		alts = append(alts, alt)
		rng = rng.Extend(lineRng)
	}
	if len(alts) == 0 {
		p.errorf(p.peek(), "expected a rule body")
		return nil, rng
	}
	return alts, rng
}

// parseRhsLine parses one alt_list EOL. A line with a single alternative
// yields that alternative; with multiple (OR-separated), it yields a
// single-element alternative wrapping a Group over the lot, preserving
// the source grouping (spec.md §4.C).
func (p *parser) parseRhsLine() (Alternative, source.Range, bool) {
	alts, ok := p.parseAltList()
	if !ok {
		return nil, source.NoneRange, false
	}
	var alt Alternative
	var rng source.Range
	if len(alts) == 1 {
		alt = alts[0]
		rng = alt.SourceRange()
	} else {
		rng = alternativeListRange(alts)
		alt = Alternative{GroupTerm(alts, rng)}
	}
	eol, ok := p.expect(lexer.EOL)
	if !ok {
		return nil, rng, false
	}
	return alt, rng.Extend(eol.Range), true
}

func alternativeListRange(alts AlternativeList) source.Range {
	rng := source.NoneRange
	for _, a := range alts {
		rng = rng.Extend(a.SourceRange())
	}
	return rng
}

// parseAltList parses alt_list ::= alt | alt_list OR alt.
func (p *parser) parseAltList() (AlternativeList, bool) {
	var alts AlternativeList
	alts = append(alts, p.parseAlt())
	if p.err {
		return nil, false
	}
	for p.peek().Kind == lexer.OR {
		p.next()
		alts = append(alts, p.parseAlt())
		if p.err {
			return nil, false
		}
	}
	return alts, true
}

// parseAlt parses alt ::= ε | term_list: zero or more terms.
func (p *parser) parseAlt() Alternative {
	var out Alternative
	for {
		term, ok := p.parseTerm()
		if !ok {
			break
		}
		out = append(out, term)
		if p.err {
			break
		}
	}
	return out
}

// parseTerm parses a single term, applying any trailing quantifiers.
// Returns ok=false, no error, when the next token cannot start a term
// (the normal way a term_list or alt ends).
func (p *parser) parseTerm() (Term, bool) {
	t := p.peek()
	var term Term
	switch t.Kind {
	case lexer.LPAREN:
		p.next()
		alts, ok := p.parseAltList()
		if !ok {
			return Term{}, false
		}
		rparen, ok := p.expect(lexer.RPAREN)
		if !ok {
			return Term{}, false
		}
		term = GroupTerm(alts, t.Range.Extend(rparen.Range))

	case lexer.SYMBOL_NAME:
		p.next()
		term = SymTerm(Symbol{Name: t.Lexeme, Range: t.Range})

	case lexer.QUOTED_LITERAL:
		p.next()
		term = LiteralTerm(unquoteLiteral(t.Lexeme), t.Range)

	default:
		return Term{}, false
	}

	for {
		q := p.peek()
		var quant Quantifier
		switch q.Kind {
		case lexer.STAR:
			quant = QuantStar
		case lexer.PLUS:
			quant = QuantPlus
		case lexer.QUESTION:
			quant = QuantQuestion
		default:
			return term, true
		}
		p.next()
		term = QuantifiedTerm(term, quant, term.Range.Extend(q.Range))
	}
}

// unquoteLiteral strips a QUOTED_LITERAL's surrounding quotes and
// removes every backslash — no other escape is interpreted (spec.md
// §4.C). Grounded on the teacher's map.go Unquote idiom of mapping a
// transform over token text, simplified to the dialect's own escape
// rule rather than reusing strconv.UnquoteChar wholesale.
func unquoteLiteral(lexeme string) string {
	if len(lexeme) >= 2 {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	return strings.ReplaceAll(lexeme, `\`, "")
}
