package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/ebnflang/source"
)

// bodyMode selects the inner tokenization loop once a rule header has
// been consumed, per spec.md §4.B.
type bodyMode int

const (
	modePlain bodyMode = iota
	modeToken
	modeOneOf
	modeRegexp
)

var singleChar = map[rune]Kind{
	'*': STAR,
	'+': PLUS,
	'|': OR,
	'(': LPAREN,
	')': RPAREN,
	'?': QUESTION,
}

// Lex tokenizes a grammar source fragment into a flat token stream. It
// never fails: malformed input is represented as ILLEGAL_CHARACTER
// tokens, one per offending character, per spec.md §4.B's "never
// throws" failure semantics. The final token is always EOF.
func Lex(file *source.File) []Token {
	l := &lexer{file: file, text: file.Text()}
	l.run()
	return l.tokens
}

type lexer struct {
	file   *source.File
	text   string
	pos    int
	tokens []Token
}

func (l *lexer) eof() bool { return l.pos >= len(l.text) }

func (l *lexer) peekRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.text[l.pos:])
	return r, size
}

func (l *lexer) emit(kind Kind, start int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lexeme: l.text[start:l.pos], Range: source.Range{File: l.file, Start: start, End: l.pos}})
}

func (l *lexer) emitIllegal(start int, r rune) {
	l.tokens = append(l.tokens, Token{Kind: ILLEGAL_CHARACTER, Lexeme: string(r), Range: source.Range{File: l.file, Start: start, End: l.pos}})
}

// skipHorizontal consumes spaces and tabs (not newlines).
func (l *lexer) skipHorizontal() {
	for !l.eof() {
		r, size := l.peekRune()
		if r == ' ' || r == '\t' || r == '\r' {
			l.pos += size
			continue
		}
		break
	}
}

func (l *lexer) run() {
	for !l.eof() {
		l.skipBlankLines()
		if l.eof() {
			break
		}
		l.lexHeader()
	}
	pos := source.Position{File: l.file, Index: l.pos}
	l.tokens = append(l.tokens, EOFToken(pos))
}

func (l *lexer) skipBlankLines() {
	for !l.eof() {
		r, size := l.peekRune()
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.pos += size
			continue
		}
		break
	}
}

// lexHeader consumes the outer LHS-mode loop: "SYMBOL_NAME ::=" followed
// optionally by a rule-kind annotation, then dispatches to the body mode
// it selects.
func (l *lexer) lexHeader() {
	start := l.pos
	if !l.matchSymbolName() {
		// Not a valid header start; consume one illegal character and
		// keep scanning for the next recognizable header.
		r, size := l.peekRune()
		l.pos += size
		l.emitIllegal(start, r)
		return
	}
	l.emit(LHS, start)

	l.skipHorizontal()
	if !l.matchLiteral("::=") {
		for !l.eof() {
			r, _ := l.peekRune()
			if r == '\n' {
				return
			}
			s := l.pos
			_, size := l.peekRune()
			l.pos += size
			l.emitIllegal(s, r)
		}
		return
	}
	l.emit(IS_DEFINED_AS, l.pos-3)

	l.skipHorizontal()
	mode := modePlain
	if kind, ok := l.matchAnnotation(); ok {
		switch kind {
		case ONE_OF_KIND:
			mode = modeOneOf
		case TOKEN_KIND:
			mode = modeToken
		case REGEXP_KIND:
			mode = modeRegexp
		}
	}

	// Anything else before the first newline in header position is
	// illegal, one token per offending character.
	for {
		l.skipHorizontal()
		if l.eof() {
			return
		}
		r, size := l.peekRune()
		if r == '\n' {
			l.pos += size
			break
		}
		s := l.pos
		l.pos += size
		l.emitIllegal(s, r)
	}

	switch mode {
	case modeOneOf:
		l.lexOneOfBody()
	case modeRegexp:
		l.lexRegexpBody()
	default:
		l.lexPlainOrTokenBody()
	}
}

func (l *lexer) matchLiteral(s string) bool {
	if strings.HasPrefix(l.text[l.pos:], s) {
		l.pos += len(s)
		return true
	}
	return false
}

func (l *lexer) matchAnnotation() (Kind, bool) {
	for _, a := range []struct {
		text string
		kind Kind
	}{
		{"(one of)", ONE_OF_KIND},
		{"(token)", TOKEN_KIND},
		{"(regexp)", REGEXP_KIND},
	} {
		if strings.HasPrefix(l.text[l.pos:], a.text) {
			start := l.pos
			l.pos += len(a.text)
			l.emit(a.kind, start)
			return a.kind, true
		}
	}
	return 0, false
}

// matchSymbolName consumes a letter followed by letters/digits/-/_, the
// shape required of both an LHS header and a SYMBOL_NAME reference.
func (l *lexer) matchSymbolName() bool {
	r, size := l.peekRune()
	if size == 0 || !isSymbolStart(r) {
		return false
	}
	l.pos += size
	for {
		r, size := l.peekRune()
		if size == 0 || !isSymbolCont(r) {
			break
		}
		l.pos += size
	}
	return true
}

func isSymbolStart(r rune) bool { return unicode.IsLetter(r) }
func isSymbolCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// lexOneOfBody emits whitespace-separated runs of non-whitespace as
// LITERAL tokens, permitting multi-line continuation (spec.md §4.B,
// Open Question 2) up to the first blank line or the next header.
func (l *lexer) lexOneOfBody() {
	for {
		l.skipHorizontal()
		if l.eof() {
			return
		}
		r, _ := l.peekRune()
		if r == '\n' {
			// Blank line (or run of them) ends the body; a following
			// header is picked up by the outer loop.
			save := l.pos
			l.pos++
			l.skipHorizontal()
			if r2, _ := l.peekRune(); r2 == '\n' || l.eof() {
				return
			}
			// Single newline: continuation, unless what follows looks
			// like a new rule header (SYMBOL_NAME immediately followed
			// by "::=").
			if l.looksLikeHeader() {
				l.pos = save
				return
			}
			continue
		}
		start := l.pos
		for !l.eof() {
			r, size := l.peekRune()
			if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
				break
			}
			l.pos += size
		}
		l.emit(LITERAL, start)
	}
}

// looksLikeHeader reports whether the lexer is positioned at a
// "SYMBOL_NAME ::=" header, without consuming input.
func (l *lexer) looksLikeHeader() bool {
	save := l.pos
	ok := l.matchSymbolName()
	if ok {
		l.skipHorizontal()
		ok = strings.HasPrefix(l.text[l.pos:], "::=")
	}
	l.pos = save
	return ok
}

// lexRegexpBody emits the remainder of each line, trimmed, as one
// REGEXP token; no EOL is emitted in this mode.
func (l *lexer) lexRegexpBody() {
	for {
		l.skipHorizontal()
		if l.eof() {
			return
		}
		if r, _ := l.peekRune(); r == '\n' {
			l.pos++
			if l.looksLikeHeader() || l.eof() {
				return
			}
			continue
		}
		start := l.pos
		for !l.eof() {
			r, size := l.peekRune()
			if r == '\n' {
				break
			}
			l.pos += size
		}
		end := l.pos
		text := strings.TrimSpace(l.text[start:end])
		l.tokens = append(l.tokens, Token{Kind: REGEXP, Lexeme: text, Range: source.Range{File: l.file, Start: start, End: end}})
		if l.eof() {
			return
		}
		l.pos++ // consume the newline
		if l.looksLikeHeader() {
			return
		}
	}
}

// lexPlainOrTokenBody lexes one or more body lines, each terminated by
// an EOL token, trying QUOTED_LITERAL, then SYMBOL_NAME, then the
// single-character token map, in that order.
func (l *lexer) lexPlainOrTokenBody() {
	for {
		l.skipHorizontal()
		if l.eof() {
			return
		}
		r, _ := l.peekRune()
		if r == '\n' {
			l.pos++
			l.emit(EOL, l.pos-1)
			if l.looksLikeHeader() || l.atBlankLine() || l.eof() {
				return
			}
			continue
		}

		start := l.pos
		if r == '\'' {
			if l.matchQuotedLiteral() {
				l.emit(QUOTED_LITERAL, start)
				continue
			}
		}
		if l.matchSymbolName() {
			l.emit(SYMBOL_NAME, start)
			continue
		}
		if kind, ok := singleChar[r]; ok {
			_, size := l.peekRune()
			l.pos += size
			l.emit(kind, start)
			continue
		}
		_, size := l.peekRune()
		l.pos += size
		l.emitIllegal(start, r)
	}
}

func (l *lexer) atBlankLine() bool {
	save := l.pos
	l.skipHorizontal()
	r, _ := l.peekRune()
	blank := r == '\n' || l.eof()
	l.pos = save
	return blank
}

// matchQuotedLiteral consumes a single-quoted string supporting \\
// escapes inside, e.g. 'it\'s'.
func (l *lexer) matchQuotedLiteral() bool {
	save := l.pos
	r, size := l.peekRune()
	if r != '\'' {
		return false
	}
	l.pos += size
	for {
		if l.eof() {
			l.pos = save
			return false
		}
		r, size := l.peekRune()
		if r == '\n' {
			l.pos = save
			return false
		}
		if r == '\\' {
			l.pos += size
			if l.eof() {
				l.pos = save
				return false
			}
			_, size2 := l.peekRune()
			l.pos += size2
			continue
		}
		l.pos += size
		if r == '\'' {
			return true
		}
	}
}
