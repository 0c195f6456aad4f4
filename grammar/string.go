package grammar

import (
	"strings"

	"github.com/alecthomas/ebnflang/ast"
)

// String renders a Grammar back to this dialect's surface syntax.
// Adapted from the teacher's ebnf.go recursive node-to-string
// renderer: the same structural recursion over a tagged node union,
// retargeted from participle's internal node graph (node/disjunction/
// sequence/...) onto ast.Definition/ast.Term, the types this tree
// actually has.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, d := range g.Definitions {
		writeDefinition(&sb, d)
	}
	return sb.String()
}

func writeDefinition(sb *strings.Builder, d *ast.Definition) {
	sb.WriteString(d.LHS.Name)
	sb.WriteString(" ::=")
	if d.Kind != ast.Plain {
		sb.WriteString(" (")
		sb.WriteString(d.Kind.String())
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	for _, alt := range d.Alternatives {
		sb.WriteString("    ")
		writeBodyAlternative(sb, d.Kind, alt)
		sb.WriteString("\n")
	}
}

// writeBodyAlternative renders one rhs_line. (one of) and (regexp)
// rules hold exactly one term per alternative — the literal or the
// raw pattern — and are rendered bare; every other kind renders as a
// space-joined term sequence.
func writeBodyAlternative(sb *strings.Builder, kind ast.RuleKind, alt ast.Alternative) {
	if (kind == ast.OneOf || kind == ast.Regexp) && len(alt) == 1 {
		writeBareTerm(sb, kind, alt[0])
		return
	}
	for i, t := range alt {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeTerm(sb, t)
	}
}

func writeBareTerm(sb *strings.Builder, kind ast.RuleKind, t ast.Term) {
	if kind == ast.Regexp {
		sb.WriteString(t.Text)
		return
	}
	sb.WriteString(t.Text)
}

func writeTerm(sb *strings.Builder, t ast.Term) {
	switch t.Kind {
	case ast.TermGroup:
		sb.WriteString("(")
		for i, alt := range t.Group {
			if i > 0 {
				sb.WriteString(" | ")
			}
			for j, term := range alt {
				if j > 0 {
					sb.WriteString(" ")
				}
				writeTerm(sb, term)
			}
		}
		sb.WriteString(")")
	case ast.TermSym:
		sb.WriteString(t.Sym.Name)
	case ast.TermLiteral:
		sb.WriteString("'")
		sb.WriteString(strings.ReplaceAll(t.Text, "'", `\'`))
		sb.WriteString("'")
	case ast.TermRegexp:
		sb.WriteString(t.Text)
	case ast.TermQuantified:
		writeTerm(sb, *t.Inner)
		sb.WriteByte(byte(t.Quantifier))
	}
}
