// Package lower implements the EBNF→BNF lowering (spec.md §4.E): it
// folds every Group and Quantified term into a freshly named
// nonterminal, maps every Sym to a terminal or nonterminal in the
// output, and drives an abstract Builder so the result can be captured
// however the caller likes (a concrete in-memory BNF, a test double, a
// binding to a downstream parser engine's grammar constructor).
//
// No single teacher file does this — participle lowers Go struct tags
// into a node tree it executes directly, never EBNF into BNF text — so
// this package composes three grounded idioms instead: root ebnf.go's
// seen-map traversal (here, the Term.Key()-keyed memo table), the
// pluggable lexer.Definition interface idiom (here, the Builder
// interface), and stringer.go's depth-limited dump (bnfSymbolName
// synthesis, via its successor, ast.Term.Dump).
package lower

import (
	"fmt"

	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/grammar"
	"github.com/alecthomas/ebnflang/source"
)

// Sym is the lowering's output symbol type: opaque to the lowering
// itself, concrete enough (a comparable string) to key a memo table
// and a rule table without reflection.
type Sym string

// Builder is the pluggable sink the lowering drives (spec.md §4.E).
// Exactly one MakeTerminal/MakeNonterminal call happens per distinct
// sub-term, by construction of the memo table in Lower.
type Builder interface {
	MakeTerminal(source ast.EBNFNode) Sym
	MakeNonterminal(source ast.EBNFNode) Sym
	SetStartSymbol(sym Sym)
	AddRule(lhs Sym, rhs []Sym, source ast.EBNFNode)
}

// Rule is one BNF production, as recorded by GrammarBuilder.
type Rule struct {
	LHS    Sym
	RHS    []Sym // nil/empty means an ε production
	Source ast.EBNFNode
}

// BNF is the lowering's concrete output, as assembled by GrammarBuilder:
// the symbol sets, the rule list, the start symbol, and the
// symbol→provenance maps spec.md §4.E requires ("a back-map from every
// output symbol and rule to the source EBNFNode that produced it").
type BNF struct {
	Terminals    []Sym
	Nonterminals []Sym
	Rules        []Rule
	Start        Sym

	// SymbolName is each symbol's bnfSymbolName: a bare name for a
	// symbol that stands directly for a source Symbol, or the source
	// fragment's Dump wrapped in back-ticks for a synthesized one.
	SymbolName map[Sym]string
	// SymbolRange is each symbol's source range, for diagnostics that
	// need to point at the fragment a generated symbol came from.
	SymbolRange map[Sym]source.Range
}

// GrammarBuilder is the default Builder: it materializes a BNF in
// memory. Grounded on the teacher's generatorContext — single-owner
// mutable state accumulated across a traversal, with no concurrent
// access (spec.md §5: "exclusively owned by its invocation").
type GrammarBuilder struct {
	bnf  *BNF
	next int
}

func NewGrammarBuilder() *GrammarBuilder {
	return &GrammarBuilder{
		bnf: &BNF{
			SymbolName:  map[Sym]string{},
			SymbolRange: map[Sym]source.Range{},
		},
	}
}

// BNF returns the grammar assembled so far. Meaningful once Lower has
// returned.
func (b *GrammarBuilder) BNF() *BNF { return b.bnf }

func (b *GrammarBuilder) MakeTerminal(node ast.EBNFNode) Sym {
	sym := b.symbolFor(node)
	b.bnf.Terminals = append(b.bnf.Terminals, sym)
	return sym
}

func (b *GrammarBuilder) MakeNonterminal(node ast.EBNFNode) Sym {
	sym := b.symbolFor(node)
	b.bnf.Nonterminals = append(b.bnf.Nonterminals, sym)
	return sym
}

// symbolFor assigns a Sym and records its provenance. A Sym(s) term
// stands directly for the source symbol s, so it keeps s's own name
// (bare, per spec.md §4.E's "bare names stay bare"); every other term
// shape gets a fresh synthetic name and a back-ticked dump.
func (b *GrammarBuilder) symbolFor(node ast.EBNFNode) Sym {
	var sym Sym
	var name string
	if t, ok := node.(ast.Term); ok && t.Kind == ast.TermSym {
		sym = Sym(t.Sym.Name)
		name = t.Sym.Name
	} else {
		b.next++
		sym = Sym(fmt.Sprintf("_g%d", b.next))
		name = "`" + node.Dump(4) + "`"
	}
	b.bnf.SymbolName[sym] = name
	b.bnf.SymbolRange[sym] = node.SourceRange()
	return sym
}

func (b *GrammarBuilder) SetStartSymbol(sym Sym) { b.bnf.Start = sym }

func (b *GrammarBuilder) AddRule(lhs Sym, rhs []Sym, node ast.EBNFNode) {
	b.bnf.Rules = append(b.bnf.Rules, Rule{LHS: lhs, RHS: rhs, Source: node})
}

// Lower drives b over g's Plain definitions, producing an equivalent
// BNF (spec.md §4.E). g is assumed already validated by grammar.New;
// the lowering raises no diagnostics of its own (spec.md §4.G).
func Lower(g *grammar.Grammar, b Builder) {
	lo := &lowering{g: g, b: b, memo: map[string]Sym{}}
	for _, d := range g.Nonterminals() {
		lo.lowerDefinition(d)
	}
	b.SetStartSymbol(lo.lowerSymTerm(ast.SymTerm(g.Start)))
}

type lowering struct {
	g    *grammar.Grammar
	b    Builder
	memo map[string]Sym
}

// lowerDefinition lowers one Plain definition's alternatives into
// rules headed by its own nonterminal (spec.md §4.E, "Top level").
func (lo *lowering) lowerDefinition(d *ast.Definition) Sym {
	sym := lo.lowerSymTerm(ast.SymTerm(d.LHS))
	for _, alt := range d.Alternatives {
		lo.b.AddRule(sym, lo.lowerAlternative(alt), alt)
	}
	return sym
}

func (lo *lowering) lowerAlternative(alt ast.Alternative) []Sym {
	rhs := make([]Sym, len(alt))
	for i, t := range alt {
		rhs[i] = lo.lowerTerm(t)
	}
	return rhs
}

// lowerTerm lowers a single term, memoized by Term.Key() so that every
// syntactically distinct sub-term gets exactly one output symbol no
// matter how many times it recurs (spec.md §4.E, "Memoization").
func (lo *lowering) lowerTerm(t ast.Term) Sym {
	if t.Kind == ast.TermSym {
		return lo.lowerSymTerm(t)
	}

	key := t.Key()
	if sym, ok := lo.memo[key]; ok {
		return sym
	}

	switch t.Kind {
	case ast.TermGroup:
		sym := lo.b.MakeNonterminal(t)
		lo.memo[key] = sym
		for _, alt := range t.Group {
			lo.b.AddRule(sym, lo.lowerAlternative(alt), t)
		}
		return sym

	case ast.TermLiteral, ast.TermRegexp:
		sym := lo.b.MakeTerminal(t)
		lo.memo[key] = sym
		return sym

	case ast.TermQuantified:
		sym := lo.b.MakeNonterminal(t)
		lo.memo[key] = sym
		inner := lo.lowerTerm(*t.Inner)
		switch t.Quantifier {
		case ast.QuantStar:
			lo.b.AddRule(sym, nil, t)
			lo.b.AddRule(sym, []Sym{sym, inner}, t)
		case ast.QuantPlus:
			lo.b.AddRule(sym, []Sym{inner}, t)
			lo.b.AddRule(sym, []Sym{sym, inner}, t)
		case ast.QuantQuestion:
			lo.b.AddRule(sym, nil, t)
			lo.b.AddRule(sym, []Sym{inner}, t)
		}
		return sym
	}
	panic(fmt.Sprintf("lower: unreachable term kind %d", t.Kind))
}

// lowerSymTerm resolves a Sym(s) term: a nonterminal if s names a
// Plain rule, a terminal otherwise (s names a Token/OneOf/Regexp rule,
// whose internal structure surfaces via package scandesc instead).
func (lo *lowering) lowerSymTerm(t ast.Term) Sym {
	key := t.Key()
	if sym, ok := lo.memo[key]; ok {
		return sym
	}
	var sym Sym
	if def, ok := lo.g.Lookup(t.Sym.Name); ok && def.Kind == ast.Plain {
		sym = lo.b.MakeNonterminal(t)
	} else {
		sym = lo.b.MakeTerminal(t)
	}
	lo.memo[key] = sym
	return sym
}
