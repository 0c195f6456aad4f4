// Package grammar implements the grammar toolchain's validated grammar
// model (spec.md §4.D): indexing a parsed ast.DefinitionList by name,
// resolving the start symbol, and running the four checks that turn a
// bag of rules into a grammar fit to lower: every referenced symbol is
// defined, every definition is reachable from the start symbol, no
// (token) rule recurses into itself, and no name is defined twice.
//
// Grounded on the teacher's generatorContext (grammar.go) for the
// index-then-validate shape, and visit.go's seen-set depth-first walk
// for the two DFS passes (reachability and token-cycle detection),
// generalized from a name's struct-field graph to a Symbol's Term
// graph.
package grammar

import (
	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/diag"
	"github.com/alecthomas/ebnflang/source"
)

// Grammar is a DefinitionList that has passed validation: every symbol
// it refers to is defined, reachable, and (for token rules) acyclic.
type Grammar struct {
	Definitions ast.DefinitionList
	Start       ast.Symbol

	byName map[string]*ast.Definition
}

// New indexes defs and validates them in five passes, in order:
//
//  1. index by LHS, rejecting a second definition of the same name
//  2. resolve start by name
//  3. every Sym term resolves to a defined symbol, honoring the rule
//     that a (regexp) rule may only be referenced from within a
//     (token) rule's body
//  4. every definition is reachable from start
//  5. no (token) rule recurses into itself through other (token) rules
//
// On any diagnostic, New returns a nil *Grammar alongside the
// populated log — a grammar that failed validation is not returned
// half-built (spec.md §4.D, mirroring the parser's all-or-nothing
// failure mode).
func New(defs ast.DefinitionList, start string) (*Grammar, *diag.Log) {
	var log diag.Log
	g := &Grammar{Definitions: defs, byName: make(map[string]*ast.Definition, len(defs))}

	for _, d := range defs {
		if existing, ok := g.byName[d.LHS.Name]; ok {
			log.Errorf(diag.DuplicateDefinition, d.LHS.Range, "%q is already defined", d.LHS.Name).
				WithNote("first defined here", existing.LHS.Range)
			continue
		}
		g.byName[d.LHS.Name] = d
	}

	startDef, haveStart := g.byName[start]
	if !haveStart {
		log.Errorf(diag.UndefinedSymbol, source.NoneRange, "start symbol %q is not defined", start)
	} else {
		g.Start = startDef.LHS
	}

	for _, d := range defs {
		g.checkSymbolsDefined(d, &log)
	}

	if haveStart {
		g.checkReachable(startDef, &log)
	}

	g.checkTokenCycles(&log)

	if !log.Empty() {
		return nil, &log
	}
	return g, &log
}

// checkSymbolsDefined walks every Sym term in d's body and confirms it
// names a real definition; a Sym naming a (regexp) rule is only legal
// from within a (token) rule (spec.md §9, Open Question 3).
func (g *Grammar) checkSymbolsDefined(d *ast.Definition, log *diag.Log) {
	walkAlternatives(d.Alternatives, func(t ast.Term) {
		if t.Kind != ast.TermSym {
			return
		}
		def, ok := g.byName[t.Sym.Name]
		if !ok {
			log.Errorf(diag.UndefinedSymbol, t.Sym.Range, "%q is not defined", t.Sym.Name)
			return
		}
		if def.Kind == ast.Regexp && d.Kind != ast.Token {
			log.Errorf(diag.UndefinedSymbol, t.Sym.Range,
				"%q is a (regexp) rule and can only be referenced from a (token) rule", t.Sym.Name)
		}
	})
}

// checkReachable marks every definition reachable from start via Sym
// references and reports the rest as unreachable.
func (g *Grammar) checkReachable(start *ast.Definition, log *diag.Log) {
	visited := make(map[string]bool, len(g.byName))
	var visit func(d *ast.Definition)
	visit = func(d *ast.Definition) {
		if visited[d.LHS.Name] {
			return
		}
		visited[d.LHS.Name] = true
		walkAlternatives(d.Alternatives, func(t ast.Term) {
			if t.Kind != ast.TermSym {
				return
			}
			if next, ok := g.byName[t.Sym.Name]; ok {
				visit(next)
			}
		})
	}
	visit(start)

	for _, d := range g.Definitions {
		if !visited[d.LHS.Name] {
			log.Errorf(diag.UnreachableSymbol, d.LHS.Range,
				"%q is unreachable from start symbol %q", d.LHS.Name, start.LHS.Name)
		}
	}
}

// checkTokenCycles runs a three-color DFS over the subgraph of (token)
// rules connected by Sym references, reporting any back-edge as a
// recursive token rule (spec.md §4.D: token rules feed the scanner
// description and must not recurse).
func (g *Grammar) checkTokenCycles(log *diag.Log) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(g.byName))

	var visit func(d *ast.Definition)
	visit = func(d *ast.Definition) {
		color[d.LHS.Name] = gray
		walkAlternatives(d.Alternatives, func(t ast.Term) {
			if t.Kind != ast.TermSym {
				return
			}
			next, ok := g.byName[t.Sym.Name]
			if !ok || next.Kind != ast.Token {
				return
			}
			switch color[next.LHS.Name] {
			case gray:
				log.Errorf(diag.RecursiveTokenRule, t.Sym.Range,
					"(token) rule %q is recursive via %q", d.LHS.Name, next.LHS.Name)
			case white:
				visit(next)
			}
		})
		color[d.LHS.Name] = black
	}

	for _, d := range g.Definitions {
		if d.Kind == ast.Token && color[d.LHS.Name] == white {
			visit(d)
		}
	}
}

// Lookup returns the definition named name, if any.
func (g *Grammar) Lookup(name string) (*ast.Definition, bool) {
	d, ok := g.byName[name]
	return d, ok
}

// Nonterminals returns the (plain) rules, in source order — these are
// the symbols the lowering (package lower) turns into BNF
// nonterminals.
func (g *Grammar) Nonterminals() []*ast.Definition { return g.filter(ast.Plain) }

// TokenRules returns the (token) rules, in source order.
func (g *Grammar) TokenRules() []*ast.Definition { return g.filter(ast.Token) }

// OneOfRules returns the (one of) rules, in source order.
func (g *Grammar) OneOfRules() []*ast.Definition { return g.filter(ast.OneOf) }

// RegexpRules returns the (regexp) rules, in source order.
func (g *Grammar) RegexpRules() []*ast.Definition { return g.filter(ast.Regexp) }

func (g *Grammar) filter(kind ast.RuleKind) []*ast.Definition {
	var out []*ast.Definition
	for _, d := range g.Definitions {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Literals returns every distinct quoted-literal text appearing
// anywhere in the grammar (one-of bodies and token/plain bodies
// alike), in first-appearance order. The scanner description (package
// scandesc) uses this as the basis of its literal set.
func (g *Grammar) Literals() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range g.Definitions {
		walkAlternatives(d.Alternatives, func(t ast.Term) {
			if t.Kind == ast.TermLiteral && !seen[t.Text] {
				seen[t.Text] = true
				out = append(out, t.Text)
			}
		})
	}
	return out
}

// walkAlternatives visits every term reachable from alts, descending
// into groups and quantified operands.
func walkAlternatives(alts ast.AlternativeList, fn func(ast.Term)) {
	for _, alt := range alts {
		for _, t := range alt {
			walkTerm(t, fn)
		}
	}
}

func walkTerm(t ast.Term, fn func(ast.Term)) {
	fn(t)
	switch t.Kind {
	case ast.TermGroup:
		walkAlternatives(t.Group, fn)
	case ast.TermQuantified:
		walkTerm(*t.Inner, fn)
	}
}
