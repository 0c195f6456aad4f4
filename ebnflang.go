// Package ebnflang is the grammar toolchain CORE (spec.md §1): it
// turns grammar source text into a validated Grammar, an equivalent
// BNF with provenance, and a scanner description, via Compile.
//
// The heavy lifting lives in the subordinate packages (ast, grammar,
// lower, scandesc, diag, lexer, source); this file only wires them
// into the single pipeline spec.md §6 describes as CORE's external
// interface, the way the teacher's cmd/participle ties parser
// construction and code generation together behind one call.
package ebnflang

import (
	"github.com/alecthomas/ebnflang/ast"
	"github.com/alecthomas/ebnflang/diag"
	"github.com/alecthomas/ebnflang/grammar"
	"github.com/alecthomas/ebnflang/lower"
	"github.com/alecthomas/ebnflang/scandesc"
	"github.com/alecthomas/ebnflang/source"
)

// Result is Compile's output (spec.md §6, "Outputs"): a validated
// Grammar, its lowered BNF, a scanner description, and the diagnostic
// log that reported them empty. Grammar, BNF, and Scanner are nil when
// Log is non-empty — Compile does not return a partial pipeline.
type Result struct {
	Grammar *grammar.Grammar
	BNF     *lower.BNF
	Scanner *scandesc.Description
	Log     *diag.Log
}

// Compile runs the full lex→parse→validate→lower→describe pipeline
// over file, resolving start as the grammar's start symbol.
func Compile(file *source.File, start string) *Result {
	defs, plog := ast.Parse(file)
	if !plog.Empty() {
		return &Result{Log: plog}
	}

	g, glog := grammar.New(defs, start)
	if !glog.Empty() {
		return &Result{Log: glog}
	}

	b := lower.NewGrammarBuilder()
	lower.Lower(g, b)

	return &Result{
		Grammar: g,
		BNF:     b.BNF(),
		Scanner: scandesc.Describe(g),
		Log:     glog,
	}
}
