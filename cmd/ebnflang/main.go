// Command ebnflang is a thin CLI over the ebnflang CORE: check
// validates a grammar, bnf prints its lowered BNF, scan prints its
// scanner description. Grounded on the teacher's cmd/participle and
// cmd/antlr2participle main.go: kong.Parse(&cli, ...) followed by
// ctx.Run()/ctx.FatalIfErrorf, and the --debug flag's repr.Println(ast)
// dump convention carried over from participle's _examples/*/main.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/alecthomas/ebnflang"
	"github.com/alecthomas/ebnflang/source"
)

// CLI is the root command, holding the flag every subcommand shares.
type CLI struct {
	Debug bool `help:"Dump the compiled result via repr before printing output."`

	Check CheckCmd `cmd:"" help:"Validate a grammar file."`
	Bnf   BnfCmd   `cmd:"" help:"Lower a grammar file to BNF."`
	Scan  ScanCmd  `cmd:"" help:"Print a grammar's scanner description."`
}

// CheckCmd validates a grammar and reports any diagnostics.
type CheckCmd struct {
	File  string `arg:"" type:"existingfile" help:"Grammar file to check."`
	Start string `default:"start" help:"Start symbol."`
}

func (c *CheckCmd) Run(cli *CLI) error {
	result, err := compile(c.File, c.Start, cli.Debug)
	if err != nil {
		return err
	}
	fmt.Print(result.Grammar.String())
	return nil
}

// BnfCmd lowers a grammar and prints the resulting BNF rules.
type BnfCmd struct {
	File  string `arg:"" type:"existingfile" help:"Grammar file to lower."`
	Start string `default:"start" help:"Start symbol."`
}

func (c *BnfCmd) Run(cli *CLI) error {
	result, err := compile(c.File, c.Start, cli.Debug)
	if err != nil {
		return err
	}
	for _, r := range result.BNF.Rules {
		lhs := result.BNF.SymbolName[r.LHS]
		if len(r.RHS) == 0 {
			fmt.Printf("%s -> ε\n", lhs)
			continue
		}
		rhs := make([]string, len(r.RHS))
		for i, s := range r.RHS {
			rhs[i] = result.BNF.SymbolName[s]
		}
		fmt.Printf("%s -> %s\n", lhs, strings.Join(rhs, " "))
	}
	fmt.Printf("start: %s\n", result.BNF.SymbolName[result.BNF.Start])
	return nil
}

// ScanCmd prints a grammar's derived scanner description.
type ScanCmd struct {
	File  string `arg:"" type:"existingfile" help:"Grammar file to describe."`
	Start string `default:"start" help:"Start symbol."`
}

func (c *ScanCmd) Run(cli *CLI) error {
	result, err := compile(c.File, c.Start, cli.Debug)
	if err != nil {
		return err
	}
	fmt.Println("literals:")
	for _, l := range result.Scanner.Literals {
		fmt.Printf("  %q\n", l)
	}
	fmt.Println("patterns:")
	for _, p := range result.Scanner.Patterns {
		fmt.Printf("  %s: %s\n", p.Name, p.Regexp)
	}
	fmt.Printf("unrecognized-character terminal: %s\n", result.Scanner.UnrecognizedTerminal)
	return nil
}

// compile reads path, runs the CORE pipeline, and (if debug) dumps the
// result via repr before surfacing any diagnostic log as an error.
func compile(path, start string, debug bool) (*ebnflang.Result, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := source.NewFile(path, string(text), 1)
	result := ebnflang.Compile(file, start)
	if debug {
		repr.Println(result)
	}
	if err := result.Log.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ebnflang"),
		kong.Description("Validate, lower, and describe the scanner for an EBNF grammar."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
