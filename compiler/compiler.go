// Package compiler ties the pipeline together: lex and parse source text
// into an expression tree, optimize that tree, then lower it to a compact
// vm.Program.
//
// The three stages are also exposed individually (Parse, optimizer.Optimize,
// Lower) for callers that want to inspect the tree in between, but most
// callers just want Compile.
package compiler

import (
	"github.com/skx/mathvm/optimizer"
	"github.com/skx/mathvm/vm"
)

// Compiler is a reusable handle onto the pipeline: one value can compile
// many different expressions, one per Compile call, the way the original
// Compiler::compile(&self, input) does.
type Compiler struct{}

// New builds a Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile runs the full pipeline against expression, returning a
// ready-to-evaluate Program.
func (c *Compiler) Compile(expression string) (*vm.Program, error) {
	return Compile(expression)
}

// Compile is the package-level convenience form of (*Compiler).Compile: it
// parses, optimizes, and lowers expression in one call.
func Compile(expression string) (*vm.Program, error) {
	tree, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return Lower(optimizer.Optimize(tree))
}
