// Package vm holds the compact byte-addressable instruction encoding, the
// immutable compiled Program it is packaged into, the dense variable
// Context a program is evaluated against, and the stack machine that
// executes a Program against a Context.
//
// A Program is safe to evaluate concurrently from multiple goroutines, each
// with its own Interpreter and Context; nothing here mutates shared state.
package vm

import "github.com/skx/mathvm/builtins"

// Op is a single one-byte instruction opcode.
type Op byte

const (
	// OpLoadConst pushes constants[u16 operand].
	OpLoadConst Op = iota
	// OpLoadVar pushes context[u16 operand].
	OpLoadVar
	// OpAdd, OpSub, OpMul, OpDiv, OpPow pop b, pop a, push a∘b.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	// OpNeg pops a, pushes -a.
	OpNeg
	// OpCall pops n args (u16 func index, u8 arg count operands), pushes
	// the result of calling the resolved function.
	OpCall
)

// Program is the immutable artifact a Compiler produces: an instruction
// stream plus the three flat pools it indexes into. It is cheap to share —
// copy the struct (or just pass a pointer) to hand it to another goroutine.
type Program struct {
	// Code is the instruction stream: opcode bytes interleaved with their
	// fixed-width operands, no jumps.
	Code []byte

	// Constants holds every distinct f64 literal the program references,
	// in first-use order, bit-deduplicated.
	Constants []float64

	// VarNames holds every distinct variable name the program
	// references, in first-appearance order in the (optimized) source.
	VarNames []string

	// FuncNames holds every distinct function name the program
	// references, in first-appearance order, parallel to Funcs.
	FuncNames []string

	// Funcs holds the resolved function pointer and arity metadata for
	// each entry of FuncNames. An unresolved name's entry is
	// builtins.Sentinel.
	Funcs []*builtins.Builtin

	// Warnings holds non-fatal lowering diagnostics, such as an unknown
	// function name resolving to the NaN sentinel. Compilation still
	// succeeds; these are purely informational.
	Warnings []string
}

// CreateContext returns a Context pre-sized to len(VarNames), with every
// slot initialized to zero.
func (p *Program) CreateContext() *Context {
	return &Context{values: make([]float64, len(p.VarNames))}
}
