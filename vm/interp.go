package vm

import (
	"encoding/binary"
	"math"

	"github.com/skx/mathvm/diagnostics"
)

// Interpreter is a stack machine bound to one Program. Repeated calls to
// Run reuse its value stack (cleared, not reallocated), so no allocation
// happens in the hot path once the stack has reached its working depth —
// the only vehicle for the zero-allocation property spec.md describes is
// holding onto one Interpreter across many runs, exactly as EvalBatch does
// internally.
type Interpreter struct {
	program *Program
	stack   []float64
}

// NewInterpreter builds an Interpreter for program with an initial stack
// capacity hint of 32, per spec.
func NewInterpreter(program *Program) *Interpreter {
	return &Interpreter{program: program, stack: make([]float64, 0, 32)}
}

// Run executes the program's instruction stream against ctx and returns the
// single resulting value.
func (it *Interpreter) Run(ctx *Context) (float64, error) {
	p := it.program

	if ctx.Len() < len(p.VarNames) {
		return 0, diagnostics.NewVariableCountMismatch(len(p.VarNames), ctx.Len())
	}

	it.stack = it.stack[:0]
	code := p.Code
	pc := 0

	for pc < len(code) {
		op := Op(code[pc])
		pc++

		switch op {
		case OpLoadConst:
			idx := binary.BigEndian.Uint16(code[pc:])
			pc += 2
			it.stack = append(it.stack, p.Constants[idx])

		case OpLoadVar:
			idx := binary.BigEndian.Uint16(code[pc:])
			pc += 2
			it.stack = append(it.stack, ctx.GetByIndex(int(idx)))

		case OpAdd, OpSub, OpMul, OpDiv, OpPow:
			n := len(it.stack)
			if n < 2 {
				return 0, diagnostics.NewStackUnderflow()
			}
			a, b := it.stack[n-2], it.stack[n-1]
			it.stack = it.stack[:n-2]

			var result float64
			switch op {
			case OpAdd:
				result = a + b
			case OpSub:
				result = a - b
			case OpMul:
				result = a * b
			case OpDiv:
				if b == 0.0 {
					return 0, diagnostics.NewDivisionByZero()
				}
				result = a / b
			case OpPow:
				result = math.Pow(a, b)
			}
			it.stack = append(it.stack, result)

		case OpNeg:
			n := len(it.stack)
			if n < 1 {
				return 0, diagnostics.NewStackUnderflow()
			}
			it.stack[n-1] = -it.stack[n-1]

		case OpCall:
			fidx := binary.BigEndian.Uint16(code[pc:])
			pc += 2
			argc := int(code[pc])
			pc++

			if int(fidx) >= len(p.Funcs) {
				return 0, diagnostics.NewInvalidFunctionIndex(int(fidx))
			}
			n := len(it.stack)
			if n < argc {
				return 0, diagnostics.NewStackUnderflow()
			}

			fn := p.Funcs[fidx]
			if !fn.Accepts(argc) {
				return 0, diagnostics.NewWrongArgumentCount(p.FuncNames[fidx], fn.Arity, argc)
			}

			args := it.stack[n-argc : n]
			result := fn.Fn(args)
			it.stack = append(it.stack[:n-argc], result)

		default:
			return 0, diagnostics.NewUnknownOpcode(byte(op))
		}
	}

	if len(it.stack) != 1 {
		return 0, diagnostics.NewStackUnderflow()
	}
	return it.stack[0], nil
}

// Eval compiles down to a single-shot Interpreter: construct one, run it
// once. Since a fresh Interpreter is allocated per call, this convenience
// method is not the zero-allocation path — hold onto an Interpreter (or use
// EvalBatch) for that.
func (p *Program) Eval(ctx *Context) (float64, error) {
	return NewInterpreter(p).Run(ctx)
}

// EvalBatch evaluates the program once per entry of varSets, reusing one
// Interpreter (and its warmed stack) across the whole batch. Each inner
// slice's length must equal len(p.VarNames) exactly.
func (p *Program) EvalBatch(varSets [][]float64) ([]float64, error) {
	it := NewInterpreter(p)
	results := make([]float64, len(varSets))

	for i, vars := range varSets {
		if len(vars) != len(p.VarNames) {
			return nil, diagnostics.NewVariableCountMismatch(len(p.VarNames), len(vars))
		}
		result, err := it.Run(&Context{values: vars})
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}
