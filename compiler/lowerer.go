package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/skx/mathvm/ast"
	"github.com/skx/mathvm/builtins"
	"github.com/skx/mathvm/diagnostics"
	"github.com/skx/mathvm/vm"
)

// maxPoolIndex caps each pool at 0xFFFF entries (indices 0 through 0xFFFE),
// so every pool index fits a u16 operand.
const maxPoolIndex = 0xFFFF

// maxArgCount is the largest argument count a u8 operand can carry.
const maxArgCount = 0xFF

// lowerer walks an optimized ast.Expr and emits a vm.Program: a flat byte
// stream plus the deduplicated constant, variable, and function pools it
// indexes into.
type lowerer struct {
	code      []byte
	constants []float64

	// constIdx is keyed on the constant's raw bit pattern, not the float64
	// value itself: Go's float equality (and so its map-key equality)
	// treats -0.0 == 0.0 and never matches NaN against itself, which would
	// either wrongly merge distinct-signed zeros or never dedup identical
	// NaN literals. Bit-pattern keys dedup exactly the bit-equal values
	// the pool is defined over.
	constIdx map[uint64]int

	varNames []string
	varIdx   map[string]int

	funcNames []string
	funcIdx   map[string]int
	funcs     []*builtins.Builtin

	warnings []string
}

func newLowerer() *lowerer {
	return &lowerer{
		constIdx: make(map[uint64]int),
		varIdx:   make(map[string]int),
		funcIdx:  make(map[string]int),
	}
}

// Lower compiles an optimized expression tree into a vm.Program.
func Lower(e ast.Expr) (*vm.Program, error) {
	lw := newLowerer()
	if err := lw.emit(e); err != nil {
		return nil, err
	}
	return &vm.Program{
		Code:      lw.code,
		Constants: lw.constants,
		VarNames:  lw.varNames,
		FuncNames: lw.funcNames,
		Funcs:     lw.funcs,
		Warnings:  lw.warnings,
	}, nil
}

func (lw *lowerer) emit(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Number:
		idx, err := lw.constantIndex(n.Value)
		if err != nil {
			return err
		}
		lw.emitOp(vm.OpLoadConst, idx)
		return nil

	case *ast.Variable:
		idx, err := lw.variableIndex(n.Name)
		if err != nil {
			return err
		}
		lw.emitOp(vm.OpLoadVar, idx)
		return nil

	case *ast.Unary:
		if err := lw.emit(n.Expr); err != nil {
			return err
		}
		lw.code = append(lw.code, byte(vm.OpNeg))
		return nil

	case *ast.Binary:
		if err := lw.emit(n.Left); err != nil {
			return err
		}
		if err := lw.emit(n.Right); err != nil {
			return err
		}
		lw.code = append(lw.code, byte(opFor(n.Op)))
		return nil

	case *ast.Call:
		for _, a := range n.Args {
			if err := lw.emit(a); err != nil {
				return err
			}
		}
		if len(n.Args) > maxArgCount {
			return diagnostics.NewArityOverflow(n.Name, len(n.Args))
		}
		fidx, err := lw.functionIndex(n.Name)
		if err != nil {
			return err
		}
		lw.code = append(lw.code, byte(vm.OpCall))
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(fidx))
		lw.code = append(lw.code, buf[:]...)
		lw.code = append(lw.code, byte(len(n.Args)))
		return nil

	default:
		return fmt.Errorf("lowerer: unsupported expression node %T", e)
	}
}

// emitOp appends a one-byte opcode followed by a u16 big-endian pool index.
func (lw *lowerer) emitOp(op vm.Op, idx int) {
	lw.code = append(lw.code, byte(op))
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(idx))
	lw.code = append(lw.code, buf[:]...)
}

func (lw *lowerer) constantIndex(v float64) (int, error) {
	bits := math.Float64bits(v)
	if idx, ok := lw.constIdx[bits]; ok {
		return idx, nil
	}
	if len(lw.constants) >= maxPoolIndex {
		return 0, diagnostics.NewPoolOverflow("constant")
	}
	idx := len(lw.constants)
	lw.constants = append(lw.constants, v)
	lw.constIdx[bits] = idx
	return idx, nil
}

func (lw *lowerer) variableIndex(name string) (int, error) {
	if idx, ok := lw.varIdx[name]; ok {
		return idx, nil
	}
	if len(lw.varNames) >= maxPoolIndex {
		return 0, diagnostics.NewPoolOverflow("variable")
	}
	idx := len(lw.varNames)
	lw.varNames = append(lw.varNames, name)
	lw.varIdx[name] = idx
	return idx, nil
}

// functionIndex resolves name against the builtin registry, falling back to
// builtins.Sentinel (and recording a non-fatal warning) for an unrecognized
// name. An unknown function is never a compile error.
func (lw *lowerer) functionIndex(name string) (int, error) {
	if idx, ok := lw.funcIdx[name]; ok {
		return idx, nil
	}
	if len(lw.funcNames) >= maxPoolIndex {
		return 0, diagnostics.NewPoolOverflow("function")
	}

	fn, ok := builtins.Lookup(name)
	if !ok {
		fn = builtins.Sentinel
		lw.warnings = append(lw.warnings, unknownFunctionWarning(name))
	}

	idx := len(lw.funcNames)
	lw.funcNames = append(lw.funcNames, name)
	lw.funcIdx[name] = idx
	lw.funcs = append(lw.funcs, fn)
	return idx, nil
}

// unknownFunctionWarning builds a "did you mean" suggestion from the
// registered builtin names: among the names that contain name's letters in
// order (case-insensitively), the one with the smallest edit distance.
func unknownFunctionWarning(name string) string {
	candidates := builtins.Names()
	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	if len(ranks) == 0 {
		return fmt.Sprintf("unknown function %q: calls to it will evaluate to NaN", name)
	}
	return fmt.Sprintf("unknown function %q: calls to it will evaluate to NaN (did you mean %q?)", name, ranks[0].Target)
}

func opFor(op ast.BinaryOp) vm.Op {
	switch op {
	case ast.Add:
		return vm.OpAdd
	case ast.Sub:
		return vm.OpSub
	case ast.Mul:
		return vm.OpMul
	case ast.Div:
		return vm.OpDiv
	case ast.Pow:
		return vm.OpPow
	default:
		return vm.OpAdd
	}
}
