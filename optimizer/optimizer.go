// Package optimizer performs a single bottom-up rewrite of an expression
// tree: constant folding plus a fixed set of algebraic identities. The
// rewrite is post-order, so a subtree folded to a literal by recursing into
// it is already a literal by the time its parent's rule is checked — one
// pass is enough.
package optimizer

import (
	"math"

	"github.com/skx/mathvm/ast"
)

// Optimize returns an equivalent, possibly smaller, expression tree.
func Optimize(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Number:
		return n

	case *ast.Variable:
		return n

	case *ast.Unary:
		child := Optimize(n.Expr)
		if num, ok := child.(*ast.Number); ok {
			return &ast.Number{Value: -num.Value}
		}
		return &ast.Unary{Expr: child}

	case *ast.Binary:
		left := Optimize(n.Left)
		right := Optimize(n.Right)
		return foldBinary(n.Op, left, right)

	case *ast.Call:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Optimize(a)
		}
		return &ast.Call{Name: n.Name, Args: args}

	default:
		return e
	}
}

// foldBinary applies the algebraic identities, then falls back to generic
// constant folding for an all-literal node no identity matched.
//
// Identities are checked first and unconditionally — including "x * 0" when
// x is itself a literal NaN or Inf. That is a deliberate departure from
// strict IEEE semantics (see the open-question note in DESIGN.md): folding
// ahead of evaluation erases a NaN/Inf that naive left-to-right evaluation
// would have propagated. The spec's documented policy keeps this rule
// unconditionally rather than restricting it to provably-finite operands.
func foldBinary(op ast.BinaryOp, left, right ast.Expr) ast.Expr {
	switch op {
	case ast.Add:
		if isLiteral(right, 0) {
			return left
		}
		if isLiteral(left, 0) {
			return right
		}
	case ast.Sub:
		if isLiteral(right, 0) {
			return left
		}
	case ast.Mul:
		if isLiteral(right, 0) || isLiteral(left, 0) {
			return &ast.Number{Value: 0}
		}
		if isLiteral(right, 1) {
			return left
		}
		if isLiteral(left, 1) {
			return right
		}
	case ast.Div:
		if isLiteral(right, 1) {
			return left
		}
	case ast.Pow:
		if isLiteral(right, 0) {
			return &ast.Number{Value: 1}
		}
		if isLiteral(right, 1) {
			return left
		}
	}

	lNum, lIsNum := left.(*ast.Number)
	rNum, rIsNum := right.(*ast.Number)
	if lIsNum && rIsNum {
		// Division by exactly zero is left unfolded: the error must be
		// observable at evaluation time, not compile time.
		if !(op == ast.Div && rNum.Value == 0.0) {
			if v, ok := foldConstants(op, lNum.Value, rNum.Value); ok {
				return &ast.Number{Value: v}
			}
		}
	}

	return &ast.Binary{Op: op, Left: left, Right: right}
}

func foldConstants(op ast.BinaryOp, a, b float64) (float64, bool) {
	switch op {
	case ast.Add:
		return a + b, true
	case ast.Sub:
		return a - b, true
	case ast.Mul:
		return a * b, true
	case ast.Div:
		return a / b, true
	case ast.Pow:
		return math.Pow(a, b), true
	default:
		return 0, false
	}
}

func isLiteral(e ast.Expr, v float64) bool {
	n, ok := e.(*ast.Number)
	return ok && n.Value == v
}
