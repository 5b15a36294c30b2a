package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/mathvm/vm"
)

func evalString(t *testing.T, expr string, vars map[string]float64) float64 {
	t.Helper()
	program, err := Compile(expr)
	require.NoError(t, err)

	ctx := program.CreateContext()
	for name, v := range vars {
		ctx.Set(name, v, program)
	}
	result, err := program.Eval(ctx)
	require.NoError(t, err)
	return result
}

func TestOperatorPrecedence(t *testing.T) {
	assert.Equal(t, 14.0, evalString(t, "2 + 3 * 4", nil))
	assert.Equal(t, 20.0, evalString(t, "(2 + 3) * 4", nil))
	assert.Equal(t, 10.0, evalString(t, "2 * 3 + 4", nil))
}

func TestPowerIsRightAssociative(t *testing.T) {
	// 2^3^2 is 2^(3^2) = 2^9 = 512, not (2^3)^2 = 64.
	assert.Equal(t, 512.0, evalString(t, "2^3^2", nil))
}

func TestUnaryMinusBindsLowerThanPow(t *testing.T) {
	// -x^2 parses as -(x^2): with x=3 that's -9, not 9.
	assert.Equal(t, -9.0, evalString(t, "-x^2", map[string]float64{"x": 3}))
}

func TestFunctionCalls(t *testing.T) {
	assert.InDelta(t, 0.0, evalString(t, "sin(0)", nil), 1e-9)
	assert.Equal(t, 4.0, evalString(t, "sqrt(16)", nil))
	assert.Equal(t, 5.0, evalString(t, "max(1, 5, 3)", nil))
	assert.Equal(t, 1.0, evalString(t, "min(1, 5, 3)", nil))
}

func TestMissingClosingParenIsAnError(t *testing.T) {
	_, err := Compile("(1 + 2")
	assert.Error(t, err)
}

func TestMissingFunctionClosingParenIsAnError(t *testing.T) {
	_, err := Compile("sin(1")
	assert.Error(t, err)
}

func TestEmptyExpressionIsAnError(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)
}

func TestTrailingGarbageIsAnError(t *testing.T) {
	_, err := Compile("1 + 2 3")
	assert.Error(t, err)
}

func TestUnknownFunctionCompilesToNaNWithWarning(t *testing.T) {
	program, err := Compile("frobnicate(1)")
	require.NoError(t, err)
	require.Len(t, program.Warnings, 1)

	result, err := program.Eval(program.CreateContext())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result))
}

func TestWrongArgumentCountIsARuntimeError(t *testing.T) {
	program, err := Compile("sin(1, 2)")
	require.NoError(t, err)

	_, err = program.Eval(program.CreateContext())
	assert.Error(t, err)
}

func TestConstantPoolKeepsDistinctSignedZeros(t *testing.T) {
	// sin(-0) and sin(0) push distinct-signed zero arguments; the pool must
	// keep them as two entries, not collapse -0.0 and 0.0 into one (Go's
	// float64 equality, and so naive map-key equality, treats them equal).
	program, err := Compile("sin(-0) + sin(0)")
	require.NoError(t, err)
	require.Len(t, program.Constants, 2)

	var sawNegZero, sawPosZero bool
	for _, c := range program.Constants {
		if c == 0 {
			if math.Signbit(c) {
				sawNegZero = true
			} else {
				sawPosZero = true
			}
		}
	}
	assert.True(t, sawNegZero, "expected a negative-zero constant in the pool")
	assert.True(t, sawPosZero, "expected a positive-zero constant in the pool")
}

func TestConstantPoolDedupsIdenticalNaN(t *testing.T) {
	// (-1)^0.5 folds to the same NaN bit pattern both times it appears; the
	// pool must dedup it to a single entry rather than inserting it twice
	// (Go's NaN never compares equal to itself as a map key).
	program, err := Compile("(-1)^0.5 * x + (-1)^0.5 * y")
	require.NoError(t, err)

	nanCount := 0
	for _, c := range program.Constants {
		if math.IsNaN(c) {
			nanCount++
		}
	}
	assert.Equal(t, 1, nanCount)
}

func TestCompilationIsDeterministic(t *testing.T) {
	expr := "max(x * 2, y - 1) / sqrt(x + y)"
	a, err := Compile(expr)
	require.NoError(t, err)
	b, err := Compile(expr)
	require.NoError(t, err)

	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Constants, b.Constants)
	assert.Equal(t, a.VarNames, b.VarNames)
	assert.Equal(t, a.FuncNames, b.FuncNames)
}

func TestOptionPricingScenario(t *testing.T) {
	// max(S - K, 0) * discount: a call-price payoff scaled by a discount
	// factor, the financial example the original implementation used to
	// exercise constant folding alongside a variadic builtin.
	result := evalString(t, "max(S - K, 0) * discount", map[string]float64{
		"S": 110, "K": 100, "discount": 0.95,
	})
	assert.InDelta(t, 9.5, result, 1e-9)

	outOfMoney := evalString(t, "max(S - K, 0) * discount", map[string]float64{
		"S": 90, "K": 100, "discount": 0.95,
	})
	assert.Equal(t, 0.0, outOfMoney)
}

func TestDivisionByZeroAtRuntime(t *testing.T) {
	program, err := Compile("1 / x")
	require.NoError(t, err)

	ctx := program.CreateContext()
	ctx.Set("x", 0, program)
	_, err = program.Eval(ctx)
	assert.Error(t, err)
}

func TestVariableCountMismatch(t *testing.T) {
	program, err := Compile("x + y")
	require.NoError(t, err)

	_, err = program.Eval(vm.NewContext())
	assert.Error(t, err)
}

func TestCompilerFacadeMatchesPackageFunction(t *testing.T) {
	c := New()
	viaFacade, err := c.Compile("1 + 2 * 3")
	require.NoError(t, err)

	viaFunc, err := Compile("1 + 2 * 3")
	require.NoError(t, err)

	assert.Equal(t, viaFunc.Code, viaFacade.Code)
}

func TestCompilerIsReusableAcrossDifferentExpressions(t *testing.T) {
	c := New()

	first, err := c.Compile("1 + 2")
	require.NoError(t, err)
	second, err := c.Compile("sin(x) * y")
	require.NoError(t, err)

	assert.Equal(t, []float64{3.0}, first.Constants)
	assert.Equal(t, []string{"x", "y"}, second.VarNames)
}
