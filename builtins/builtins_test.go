package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownFunctions(t *testing.T) {
	for _, name := range []string{"sin", "cos", "tan", "sqrt", "abs", "floor", "ceil", "round", "exp", "ln", "log10", "max", "min"} {
		b, ok := Lookup(name)
		require.Truef(t, ok, "expected %q to be registered", name)
		assert.Equal(t, name, b.Name)
	}
}

func TestLookupUnknownFunction(t *testing.T) {
	_, ok := Lookup("frobnicate")
	assert.False(t, ok)
}

func TestUnaryFunctions(t *testing.T) {
	sqrt, _ := Lookup("sqrt")
	assert.Equal(t, 3.0, sqrt.Fn([]float64{9.0}))

	sqrtNeg, _ := Lookup("sqrt")
	assert.True(t, math.IsNaN(sqrtNeg.Fn([]float64{-1.0})))

	abs, _ := Lookup("abs")
	assert.Equal(t, 4.0, abs.Fn([]float64{-4.0}))
}

func TestMaxMinVariadic(t *testing.T) {
	max, _ := Lookup("max")
	assert.Equal(t, 7.0, max.Fn([]float64{1, 7, 3}))

	min, _ := Lookup("min")
	assert.Equal(t, 1.0, min.Fn([]float64{1, 7, 3}))
}

func TestBuiltinAccepts(t *testing.T) {
	sin, _ := Lookup("sin")
	assert.True(t, sin.Accepts(1))
	assert.False(t, sin.Accepts(0))
	assert.False(t, sin.Accepts(2))

	max, _ := Lookup("max")
	assert.False(t, max.Accepts(0))
	assert.True(t, max.Accepts(1))
	assert.True(t, max.Accepts(5))

	assert.True(t, Sentinel.Accepts(0))
	assert.True(t, Sentinel.Accepts(5))
}

func TestSentinelReturnsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(Sentinel.Fn(nil)))
	assert.True(t, math.IsNaN(Sentinel.Fn([]float64{1, 2, 3})))
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	require.Len(t, names, 13)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
