// Package builtins holds the static, closed set of pure real functions that
// a compiled program may call, plus the sentinel used for names that don't
// resolve to one of them.
package builtins

import (
	"math"
	"sort"
)

// Func is the signature every built-in function has: it receives its
// arguments as a contiguous slice (already in source order) and returns a
// single float64. No allocation is performed by the dispatcher to build
// this slice; it is a window into the interpreter's own value stack.
type Func func(args []float64) float64

// Arity sentinels, stored in Builtin.Arity alongside any non-negative fixed
// arity.
const (
	// AnyArity marks the unknown-function sentinel: it accepts (and
	// ignores) any number of arguments.
	AnyArity = -1

	// VariadicArity marks a built-in that accepts one or more arguments
	// (max, min).
	VariadicArity = -2
)

// Builtin is one entry of the function registry: a name, its function
// pointer, and its arity metadata.
type Builtin struct {
	Name  string
	Fn    Func
	Arity int
}

// Accepts reports whether calling this builtin with got arguments is valid
// per its arity metadata.
func (b *Builtin) Accepts(got int) bool {
	switch b.Arity {
	case AnyArity:
		return true
	case VariadicArity:
		return got >= 1
	default:
		return got == b.Arity
	}
}

// Sentinel is substituted for any name the registry doesn't recognize. It
// always returns NaN and accepts any argument count, so a formula referring
// to an unknown function still compiles and still runs — see the lowerer's
// unknown-function policy.
var Sentinel = &Builtin{
	Name:  "",
	Arity: AnyArity,
	Fn: func(args []float64) float64 {
		return math.NaN()
	},
}

var registry = map[string]*Builtin{
	"sin":  {Name: "sin", Arity: 1, Fn: func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":  {Name: "cos", Arity: 1, Fn: func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":  {Name: "tan", Arity: 1, Fn: func(a []float64) float64 { return math.Tan(a[0]) }},
	"sqrt": {Name: "sqrt", Arity: 1, Fn: func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":  {Name: "abs", Arity: 1, Fn: func(a []float64) float64 { return math.Abs(a[0]) }},
	"floor": {Name: "floor", Arity: 1, Fn: func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil": {Name: "ceil", Arity: 1, Fn: func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round": {Name: "round", Arity: 1, Fn: func(a []float64) float64 { return math.Round(a[0]) }},
	"exp":   {Name: "exp", Arity: 1, Fn: func(a []float64) float64 { return math.Exp(a[0]) }},
	"ln":    {Name: "ln", Arity: 1, Fn: func(a []float64) float64 { return math.Log(a[0]) }},
	"log10": {Name: "log10", Arity: 1, Fn: func(a []float64) float64 { return math.Log10(a[0]) }},
	"max": {
		Name:  "max",
		Arity: VariadicArity,
		Fn: func(a []float64) float64 {
			m := math.Inf(-1)
			for _, v := range a {
				if v > m {
					m = v
				}
			}
			return m
		},
	},
	"min": {
		Name:  "min",
		Arity: VariadicArity,
		Fn: func(a []float64) float64 {
			m := math.Inf(1)
			for _, v := range a {
				if v < m {
					m = v
				}
			}
			return m
		},
	},
}

// Lookup returns the registry entry for name, if any.
func Lookup(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns the registered function names, sorted, for use as fuzzy
// match candidates when a name doesn't resolve.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
