package vm

// Context is a dense vector of variable values, indexed parallel to a
// Program's VarNames. Index i holds the value bound to VarNames[i]. A
// Context may be longer than a program's variable list — extra slots are
// simply unread — but it must be at least as long to evaluate.
//
// A Context is mutated by its owner. It is not safe to mutate a Context
// while another goroutine evaluates it; the expected idiom is one Context
// per worker, sharing one Program.
type Context struct {
	values []float64
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{}
}

// NewContextWithCapacity returns an empty Context whose backing array is
// pre-sized for n values, avoiding growth on the first few SetByIndex calls.
func NewContextWithCapacity(n int) *Context {
	return &Context{values: make([]float64, 0, n)}
}

// Len reports how many value slots the context currently holds.
func (c *Context) Len() int {
	return len(c.values)
}

// SetByIndex binds the value at index i, extending the context with zeros
// if i is beyond its current length.
func (c *Context) SetByIndex(i int, v float64) {
	if i >= len(c.values) {
		grown := make([]float64, i+1)
		copy(grown, c.values)
		c.values = grown
	}
	c.values[i] = v
}

// GetByIndex returns the value at index i, or 0 if i is out of range.
func (c *Context) GetByIndex(i int) float64 {
	if i < 0 || i >= len(c.values) {
		return 0
	}
	return c.values[i]
}

// Set locates name in program's variable list and binds it by index. If
// name isn't one of the program's variables, the context is still extended:
// the value goes into a new slot past both the context's current length and
// the program's variable list (any gap is zero-filled), so it is unreachable
// to that program — this lookup is O(n) and not intended for hot loops;
// prefer SetByIndex with an index obtained once.
func (c *Context) Set(name string, v float64, program *Program) {
	for i, n := range program.VarNames {
		if n == name {
			c.SetByIndex(i, v)
			return
		}
	}
	i := len(c.values)
	if i < len(program.VarNames) {
		i = len(program.VarNames)
	}
	c.SetByIndex(i, v)
}

// Get mirrors Set: it locates name in program's variable list and returns
// its bound value. The bool result is false if name isn't one of the
// program's variables.
func (c *Context) Get(name string, program *Program) (float64, bool) {
	for i, n := range program.VarNames {
		if n == name {
			return c.GetByIndex(i), true
		}
	}
	return 0, false
}
