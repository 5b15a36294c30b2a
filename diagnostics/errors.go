package diagnostics

import (
	"fmt"
	"strings"
)

// Kind identifies which of the taxonomy's error conditions occurred (see
// spec §7: Lex, Parse, Emit, Runtime).
type Kind int

const (
	// Lex stage.
	UnexpectedCharacter Kind = iota
	InvalidNumber

	// Parse stage.
	UnexpectedToken
	ExpectedToken
	MissingClosingParen
	MissingFunctionClosingParen

	// Emit stage — only the two overflow conditions: a pool outgrowing its
	// u16 index, and a call outgrowing its u8 argument count.
	PoolOverflow
	ArityOverflow

	// Runtime stage.
	DivisionByZero
	StackUnderflow
	VariableCountMismatch
	InvalidFunctionIndex
	WrongArgumentCount
	UnknownOpcode
)

// Error is the single error type returned from every stage of the pipeline.
// It carries enough structure that a caller can match on Kind, and enough
// context (Position, Source) to render a source-annotated message without
// re-parsing anything.
type Error struct {
	Kind Kind

	// Position is set whenever the failure can be attributed to a single
	// point in the source text (lex and parse errors always set it).
	Position *Position

	// Source, when set via WithSource, lets Error() render the offending
	// line with a caret under the column.
	Source string

	// Detail fields, populated according to Kind. Only the fields relevant
	// to the specific Kind are meaningful; see the constructors below.
	Char          rune
	Text          string
	Expected      string
	Found         string
	Pool          string
	Function      string
	ExpectedCount int
	GotCount      int
	Index         int
	Opcode        byte
}

// WithSource attaches the original source text, enabling a caret-pointer
// rendering of the error position in Error().
func (e *Error) WithSource(src string) *Error {
	e.Source = src
	return e
}

// --- Lex constructors ---

func NewUnexpectedCharacter(ch rune, pos Position) *Error {
	return &Error{Kind: UnexpectedCharacter, Char: ch, Position: &pos}
}

func NewInvalidNumber(text string, pos Position) *Error {
	return &Error{Kind: InvalidNumber, Text: text, Position: &pos}
}

// --- Parse constructors ---

func NewUnexpectedToken(found string, pos Position) *Error {
	return &Error{Kind: UnexpectedToken, Found: found, Position: &pos}
}

func NewExpectedToken(expected, found string, pos Position) *Error {
	return &Error{Kind: ExpectedToken, Expected: expected, Found: found, Position: &pos}
}

func NewMissingClosingParen(pos Position) *Error {
	return &Error{Kind: MissingClosingParen, Position: &pos}
}

func NewMissingFunctionClosingParen(name string, pos Position) *Error {
	return &Error{Kind: MissingFunctionClosingParen, Function: name, Position: &pos}
}

// --- Emit constructors ---

func NewPoolOverflow(pool string) *Error {
	return &Error{Kind: PoolOverflow, Pool: pool}
}

func NewArityOverflow(name string, arity int) *Error {
	return &Error{Kind: ArityOverflow, Function: name, GotCount: arity}
}

// --- Runtime constructors ---

func NewDivisionByZero() *Error {
	return &Error{Kind: DivisionByZero}
}

func NewStackUnderflow() *Error {
	return &Error{Kind: StackUnderflow}
}

func NewVariableCountMismatch(expected, got int) *Error {
	return &Error{Kind: VariableCountMismatch, ExpectedCount: expected, GotCount: got}
}

func NewInvalidFunctionIndex(idx int) *Error {
	return &Error{Kind: InvalidFunctionIndex, Index: idx}
}

func NewWrongArgumentCount(function string, expected, got int) *Error {
	return &Error{Kind: WrongArgumentCount, Function: function, ExpectedCount: expected, GotCount: got}
}

func NewUnknownOpcode(op byte) *Error {
	return &Error{Kind: UnknownOpcode, Opcode: op}
}

// message renders the Kind-specific body of the error, without position,
// source context, or hint.
func (e *Error) message() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("unexpected character %q", e.Char)
	case InvalidNumber:
		return fmt.Sprintf("invalid number format: %q", e.Text)
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token: %s", e.Found)
	case ExpectedToken:
		return fmt.Sprintf("expected %s, but found %s", e.Expected, e.Found)
	case MissingClosingParen:
		return "missing closing parenthesis ')'"
	case MissingFunctionClosingParen:
		return fmt.Sprintf("missing closing parenthesis ')' in function call %q", e.Function)
	case PoolOverflow:
		return fmt.Sprintf("%s pool exceeded 65535 entries", e.Pool)
	case ArityOverflow:
		return fmt.Sprintf("function %q called with %d arguments, which exceeds the 255 argument limit", e.Function, e.GotCount)
	case DivisionByZero:
		return "division by zero"
	case StackUnderflow:
		return "stack underflow (internal error)"
	case VariableCountMismatch:
		return fmt.Sprintf("expected %d variable(s), but got %d", e.ExpectedCount, e.GotCount)
	case InvalidFunctionIndex:
		return fmt.Sprintf("invalid function index: %d (internal error)", e.Index)
	case WrongArgumentCount:
		return fmt.Sprintf("function %q expects %d argument(s), but got %d", e.Function, e.ExpectedCount, e.GotCount)
	case UnknownOpcode:
		return fmt.Sprintf("unknown opcode: %d (internal error)", e.Opcode)
	default:
		return "unknown error"
	}
}

// Hint returns a short, actionable suggestion for the error's Kind, or ""
// when none applies.
func (e *Error) Hint() string {
	switch e.Kind {
	case DivisionByZero:
		return "make sure the divisor is not zero"
	case MissingClosingParen, MissingFunctionClosingParen:
		return "check that every opening parenthesis '(' has a matching ')'"
	case VariableCountMismatch:
		return "make sure the context holds a value for every variable the program references"
	case WrongArgumentCount:
		return "check the function's expected argument count"
	default:
		return ""
	}
}

// formatSourceContext renders the offending source line with a caret
// pointing at the error's column.
func (e *Error) formatSourceContext() string {
	if e.Source == "" || e.Position == nil {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	lineIdx := e.Position.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return ""
	}
	line := lines[lineIdx]

	prefix := fmt.Sprintf("  %d | ", e.Position.Line)
	col := e.Position.Column - 1
	if col < 0 {
		col = 0
	}
	return fmt.Sprintf("%s%s\n%s^", prefix, line, strings.Repeat(" ", len(prefix)+col))
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.message())

	if e.Position != nil {
		fmt.Fprintf(&b, " at %s", e.Position)
	}
	if ctx := e.formatSourceContext(); ctx != "" {
		fmt.Fprintf(&b, "\n\n%s", ctx)
	}
	if hint := e.Hint(); hint != "" {
		fmt.Fprintf(&b, "\n\nhint: %s", hint)
	}
	return b.String()
}
