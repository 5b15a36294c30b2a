package compiler

import (
	"strconv"

	"github.com/skx/mathvm/ast"
	"github.com/skx/mathvm/diagnostics"
	"github.com/skx/mathvm/lexer"
	"github.com/skx/mathvm/token"
)

// Binding powers. Infix operators are (left, right); a left < right pair is
// left-associative, left > right is right-associative.
//
// Prefix "-" recurses into its operand at bpUnaryOperand, a power strictly
// between "*"/"/" (20) and "^" (30): that lets "^" bind into the operand
// ("-x^2" parses as "-(x^2)") while keeping "*"/"/" out of it ("-x*y" parses
// as "(-x)*y"), matching how most languages treat unary minus against power.
const (
	bpLowest       = 0
	bpAddSub       = 10
	bpMulDiv       = 20
	bpUnaryOperand = 25
	bpPow          = 30
)

func infixBindingPower(t token.Type) (left, right int, ok bool) {
	switch t {
	case token.PLUS, token.MINUS:
		return bpAddSub, bpAddSub + 1, true
	case token.ASTERISK, token.SLASH:
		return bpMulDiv, bpMulDiv + 1, true
	case token.POWER:
		return bpPow, bpPow - 1, true
	default:
		return 0, 0, false
	}
}

// parser turns a token stream into an ast.Expr using precedence climbing
// (a Pratt parser): parseExpr consumes a prefix term, then greedily folds
// in any infix operator whose left binding power exceeds the caller's
// minimum.
type parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token

	curPos  diagnostics.Position
	peekPos diagnostics.Position
}

func newParser(l *lexer.Lexer) (*parser, error) {
	p := &parser{lex: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// advance shifts peek into cur and lexes a new peek token.
func (p *parser) advance() error {
	p.cur, p.curPos = p.peek, p.peekPos
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek, p.peekPos = tok, p.lex.LastTokenPosition()
	return nil
}

func (p *parser) parseExpr(minBP int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		leftBP, rightBP, ok := infixBindingPower(p.cur.Type)
		if !ok || leftBP < minBP {
			break
		}

		op := binaryOpFor(p.cur.Type)
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseExpr(rightBP)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parsePrefix() (ast.Expr, error) {
	switch p.cur.Type {
	case token.MINUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(bpUnaryOperand)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Expr: inner}, nil

	case token.NUMBER:
		lit := p.cur.Literal
		pos := p.curPos
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, diagnostics.NewInvalidNumber(lit, pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Number{Value: v}, nil

	case token.IDENT:
		name := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == token.LPAREN {
			return p.parseCall(name)
		}
		return &ast.Variable{Name: name}, nil

	case token.LPAREN:
		openPos := p.curPos
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(bpLowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, diagnostics.NewMissingClosingParen(openPos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, diagnostics.NewUnexpectedToken(string(p.cur.Type), p.curPos)
	}
}

// parseCall parses the argument list of a call whose name and opening
// paren have already been consumed up to (and including, via cur) "(".
func (p *parser) parseCall(name string) (ast.Expr, error) {
	openPos := p.curPos
	if err := p.advance(); err != nil { // consume "("
		return nil, err
	}

	var args []ast.Expr
	if p.cur.Type != token.RPAREN {
		for {
			arg, err := p.parseExpr(bpLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.cur.Type == token.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if p.cur.Type != token.RPAREN {
		return nil, diagnostics.NewMissingFunctionClosingParen(name, openPos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.Call{Name: name, Args: args}, nil
}

func binaryOpFor(t token.Type) ast.BinaryOp {
	switch t {
	case token.PLUS:
		return ast.Add
	case token.MINUS:
		return ast.Sub
	case token.ASTERISK:
		return ast.Mul
	case token.SLASH:
		return ast.Div
	case token.POWER:
		return ast.Pow
	default:
		return ast.Add
	}
}

// Parse scans and parses source in full, requiring the whole input be
// consumed (an EOF token follows the final expression).
func Parse(source string) (ast.Expr, error) {
	l := lexer.New(source)
	p, err := newParser(l)
	if err != nil {
		return nil, err
	}

	if p.cur.Type == token.EOF {
		return nil, diagnostics.NewUnexpectedToken(string(token.EOF), p.curPos)
	}

	expr, err := p.parseExpr(bpLowest)
	if err != nil {
		return nil, err
	}

	if p.cur.Type != token.EOF {
		return nil, diagnostics.NewUnexpectedToken(string(p.cur.Type), p.curPos)
	}
	return expr, nil
}
