package parser

import (
	"strconv"

	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/token"
)

// parseExpr parses a full expression, starting from assignment (the lowest
// precedence level).
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.at(token.EQ) {
		eq := p.tok.Pos
		if !ast.IsAssignable(left) {
			return nil, p.errorf("invalid assignment target")
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Eq: eq, Value: right}, nil
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) || p.at(token.OROR) {
		op, opPos := p.tok.Kind, p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) || p.at(token.ANDAND) {
		op, opPos := p.tok.Kind, p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.EQEQ) {
		opPos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: token.EQEQ, OpPos: opPos, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.GT) {
		op, opPos := p.tok.Kind, p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op, opPos := p.tok.Kind, p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) {
		op, opPos := p.tok.Kind, p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left, nil
}

// parsePostfix parses a primary expression followed by any chain of member
// accesses and calls: `a.b(1).c(2, 3)`. `a.b(...)` (a member access
// immediately called) produces a receiver-form CallExpr lowered to the
// Invoke opcode; a bare `a.b` produces a MemberExpr; `f(...)` produces a
// generic CallExpr.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.DOT):
			if err := p.next(); err != nil {
				return nil, err
			}
			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			if p.at(token.LPAREN) {
				lparen, args, rparen, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				e = &ast.CallExpr{Recv: e, Name: name, Lparen: lparen, Args: args, Rparen: rparen}
			} else {
				dot := name.Start - 1
				e = &ast.MemberExpr{Recv: e, Dot: dot, Name: name}
			}
		case p.at(token.LPAREN):
			lparen, args, rparen, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Callee: e, Lparen: lparen, Args: args, Rparen: rparen}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArgs() (token.Pos, []ast.Expr, token.Pos, error) {
	lparen, err := p.expect(token.LPAREN)
	if err != nil {
		return 0, nil, 0, err
	}
	var args []ast.Expr
	for !p.at(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return 0, nil, 0, err
		}
		args = append(args, arg)
		if p.at(token.COMMA) {
			if err := p.next(); err != nil {
				return 0, nil, 0, err
			}
		} else {
			break
		}
	}
	rparen, err := p.expect(token.RPAREN)
	if err != nil {
		return 0, nil, 0, err
	}
	return lparen.Pos, args, rparen.Pos, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case token.INT:
		if err := p.next(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(stripBasePrefix(tok.Lit, tok.Base), tok.Base, 64)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: "invalid integer literal " + tok.Lit}
		}
		return &ast.IntLit{Start: tok.Pos, Raw: tok.Lit, Base: tok.Base, Value: v}, nil
	case token.FLOAT:
		if err := p.next(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: "invalid float literal " + tok.Lit}
		}
		return &ast.FloatLit{Start: tok.Pos, Raw: tok.Lit, Value: v}, nil
	case token.STRING:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.StringLit{Start: tok.Pos, Raw: tok.Lit, Value: tok.Lit}, nil
	case token.TRUE, token.FALSE:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Start: tok.Pos, Value: tok.Kind == token.TRUE}, nil
	case token.NULL:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.NullLit{Start: tok.Pos}, nil
	case token.SUPER:
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.DOT); err != nil {
			return nil, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.SuperExpr{Super: tok.Pos, Name: name}, nil
	case token.IDENT:
		return p.parseIdent()
	case token.LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("unexpected token %s in expression", tok.Kind)
	}
}

func stripBasePrefix(lit string, base int) string {
	if base == 16 || base == 2 {
		return lit[2:]
	}
	return lit
}
