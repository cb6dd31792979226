// Package parser builds the AST (lang/ast) that the compiler consumes, from
// the token stream produced by lang/lexer. Like the lexer, it is a
// peripheral front-end component (spec.md §1): it exists only so the core
// triad (compiler/VM/GC) can be driven end to end from source text.
package parser

import (
	"fmt"

	"github.com/mna/tamarin/lang/ast"
	"github.com/mna/tamarin/lang/lexer"
	"github.com/mna/tamarin/lang/token"
)

// Error is a parse error with a source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Parser parses a single chunk of tamarin source.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	name string
}

// ParseString parses src (named name, used only for error messages and the
// resulting *ast.Chunk.Name) into an AST.
func ParseString(name, src string) (*ast.Chunk, error) {
	p := &Parser{lex: lexer.New(src), name: name}
	if err := p.next(); err != nil {
		return nil, err
	}
	block, err := p.parseBlockStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Chunk{Name: name, Block: &ast.Block{Stmts: block}, EOF: p.tok.Pos}, nil
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &Error{Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(k token.Token) (lexer.Token, error) {
	if p.tok.Kind != k {
		return lexer.Token{}, p.errorf("expected %s, got %s", k, p.tok.Kind)
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (p *Parser) at(k token.Token) bool { return p.tok.Kind == k }

// skipSemi consumes an optional trailing ';'.
func (p *Parser) skipSemi() error {
	if p.at(token.SEMI) {
		return p.next()
	}
	return nil
}

// parseBlockStmts parses statements until `end` (RBRACE or EOF) is seen,
// without consuming `end`.
func (p *Parser) parseBlockStmts(end token.Token) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.at(end) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseBraceBlock() (*ast.Block, error) {
	lb, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseBlockStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	rb, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Lbrace: lb.Pos, Stmts: stmts, Rbrace: rb.Pos}, nil
}

func (p *Parser) parseIdent() (*ast.Ident, error) {
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Ident{Start: tok.Pos, Name: tok.Lit}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.tok.Kind {
	case token.LET:
		return p.parseVarDecl()
	case token.DEF:
		return p.parseFuncDecl(nil)
	case token.AT:
		decos, err := p.parseDecorators()
		if err != nil {
			return nil, err
		}
		if !p.at(token.DEF) {
			return nil, p.errorf("expected 'def' after decorators, got %s", p.tok.Kind)
		}
		return p.parseFuncDecl(decos)
	case token.CLASS:
		return p.parseClassDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseDecorators() ([]ast.Expr, error) {
	var decos []ast.Expr
	for p.at(token.AT) {
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		decos = append(decos, e)
	}
	return decos, nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	letTok, err := p.expect(token.LET)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.at(token.EQ) {
		if err := p.next(); err != nil {
			return nil, err
		}
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.skipSemi(); err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Let: letTok.Pos, Name: name, Init: init}, nil
}

func (p *Parser) parseFuncDecl(decos []ast.Expr) (ast.Stmt, error) {
	defTok, err := p.expect(token.DEF)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFuncRest(defTok.Pos, decos)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDeclStmt{Def: defTok.Pos, Name: name, Fn: fn}, nil
}

func (p *Parser) parseFuncRest(fnPos token.Pos, decos []ast.Expr) (*ast.FuncLit, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Ident
	for !p.at(token.RPAREN) {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, id)
		if p.at(token.COMMA) {
			if err := p.next(); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	_, end := body.Span()
	return &ast.FuncLit{Fn: fnPos, Params: params, Body: body, Decorators: decos, End: end}, nil
}

func (p *Parser) parseClassDecl() (ast.Stmt, error) {
	classTok, err := p.expect(token.CLASS)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	var superName *ast.Ident
	if p.at(token.LPAREN) {
		if err := p.next(); err != nil {
			return nil, err
		}
		superName, err = p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var methods []*ast.Method
	for !p.at(token.RBRACE) {
		var decos []ast.Expr
		if p.at(token.AT) {
			decos, err = p.parseDecorators()
			if err != nil {
				return nil, err
			}
		}
		defTok, err := p.expect(token.DEF)
		if err != nil {
			return nil, err
		}
		mname, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		fn, err := p.parseFuncRest(defTok.Pos, decos)
		if err != nil {
			return nil, err
		}
		methods = append(methods, &ast.Method{Name: mname, Fn: fn})
	}
	endTok, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.ClassDeclStmt{Class: classTok.Pos, Name: name, SuperName: superName, Methods: methods, End: endTok.Pos}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	ifTok, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.at(token.ELSE) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.at(token.IF) {
			elseStmt, err = p.parseIf()
		} else {
			elseStmt, err = p.parseBraceBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{If: ifTok.Pos, Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	whileTok, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{While: whileTok.Pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	forTok, err := p.expect(token.FOR)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if !p.at(token.SEMI) {
		if p.at(token.LET) {
			init, err = p.parseVarDecl()
		} else {
			e, eerr := p.parseExpr()
			if eerr != nil {
				return nil, eerr
			}
			init = &ast.ExprStmt{X: e}
		}
		if err != nil {
			return nil, err
		}
	}
	if !isSemiConsumedBy(init) {
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
	}

	var cond ast.Expr
	if !p.at(token.SEMI) {
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	var step ast.Stmt
	if !p.at(token.RPAREN) {
		e, eerr := p.parseExpr()
		if eerr != nil {
			return nil, eerr
		}
		step = &ast.ExprStmt{X: e}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{For: forTok.Pos, Init: init, Cond: cond, Step: step, Body: body}, nil
}

// isSemiConsumedBy reports whether stmt already consumed its own trailing
// ';' (parseVarDecl does via skipSemi); used to avoid a double-expect in the
// for-loop init clause.
func isSemiConsumedBy(stmt ast.Stmt) bool {
	_, ok := stmt.(*ast.VarDeclStmt)
	return ok
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	retTok, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if !p.at(token.SEMI) && !p.at(token.RBRACE) && !p.at(token.EOF) {
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.skipSemi(); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Return: retTok.Pos, Value: value}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.skipSemi(); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: e}, nil
}
