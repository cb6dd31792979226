package ast

import "github.com/mna/tamarin/lang/token"

// IsAssignable reports whether e is a valid assignment target: an
// identifier or a member access (spec.md §4.2 "Assignment").
func IsAssignable(e Expr) bool {
	switch e.(type) {
	case *Ident, *MemberExpr:
		return true
	default:
		return false
	}
}

type (
	// IntLit is an integer literal, in base 10, 16 or 2 (spec.md §6).
	IntLit struct {
		Start token.Pos
		Raw   string
		Base  int
		Value int64
	}

	// FloatLit is a floating-point literal.
	FloatLit struct {
		Start token.Pos
		Raw   string
		Value float64
	}

	// StringLit is a string literal; escapes are already resolved by the
	// lexer, Value holds the raw bytes.
	StringLit struct {
		Start token.Pos
		Raw   string
		Value string
	}

	// BoolLit is the `true` or `false` literal.
	BoolLit struct {
		Start token.Pos
		Value bool
	}

	// NullLit is the `null` literal.
	NullLit struct {
		Start token.Pos
	}

	// Ident is an identifier reference.
	Ident struct {
		Start token.Pos
		Name  string
	}

	// SuperExpr represents `super.Name`.
	SuperExpr struct {
		Super token.Pos
		Name  *Ident
	}

	// MemberExpr represents `Recv.Name`.
	MemberExpr struct {
		Recv Expr
		Dot  token.Pos
		Name *Ident
	}

	// CallExpr represents a function (or receiver-form method) call.
	// Recv is non-nil for the receiver form `Recv.Name(Args...)`, in which case
	// Name is the method name and the Invoke opcode is used; otherwise Callee
	// is the expression producing the function to call.
	CallExpr struct {
		Recv   Expr   // non-nil for a.b(...) receiver-form calls
		Name   *Ident // method name for receiver-form calls
		Callee Expr   // callee expression for generic calls (Recv == nil)
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// BinaryExpr represents a binary expression. Op is one of the tokens
	// accepted by token.IsBinaryOp; any other token is a compile error.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpr represents a unary expression. spec.md's operator table names
	// no unary operator, so the compiler always rejects these; the node
	// exists only to satisfy the minimum AST contract (spec.md §6).
	UnaryExpr struct {
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// AssignExpr represents `Target = Value`. Target must be an Ident or a
	// MemberExpr (IsAssignable).
	AssignExpr struct {
		Target Expr
		Eq     token.Pos
		Value  Expr
	}

	// FuncLit is a function literal: parameters, body, and the decorator
	// expressions applied to it (spec.md §4.2 "Function literals and
	// decorators"). Decorators are listed in source (outermost-first) order.
	FuncLit struct {
		Fn         token.Pos
		Params     []*Ident
		Body       *Block
		Decorators []Expr
		End        token.Pos
	}
)

func (n *IntLit) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *IntLit) Walk(v Visitor) {}
func (n *IntLit) expr()          {}

func (n *FloatLit) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *FloatLit) Walk(v Visitor) {}
func (n *FloatLit) expr()          {}

func (n *StringLit) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *StringLit) Walk(v Visitor) {}
func (n *StringLit) expr()          {}

func (n *BoolLit) Span() (start, end token.Pos) { return n.Start, n.Start }
func (n *BoolLit) Walk(v Visitor)               {}
func (n *BoolLit) expr()                        {}

func (n *NullLit) Span() (start, end token.Pos) { return n.Start, n.Start }
func (n *NullLit) Walk(v Visitor)               {}
func (n *NullLit) expr()                        {}

func (n *Ident) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}
func (n *Ident) Walk(v Visitor) {}
func (n *Ident) expr()          {}

func (n *SuperExpr) Span() (start, end token.Pos) {
	_, end = n.Name.Span()
	return n.Super, end
}
func (n *SuperExpr) Walk(v Visitor) { Walk(v, n.Name) }
func (n *SuperExpr) expr()          {}

func (n *MemberExpr) Span() (start, end token.Pos) {
	start, _ = n.Recv.Span()
	_, end = n.Name.Span()
	return start, end
}
func (n *MemberExpr) Walk(v Visitor) {
	Walk(v, n.Recv)
	Walk(v, n.Name)
}
func (n *MemberExpr) expr() {}

func (n *CallExpr) Span() (start, end token.Pos) {
	if n.Recv != nil {
		start, _ = n.Recv.Span()
	} else {
		start, _ = n.Callee.Span()
	}
	return start, n.Rparen + 1
}
func (n *CallExpr) Walk(v Visitor) {
	if n.Recv != nil {
		Walk(v, n.Recv)
		Walk(v, n.Name)
	} else {
		Walk(v, n.Callee)
	}
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) expr() {}

func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryExpr) expr()          {}

func (n *AssignExpr) Span() (start, end token.Pos) {
	start, _ = n.Target.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}
func (n *AssignExpr) expr() {}

func (n *FuncLit) Span() (start, end token.Pos) {
	return n.Fn, n.End
}
func (n *FuncLit) Walk(v Visitor) {
	for _, d := range n.Decorators {
		Walk(v, d)
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *FuncLit) expr() {}
