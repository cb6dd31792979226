package ast

import "github.com/mna/tamarin/lang/token"

type (
	// ExprStmt is an expression used as a statement (its value is discarded).
	ExprStmt struct {
		X Expr
	}

	// VarDeclStmt is `let Name = Init` (Init is nil for `let Name`, which
	// initializes the variable to null).
	VarDeclStmt struct {
		Let  token.Pos
		Name *Ident
		Init Expr
	}

	// FuncDeclStmt is a named function declaration: sugar for declaring a
	// variable named Name and initializing it with Fn.
	FuncDeclStmt struct {
		Def  token.Pos
		Name *Ident
		Fn   *FuncLit
	}

	// Method is a named function inside a class body.
	Method struct {
		Name *Ident
		Fn   *FuncLit
	}

	// ClassDeclStmt is a class declaration, with an optional superclass name.
	ClassDeclStmt struct {
		Class     token.Pos
		Name      *Ident
		SuperName *Ident // nil if no superclass
		Methods   []*Method
		End       token.Pos
	}

	// IfStmt is `if Cond Then [else Else]`. Else is nil, a *Block, or another
	// *IfStmt (else-if chaining).
	IfStmt struct {
		If   token.Pos
		Cond Expr
		Then *Block
		Else Stmt
	}

	// WhileStmt is `while Cond Body`.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  *Block
	}

	// ForStmt is a C-style for loop; Init, Cond and Step may each be nil.
	ForStmt struct {
		For  token.Pos
		Init Stmt
		Cond Expr
		Step Stmt
		Body *Block
	}

	// ReturnStmt is `return [Value]`; Value is nil for a bare return, which
	// the compiler treats as `return null`.
	ReturnStmt struct {
		Return token.Pos
		Value  Expr
	}
)

func (n *ExprStmt) Span() (start, end token.Pos) { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)               { Walk(v, n.X) }
func (n *ExprStmt) stmt()                        {}

func (n *VarDeclStmt) Span() (start, end token.Pos) {
	if n.Init != nil {
		_, end = n.Init.Span()
	} else {
		_, end = n.Name.Span()
	}
	return n.Let, end
}
func (n *VarDeclStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.Init != nil {
		Walk(v, n.Init)
	}
}
func (n *VarDeclStmt) stmt() {}

func (n *FuncDeclStmt) Span() (start, end token.Pos) {
	_, end = n.Fn.Span()
	return n.Def, end
}
func (n *FuncDeclStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Fn)
}
func (n *FuncDeclStmt) stmt() {}

func (n *Method) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	_, end = n.Fn.Span()
	return start, end
}
func (n *Method) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Fn)
}

func (n *ClassDeclStmt) Span() (start, end token.Pos) { return n.Class, n.End }
func (n *ClassDeclStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	if n.SuperName != nil {
		Walk(v, n.SuperName)
	}
	for _, m := range n.Methods {
		Walk(v, m)
	}
}
func (n *ClassDeclStmt) stmt() {}

func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) stmt() {}

func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) stmt() {}

func (n *ForStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.For, end
}
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Step != nil {
		Walk(v, n.Step)
	}
	Walk(v, n.Body)
}
func (n *ForStmt) stmt() {}

func (n *ReturnStmt) Span() (start, end token.Pos) {
	if n.Value != nil {
		_, end = n.Value.Span()
	} else {
		end = n.Return
	}
	return n.Return, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) stmt() {}
