package parser

import (
	"testing"

	"github.com/mna/tamarin/lang/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVarDecl(t *testing.T) {
	chunk, err := ParseString("t", `let x = 1 + 2`)
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 1)
	decl, ok := chunk.Block.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name.Name)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.IntLit{}, bin.Left)
}

func TestParseFuncDeclAndCall(t *testing.T) {
	chunk, err := ParseString("t", `
def add(a, b) {
  return a + b
}
add(1, 2)
`)
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)

	fd, ok := chunk.Block.Stmts[0].(*ast.FuncDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fd.Name.Name)
	require.Len(t, fd.Fn.Params, 2)
	require.Len(t, fd.Fn.Body.Stmts, 1)

	es, ok := chunk.Block.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := es.X.(*ast.CallExpr)
	require.True(t, ok)
	assert.Nil(t, call.Recv)
	require.Len(t, call.Args, 2)
}

func TestParseReceiverCallIsInvokeShaped(t *testing.T) {
	chunk, err := ParseString("t", `a.b(1, "hi")`)
	require.NoError(t, err)
	es := chunk.Block.Stmts[0].(*ast.ExprStmt)
	call, ok := es.X.(*ast.CallExpr)
	require.True(t, ok)
	require.NotNil(t, call.Recv)
	assert.Equal(t, "b", call.Name.Name)
	require.Len(t, call.Args, 2)
}

func TestParseMemberWithoutCall(t *testing.T) {
	chunk, err := ParseString("t", `this.x = 1`)
	require.NoError(t, err)
	es := chunk.Block.Stmts[0].(*ast.ExprStmt)
	assign, ok := es.X.(*ast.AssignExpr)
	require.True(t, ok)
	member, ok := assign.Target.(*ast.MemberExpr)
	require.True(t, ok)
	recv, ok := member.Recv.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "this", recv.Name)
	assert.Equal(t, "x", member.Name.Name)
}

func TestParseDecoratedFuncDecl(t *testing.T) {
	chunk, err := ParseString("t", `
@deco
def foo(x) {
  return x
}
`)
	require.NoError(t, err)
	fd := chunk.Block.Stmts[0].(*ast.FuncDeclStmt)
	require.Len(t, fd.Fn.Decorators, 1)
	assert.IsType(t, &ast.Ident{}, fd.Fn.Decorators[0])
}

func TestParseClassWithSuperAndMethods(t *testing.T) {
	chunk, err := ParseString("t", `
class Dog(Animal) {
  def init(this, name) {
    this.name = name
  }
  def speak(this) {
    return super.speak(this)
  }
}
`)
	require.NoError(t, err)
	cd, ok := chunk.Block.Stmts[0].(*ast.ClassDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "Dog", cd.Name.Name)
	require.NotNil(t, cd.SuperName)
	assert.Equal(t, "Animal", cd.SuperName.Name)
	require.Len(t, cd.Methods, 2)
	assert.Equal(t, "init", cd.Methods[0].Name.Name)
	assert.Equal(t, "speak", cd.Methods[1].Name.Name)

	ret := cd.Methods[1].Fn.Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.CallExpr)
	_, ok = call.Callee.(*ast.SuperExpr)
	require.True(t, ok)
}

func TestParseIfElseIfChain(t *testing.T) {
	chunk, err := ParseString("t", `
if x < 1 {
  return 1
} else if x < 2 {
  return 2
} else {
  return 3
}
`)
	require.NoError(t, err)
	ifs := chunk.Block.Stmts[0].(*ast.IfStmt)
	elseIf, ok := ifs.Else.(*ast.IfStmt)
	require.True(t, ok)
	_, ok = elseIf.Else.(*ast.Block)
	require.True(t, ok)
}

func TestParseWhileAndFor(t *testing.T) {
	chunk, err := ParseString("t", `
while x < 10 {
  x = x + 1
}
for (let i = 0; i < 10; i = i + 1) {
  print(i)
}
`)
	require.NoError(t, err)
	require.Len(t, chunk.Block.Stmts, 2)
	_, ok := chunk.Block.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	forStmt, ok := chunk.Block.Stmts[1].(*ast.ForStmt)
	require.True(t, ok)
	assert.IsType(t, &ast.VarDeclStmt{}, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Step)
}

func TestParseChainedDecoratorCall(t *testing.T) {
	chunk, err := ParseString("t", `let wrapped = deco("add")(add)`)
	require.NoError(t, err)
	decl := chunk.Block.Stmts[0].(*ast.VarDeclStmt)
	outer, ok := decl.Init.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, outer.Args, 1)
	inner, ok := outer.Callee.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, inner.Args, 1)
}

func TestParseErrorOnBadAssignTarget(t *testing.T) {
	_, err := ParseString("t", `1 = 2`)
	require.Error(t, err)
}
