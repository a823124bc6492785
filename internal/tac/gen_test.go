package tac

import (
	"testing"

	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUninitializedDeclarationEmitsComment(t *testing.T) {
	program := &ast.Program{Decls: []ast.Stmt{
		&ast.VariableDecl{Name: "x", Type: types.INTEGER},
	}}
	g := New()
	instrs := g.Generate(program)
	assert.Len(t, instrs, 1)
	assert.Equal(t, "# declare x", instrs[0].Text())
}

func TestGenerateFunctionRestartsTemporariesPerFunction(t *testing.T) {
	body := func(varName string, n int64) *ast.Block {
		return &ast.Block{Statements: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryOp{
				Op:    "+",
				Left:  &ast.Literal{Type: types.INTEGER, Int: n},
				Right: &ast.Literal{Type: types.INTEGER, Int: n},
			}},
		}}
	}
	program := &ast.Program{Decls: []ast.Stmt{
		&ast.FunctionDecl{Name: "f", Qualified: "f", Return: types.INTEGER, Body: body("f", 1)},
		&ast.FunctionDecl{Name: "g", Qualified: "g", Return: types.INTEGER, Body: body("g", 2)},
	}}
	g := New()
	instrs := g.Generate(program)

	var returns []ReturnInstr
	for _, i := range instrs {
		if r, ok := i.(ReturnInstr); ok {
			returns = append(returns, r)
		}
	}
	assert.Len(t, returns, 2)
	assert.Equal(t, "t0", returns[0].Value, "each function's temps restart at t0")
	assert.Equal(t, "t0", returns[1].Value, "a second function must not inherit the first's counter")
	assert.Equal(t, 2, g.TemporariesUsed(), "one temp minted per function, totaled across both")
	assert.Equal(t, 2, g.FunctionsRegistered())
}

func TestGenerateFunctionFrameSizeCountsLocalDeclarations(t *testing.T) {
	program := &ast.Program{Decls: []ast.Stmt{
		&ast.FunctionDecl{
			Name: "f", Qualified: "f", Return: types.VOID,
			Params: []ast.Param{{Name: "a", Type: types.INTEGER}},
			Body: &ast.Block{Statements: []ast.Stmt{
				&ast.VariableDecl{Name: "x", Type: types.INTEGER, Init: &ast.Literal{Type: types.INTEGER, Int: 1}},
				&ast.ConstDecl{Name: "y", Type: types.INTEGER, Init: &ast.Literal{Type: types.INTEGER, Int: 2}},
			}},
		},
	}}
	g := New()
	instrs := g.Generate(program)

	begin, ok := instrs[0].(FuncBeginInstr)
	if !assert.True(t, ok) {
		return
	}
	// 2 (saved RA + saved FP) + 1 param + 2 locals (x, y) + 0 spill.
	assert.Equal(t, 5, begin.FrameSize, "FrameSize must include every local declared in the body, not just params and spill")
}
