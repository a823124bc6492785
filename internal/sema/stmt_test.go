package sema

import (
	"testing"

	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/stretchr/testify/assert"
)

func TestDeadCodeAfterReturnWarns(t *testing.T) {
	fn := &cst.FunctionDecl{
		Name: "f",
		Body: block(
			&cst.ReturnStmt{},
			&cst.ExprStmt{X: call("print", lit(cst.LitString, "unreachable"))},
		),
	}

	a := New()
	a.Analyze(&cst.Program{Decls: []cst.Stmt{fn}})

	ds := a.Sink().All()
	assert.True(t, hasCode(ds, diag.CodeDeadCode))
	for _, d := range ds {
		if d.Code == diag.CodeDeadCode {
			assert.Equal(t, diag.SeverityWarning, d.Severity, "dead code is the only warning-severity diagnostic")
		}
	}
}

func TestDeadCodeNotReportedWithoutAPrecedingTerminator(t *testing.T) {
	fn := &cst.FunctionDecl{
		Name: "f",
		Body: block(
			&cst.ExprStmt{X: call("print", lit(cst.LitString, "a"))},
			&cst.ExprStmt{X: call("print", lit(cst.LitString, "b"))},
		),
	}

	a := New()
	a.Analyze(&cst.Program{Decls: []cst.Stmt{fn}})

	assert.False(t, hasCode(a.Sink().All(), diag.CodeDeadCode))
}

func TestConstReassignmentReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ConstDecl{Name: "x", Init: lit(cst.LitInteger, "1")},
		&cst.Assignment{Target: ref("x"), Value: lit(cst.LitInteger, "2")},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeConstReassigned))
}

func TestConstWithoutInitializerReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ConstDecl{Name: "x", Type: ty("integer", 0)},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeConstWithoutInit))
}

func TestBreakOutsideLoopOrSwitchReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{&cst.BreakStmt{}}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidJump))
}

func TestBreakInsideSwitchIsLegal(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.SwitchStmt{
			Subject: lit(cst.LitInteger, "1"),
			Cases: []*cst.SwitchCase{
				{Label: lit(cst.LitInteger, "1"), Body: []cst.Stmt{&cst.BreakStmt{}}},
			},
		},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeInvalidJump))
}

func TestContinueOutsideLoopReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{&cst.ContinueStmt{}}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidJump))
}

func TestContinueInsideSwitchButOutsideLoopReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.SwitchStmt{
			Subject: lit(cst.LitInteger, "1"),
			Cases: []*cst.SwitchCase{
				{Label: lit(cst.LitInteger, "1"), Body: []cst.Stmt{&cst.ContinueStmt{}}},
			},
		},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidJump),
		"a switch case is not a loop; continue inside one with no enclosing loop is invalid")
}

func TestReturnOutsideFunctionReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{&cst.ReturnStmt{}}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidJump))
}

func TestSwitchCaseLabelTypeMismatchReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.SwitchStmt{
			Subject: lit(cst.LitInteger, "1"),
			Cases: []*cst.SwitchCase{
				{Label: lit(cst.LitString, "one"), Body: nil},
			},
		},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestForeachOverNonArrayReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "n", Type: ty("integer", 0), Init: lit(cst.LitInteger, "1")},
		&cst.ForeachStmt{VarName: "v", Iterable: ref("n"), Body: block()},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestForeachBindsElementTypeFromArray(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "xs", Type: ty("integer", 1), Init: &cst.ArrayLiteral{Elements: []cst.Expr{lit(cst.LitInteger, "1")}}},
		&cst.ForeachStmt{VarName: "v", Iterable: ref("xs"), Body: block(&cst.ExprStmt{X: call("print", ref("v"))})},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
	assert.False(t, hasCode(a.Sink().All(), diag.CodeUndeclaredName))
}

func TestTryCatchBindsCatchNameAsString(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.TryCatchStmt{
			Try:       block(),
			CatchName: "err",
			Catch:     block(&cst.ExprStmt{X: call("print", ref("err"))}),
		},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeUndeclaredName))
}

func TestVoidFunctionReturningAValueReported(t *testing.T) {
	fn := &cst.FunctionDecl{Name: "f", Body: block(&cst.ReturnStmt{Value: lit(cst.LitInteger, "1")})}

	a := New()
	a.Analyze(&cst.Program{Decls: []cst.Stmt{fn}})

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestNonVoidFunctionMissingReturnValueReported(t *testing.T) {
	fn := &cst.FunctionDecl{Name: "f", Return: ty("integer", 0), Body: block(&cst.ReturnStmt{})}

	a := New()
	a.Analyze(&cst.Program{Decls: []cst.Stmt{fn}})

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}
