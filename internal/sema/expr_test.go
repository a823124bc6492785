package sema

import (
	"testing"

	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/stretchr/testify/assert"
)

func TestTernaryRequiresBooleanCondition(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "x", Type: ty("integer", 0), Init: &cst.Ternary{
			Cond: lit(cst.LitInteger, "1"),
			Then: lit(cst.LitInteger, "1"),
			Else: lit(cst.LitInteger, "2"),
		}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidCondition))
}

func TestTernaryUnifiesIncompatibleBranchTypesReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ExprStmt{X: &cst.Ternary{
			Cond: lit(cst.LitBoolean, "true"),
			Then: lit(cst.LitInteger, "1"),
			Else: lit(cst.LitBoolean, "false"),
		}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestTernaryWithCompatibleBranchesIsLegal(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ExprStmt{X: &cst.Ternary{
			Cond: lit(cst.LitBoolean, "true"),
			Then: lit(cst.LitInteger, "1"),
			Else: lit(cst.LitInteger, "2"),
		}},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestCallArityMismatchReported(t *testing.T) {
	fn := &cst.FunctionDecl{
		Name:   "add",
		Params: []*cst.Param{{Name: "a", Type: ty("integer", 0)}, {Name: "b", Type: ty("integer", 0)}},
		Return: ty("integer", 0),
		Body:   block(&cst.ReturnStmt{Value: ref("a")}),
	}
	program := &cst.Program{Decls: []cst.Stmt{
		fn,
		&cst.ExprStmt{X: call("add", lit(cst.LitInteger, "1"))},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeArityMismatch))
}

func TestCallToUndeclaredFunctionReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ExprStmt{X: call("nope")},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeUndeclaredName))
}

func TestCallingAClassNameReportsNonCallable(t *testing.T) {
	cls := &cst.ClassDecl{Name: "Foo"}
	program := &cst.Program{Decls: []cst.Stmt{
		cls,
		&cst.ExprStmt{X: call("Foo")},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeNonCallable))
}

func TestArrayIndexMustBeIntegerReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "xs", Type: ty("integer", 1), Init: &cst.ArrayLiteral{Elements: []cst.Expr{lit(cst.LitInteger, "1")}}},
		&cst.ExprStmt{X: &cst.IndexAccess{Array: ref("xs"), Index: lit(cst.LitString, "zero")}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestIndexingANonArrayReportsNonIndexable(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "n", Type: ty("integer", 0), Init: lit(cst.LitInteger, "1")},
		&cst.ExprStmt{X: &cst.IndexAccess{Array: ref("n"), Index: lit(cst.LitInteger, "0")}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeNonIndexable))
}

func TestStringConcatenationWithNumericOperandPromotesToString(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{
			Name: "msg",
			Type: ty("string", 0),
			Init: &cst.BinaryOp{Op: "+", Left: lit(cst.LitString, "count: "), Right: lit(cst.LitInteger, "3")},
		},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

// Concatenation is unconditional on the non-STRING side: a class instance
// or an array on the right of a STRING '+' is legal, not a type mismatch.
func TestStringConcatenationWithClassInstanceIsLegal(t *testing.T) {
	cls := &cst.ClassDecl{Name: "Point"}
	program := &cst.Program{Decls: []cst.Stmt{
		cls,
		&cst.VariableDecl{Name: "p", Type: ty("Point", 0), Init: &cst.NewExpr{ClassName: "Point"}},
		&cst.ExprStmt{X: &cst.BinaryOp{Op: "+", Left: lit(cst.LitString, "point: "), Right: ref("p")}},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestStringConcatenationWithArrayIsLegal(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "xs", Type: ty("integer", 1), Init: &cst.ArrayLiteral{Elements: []cst.Expr{lit(cst.LitInteger, "1")}}},
		&cst.ExprStmt{X: &cst.BinaryOp{Op: "+", Left: lit(cst.LitString, "items: "), Right: ref("xs")}},
	}}

	a := New()
	a.Analyze(program)

	assert.False(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestArithmeticOnNonNumericOperandsReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ExprStmt{X: &cst.BinaryOp{Op: "-", Left: lit(cst.LitBoolean, "true"), Right: lit(cst.LitBoolean, "false")}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeTypeMismatch))
}

func TestLenBuiltinRequiresExactlyOneArgument(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "xs", Type: ty("integer", 1), Init: &cst.ArrayLiteral{Elements: []cst.Expr{lit(cst.LitInteger, "1")}}},
		&cst.ExprStmt{X: call("len", ref("xs"), ref("xs"))},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeArityMismatch))
}

func TestThisOutsideAMethodReported(t *testing.T) {
	program := &cst.Program{Decls: []cst.Stmt{
		&cst.ExprStmt{X: &cst.ThisExpr{}},
	}}

	a := New()
	a.Analyze(program)

	assert.True(t, hasCode(a.Sink().All(), diag.CodeInvalidJump))
}
