// Package fixtures builds hand-constructed concrete syntax trees for the
// end-to-end scenarios of spec §8, reused by both the CLI and the
// compiler package's tests. There is no parser in this repo (§1), so
// every fixture is built directly against the cst package's node types.
package fixtures

import (
	"github.com/XavierLopez25/compilscript/internal/cst"
)

func lit(kind cst.LiteralKind, text string) *cst.Literal {
	return &cst.Literal{Kind: kind, Text: text}
}

func ref(name string) *cst.VariableRef { return &cst.VariableRef{Name: name} }

func ty(base string, rank int) *cst.TypeRef { return &cst.TypeRef{Base: base, Rank: rank} }

func block(stmts ...cst.Stmt) *cst.Block { return &cst.Block{Statements: stmts} }

func call(name string, args ...cst.Expr) *cst.Call {
	return &cst.Call{Callee: ref(name), Args: args}
}

// S1 is "simple arithmetic with print":
//
//	var x: integer = 10;
//	var y: integer = x + 5;
//	print(y);
func S1() *cst.Program {
	return &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "x", Type: ty("integer", 0), Init: lit(cst.LitInteger, "10")},
		&cst.VariableDecl{Name: "y", Type: ty("integer", 0), Init: &cst.BinaryOp{Op: "+", Left: ref("x"), Right: lit(cst.LitInteger, "5")}},
		&cst.ExprStmt{X: call("print", ref("y"))},
	}}
}

// S2 is "short-circuit":
//
//	var a: boolean = true; var b: boolean = false;
//	if (a && b) { print("no"); } else { print("yes"); }
func S2() *cst.Program {
	return &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "a", Type: ty("boolean", 0), Init: lit(cst.LitBoolean, "true")},
		&cst.VariableDecl{Name: "b", Type: ty("boolean", 0), Init: lit(cst.LitBoolean, "false")},
		&cst.IfStmt{
			Cond: &cst.BinaryOp{Op: "&&", Left: ref("a"), Right: ref("b")},
			Then: block(&cst.ExprStmt{X: call("print", lit(cst.LitString, "no"))}),
			Else: block(&cst.ExprStmt{X: call("print", lit(cst.LitString, "yes"))}),
		},
	}}
}

// S3 is "inheritance + method call":
//
//	class Animal { var name: string;
//	  function constructor(n: string) { this.name = n; }
//	  function speak(): string { return this.name; } }
//	class Dog : Animal {
//	  function speak(): string { return this.name + " barks"; } }
//	var d: Dog = new Dog("Rex");
//	print(d.speak());
func S3() *cst.Program {
	animal := &cst.ClassDecl{
		Name:   "Animal",
		Fields: []*cst.FieldDecl{{Name: "name", Type: ty("string", 0)}},
		Methods: []*cst.FunctionDecl{
			{
				Name:   "constructor",
				Params: []*cst.Param{{Name: "n", Type: ty("string", 0)}},
				Body: block(&cst.Assignment{
					Target: &cst.PropertyAccess{Object: &cst.ThisExpr{}, Name: "name"},
					Value:  ref("n"),
				}),
			},
			{
				Name:   "speak",
				Return: ty("string", 0),
				Body:   block(&cst.ReturnStmt{Value: &cst.PropertyAccess{Object: &cst.ThisExpr{}, Name: "name"}}),
			},
		},
	}
	dog := &cst.ClassDecl{
		Name:       "Dog",
		Superclass: "Animal",
		Methods: []*cst.FunctionDecl{
			{
				Name:   "speak",
				Return: ty("string", 0),
				Body: block(&cst.ReturnStmt{Value: &cst.BinaryOp{
					Op:    "+",
					Left:  &cst.PropertyAccess{Object: &cst.ThisExpr{}, Name: "name"},
					Right: lit(cst.LitString, " barks"),
				}}),
			},
		},
	}
	return &cst.Program{Decls: []cst.Stmt{
		animal,
		dog,
		&cst.VariableDecl{Name: "d", Type: ty("Dog", 0), Init: &cst.NewExpr{ClassName: "Dog", Args: []cst.Expr{lit(cst.LitString, "Rex")}}},
		&cst.ExprStmt{X: call("print", &cst.Call{Callee: &cst.PropertyAccess{Object: ref("d"), Name: "speak"}})},
	}}
}

// S4 is "built-in clash":
//
//	function print(m: string): void { }
func S4() *cst.Program {
	return &cst.Program{Decls: []cst.Stmt{
		&cst.FunctionDecl{
			Name:   "print",
			Params: []*cst.Param{{Name: "m", Type: ty("string", 0)}},
			Body:   block(),
		},
	}}
}

// S5 is "break outside loop":
//
//	function f(): void { break; }
func S5() *cst.Program {
	return &cst.Program{Decls: []cst.Stmt{
		&cst.FunctionDecl{
			Name: "f",
			Body: block(&cst.BreakStmt{}),
		},
	}}
}

// S6 is "heterogeneous array":
//
//	var m = [1, "hi", true];
func S6() *cst.Program {
	return &cst.Program{Decls: []cst.Stmt{
		&cst.VariableDecl{Name: "m", Init: &cst.ArrayLiteral{Elements: []cst.Expr{
			lit(cst.LitInteger, "1"),
			lit(cst.LitString, "hi"),
			lit(cst.LitBoolean, "true"),
		}}},
	}}
}
