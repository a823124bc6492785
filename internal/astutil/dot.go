// Package astutil provides debug-oriented walkers over the typed AST that
// are not part of any compilation pass proper: today, a Graphviz DOT
// exporter, dispatching by concrete node type through a single type
// switch rather than a visitor interface.
package astutil

import (
	"fmt"
	"strings"

	"github.com/XavierLopez25/compilscript/internal/ast"
)

// DOT renders program as a Graphviz "digraph AST { ... }" document. Each
// node gets a stable nN id and a label built from its kind plus a few
// salient fields; edges are emitted in visitation order so the output is
// deterministic across runs on identical input (§8.1).
func DOT(program *ast.Program) string {
	e := &exporter{ids: map[ast.Node]string{}}
	var b strings.Builder
	b.WriteString("digraph AST {\n")
	b.WriteString("  node [shape=box];\n")
	e.emitProgram(&b, program)
	b.WriteString("}")
	return b.String()
}

type exporter struct {
	next int
	ids  map[ast.Node]string
}

func (e *exporter) id(n ast.Node) string {
	if id, ok := e.ids[n]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", e.next)
	e.next++
	e.ids[n] = id
	return id
}

func (e *exporter) node(b *strings.Builder, n ast.Node, label string) string {
	id := e.id(n)
	b.WriteString(fmt.Sprintf("  %s [label=%q];\n", id, label))
	return id
}

func (e *exporter) edge(b *strings.Builder, from, to string) {
	b.WriteString(fmt.Sprintf("  %s -> %s;\n", from, to))
}

func (e *exporter) emitProgram(b *strings.Builder, p *ast.Program) {
	id := e.node(b, p, "Program")
	for _, d := range p.Decls {
		child := e.emitStmt(b, d)
		e.edge(b, id, child)
	}
}

func (e *exporter) emitStmt(b *strings.Builder, s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.Block:
		id := e.node(b, n, "Block")
		for _, st := range n.Statements {
			e.edge(b, id, e.emitStmt(b, st))
		}
		return id
	case *ast.VariableDecl:
		id := e.node(b, n, fmt.Sprintf("VariableDecl\\nname=%s\\ntype=%s", n.Name, n.Type))
		if n.Init != nil {
			e.edge(b, id, e.emitExpr(b, n.Init))
		}
		return id
	case *ast.ConstDecl:
		id := e.node(b, n, fmt.Sprintf("ConstDecl\\nname=%s\\ntype=%s", n.Name, n.Type))
		if n.Init != nil {
			e.edge(b, id, e.emitExpr(b, n.Init))
		}
		return id
	case *ast.Assignment:
		id := e.node(b, n, fmt.Sprintf("Assignment\\nname=%s", n.Name))
		e.edge(b, id, e.emitExpr(b, n.Value))
		return id
	case *ast.PropertyAssignment:
		id := e.node(b, n, fmt.Sprintf("PropertyAssignment\\nproperty=%s", n.Field))
		e.edge(b, id, e.emitExpr(b, n.Object))
		e.edge(b, id, e.emitExpr(b, n.Value))
		return id
	case *ast.IndexAssignment:
		id := e.node(b, n, "IndexAssignment")
		e.edge(b, id, e.emitExpr(b, n.Array))
		e.edge(b, id, e.emitExpr(b, n.Index))
		e.edge(b, id, e.emitExpr(b, n.Value))
		return id
	case *ast.IfStmt:
		id := e.node(b, n, "IfStmt")
		e.edge(b, id, e.emitExpr(b, n.Cond))
		e.edge(b, id, e.emitStmt(b, n.Then))
		if n.Else != nil {
			e.edge(b, id, e.emitStmt(b, n.Else))
		}
		return id
	case *ast.WhileStmt:
		id := e.node(b, n, "WhileStmt")
		e.edge(b, id, e.emitExpr(b, n.Cond))
		e.edge(b, id, e.emitStmt(b, n.Body))
		return id
	case *ast.DoWhileStmt:
		id := e.node(b, n, "DoWhileStmt")
		e.edge(b, id, e.emitStmt(b, n.Body))
		e.edge(b, id, e.emitExpr(b, n.Cond))
		return id
	case *ast.ForStmt:
		id := e.node(b, n, "ForStmt")
		if n.Init != nil {
			e.edge(b, id, e.emitStmt(b, n.Init))
		}
		if n.Cond != nil {
			e.edge(b, id, e.emitExpr(b, n.Cond))
		}
		if n.Step != nil {
			e.edge(b, id, e.emitStmt(b, n.Step))
		}
		e.edge(b, id, e.emitStmt(b, n.Body))
		return id
	case *ast.ForeachStmt:
		id := e.node(b, n, fmt.Sprintf("ForeachStmt\\nname=%s", n.VarName))
		e.edge(b, id, e.emitExpr(b, n.Iterable))
		e.edge(b, id, e.emitStmt(b, n.Body))
		return id
	case *ast.SwitchStmt:
		id := e.node(b, n, "SwitchStmt")
		e.edge(b, id, e.emitExpr(b, n.Subject))
		for _, c := range n.Cases {
			e.edge(b, id, e.emitCase(b, c))
		}
		if n.Default != nil {
			e.edge(b, id, e.emitCase(b, n.Default))
		}
		return id
	case *ast.BreakStmt:
		return e.node(b, n, "BreakStmt")
	case *ast.ContinueStmt:
		return e.node(b, n, "ContinueStmt")
	case *ast.ReturnStmt:
		id := e.node(b, n, "ReturnStmt")
		if n.Value != nil {
			e.edge(b, id, e.emitExpr(b, n.Value))
		}
		return id
	case *ast.TryCatchStmt:
		id := e.node(b, n, fmt.Sprintf("TryCatchStmt\\nname=%s", n.CatchName))
		e.edge(b, id, e.emitStmt(b, n.Try))
		e.edge(b, id, e.emitStmt(b, n.Catch))
		return id
	case *ast.ExprStmt:
		id := e.node(b, n, "ExprStmt")
		e.edge(b, id, e.emitExpr(b, n.X))
		return id
	case *ast.FunctionDecl:
		id := e.node(b, n, fmt.Sprintf("FunctionDecl\\nname=%s\\ntype=%s", n.Name, n.Return))
		if n.Body != nil {
			e.edge(b, id, e.emitStmt(b, n.Body))
		}
		return id
	case *ast.ClassDecl:
		id := e.node(b, n, fmt.Sprintf("ClassDecl\\nname=%s", n.Name))
		for _, m := range n.Methods {
			e.edge(b, id, e.emitStmt(b, m))
		}
		return id
	default:
		return e.node(b, n, "UnknownStmt")
	}
}

func (e *exporter) emitCase(b *strings.Builder, c *ast.SwitchCase) string {
	id := e.node(b, c, "SwitchCase")
	if c.Label != nil {
		e.edge(b, id, e.emitExpr(b, c.Label))
	}
	for _, st := range c.Body {
		e.edge(b, id, e.emitStmt(b, st))
	}
	return id
}

func (e *exporter) emitExpr(b *strings.Builder, x ast.Expr) string {
	switch n := x.(type) {
	case *ast.Literal:
		return e.node(b, n, fmt.Sprintf("Literal\\ntype=%s", n.Type))
	case *ast.VariableRef:
		return e.node(b, n, fmt.Sprintf("VariableRef\\nname=%s\\ntype=%s", n.Name, n.Type))
	case *ast.ThisExpr:
		return e.node(b, n, fmt.Sprintf("ThisExpr\\ntype=%s", n.Type))
	case *ast.BinaryOp:
		id := e.node(b, n, fmt.Sprintf("BinaryOp\\nop=%s\\ntype=%s", n.Op, n.Type))
		e.edge(b, id, e.emitExpr(b, n.Left))
		e.edge(b, id, e.emitExpr(b, n.Right))
		return id
	case *ast.UnaryOp:
		id := e.node(b, n, fmt.Sprintf("UnaryOp\\nop=%s\\ntype=%s", n.Op, n.Type))
		e.edge(b, id, e.emitExpr(b, n.Operand))
		return id
	case *ast.Ternary:
		id := e.node(b, n, fmt.Sprintf("Ternary\\ntype=%s", n.Type))
		e.edge(b, id, e.emitExpr(b, n.Cond))
		e.edge(b, id, e.emitExpr(b, n.Then))
		e.edge(b, id, e.emitExpr(b, n.Else))
		return id
	case *ast.Call:
		id := e.node(b, n, fmt.Sprintf("Call\\nname=%s\\ntype=%s", n.Name, n.Type))
		if n.Receiver != nil {
			e.edge(b, id, e.emitExpr(b, n.Receiver))
		}
		for _, a := range n.Args {
			e.edge(b, id, e.emitExpr(b, a))
		}
		return id
	case *ast.NewExpr:
		id := e.node(b, n, fmt.Sprintf("NewExpr\\nname=%s\\ntype=%s", n.ClassName, n.Type))
		for _, a := range n.Args {
			e.edge(b, id, e.emitExpr(b, a))
		}
		return id
	case *ast.PropertyAccess:
		id := e.node(b, n, fmt.Sprintf("PropertyAccess\\nproperty=%s\\ntype=%s", n.Name, n.Type))
		e.edge(b, id, e.emitExpr(b, n.Object))
		return id
	case *ast.IndexAccess:
		id := e.node(b, n, fmt.Sprintf("IndexAccess\\ntype=%s", n.Type))
		e.edge(b, id, e.emitExpr(b, n.Array))
		e.edge(b, id, e.emitExpr(b, n.Index))
		return id
	case *ast.ArrayLiteral:
		id := e.node(b, n, fmt.Sprintf("ArrayLiteral\\ntype=%s", n.Type))
		for _, el := range n.Elements {
			e.edge(b, id, e.emitExpr(b, el))
		}
		return id
	default:
		return e.node(b, n, "UnknownExpr")
	}
}
