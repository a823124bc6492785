package tac

import (
	"strconv"

	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// operand is the result of lowering an expression: either a temporary
// (which must be released exactly once by whoever consumes it) or a
// "pure" name — a variable, a literal's text, or the empty string for a
// void call — which must never be released.
type operand struct {
	name string
	temp bool
}

func (g *Generator) release(o operand) {
	if o.temp {
		g.temps.Release(o.name)
	}
}

// genExpr lowers e, emitting whatever instructions are needed, and
// returns the operand standing for its value. A bare variable reference
// or `this` is returned by name with no instruction at all — the
// read-optimization in §4.4 ("the result operand of a pure variable
// reference is the variable itself").
func (g *Generator) genExpr(e ast.Expr) operand {
	switch n := e.(type) {
	case *ast.Literal:
		return operand{literalText(n), false}
	case *ast.VariableRef:
		return operand{n.Name, false}
	case *ast.ThisExpr:
		return operand{"this", false}
	case *ast.BinaryOp:
		return g.genBinary(n)
	case *ast.UnaryOp:
		return g.genUnary(n)
	case *ast.Ternary:
		return g.genTernary(n)
	case *ast.Call:
		return g.genCall(n)
	case *ast.NewExpr:
		return g.genNew(n)
	case *ast.PropertyAccess:
		return g.genPropertyAccess(n)
	case *ast.IndexAccess:
		return g.genIndexAccess(n)
	case *ast.ArrayLiteral:
		return g.genArrayLiteral(n)
	default:
		return operand{"", false}
	}
}

func (g *Generator) genBinary(n *ast.BinaryOp) operand {
	switch n.Op {
	case "&&":
		dst := g.temps.Fresh()
		lfalse := g.labels.Fresh("Lfalse")
		lend := g.labels.Fresh("Lend")
		g.genBranchFalse(n.Left, lfalse)
		rhs := g.genExpr(n.Right)
		g.emit(CopyInstr{Dst: dst, Src: rhs.name})
		g.release(rhs)
		g.emit(GotoInstr{Label: lend})
		g.emit(LabelInstr{Name: lfalse})
		g.emit(CopyInstr{Dst: dst, Src: "false"})
		g.emit(LabelInstr{Name: lend})
		return operand{dst, true}
	case "||":
		dst := g.temps.Fresh()
		ltrue := g.labels.Fresh("Ltrue")
		lend := g.labels.Fresh("Lend")
		g.genBranchTrue(n.Left, ltrue)
		rhs := g.genExpr(n.Right)
		g.emit(CopyInstr{Dst: dst, Src: rhs.name})
		g.release(rhs)
		g.emit(GotoInstr{Label: lend})
		g.emit(LabelInstr{Name: ltrue})
		g.emit(CopyInstr{Dst: dst, Src: "true"})
		g.emit(LabelInstr{Name: lend})
		return operand{dst, true}
	default:
		lhs := g.genExpr(n.Left)
		rhs := g.genExpr(n.Right)
		dst := g.temps.Fresh()
		g.emit(BinaryInstr{Dst: dst, Left: lhs.name, Op: n.Op, Right: rhs.name})
		g.release(lhs)
		g.release(rhs)
		return operand{dst, true}
	}
}

func (g *Generator) genUnary(n *ast.UnaryOp) operand {
	v := g.genExpr(n.Operand)
	dst := g.temps.Fresh()
	g.emit(UnaryInstr{Dst: dst, Op: n.Op, Operand: v.name})
	g.release(v)
	return operand{dst, true}
}

// genTernary lowers `cond ? then : else` into a fresh temp written from
// both arms, per §4.4's two-label contract.
func (g *Generator) genTernary(n *ast.Ternary) operand {
	dst := g.temps.Fresh()
	lelse := g.labels.Fresh("Lelse")
	lend := g.labels.Fresh("Lend")
	g.genBranchFalse(n.Cond, lelse)
	thenVal := g.genExpr(n.Then)
	g.emit(CopyInstr{Dst: dst, Src: thenVal.name})
	g.release(thenVal)
	g.emit(GotoInstr{Label: lend})
	g.emit(LabelInstr{Name: lelse})
	elseVal := g.genExpr(n.Else)
	g.emit(CopyInstr{Dst: dst, Src: elseVal.name})
	g.release(elseVal)
	g.emit(LabelInstr{Name: lend})
	return operand{dst, true}
}

// genBranchFalse lowers e as a branch condition: control jumps to
// falseLabel when e is false, and falls through otherwise. Logical
// operators thread jumps directly into their operands instead of
// materializing an intermediate boolean (short-circuit evaluation).
func (g *Generator) genBranchFalse(e ast.Expr, falseLabel string) {
	switch n := e.(type) {
	case *ast.BinaryOp:
		switch n.Op {
		case "&&":
			g.genBranchFalse(n.Left, falseLabel)
			g.genBranchFalse(n.Right, falseLabel)
			return
		case "||":
			trueLabel := g.labels.Fresh("Lor")
			g.genBranchTrue(n.Left, trueLabel)
			g.genBranchFalse(n.Right, falseLabel)
			g.emit(LabelInstr{Name: trueLabel})
			return
		}
	case *ast.UnaryOp:
		if n.Op == "!" {
			g.genBranchTrue(n.Operand, falseLabel)
			return
		}
	}
	cond := g.genExpr(e)
	g.emit(IfFalseInstr{Cond: cond.name, Label: falseLabel})
	g.release(cond)
}

// genBranchTrue is genBranchFalse's mirror: jumps to trueLabel when e is
// true, falls through otherwise.
func (g *Generator) genBranchTrue(e ast.Expr, trueLabel string) {
	switch n := e.(type) {
	case *ast.BinaryOp:
		switch n.Op {
		case "||":
			g.genBranchTrue(n.Left, trueLabel)
			g.genBranchTrue(n.Right, trueLabel)
			return
		case "&&":
			falseLabel := g.labels.Fresh("Land")
			g.genBranchFalse(n.Left, falseLabel)
			g.genBranchTrue(n.Right, trueLabel)
			g.emit(LabelInstr{Name: falseLabel})
			return
		}
	case *ast.UnaryOp:
		if n.Op == "!" {
			g.genBranchFalse(n.Operand, trueLabel)
			return
		}
	}
	cond := g.genExpr(e)
	g.emit(IfInstr{Cond: cond.name, Label: trueLabel})
	g.release(cond)
}

func (g *Generator) genArgs(args []ast.Expr) int {
	for _, arg := range args {
		v := g.genExpr(arg)
		g.emit(ParamInstr{Value: v.name})
		g.release(v)
	}
	return len(args)
}

// genCall lowers a function or method call. Method calls push the
// receiver as an implicit first argument and dispatch statically against
// the receiver's declared class (`<Class>_<method>`, §4.4's locked
// static-dispatch decision).
func (g *Generator) genCall(n *ast.Call) operand {
	if n.Kind == ast.CalleeMethod {
		recv := g.genExpr(n.Receiver)
		g.emit(ParamInstr{Value: recv.name})
		g.release(recv)
		argCount := 1 + g.genArgs(n.Args)
		funcName := n.StaticClass + "_" + n.Name
		if n.Type.Equal(types.VOID) {
			g.emit(CallInstr{Func: funcName, N: argCount})
			return operand{"", false}
		}
		dst := g.temps.Fresh()
		g.emit(CallInstr{Dst: dst, Func: funcName, N: argCount})
		return operand{dst, true}
	}

	argCount := g.genArgs(n.Args)
	if n.Type.Equal(types.VOID) {
		g.emit(CallInstr{Func: n.Name, N: argCount})
		return operand{"", false}
	}
	dst := g.temps.Fresh()
	g.emit(CallInstr{Dst: dst, Func: n.Name, N: argCount})
	return operand{dst, true}
}

func (g *Generator) genNew(n *ast.NewExpr) operand {
	argCount := g.genArgs(n.Args)
	dst := g.temps.Fresh()
	g.emit(NewInstr{Dst: dst, Class: n.ClassName, N: argCount})
	return operand{dst, true}
}

func (g *Generator) genPropertyAccess(n *ast.PropertyAccess) operand {
	obj := g.genExpr(n.Object)
	dst := g.temps.Fresh()
	g.emit(FieldLoadInstr{Dst: dst, Object: obj.name, Field: n.Name})
	g.release(obj)
	return operand{dst, true}
}

func (g *Generator) genIndexAccess(n *ast.IndexAccess) operand {
	arr := g.genExpr(n.Array)
	idx := g.genExpr(n.Index)
	dst := g.temps.Fresh()
	g.emit(IndexLoadInstr{Dst: dst, Array: arr.name, Index: idx.name})
	g.release(arr)
	g.release(idx)
	return operand{dst, true}
}

// genArrayLiteral allocates storage via the same `new` form used for
// objects (class name "Array", N the element count) and stores each
// element in turn — the instruction set has no dedicated array-literal
// form, so this reuses `new` plus indexed stores instead of inventing one.
func (g *Generator) genArrayLiteral(n *ast.ArrayLiteral) operand {
	dst := g.temps.Fresh()
	g.emit(NewInstr{Dst: dst, Class: "Array", N: len(n.Elements)})
	for i, el := range n.Elements {
		v := g.genExpr(el)
		g.emit(IndexStoreInstr{Array: dst, Index: strconv.Itoa(i), Value: v.name})
		g.release(v)
	}
	return operand{dst, true}
}
