package tac

import "github.com/XavierLopez25/compilscript/internal/ast"

// genStmt lowers one statement, appending instructions in place.
func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		g.genBlock(n)
	case *ast.VariableDecl:
		g.reserveLocal(n.Name)
		g.genInitAssign(n.Name, n.Init)
	case *ast.ConstDecl:
		g.reserveLocal(n.Name)
		g.genInitAssign(n.Name, n.Init)
	case *ast.Assignment:
		v := g.genExpr(n.Value)
		g.emit(CopyInstr{Dst: n.Name, Src: v.name})
		g.release(v)
	case *ast.PropertyAssignment:
		obj := g.genExpr(n.Object)
		v := g.genExpr(n.Value)
		g.emit(FieldStoreInstr{Object: obj.name, Field: n.Field, Value: v.name})
		g.release(obj)
		g.release(v)
	case *ast.IndexAssignment:
		arr := g.genExpr(n.Array)
		idx := g.genExpr(n.Index)
		v := g.genExpr(n.Value)
		g.emit(IndexStoreInstr{Array: arr.name, Index: idx.name, Value: v.name})
		g.release(arr)
		g.release(idx)
		g.release(v)
	case *ast.IfStmt:
		g.genIf(n)
	case *ast.WhileStmt:
		g.genWhile(n)
	case *ast.DoWhileStmt:
		g.genDoWhile(n)
	case *ast.ForStmt:
		g.genFor(n)
	case *ast.ForeachStmt:
		g.genForeach(n)
	case *ast.SwitchStmt:
		g.genSwitch(n)
	case *ast.BreakStmt:
		g.emit(GotoInstr{Label: g.currentBreak()})
	case *ast.ContinueStmt:
		g.emit(GotoInstr{Label: g.currentContinue()})
	case *ast.ReturnStmt:
		if n.Value == nil {
			g.emit(ReturnInstr{})
			return
		}
		v := g.genExpr(n.Value)
		g.emit(ReturnInstr{Value: v.name, HasValue: true})
		g.release(v)
	case *ast.TryCatchStmt:
		g.genTryCatch(n)
	case *ast.ExprStmt:
		g.release(g.genExpr(n.X))
	case *ast.FunctionDecl:
		g.genFunction(n)
	}
}

// genInitAssign lowers a var/const declaration's initializer, if any. A
// declaration with no initializer still emits a listing line — a comment
// — so the storage slot the annotator assigned it is traceable.
func (g *Generator) genInitAssign(name string, init ast.Expr) {
	if init == nil {
		g.emit(CommentInstr{Comment: "declare " + name})
		return
	}
	v := g.genExpr(init)
	g.emit(CopyInstr{Dst: name, Src: v.name})
	g.release(v)
}

func (g *Generator) genIf(n *ast.IfStmt) {
	if n.Else == nil {
		lend := g.labels.Fresh("Lend")
		g.genBranchFalse(n.Cond, lend)
		g.genStmt(n.Then)
		g.emit(LabelInstr{Name: lend})
		return
	}
	lelse := g.labels.Fresh("Lelse")
	lend := g.labels.Fresh("Lend")
	g.genBranchFalse(n.Cond, lelse)
	g.genStmt(n.Then)
	g.emit(GotoInstr{Label: lend})
	g.emit(LabelInstr{Name: lelse})
	g.genStmt(n.Else)
	g.emit(LabelInstr{Name: lend})
}

func (g *Generator) genWhile(n *ast.WhileStmt) {
	lloop := g.labels.Fresh("Lloop")
	lend := g.labels.Fresh("Lend")
	g.emit(LabelInstr{Name: lloop})
	g.genBranchFalse(n.Cond, lend)
	g.pushLoop(lloop, lend)
	g.genStmt(n.Body)
	g.popLoop()
	g.emit(GotoInstr{Label: lloop})
	g.emit(LabelInstr{Name: lend})
}

// genDoWhile inserts a dedicated label at the condition test so that
// `continue` re-checks the condition instead of re-entering the body
// unconditionally.
func (g *Generator) genDoWhile(n *ast.DoWhileStmt) {
	lloop := g.labels.Fresh("Lloop")
	lcond := g.labels.Fresh("Lcond")
	lend := g.labels.Fresh("Lend")
	g.emit(LabelInstr{Name: lloop})
	g.pushLoop(lcond, lend)
	g.genStmt(n.Body)
	g.popLoop()
	g.emit(LabelInstr{Name: lcond})
	g.genBranchTrue(n.Cond, lloop)
	g.emit(LabelInstr{Name: lend})
}

func (g *Generator) genFor(n *ast.ForStmt) {
	if n.Init != nil {
		g.genStmt(n.Init)
	}
	lloop := g.labels.Fresh("Lloop")
	lstep := g.labels.Fresh("Lstep")
	lend := g.labels.Fresh("Lend")
	g.emit(LabelInstr{Name: lloop})
	if n.Cond != nil {
		g.genBranchFalse(n.Cond, lend)
	}
	g.pushLoop(lstep, lend)
	g.genStmt(n.Body)
	g.popLoop()
	g.emit(LabelInstr{Name: lstep})
	if n.Step != nil {
		g.genStmt(n.Step)
	}
	g.emit(GotoInstr{Label: lloop})
	g.emit(LabelInstr{Name: lend})
}

// genForeach desugars `foreach (v in a) body` into an index-counted for
// loop, with `v = a[i]` injected at the top of the body (§4.4).
func (g *Generator) genForeach(n *ast.ForeachStmt) {
	arr := g.genExpr(n.Iterable)

	idx := g.temps.Fresh()
	g.emit(CopyInstr{Dst: idx, Src: "0"})

	g.emit(ParamInstr{Value: arr.name})
	lenTmp := g.temps.Fresh()
	g.emit(CallInstr{Dst: lenTmp, Func: "len", N: 1})

	lloop := g.labels.Fresh("Lloop")
	lstep := g.labels.Fresh("Lstep")
	lend := g.labels.Fresh("Lend")

	g.emit(LabelInstr{Name: lloop})
	condTmp := g.temps.Fresh()
	g.emit(BinaryInstr{Dst: condTmp, Left: idx, Op: "<", Right: lenTmp})
	g.emit(IfFalseInstr{Cond: condTmp, Label: lend})
	g.temps.Release(condTmp)

	g.reserveLocal(n.VarName)
	g.emit(IndexLoadInstr{Dst: n.VarName, Array: arr.name, Index: idx})

	g.pushLoop(lstep, lend)
	g.genStmt(n.Body)
	g.popLoop()

	g.emit(LabelInstr{Name: lstep})
	inc := g.temps.Fresh()
	g.emit(BinaryInstr{Dst: inc, Left: idx, Op: "+", Right: "1"})
	g.emit(CopyInstr{Dst: idx, Src: inc})
	g.temps.Release(inc)
	g.emit(GotoInstr{Label: lloop})
	g.emit(LabelInstr{Name: lend})

	g.temps.Release(lenTmp)
	g.temps.Release(idx)
	g.release(arr)
}

// genSwitch lowers a sequence of equality tests in declared order,
// followed by a default/end jump, then the case bodies in order with no
// implicit break between them — fall-through is the default, matching
// the locked switch-semantics decision; an explicit `break` jumps to the
// shared end label via the switch's break-stack entry.
func (g *Generator) genSwitch(n *ast.SwitchStmt) {
	subject := g.genExpr(n.Subject)

	caseLabels := make([]string, len(n.Cases))
	for i := range n.Cases {
		caseLabels[i] = g.labels.Fresh("Lcase")
	}
	lend := g.labels.Fresh("Lend")
	defaultLabel := lend
	if n.Default != nil {
		defaultLabel = g.labels.Fresh("Ldefault")
	}

	for i, c := range n.Cases {
		label := g.genExpr(c.Label)
		t := g.temps.Fresh()
		g.emit(BinaryInstr{Dst: t, Left: subject.name, Op: "==", Right: label.name})
		g.emit(IfInstr{Cond: t, Label: caseLabels[i]})
		g.temps.Release(t)
		g.release(label)
	}
	g.emit(GotoInstr{Label: defaultLabel})

	g.pushSwitch(lend)
	for i, c := range n.Cases {
		g.emit(LabelInstr{Name: caseLabels[i]})
		for _, st := range c.Body {
			g.genStmt(st)
		}
	}
	if n.Default != nil {
		g.emit(LabelInstr{Name: defaultLabel})
		for _, st := range n.Default.Body {
			g.genStmt(st)
		}
	}
	g.popSwitch()

	g.emit(LabelInstr{Name: lend})
	g.release(subject)
}

// genTryCatch brackets the try body with try_begin/try_end and binds the
// caught error name as a plain local, then falls through past the catch
// body on the normal (non-throwing) path.
func (g *Generator) genTryCatch(n *ast.TryCatchStmt) {
	lcatch := g.labels.Fresh("Lcatch")
	lend := g.labels.Fresh("Lend")
	g.emit(TryBeginInstr{CatchLabel: lcatch})
	g.genStmt(n.Try)
	g.emit(TryEndInstr{})
	g.emit(GotoInstr{Label: lend})
	g.emit(LabelInstr{Name: lcatch})
	g.genStmt(n.Catch)
	g.emit(LabelInstr{Name: lend})
}
