package sema

import (
	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// isTerminating reports whether stmt always transfers control away from
// the statement following it in its own block (§4.3 "Dead code").
func isTerminating(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	default:
		return false
	}
}

// analyzeBlock analyzes a parse-tree block in a fresh BLOCK scope,
// reporting dead code for anything syntactically following a terminating
// statement.
func (a *Analyzer) analyzeBlock(b *cst.Block) *ast.Block {
	if b == nil {
		return &ast.Block{}
	}
	a.table.Enter(symtab.ScopeBlock)
	defer a.table.Leave()

	out := &ast.Block{Position: b.Position}
	terminated := false
	for _, s := range b.Statements {
		typed := a.analyzeStmt(s)
		if terminated {
			a.sink.Add(diag.KindSemantic, diag.CodeDeadCode, s.Pos(), "unreachable statement")
		}
		out.Statements = append(out.Statements, typed)
		if isTerminating(typed) {
			terminated = true
		}
	}
	return out
}

// analyzeStmt dispatches on the parse-tree statement's tagged variant.
func (a *Analyzer) analyzeStmt(s cst.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *cst.VariableDecl:
		return a.analyzeVariableDecl(n)
	case *cst.ConstDecl:
		return a.analyzeConstDecl(n)
	case *cst.Block:
		return a.analyzeBlock(n)
	case *cst.Assignment:
		return a.analyzeAssignment(n)
	case *cst.IfStmt:
		return a.analyzeIf(n)
	case *cst.WhileStmt:
		return a.analyzeWhile(n)
	case *cst.DoWhileStmt:
		return a.analyzeDoWhile(n)
	case *cst.ForStmt:
		return a.analyzeFor(n)
	case *cst.ForeachStmt:
		return a.analyzeForeach(n)
	case *cst.SwitchStmt:
		return a.analyzeSwitch(n)
	case *cst.BreakStmt:
		return a.analyzeBreak(n)
	case *cst.ContinueStmt:
		return a.analyzeContinue(n)
	case *cst.ReturnStmt:
		return a.analyzeReturn(n)
	case *cst.TryCatchStmt:
		return a.analyzeTryCatch(n)
	case *cst.ExprStmt:
		return &ast.ExprStmt{Position: n.Position, X: a.analyzeExpr(n.X)}
	case *cst.FunctionDecl:
		return a.analyzeFunction(n)
	case *cst.ClassDecl:
		// Classes are fully processed by the dedicated three-pass pipeline
		// before ordinary statements are visited; by the time analyzeStmt
		// sees one it is only being asked to preserve its declaration-order
		// slot in the output program.
		return a.classDecls[n.Name]
	default:
		a.sink.Add(diag.KindSemantic, diag.CodeMalformedTree, s.Pos(), "unrecognized statement node")
		return &ast.ExprStmt{Position: s.Pos()}
	}
}

func (a *Analyzer) analyzeVariableDecl(n *cst.VariableDecl) ast.Stmt {
	declared := resolveType(n.Type)
	var init ast.Expr
	if n.Init != nil {
		init = a.analyzeExprWithContext(n.Init, declared)
	}

	switch {
	case n.Type == nil && n.Init == nil:
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "variable %q needs either a type annotation or an initializer", n.Name)
		declared = types.INVALID
	case n.Type == nil:
		declared = init.ExprType()
	case n.Init != nil && init.ExprType().IsValid() && !types.CompatibleAssign(a, declared, init.ExprType()):
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot initialize %q of type %s with value of type %s", n.Name, declared, init.ExprType())
	}

	if err := a.table.DefineCurrent(&symtab.Symbol{
		Name: n.Name, Kind: symtab.KindVariable, Type: declared, Mutable: true, Pos: n.Position,
	}); err != nil {
		a.sink.Semantic(diag.CodeDuplicateName, n.Position, "%q is already declared in this scope", n.Name)
	}
	return &ast.VariableDecl{Position: n.Position, Name: n.Name, Type: declared, Init: init}
}

func (a *Analyzer) analyzeConstDecl(n *cst.ConstDecl) ast.Stmt {
	if n.Init == nil {
		a.sink.Semantic(diag.CodeConstWithoutInit, n.Position, "constant %q must have an initializer", n.Name)
		_ = a.table.DefineCurrent(&symtab.Symbol{Name: n.Name, Kind: symtab.KindConstant, Type: types.INVALID, Mutable: false, Pos: n.Position})
		return &ast.ConstDecl{Position: n.Position, Name: n.Name, Type: types.INVALID}
	}

	declared := resolveType(n.Type)
	init := a.analyzeExprWithContext(n.Init, declared)
	if n.Type == nil {
		declared = init.ExprType()
	} else if init.ExprType().IsValid() && !types.CompatibleAssign(a, declared, init.ExprType()) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot initialize constant %q of type %s with value of type %s", n.Name, declared, init.ExprType())
	}

	if err := a.table.DefineCurrent(&symtab.Symbol{
		Name: n.Name, Kind: symtab.KindConstant, Type: declared, Mutable: false, Pos: n.Position,
	}); err != nil {
		a.sink.Semantic(diag.CodeDuplicateName, n.Position, "%q is already declared in this scope", n.Name)
	}
	return &ast.ConstDecl{Position: n.Position, Name: n.Name, Type: declared, Init: init}
}

// analyzeAssignment implements §4.3 "Assignment": the target must name a
// mutable location, and the right-hand side must be assignable to it.
func (a *Analyzer) analyzeAssignment(n *cst.Assignment) ast.Stmt {
	switch target := n.Target.(type) {
	case *cst.VariableRef:
		return a.analyzePlainAssignment(n, target)
	case *cst.PropertyAccess:
		return a.analyzePropertyAssignment(n, target)
	case *cst.IndexAccess:
		return a.analyzeIndexAssignment(n, target)
	default:
		a.sink.Semantic(diag.CodeMalformedTree, n.Position, "invalid assignment target")
		return &ast.Assignment{Position: n.Position, Value: a.analyzeExpr(n.Value)}
	}
}

func (a *Analyzer) analyzePlainAssignment(n *cst.Assignment, target *cst.VariableRef) ast.Stmt {
	sym, ok := a.table.LookupCurrent(target.Name)
	if !ok {
		a.sink.Semantic(diag.CodeUndeclaredName, target.Position, "undeclared identifier %q", target.Name)
		return &ast.Assignment{Position: n.Position, Name: target.Name, Value: a.analyzeExpr(n.Value)}
	}
	if sym.Kind == symtab.KindField {
		// Implicit `this.field = value`.
		value := a.analyzeExprWithContext(n.Value, sym.Type)
		if !sym.Mutable {
			a.sink.Semantic(diag.CodeConstReassigned, n.Position, "field %q is read-only", target.Name)
		} else if value.ExprType().IsValid() && !types.CompatibleAssign(a, sym.Type, value.ExprType()) {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot assign %s to field %q of type %s", value.ExprType(), target.Name, sym.Type)
		}
		return &ast.PropertyAssignment{
			Position: n.Position,
			Object:   &ast.ThisExpr{Position: n.Position, Type: types.NewClass(a.currentCls)},
			Field:    target.Name, Value: value,
		}
	}

	value := a.analyzeExprWithContext(n.Value, sym.Type)
	switch sym.Kind {
	case symtab.KindConstant:
		a.sink.Semantic(diag.CodeConstReassigned, n.Position, "cannot assign to constant %q", target.Name)
	case symtab.KindFunction, symtab.KindMethod, symtab.KindClass:
		a.sink.Semantic(diag.CodeConstReassigned, n.Position, "%q does not name a mutable location", target.Name)
	default:
		if !sym.Mutable {
			a.sink.Semantic(diag.CodeConstReassigned, n.Position, "%q is read-only", target.Name)
		} else if value.ExprType().IsValid() && !types.CompatibleAssign(a, sym.Type, value.ExprType()) {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot assign %s to %q of type %s", value.ExprType(), target.Name, sym.Type)
		}
	}
	return &ast.Assignment{Position: n.Position, Name: target.Name, Value: value}
}

func (a *Analyzer) analyzePropertyAssignment(n *cst.Assignment, target *cst.PropertyAccess) ast.Stmt {
	obj := a.analyzeExpr(target.Object)
	ot := obj.ExprType()
	if !ot.IsValid() {
		return &ast.PropertyAssignment{Position: n.Position, Object: obj, Field: target.Name, Value: a.analyzeExpr(n.Value)}
	}
	if ot.Kind != types.Class {
		a.sink.Semantic(diag.CodePropertyOnPrimitive, n.Position, "cannot assign to property %q on non-class type %s", target.Name, ot)
		return &ast.PropertyAssignment{Position: n.Position, Object: obj, Field: target.Name, Value: a.analyzeExpr(n.Value)}
	}
	meta, ok := a.classes[ot.ClassName]
	if !ok {
		return &ast.PropertyAssignment{Position: n.Position, Object: obj, Field: target.Name, Value: a.analyzeExpr(n.Value)}
	}
	var fieldType types.Type = types.INVALID
	found := false
	for _, f := range meta.Fields {
		if f.Name == target.Name {
			fieldType, found = f.Type, true
			break
		}
	}
	if !found {
		a.sink.Semantic(diag.CodeMemberNotFound, n.Position, "class %q has no member %q", ot.ClassName, target.Name)
	}
	value := a.analyzeExprWithContext(n.Value, fieldType)
	if found && value.ExprType().IsValid() && !types.CompatibleAssign(a, fieldType, value.ExprType()) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot assign %s to field %q of type %s", value.ExprType(), target.Name, fieldType)
	}
	return &ast.PropertyAssignment{Position: n.Position, Object: obj, Field: target.Name, Value: value}
}

func (a *Analyzer) analyzeIndexAssignment(n *cst.Assignment, target *cst.IndexAccess) ast.Stmt {
	arr := a.analyzeExpr(target.Array)
	idx := a.analyzeExpr(target.Index)
	if idx.ExprType().IsValid() && !idx.ExprType().Equal(types.INTEGER) {
		a.sink.Semantic(diag.CodeTypeMismatch, target.Index.Pos(), "array index must be integer, got %s", idx.ExprType())
	}
	at := arr.ExprType()
	elemType := types.INVALID
	if at.IsValid() {
		if at.Kind != types.Array || at.Rank < 1 {
			a.sink.Semantic(diag.CodeNonIndexable, n.Position, "cannot index non-array type %s", at)
		} else if e, err := types.ElementType(at); err == nil {
			elemType = e
		}
	}
	value := a.analyzeExprWithContext(n.Value, elemType)
	if elemType.IsValid() && value.ExprType().IsValid() && !types.CompatibleAssign(a, elemType, value.ExprType()) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot assign %s to array element of type %s", value.ExprType(), elemType)
	}
	return &ast.IndexAssignment{Position: n.Position, Array: arr, Index: idx, Value: value}
}

func (a *Analyzer) checkBooleanCondition(e ast.Expr) {
	t := e.ExprType()
	if t.IsValid() && !t.Equal(types.BOOLEAN) {
		a.sink.Semantic(diag.CodeInvalidCondition, e.Pos(), "condition must be boolean, got %s", t)
	}
}

func (a *Analyzer) analyzeIf(n *cst.IfStmt) ast.Stmt {
	cond := a.analyzeExpr(n.Cond)
	a.checkBooleanCondition(cond)
	then := a.analyzeStmt(n.Then)
	var els ast.Stmt
	if n.Else != nil {
		els = a.analyzeStmt(n.Else)
	}
	return &ast.IfStmt{Position: n.Position, Cond: cond, Then: then, Else: els}
}

func (a *Analyzer) analyzeWhile(n *cst.WhileStmt) ast.Stmt {
	cond := a.analyzeExpr(n.Cond)
	a.checkBooleanCondition(cond)
	a.loopDepth++
	body := a.analyzeStmt(n.Body)
	a.loopDepth--
	return &ast.WhileStmt{Position: n.Position, Cond: cond, Body: body}
}

func (a *Analyzer) analyzeDoWhile(n *cst.DoWhileStmt) ast.Stmt {
	a.loopDepth++
	body := a.analyzeStmt(n.Body)
	a.loopDepth--
	cond := a.analyzeExpr(n.Cond)
	a.checkBooleanCondition(cond)
	return &ast.DoWhileStmt{Position: n.Position, Body: body, Cond: cond}
}

func (a *Analyzer) analyzeFor(n *cst.ForStmt) ast.Stmt {
	a.table.Enter(symtab.ScopeBlock)
	defer a.table.Leave()

	var init ast.Stmt
	if n.Init != nil {
		init = a.analyzeStmt(n.Init)
	}
	var cond ast.Expr
	if n.Cond != nil {
		cond = a.analyzeExpr(n.Cond)
		a.checkBooleanCondition(cond)
	}
	var step ast.Stmt
	if n.Step != nil {
		step = a.analyzeStmt(n.Step)
	}
	a.loopDepth++
	body := a.analyzeStmt(n.Body)
	a.loopDepth--
	return &ast.ForStmt{Position: n.Position, Init: init, Cond: cond, Step: step, Body: body}
}

func (a *Analyzer) analyzeForeach(n *cst.ForeachStmt) ast.Stmt {
	iterable := a.analyzeExpr(n.Iterable)
	it := iterable.ExprType()
	elemType := types.INVALID
	if it.IsValid() {
		if it.Kind != types.Array {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Iterable.Pos(), "foreach requires an array-typed iterable, got %s", it)
		} else if e, err := types.ElementType(it); err == nil {
			elemType = e
		}
	}

	a.table.Enter(symtab.ScopeBlock)
	defer a.table.Leave()
	_ = a.table.DefineCurrent(&symtab.Symbol{Name: n.VarName, Kind: symtab.KindVariable, Type: elemType, Mutable: true, Pos: n.Position})

	a.loopDepth++
	body := a.analyzeStmt(n.Body)
	a.loopDepth--
	return &ast.ForeachStmt{Position: n.Position, VarName: n.VarName, ElemType: elemType, Iterable: iterable, Body: body}
}

func (a *Analyzer) analyzeSwitch(n *cst.SwitchStmt) ast.Stmt {
	subject := a.analyzeExpr(n.Subject)
	st := subject.ExprType()

	out := &ast.SwitchStmt{Position: n.Position, Subject: subject}
	a.switchDepth++
	for _, c := range n.Cases {
		label := a.analyzeExpr(c.Label)
		if st.IsValid() && label.ExprType().IsValid() && !types.CompatibleAssign(a, st, label.ExprType()) {
			a.sink.Semantic(diag.CodeTypeMismatch, c.Position, "case label of type %s is not comparable to switch expression of type %s", label.ExprType(), st)
		}
		out.Cases = append(out.Cases, &ast.SwitchCase{Position: c.Position, Label: label, Body: a.analyzeStmtList(c.Body)})
	}
	if n.Default != nil {
		out.Default = &ast.SwitchCase{Position: n.Default.Position, Body: a.analyzeStmtList(n.Default.Body)}
	}
	a.switchDepth--
	return out
}

func (a *Analyzer) analyzeStmtList(stmts []cst.Stmt) []ast.Stmt {
	a.table.Enter(symtab.ScopeBlock)
	defer a.table.Leave()
	out := make([]ast.Stmt, 0, len(stmts))
	terminated := false
	for _, s := range stmts {
		typed := a.analyzeStmt(s)
		if terminated {
			a.sink.Add(diag.KindSemantic, diag.CodeDeadCode, s.Pos(), "unreachable statement")
		}
		out = append(out, typed)
		if isTerminating(typed) {
			terminated = true
		}
	}
	return out
}

func (a *Analyzer) analyzeBreak(n *cst.BreakStmt) ast.Stmt {
	if !a.canBreak() {
		a.sink.Semantic(diag.CodeInvalidJump, n.Position, "'break' outside a loop or switch")
	}
	return &ast.BreakStmt{Position: n.Position}
}

func (a *Analyzer) analyzeContinue(n *cst.ContinueStmt) ast.Stmt {
	if !a.inLoop() {
		a.sink.Semantic(diag.CodeInvalidJump, n.Position, "'continue' outside a loop")
	}
	return &ast.ContinueStmt{Position: n.Position}
}

func (a *Analyzer) analyzeReturn(n *cst.ReturnStmt) ast.Stmt {
	expected, ok := a.expectedReturn()
	if !ok {
		a.sink.Semantic(diag.CodeInvalidJump, n.Position, "'return' outside a function or method")
		var value ast.Expr
		if n.Value != nil {
			value = a.analyzeExpr(n.Value)
		}
		return &ast.ReturnStmt{Position: n.Position, Value: value}
	}

	if n.Value == nil {
		if !expected.Equal(types.VOID) {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "missing return value; expected %s", expected)
		}
		return &ast.ReturnStmt{Position: n.Position}
	}

	value := a.analyzeExprWithContext(n.Value, expected)
	if expected.Equal(types.VOID) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "void function/method must not return a value")
	} else if value.ExprType().IsValid() && !types.CompatibleAssign(a, expected, value.ExprType()) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "returned type %s is not assignable to expected %s", value.ExprType(), expected)
	}
	return &ast.ReturnStmt{Position: n.Position, Value: value}
}

func (a *Analyzer) analyzeTryCatch(n *cst.TryCatchStmt) ast.Stmt {
	try := a.analyzeStmt(n.Try)

	a.table.Enter(symtab.ScopeCatch)
	_ = a.table.DefineCurrent(&symtab.Symbol{Name: n.CatchName, Kind: symtab.KindVariable, Type: types.STRING, Mutable: true, Pos: n.Position})
	catch := a.analyzeStmt(n.Catch)
	a.table.Leave()

	return &ast.TryCatchStmt{Position: n.Position, Try: try, CatchName: n.CatchName, Catch: catch}
}

// analyzeFunction analyzes a top-level (non-method) function declaration.
func (a *Analyzer) analyzeFunction(n *cst.FunctionDecl) ast.Stmt {
	ret := types.VOID
	if n.Return != nil {
		ret = resolveType(n.Return)
	}

	h := a.table.Enter(symtab.ScopeFunction)
	a.table.SetFuncQualifiedName(h, n.Name)

	params := make([]ast.Param, 0, len(n.Params))
	for _, p := range n.Params {
		pt := resolveType(p.Type)
		params = append(params, ast.Param{Name: p.Name, Type: pt})
		if err := a.table.DefineCurrent(&symtab.Symbol{Name: p.Name, Kind: symtab.KindParameter, Type: pt, Mutable: true, Pos: p.Position}); err != nil {
			a.sink.Semantic(diag.CodeDuplicateName, p.Position, "parameter %q is already defined", p.Name)
		}
	}

	a.pushReturnType(ret)
	body := a.analyzeBlock(n.Body)
	a.popReturnType()
	a.table.Leave()

	return &ast.FunctionDecl{Position: n.Position, Name: n.Name, Qualified: n.Name, Params: params, Return: ret, Body: body}
}
