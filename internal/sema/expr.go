package sema

import (
	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/token"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// analyzeExpr type-checks a parse-tree expression and returns its typed
// AST equivalent, per the rules in spec §4.3.
func (a *Analyzer) analyzeExpr(x cst.Expr) ast.Expr {
	switch n := x.(type) {
	case *cst.Literal:
		return a.analyzeLiteral(n)
	case *cst.VariableRef:
		return a.analyzeVariableRef(n)
	case *cst.ThisExpr:
		return a.analyzeThis(n)
	case *cst.BinaryOp:
		return a.analyzeBinaryOp(n)
	case *cst.UnaryOp:
		return a.analyzeUnaryOp(n)
	case *cst.Ternary:
		return a.analyzeTernary(n)
	case *cst.Call:
		return a.analyzeCall(n)
	case *cst.NewExpr:
		return a.analyzeNew(n)
	case *cst.PropertyAccess:
		return a.analyzePropertyAccess(n)
	case *cst.IndexAccess:
		return a.analyzeIndexAccess(n)
	case *cst.ArrayLiteral:
		return a.analyzeArrayLiteral(n, types.INVALID)
	default:
		a.sink.Add(diag.KindSemantic, diag.CodeMalformedTree, x.Pos(), "unrecognized expression node")
		return &ast.Literal{Position: x.Pos(), Type: types.INVALID}
	}
}

// analyzeExprWithContext is analyzeExpr but propagates a declared target
// type into constructs whose own type can't be determined in isolation —
// today, only an empty array literal (§4.3 "Array literal").
func (a *Analyzer) analyzeExprWithContext(x cst.Expr, want types.Type) ast.Expr {
	if lit, ok := x.(*cst.ArrayLiteral); ok {
		return a.analyzeArrayLiteral(lit, want)
	}
	return a.analyzeExpr(x)
}

func (a *Analyzer) analyzeLiteral(n *cst.Literal) ast.Expr {
	t, i, f, s, b, isNull := parseLiteral(n)
	return &ast.Literal{Position: n.Position, Type: t, Int: i, Float: f, Str: s, Bool: b, IsNull: isNull}
}

func (a *Analyzer) analyzeVariableRef(n *cst.VariableRef) ast.Expr {
	sym, ok := a.table.LookupCurrent(n.Name)
	if !ok {
		a.sink.Semantic(diag.CodeUndeclaredName, n.Position, "undeclared identifier %q", n.Name)
		return &ast.VariableRef{Position: n.Position, Name: n.Name, Type: types.INVALID}
	}
	if sym.Kind == symtab.KindField {
		return &ast.PropertyAccess{
			Position: n.Position,
			Object:   &ast.ThisExpr{Position: n.Position, Type: types.NewClass(a.currentCls)},
			Name:     n.Name,
			Type:     sym.Type,
		}
	}
	return &ast.VariableRef{Position: n.Position, Name: n.Name, Type: sym.Type}
}

func (a *Analyzer) analyzeThis(n *cst.ThisExpr) ast.Expr {
	if a.currentCls == "" {
		a.sink.Semantic(diag.CodeInvalidJump, n.Position, "'this' is only legal inside a method")
		return &ast.ThisExpr{Position: n.Position, Type: types.INVALID}
	}
	return &ast.ThisExpr{Position: n.Position, Type: types.NewClass(a.currentCls)}
}

func (a *Analyzer) analyzeUnaryOp(n *cst.UnaryOp) ast.Expr {
	operand := a.analyzeExpr(n.Operand)
	t := operand.ExprType()
	result := types.INVALID
	switch n.Op {
	case "-":
		if t.IsNumeric() {
			result = t
		} else if t.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "unary '-' requires a numeric operand, got %s", t)
		}
	case "!":
		if t.Equal(types.BOOLEAN) {
			result = types.BOOLEAN
		} else if t.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "'!' requires a boolean operand, got %s", t)
		}
	}
	return &ast.UnaryOp{Position: n.Position, Op: n.Op, Operand: operand, Type: result}
}

func (a *Analyzer) analyzeBinaryOp(n *cst.BinaryOp) ast.Expr {
	left := a.analyzeExpr(n.Left)
	right := a.analyzeExpr(n.Right)
	lt, rt := left.ExprType(), right.ExprType()
	result := types.INVALID

	switch n.Op {
	case "+", "-", "*", "/", "%":
		result = a.analyzeArithmetic(n.Position, n.Op, lt, rt)
	case "<", "<=", ">", ">=":
		if lt.IsNumeric() && rt.IsNumeric() {
			result = types.BOOLEAN
		} else if lt.IsValid() && rt.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "'%s' requires numeric operands, got %s and %s", n.Op, lt, rt)
		}
	case "==", "!=":
		if types.CompatibleAssign(a, lt, rt) || types.CompatibleAssign(a, rt, lt) {
			result = types.BOOLEAN
		} else if lt.IsValid() && rt.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "'%s' requires compatible operand types, got %s and %s", n.Op, lt, rt)
		}
	case "&&", "||":
		if lt.Equal(types.BOOLEAN) && rt.Equal(types.BOOLEAN) {
			result = types.BOOLEAN
		} else if lt.IsValid() && rt.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "'%s' requires boolean operands, got %s and %s", n.Op, lt, rt)
		}
	default:
		a.sink.Add(diag.KindSemantic, diag.CodeMalformedTree, n.Position, "unknown binary operator %q", n.Op)
	}

	return &ast.BinaryOp{Position: n.Position, Op: n.Op, Left: left, Right: right, Type: result}
}

// analyzeArithmetic implements §3.1's promotion and string-concatenation
// rules for + - * / %. Concatenation to STRING triggers whenever either
// operand is STRING, with no restriction on the other side — matching
// visitAdditiveExpr's unconditional rule in the original implementation,
// since `"x: " + someObject` and `"items: " + someArray` are both legal
// there.
func (a *Analyzer) analyzeArithmetic(pos token.Position, op string, lt, rt types.Type) types.Type {
	if op == "+" && (lt.Equal(types.STRING) || rt.Equal(types.STRING)) {
		return types.STRING
	}
	if op == "%" {
		if lt.Equal(types.INTEGER) && rt.Equal(types.INTEGER) {
			return types.INTEGER
		}
		if lt.IsValid() && rt.IsValid() {
			a.sink.Semantic(diag.CodeTypeMismatch, pos, "'%%' requires integer operands, got %s and %s", lt, rt)
		}
		return types.INVALID
	}
	if lt.IsNumeric() && rt.IsNumeric() {
		result, _ := types.PromoteNumeric(lt, rt)
		return result
	}
	if lt.IsValid() && rt.IsValid() {
		a.sink.Semantic(diag.CodeTypeMismatch, pos, "'%s' requires numeric operands (or string concatenation), got %s and %s", op, lt, rt)
	}
	return types.INVALID
}

func (a *Analyzer) analyzeTernary(n *cst.Ternary) ast.Expr {
	cond := a.analyzeExpr(n.Cond)
	if cond.ExprType().IsValid() && !cond.ExprType().Equal(types.BOOLEAN) {
		a.sink.Semantic(diag.CodeInvalidCondition, n.Cond.Pos(), "ternary guard must be boolean, got %s", cond.ExprType())
	}
	then := a.analyzeExpr(n.Then)
	els := a.analyzeExpr(n.Else)
	result, err := types.UnifyArrayElements(a, []types.Type{then.ExprType(), els.ExprType()})
	if err != nil {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "ternary branches have incompatible types %s and %s", then.ExprType(), els.ExprType())
	}
	return &ast.Ternary{Position: n.Position, Cond: cond, Then: then, Else: els, Type: result}
}

// analyzeCall handles both free-function calls (VariableRef callee) and
// method calls (PropertyAccess callee), per §4.3 "Call" and "Member
// access".
func (a *Analyzer) analyzeCall(n *cst.Call) ast.Expr {
	switch callee := n.Callee.(type) {
	case *cst.VariableRef:
		return a.analyzeFunctionCall(n, callee)
	case *cst.PropertyAccess:
		return a.analyzeMethodCall(n, callee)
	default:
		a.sink.Semantic(diag.CodeNonCallable, n.Position, "expression is not callable")
		return &ast.Call{Position: n.Position, Type: types.INVALID}
	}
}

func (a *Analyzer) analyzeFunctionCall(n *cst.Call, callee *cst.VariableRef) ast.Expr {
	if isBuiltin(callee.Name) {
		args := make([]ast.Expr, 0, len(n.Args))
		for _, arg := range n.Args {
			args = append(args, a.analyzeExpr(arg))
		}
		ret := types.VOID
		if callee.Name == "len" {
			ret = types.INTEGER
			if len(args) != 1 {
				a.sink.Add(diag.KindSemantic, diag.CodeArityMismatch, n.Position, "len expects 1 argument, got %d", len(args))
			} else if t := args[0].ExprType(); t.IsValid() && t.Kind != types.Array {
				a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "len expects an array argument, got %s", t)
			}
		} else if len(args) != 1 {
			a.sink.Add(diag.KindSemantic, diag.CodeArityMismatch, n.Position, "print expects 1 argument, got %d", len(args))
		}
		return &ast.Call{Position: n.Position, Kind: ast.CalleeFunction, Name: callee.Name, Args: args, Type: ret}
	}

	sym, ok := a.table.LookupCurrent(callee.Name)
	if !ok {
		a.sink.Semantic(diag.CodeUndeclaredName, callee.Position, "undeclared function %q", callee.Name)
		return a.analyzeCallArgsOnly(n, ast.CalleeFunction, callee.Name, "", nil, types.INVALID)
	}
	if sym.Kind == symtab.KindClass {
		a.sink.Semantic(diag.CodeNonCallable, callee.Position, "%q names a class; use 'new %s(...)' to construct it", callee.Name, callee.Name)
		return a.analyzeCallArgsOnly(n, ast.CalleeFunction, callee.Name, "", nil, types.INVALID)
	}
	if sym.Kind != symtab.KindFunction && sym.Kind != symtab.KindMethod {
		a.sink.Semantic(diag.CodeNonCallable, callee.Position, "%q is not callable", callee.Name)
		return a.analyzeCallArgsOnly(n, ast.CalleeFunction, callee.Name, "", nil, types.INVALID)
	}

	args := a.analyzeArgs(n.Args, sym.Params, callee.Name, n.Position)
	if sym.Kind == symtab.KindMethod {
		return &ast.Call{
			Position: n.Position, Kind: ast.CalleeMethod, Name: callee.Name,
			Receiver: &ast.ThisExpr{Position: n.Position, Type: types.NewClass(a.currentCls)},
			StaticClass: a.currentCls, Args: args, Type: sym.Return,
		}
	}
	return &ast.Call{Position: n.Position, Kind: ast.CalleeFunction, Name: callee.Name, Args: args, Type: sym.Return}
}

func (a *Analyzer) analyzeMethodCall(n *cst.Call, callee *cst.PropertyAccess) ast.Expr {
	receiver := a.analyzeExpr(callee.Object)
	rt := receiver.ExprType()
	if !rt.IsValid() {
		return a.analyzeCallArgsOnly(n, ast.CalleeMethod, callee.Name, "", receiver, types.INVALID)
	}
	if rt.Kind != types.Class {
		a.sink.Semantic(diag.CodePropertyOnPrimitive, callee.Position, "cannot call method %q on non-class type %s", callee.Name, rt)
		return a.analyzeCallArgsOnly(n, ast.CalleeMethod, callee.Name, "", receiver, types.INVALID)
	}
	meta, ok := a.classes[rt.ClassName]
	if !ok {
		return a.analyzeCallArgsOnly(n, ast.CalleeMethod, callee.Name, rt.ClassName, receiver, types.INVALID)
	}
	m, ok := findMethodMeta(meta, callee.Name)
	if !ok {
		a.sink.Semantic(diag.CodeMemberNotFound, callee.Position, "class %q has no method %q", rt.ClassName, callee.Name)
		return a.analyzeCallArgsOnly(n, ast.CalleeMethod, callee.Name, rt.ClassName, receiver, types.INVALID)
	}
	args := a.analyzeArgs(n.Args, m.Params, callee.Name, n.Position)
	return &ast.Call{
		Position: n.Position, Kind: ast.CalleeMethod, Name: callee.Name,
		Receiver: receiver, StaticClass: rt.ClassName, Args: args, Type: m.ReturnType,
	}
}

func findMethodMeta(meta *symtab.ClassMeta, name string) (symtab.MethodMeta, bool) {
	for _, m := range meta.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return symtab.MethodMeta{}, false
}

// analyzeCallArgsOnly still type-checks the arguments (for downstream
// diagnostics) after the callee itself failed to resolve, without
// asserting an arity against an unknown signature.
func (a *Analyzer) analyzeCallArgsOnly(n *cst.Call, kind ast.CalleeKind, name, staticClass string, receiver ast.Expr, result types.Type) ast.Expr {
	args := make([]ast.Expr, 0, len(n.Args))
	for _, arg := range n.Args {
		args = append(args, a.analyzeExpr(arg))
	}
	return &ast.Call{Position: n.Position, Kind: kind, Name: name, Receiver: receiver, StaticClass: staticClass, Args: args, Type: result}
}

// analyzeArgs type-checks a call's argument list against a resolved
// parameter list: arity must match exactly, and each argument must be
// assignable to its parameter type (§4.3 "Call").
func (a *Analyzer) analyzeArgs(rawArgs []cst.Expr, params []symtab.Param, calleeName string, pos token.Position) []ast.Expr {
	if len(rawArgs) != len(params) {
		a.sink.Add(diag.KindSemantic, diag.CodeArityMismatch, pos, "%q expects %d argument(s), got %d", calleeName, len(params), len(rawArgs))
	}
	args := make([]ast.Expr, 0, len(rawArgs))
	for i, raw := range rawArgs {
		var want types.Type = types.INVALID
		if i < len(params) {
			want = params[i].Type
		}
		arg := a.analyzeExprWithContext(raw, want)
		args = append(args, arg)
		if i < len(params) && arg.ExprType().IsValid() && !types.CompatibleAssign(a, params[i].Type, arg.ExprType()) {
			a.sink.Semantic(diag.CodeTypeMismatch, raw.Pos(), "argument %d of %q has type %s, expected %s", i+1, calleeName, arg.ExprType(), params[i].Type)
		}
	}
	return args
}

func (a *Analyzer) analyzeNew(n *cst.NewExpr) ast.Expr {
	if !a.HasClass(n.ClassName) {
		a.sink.Semantic(diag.CodeUndeclaredName, n.Position, "undeclared class %q in 'new' expression", n.ClassName)
		return a.analyzeCallArgsOnly(&cst.Call{Position: n.Position, Args: n.Args}, ast.CalleeFunction, n.ClassName, "", nil, types.INVALID)
	}
	// A class without a constructor of its own is built through the nearest
	// ancestor that declares one.
	meta := a.classes[n.ClassName]
	for !meta.HasUserCtor && meta.Superclass != "" {
		meta = a.classes[meta.Superclass]
	}
	var args []ast.Expr
	if meta.HasUserCtor {
		params := meta.CtorParams
		if len(n.Args) != len(params) {
			a.sink.Add(diag.KindSemantic, diag.CodeArityMismatch, n.Position, "constructor of %q expects %d argument(s), got %d", n.ClassName, len(params), len(n.Args))
		}
		args = make([]ast.Expr, 0, len(n.Args))
		for i, raw := range n.Args {
			want := types.INVALID
			if i < len(params) {
				want = params[i].Type
			}
			arg := a.analyzeExprWithContext(raw, want)
			args = append(args, arg)
			if i < len(params) && arg.ExprType().IsValid() && !types.CompatibleAssign(a, params[i].Type, arg.ExprType()) {
				a.sink.Semantic(diag.CodeTypeMismatch, raw.Pos(), "constructor argument %d of %q has type %s, expected %s", i+1, n.ClassName, arg.ExprType(), params[i].Type)
			}
		}
	} else {
		if len(n.Args) != 0 {
			a.sink.Add(diag.KindSemantic, diag.CodeArityMismatch, n.Position, "class %q has no declared or inherited constructor; 'new' takes no arguments", n.ClassName)
		}
		for _, raw := range n.Args {
			args = append(args, a.analyzeExpr(raw))
		}
	}
	return &ast.NewExpr{Position: n.Position, ClassName: n.ClassName, Args: args, Type: types.NewClass(n.ClassName)}
}

func (a *Analyzer) analyzePropertyAccess(n *cst.PropertyAccess) ast.Expr {
	obj := a.analyzeExpr(n.Object)
	ot := obj.ExprType()
	if !ot.IsValid() {
		return &ast.PropertyAccess{Position: n.Position, Object: obj, Name: n.Name, Type: types.INVALID}
	}
	if ot.Kind != types.Class {
		a.sink.Semantic(diag.CodePropertyOnPrimitive, n.Position, "cannot access property %q on non-class type %s", n.Name, ot)
		return &ast.PropertyAccess{Position: n.Position, Object: obj, Name: n.Name, Type: types.INVALID}
	}
	meta, ok := a.classes[ot.ClassName]
	if !ok {
		return &ast.PropertyAccess{Position: n.Position, Object: obj, Name: n.Name, Type: types.INVALID}
	}
	for _, f := range meta.Fields {
		if f.Name == n.Name {
			return &ast.PropertyAccess{Position: n.Position, Object: obj, Name: n.Name, Type: f.Type}
		}
	}
	a.sink.Semantic(diag.CodeMemberNotFound, n.Position, "class %q has no member %q", ot.ClassName, n.Name)
	return &ast.PropertyAccess{Position: n.Position, Object: obj, Name: n.Name, Type: types.INVALID}
}

func (a *Analyzer) analyzeIndexAccess(n *cst.IndexAccess) ast.Expr {
	arr := a.analyzeExpr(n.Array)
	idx := a.analyzeExpr(n.Index)
	if idx.ExprType().IsValid() && !idx.ExprType().Equal(types.INTEGER) {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Index.Pos(), "array index must be integer, got %s", idx.ExprType())
	}
	at := arr.ExprType()
	if !at.IsValid() {
		return &ast.IndexAccess{Position: n.Position, Array: arr, Index: idx, Type: types.INVALID}
	}
	if at.Kind != types.Array || at.Rank < 1 {
		a.sink.Semantic(diag.CodeNonIndexable, n.Position, "cannot index non-array type %s", at)
		return &ast.IndexAccess{Position: n.Position, Array: arr, Index: idx, Type: types.INVALID}
	}
	elem, err := types.ElementType(at)
	if err != nil {
		a.sink.Semantic(diag.CodeNonIndexable, n.Position, "%v", err)
		return &ast.IndexAccess{Position: n.Position, Array: arr, Index: idx, Type: types.INVALID}
	}
	return &ast.IndexAccess{Position: n.Position, Array: arr, Index: idx, Type: elem}
}

func (a *Analyzer) analyzeArrayLiteral(n *cst.ArrayLiteral, context types.Type) ast.Expr {
	elems := make([]ast.Expr, 0, len(n.Elements))
	elemTypes := make([]types.Type, 0, len(n.Elements))
	for _, e := range n.Elements {
		var want types.Type = types.INVALID
		if context.Kind == types.Array {
			want = *context.Elem
		}
		typed := a.analyzeExprWithContext(e, want)
		elems = append(elems, typed)
		elemTypes = append(elemTypes, typed.ExprType())
	}

	if len(elems) == 0 {
		if context.Kind == types.Array {
			return &ast.ArrayLiteral{Position: n.Position, Elements: elems, Type: context}
		}
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "cannot infer the element type of an empty array literal here")
		return &ast.ArrayLiteral{Position: n.Position, Elements: elems, Type: types.INVALID}
	}

	unified, err := types.UnifyArrayElements(a, elemTypes)
	if err != nil {
		a.sink.Semantic(diag.CodeTypeMismatch, n.Position, "%v", err)
		return &ast.ArrayLiteral{Position: n.Position, Elements: elems, Type: types.INVALID}
	}
	return &ast.ArrayLiteral{Position: n.Position, Elements: elems, Type: types.NewArray(unified, 1)}
}
