package sema

import (
	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// classPass carries pass 2's state. Its scopes field maps a class name to
// the handle of its CLASS scope, which holds both its own and its
// inherited fields/methods for name resolution inside method bodies.
type classPass struct {
	a       *Analyzer
	decls   map[string]*cst.ClassDecl
	scopes  map[string]symtab.Handle
	popped  map[string]bool
}

// collectClasses registers every top-level class name into the global
// scope with an empty ClassMeta (pass 1) and returns the raw declaration
// map used by the later passes. Duplicate class names are reported once
// each and skipped for the rest of processing.
func (a *Analyzer) collectClasses(decls []cst.Stmt) map[string]*cst.ClassDecl {
	out := make(map[string]*cst.ClassDecl)
	for _, d := range decls {
		cd, ok := d.(*cst.ClassDecl)
		if !ok {
			continue
		}
		if isBuiltin(cd.Name) {
			a.sink.Semantic(diag.CodeBuiltinClash, cd.Position, "class %q shadows a built-in name", cd.Name)
			continue
		}
		if _, exists := a.classes[cd.Name]; exists {
			a.sink.Semantic(diag.CodeDuplicateName, cd.Position, "class %q is already declared", cd.Name)
			continue
		}
		meta := &symtab.ClassMeta{Name: cd.Name, DeclaredPosition: cd.Position}
		a.classes[cd.Name] = meta
		a.classOrder = append(a.classOrder, cd.Name)
		out[cd.Name] = cd
		if err := a.table.DefineCurrent(&symtab.Symbol{
			Name: cd.Name,
			Kind: symtab.KindClass,
			Type: types.NewClass(cd.Name),
			Pos:  cd.Position,
			Class: meta,
		}); err != nil {
			// Already handled by the a.classes existence check above.
			_ = err
		}
	}
	return out
}

// linkSuperclasses resolves each class's declared superclass name and
// detects inheritance cycles with an iterative walk bounded by the number
// of registered classes, rather than recursively, to bound stack usage.
func (a *Analyzer) linkSuperclasses(decls map[string]*cst.ClassDecl) {
	for _, name := range a.classOrder {
		cd, ok := decls[name]
		if !ok || cd.Superclass == "" {
			continue
		}
		if !a.HasClass(cd.Superclass) {
			a.sink.Semantic(diag.CodeUndeclaredName, cd.Position, "class %q inherits from undeclared class %q", name, cd.Superclass)
			continue
		}
		a.classes[name].Superclass = cd.Superclass
	}

	bound := len(a.classOrder) + 1
	for _, name := range a.classOrder {
		visited := map[string]bool{name: true}
		current := a.classes[name].Superclass
		steps := 0
		for current != "" {
			steps++
			if steps > bound || visited[current] {
				a.sink.Semantic(diag.CodeInheritanceCycle, a.classes[name].DeclaredPosition,
					"class %q participates in an inheritance cycle", name)
				a.classes[name].Superclass = ""
				break
			}
			visited[current] = true
			current = a.classes[current].Superclass
		}
	}
}

// populateMembers is pass 2: fields, method signatures, and the
// inherited-member copy into each class's own CLASS scope, processed in
// dependency order (ancestors before descendants) via memoized recursion.
func (a *Analyzer) populateMembers(decls map[string]*cst.ClassDecl) map[string]symtab.Handle {
	cp := &classPass{a: a, decls: decls, scopes: map[string]symtab.Handle{}, popped: map[string]bool{}}
	for _, name := range a.classOrder {
		cp.populate(name)
	}
	return cp.scopes
}

func (cp *classPass) populate(name string) {
	if cp.popped[name] {
		return
	}
	cp.popped[name] = true
	cd, ok := cp.decls[name]
	if !ok {
		return
	}
	meta := cp.a.classes[name]

	if meta.Superclass != "" {
		cp.populate(meta.Superclass)
	}

	h := cp.a.table.EnterNamed(symtab.ScopeClass, name)
	cp.scopes[name] = h
	cp.a.table.Leave()

	// Copy inherited fields and methods first, so declared members with
	// the same name correctly shadow/override rather than collide.
	if meta.Superclass != "" {
		if parentScope, ok := cp.scopes[meta.Superclass]; ok {
			for _, sym := range cp.a.table.Symbols(parentScope) {
				dup := *sym
				_ = cp.a.table.Define(h, &dup)
			}
			parentMeta := cp.a.classes[meta.Superclass]
			meta.Fields = append(meta.Fields, parentMeta.Fields...)
			meta.Methods = append(meta.Methods, parentMeta.Methods...)
		}
	}

	for _, fd := range cd.Fields {
		ft := resolveType(fd.Type)
		if _, exists := cp.a.table.LookupLocal(h, fd.Name); exists {
			cp.a.sink.Semantic(diag.CodeDuplicateName, fd.Position, "field %q is already defined in class %q", fd.Name, name)
			continue
		}
		sym := &symtab.Symbol{Name: fd.Name, Kind: symtab.KindField, Type: ft, Mutable: true, Pos: fd.Position, OwnerName: name}
		_ = cp.a.table.Define(h, sym)
		meta.Fields = append(meta.Fields, symtab.FieldMeta{Name: fd.Name, Type: ft})
	}

	for _, md := range cd.Methods {
		params := make([]symtab.Param, 0, len(md.Params))
		for _, p := range md.Params {
			params = append(params, symtab.Param{Name: p.Name, Type: resolveType(p.Type)})
		}
		ret := types.VOID
		if md.Return != nil {
			ret = resolveType(md.Return)
		}
		if md.Name == "constructor" {
			meta.HasUserCtor = true
			meta.CtorParams = params
			continue // constructors are not ordinary methods in the table
		}

		if prev, exists := cp.a.table.LookupLocal(h, md.Name); exists && prev.Kind == symtab.KindMethod {
			checkOverride(cp.a, name, md, prev, params, ret)
		} else if exists {
			cp.a.sink.Semantic(diag.CodeDuplicateName, md.Position, "method %q collides with a field of the same name in class %q", md.Name, name)
			continue
		}

		sym := &symtab.Symbol{
			Name: md.Name, Kind: symtab.KindMethod, Type: ret,
			Params: params, Return: ret, Pos: md.Position, OwnerName: name,
		}
		_ = cp.a.table.Define(h, sym) // Define does not overwrite: an override keeps the inherited symbol in the scope; meta.Methods gets the new signature.
		replaceMethod(meta, md.Name, symtab.MethodMeta{Name: md.Name, Params: params, ReturnType: ret, Position: md.Position})
	}
}

// checkOverride enforces §3.3: an override must have identical parameter
// arity/pairwise-compatibility and an identical (non-covariant) return
// type relative to the inherited signature.
func checkOverride(a *Analyzer, className string, md *cst.FunctionDecl, inherited *symtab.Symbol, params []symtab.Param, ret types.Type) {
	if len(params) != len(inherited.Params) {
		a.sink.Semantic(diag.CodeOverrideIncompatible, md.Position,
			"method %q in class %q overrides with %d parameters, expected %d", md.Name, className, len(params), len(inherited.Params))
		return
	}
	for i, p := range params {
		if !types.CompatibleAssign(a, inherited.Params[i].Type, p.Type) || !types.CompatibleAssign(a, p.Type, inherited.Params[i].Type) {
			a.sink.Semantic(diag.CodeOverrideIncompatible, md.Position,
				"method %q in class %q overrides parameter %d with incompatible type %s, expected %s",
				md.Name, className, i+1, p.Type, inherited.Params[i].Type)
			return
		}
	}
	if !ret.Equal(inherited.Return) {
		a.sink.Semantic(diag.CodeOverrideIncompatible, md.Position,
			"method %q in class %q overrides return type %s, expected %s (return-type covariance is not permitted)",
			md.Name, className, ret, inherited.Return)
	}
}

func replaceMethod(meta *symtab.ClassMeta, name string, m symtab.MethodMeta) {
	for i, existing := range meta.Methods {
		if existing.Name == name {
			meta.Methods[i] = m
			return
		}
	}
	meta.Methods = append(meta.Methods, m)
}

// analyzeClassBodies is pass 3: method bodies are analyzed inside a fresh
// scope that pre-binds `this` and every inherited+declared field/method.
func (a *Analyzer) analyzeClassBodies(decls map[string]*cst.ClassDecl, classScopes map[string]symtab.Handle) map[string]*ast.ClassDecl {
	out := make(map[string]*ast.ClassDecl)
	for _, name := range a.classOrder {
		cd, ok := decls[name]
		if !ok {
			continue
		}
		meta := a.classes[name]
		classDecl := &ast.ClassDecl{Position: cd.Position, Name: name, Superclass: meta.Superclass}
		for _, f := range meta.Fields {
			classDecl.Fields = append(classDecl.Fields, ast.Field{Name: f.Name, Type: f.Type})
		}

		prevClass := a.currentCls
		a.currentCls = name
		classScope := classScopes[name]

		if cd0, hasCtor := findMethod(cd.Methods, "constructor"); hasCtor {
			classDecl.Methods = append(classDecl.Methods, a.analyzeMethod(name, classScope, cd0, true))
		}
		for _, md := range cd.Methods {
			if md.Name == "constructor" {
				continue
			}
			classDecl.Methods = append(classDecl.Methods, a.analyzeMethod(name, classScope, md, false))
		}

		a.currentCls = prevClass
		out[name] = classDecl
	}
	return out
}

func findMethod(methods []*cst.FunctionDecl, name string) (*cst.FunctionDecl, bool) {
	for _, m := range methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (a *Analyzer) analyzeMethod(className string, classScope symtab.Handle, md *cst.FunctionDecl, isCtor bool) *ast.FunctionDecl {
	ret := types.VOID
	if md.Return != nil {
		ret = resolveType(md.Return)
	}
	if isCtor {
		ret = types.VOID
	}

	prevCurrent := a.table.Current()
	a.table.SetCurrent(classScope)
	methodScopeKind := symtab.ScopeMethod
	h := a.table.Enter(methodScopeKind)
	a.table.SetFuncQualifiedName(h, className+"_"+md.Name)
	if isCtor {
		a.table.SetFuncQualifiedName(h, className+"_constructor")
	}

	_ = a.table.DefineCurrent(&symtab.Symbol{Name: "this", Kind: symtab.KindParameter, Type: types.NewClass(className), Mutable: false, Pos: md.Position})

	params := make([]ast.Param, 0, len(md.Params))
	for _, p := range md.Params {
		pt := resolveType(p.Type)
		params = append(params, ast.Param{Name: p.Name, Type: pt})
		if err := a.table.DefineCurrent(&symtab.Symbol{Name: p.Name, Kind: symtab.KindParameter, Type: pt, Mutable: true, Pos: p.Position}); err != nil {
			a.sink.Semantic(diag.CodeDuplicateName, p.Position, "parameter %q is already defined", p.Name)
		}
	}

	a.pushReturnType(ret)
	body := a.analyzeBlock(md.Body)
	a.popReturnType()

	a.table.Leave() // method scope
	a.table.SetCurrent(prevCurrent)

	qualified := className + "_" + md.Name
	name := md.Name
	if isCtor {
		qualified = className + "_constructor"
		name = "constructor"
	}
	return &ast.FunctionDecl{
		Position: md.Position, Name: name, Qualified: qualified,
		Params: params, Return: ret, Body: body, OwnerClass: className, IsCtor: isCtor,
	}
}
