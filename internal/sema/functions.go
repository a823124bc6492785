package sema

import (
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// collectFunctions registers every top-level function's signature into
// the global scope before any statement body is analyzed, so functions
// can call each other regardless of declaration order. It runs after
// class registration and member population but before any method or
// function body is analyzed, so by then both class and function names
// are resolvable.
func (a *Analyzer) collectFunctions(decls []cst.Stmt) {
	for _, d := range decls {
		fd, ok := d.(*cst.FunctionDecl)
		if !ok {
			continue
		}
		if isBuiltin(fd.Name) {
			a.sink.Semantic(diag.CodeBuiltinClash, fd.Position, "function %q shadows a built-in name", fd.Name)
			continue
		}
		ret := types.VOID
		if fd.Return != nil {
			ret = resolveType(fd.Return)
		}
		params := make([]symtab.Param, 0, len(fd.Params))
		for _, p := range fd.Params {
			params = append(params, symtab.Param{Name: p.Name, Type: resolveType(p.Type)})
		}
		if err := a.table.DefineCurrent(&symtab.Symbol{
			Name:   fd.Name,
			Kind:   symtab.KindFunction,
			Type:   ret,
			Params: params,
			Return: ret,
			Pos:    fd.Position,
		}); err != nil {
			a.sink.Semantic(diag.CodeDuplicateName, fd.Position, "function %q is already declared", fd.Name)
		}
	}
}
