package sema

import (
	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/cst"
)

// Analyze walks program and returns its typed equivalent. Diagnostics are
// collected on the Analyzer's sink rather than returned as an error —
// Sink(), Table(), and Classes() remain valid (if incomplete) even when
// HasErrors() is true, per §4.3 "Diagnostics".
func (a *Analyzer) Analyze(program *cst.Program) *ast.Program {
	rawClasses := a.collectClasses(program.Decls)
	a.linkSuperclasses(rawClasses)
	classScopes := a.populateMembers(rawClasses)
	a.collectFunctions(program.Decls)
	a.classDecls = a.analyzeClassBodies(rawClasses, classScopes)

	out := &ast.Program{Position: program.Position}
	for _, d := range program.Decls {
		out.Decls = append(out.Decls, a.analyzeStmt(d))
	}
	return out
}
