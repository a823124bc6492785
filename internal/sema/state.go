// Package sema implements the semantic analyzer: it walks a concrete parse
// tree (internal/cst) and produces a typed AST (internal/ast), a populated
// global scope tree (internal/symtab), and a class registry, enforcing
// every static rule in spec §3-§4.3. Diagnostics are collected rather than
// raised; analysis continues past nearly every error (§4.3 "Diagnostics").
package sema

import (
	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// Analyzer owns everything a single compilation's semantic pass touches.
// None of it is package-level state — §5 requires a fresh Analyzer per
// compile so temporaries, counters, and diagnostics never leak across
// concurrent requests.
type Analyzer struct {
	table   *symtab.Table
	sink    *diag.Sink
	classes map[string]*symtab.ClassMeta

	loopDepth   int
	switchDepth int
	returnTypes []types.Type // stack, one per entered function/method
	currentCls  string       // "" outside any method

	// classOrder preserves declaration order across the whole program, for
	// deterministic ancestor-cycle checks and TAC function-table ordering.
	classOrder []string

	// classDecls holds each class's already-analyzed typed declaration, so
	// analyzeStmt can reinsert it in its original top-level position
	// without re-running the three-pass class pipeline.
	classDecls map[string]*ast.ClassDecl
}

// New constructs an Analyzer with a fresh symbol table (global scope
// pre-populated with built-ins) and an empty diagnostic sink.
func New() *Analyzer {
	a := &Analyzer{
		table:      symtab.NewTable(),
		sink:       diag.NewSink(),
		classes:    make(map[string]*symtab.ClassMeta),
		classDecls: make(map[string]*ast.ClassDecl),
	}
	registerBuiltins(a.table, a.sink)
	return a
}

// Sink exposes the diagnostic sink accumulated during analysis.
func (a *Analyzer) Sink() *diag.Sink { return a.sink }

// Table exposes the populated scope tree.
func (a *Analyzer) Table() *symtab.Table { return a.table }

// Classes exposes the class registry keyed by class name.
func (a *Analyzer) Classes() map[string]*symtab.ClassMeta { return a.classes }

// Superclass implements types.ClassRegistry.
func (a *Analyzer) Superclass(name string) (string, bool) {
	meta, ok := a.classes[name]
	if !ok {
		return "", false
	}
	return meta.Superclass, true
}

// HasClass implements types.ClassRegistry.
func (a *Analyzer) HasClass(name string) bool {
	_, ok := a.classes[name]
	return ok
}

func (a *Analyzer) inLoop() bool   { return a.loopDepth > 0 }
func (a *Analyzer) canBreak() bool { return a.loopDepth+a.switchDepth > 0 }

func (a *Analyzer) pushReturnType(t types.Type) { a.returnTypes = append(a.returnTypes, t) }
func (a *Analyzer) popReturnType()              { a.returnTypes = a.returnTypes[:len(a.returnTypes)-1] }
func (a *Analyzer) expectedReturn() (types.Type, bool) {
	if len(a.returnTypes) == 0 {
		return types.INVALID, false
	}
	return a.returnTypes[len(a.returnTypes)-1], true
}
