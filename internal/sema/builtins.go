package sema

import (
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// builtinNames is the small set of pre-registered global names (§3.2,
// §6 "Built-in names"). Declaring a class or top-level function with one
// of these names is a BuiltinClash error; a global variable or constant
// with one of these names is reported as DuplicateName by the ordinary
// redeclaration check instead.
var builtinNames = map[string]bool{
	"print": true,
	"len":   true,
}

// registerBuiltins pre-populates the global scope with print and len. Both
// accept an "any" argument in the sense that they are exempted from the
// ordinary arity/type checks performed on user calls — see
// analyzeFunctionCall in expr.go.
func registerBuiltins(t *symtab.Table, sink *diag.Sink) {
	_ = sink
	_ = t.DefineCurrent(&symtab.Symbol{
		Name:   "print",
		Kind:   symtab.KindFunction,
		Type:   types.VOID,
		Return: types.VOID,
		Params: []symtab.Param{{Name: "value", Type: types.ANY}},
	})
	_ = t.DefineCurrent(&symtab.Symbol{
		Name:   "len",
		Kind:   symtab.KindFunction,
		Type:   types.INTEGER,
		Return: types.INTEGER,
		Params: []symtab.Param{{Name: "arr", Type: types.NewArray(types.ANY, 1)}},
	})
}

// isBuiltin reports whether name is a pre-registered built-in.
func isBuiltin(name string) bool { return builtinNames[name] }
