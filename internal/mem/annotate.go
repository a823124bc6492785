// Package mem implements the memory annotator (spec §4.5): after
// semantic analysis succeeds, it walks the final scope tree and assigns
// every variable, constant, parameter, and field a concrete storage
// address. It never touches function/method/class symbols themselves —
// those name code and types, not data. Variables in a nested block that
// lies outside any function or method (for example the body of a
// top-level loop) get no storage and keep rendering as "none".
package mem

import (
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// wordSize is the width of an integer, float, or pointer-sized slot
// (string, array, class reference).
const wordSize = 8

// widthOf returns a symbol's storage width: boolean is single-byte,
// everything else — integer, float, string, array, class reference — is
// word-sized.
func widthOf(sym *symtab.Symbol) int {
	if sym.Type.Kind == types.Boolean {
		return 1
	}
	return wordSize
}

// Annotate assigns concrete storage to every symbol reachable from the
// table's global scope. Running Annotate twice on the same table is a
// no-op the second time: every assignment is deterministic given
// declaration order, so re-running simply recomputes the same offsets.
//
// A class's own scope already holds its inherited fields as copies
// placed ahead of its own declared fields, in the ancestor's original
// order (populateMembers copies the superclass's symbols in first, then
// appends the class's own). Replaying that order from offset 0 is enough
// to give every inherited field the same offset it has in its declaring
// class, which is what "inheriting the parent's field prefix layout"
// means — no separate ancestor lookup is needed.
func Annotate(t *symtab.Table) {
	globalOffset := 0

	var walk func(h symtab.Handle, fr *frame)
	walk = func(h symtab.Handle, fr *frame) {
		switch t.Kind(h) {
		case symtab.ScopeGlobal:
			for _, sym := range t.Symbols(h) {
				if !isData(sym.Kind) {
					continue
				}
				sym.Storage = &symtab.Storage{Class: "global", Offset: globalOffset}
				globalOffset += widthOf(sym)
			}
		case symtab.ScopeFunction, symtab.ScopeMethod:
			fr = &frame{paramOffset: 2, localOffset: -1}
			for _, sym := range t.Symbols(h) {
				if sym.Kind != symtab.KindParameter {
					continue
				}
				sym.Storage = &symtab.Storage{Class: "param", Offset: fr.paramOffset}
				fr.paramOffset++
			}
		case symtab.ScopeClass:
			offset := 0
			for _, sym := range t.Symbols(h) {
				if sym.Kind != symtab.KindField {
					continue
				}
				sym.Storage = &symtab.Storage{Class: "heap", Offset: offset}
				offset += widthOf(sym)
			}
		default: // BLOCK, LOOP_BODY, SWITCH_CASE, CATCH
			if fr != nil {
				for _, sym := range t.Symbols(h) {
					if !isData(sym.Kind) {
						continue
					}
					sym.Storage = &symtab.Storage{Class: "stack", Offset: fr.localOffset}
					fr.localOffset--
				}
			}
		}
		for _, c := range t.Children(h) {
			walk(c, fr)
		}
	}
	walk(t.Global(), nil)
}

type frame struct {
	paramOffset int
	localOffset int
}

func isData(k symtab.Kind) bool {
	return k == symtab.KindVariable || k == symtab.KindConstant
}
