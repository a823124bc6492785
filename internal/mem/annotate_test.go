package mem

import (
	"testing"

	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/types"
	"github.com/stretchr/testify/assert"
)

func buildTable(t *testing.T) *symtab.Table {
	t.Helper()
	tbl := symtab.NewTable()
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "g", Kind: symtab.KindVariable, Type: types.INTEGER}))
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "flag", Kind: symtab.KindConstant, Type: types.BOOLEAN}))

	fn := tbl.Enter(symtab.ScopeFunction)
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "p", Kind: symtab.KindParameter, Type: types.STRING}))
	block := tbl.Enter(symtab.ScopeBlock)
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "local", Kind: symtab.KindVariable, Type: types.INTEGER}))
	_ = block
	tbl.Leave()
	tbl.Leave()
	_ = fn

	class := tbl.EnterNamed(symtab.ScopeClass, "Animal")
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "name", Kind: symtab.KindField, Type: types.STRING}))
	assert.NoError(t, tbl.DefineCurrent(&symtab.Symbol{Name: "alive", Kind: symtab.KindField, Type: types.BOOLEAN}))
	tbl.Leave()
	_ = class

	return tbl
}

func TestAnnotateAssignsGlobalsByDeclarationOrder(t *testing.T) {
	tbl := buildTable(t)
	Annotate(tbl)

	g, _ := tbl.LookupLocal(tbl.Global(), "g")
	flag, _ := tbl.LookupLocal(tbl.Global(), "flag")
	assert.Equal(t, "global[0]", g.Storage.String())
	assert.Equal(t, "global[8]", flag.Storage.String(), "g occupies 8 bytes, flag follows immediately")
}

func TestAnnotateAssignsParamsAndLocals(t *testing.T) {
	tbl := buildTable(t)
	Annotate(tbl)

	var fnHandle, blockHandle symtab.Handle
	tbl.Walk(tbl.Global(), func(h symtab.Handle) {
		if tbl.Kind(h) == symtab.ScopeFunction {
			fnHandle = h
		}
		if tbl.Kind(h) == symtab.ScopeBlock {
			blockHandle = h
		}
	})

	p, _ := tbl.LookupLocal(fnHandle, "p")
	assert.Equal(t, "param[2]", p.Storage.String())

	local, _ := tbl.LookupLocal(blockHandle, "local")
	assert.Equal(t, "stack[-1]", local.Storage.String())
}

func TestAnnotateAssignsHeapFieldsLeftToRight(t *testing.T) {
	tbl := buildTable(t)
	Annotate(tbl)

	var classHandle symtab.Handle
	tbl.Walk(tbl.Global(), func(h symtab.Handle) {
		if tbl.Kind(h) == symtab.ScopeClass {
			classHandle = h
		}
	})

	name, _ := tbl.LookupLocal(classHandle, "name")
	alive, _ := tbl.LookupLocal(classHandle, "alive")
	assert.Equal(t, "heap+0", name.Storage.String())
	assert.Equal(t, "heap+8", alive.Storage.String())
}

func TestAnnotateIsIdempotent(t *testing.T) {
	tbl := buildTable(t)
	Annotate(tbl)

	before := map[string]string{}
	tbl.Walk(tbl.Global(), func(h symtab.Handle) {
		for _, s := range tbl.Symbols(h) {
			before[s.Name] = s.Storage.String()
		}
	})

	Annotate(tbl)

	tbl.Walk(tbl.Global(), func(h symtab.Handle) {
		for _, s := range tbl.Symbols(h) {
			assert.Equal(t, before[s.Name], s.Storage.String(), "re-annotating must not change %q's address", s.Name)
		}
	})
}
