package symtab

import (
	"encoding/json"
	"testing"

	"github.com/XavierLopez25/compilscript/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDefineRejectsDuplicateInSameScope(t *testing.T) {
	tbl := NewTable()
	err := tbl.DefineCurrent(&Symbol{Name: "x", Kind: KindVariable, Type: types.INTEGER})
	assert.NoError(t, err)
	err = tbl.DefineCurrent(&Symbol{Name: "x", Kind: KindVariable, Type: types.INTEGER})
	assert.ErrorIs(t, err, DuplicateName{Name: "x"})
}

func TestLookupWalksParentChain(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "outer", Kind: KindVariable, Type: types.INTEGER}))
	block := tbl.Enter(ScopeBlock)
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "inner", Kind: KindVariable, Type: types.STRING}))

	sym, ok := tbl.Lookup(block, "outer")
	assert.True(t, ok)
	assert.Equal(t, "outer", sym.Name)

	_, ok = tbl.LookupLocal(block, "outer")
	assert.False(t, ok, "LookupLocal must not walk to the parent scope")

	tbl.Leave()
	_, ok = tbl.LookupCurrent("inner")
	assert.False(t, ok, "a name defined in a left scope must not leak to its parent")
}

func TestScopeChainContainment(t *testing.T) {
	tbl := NewTable()
	fn := tbl.Enter(ScopeFunction)
	loop := tbl.Enter(ScopeLoopBody)
	tbl.Leave()
	tbl.Leave()

	assert.True(t, tbl.ScopeChainContains(loop, fn))
	assert.True(t, tbl.ScopeChainContains(loop, tbl.Global()))
	assert.False(t, tbl.ScopeChainContains(fn, loop), "a scope must not contain its own descendant")
}

func TestSymbolsPreserveDeclarationOrder(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "a", Kind: KindVariable, Type: types.INTEGER}))
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "b", Kind: KindVariable, Type: types.INTEGER}))
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "c", Kind: KindVariable, Type: types.INTEGER}))

	names := make([]string, 0, 3)
	for _, s := range tbl.Symbols(tbl.Global()) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestWalkVisitsParentBeforeChildren(t *testing.T) {
	tbl := NewTable()
	child := tbl.Enter(ScopeBlock)
	grandchild := tbl.Enter(ScopeBlock)
	tbl.Leave()
	tbl.Leave()

	var order []Handle
	tbl.Walk(tbl.Global(), func(h Handle) { order = append(order, h) })
	assert.Equal(t, []Handle{tbl.Global(), child, grandchild}, order)
}

func TestViewRoundTripsThroughJSON(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "x", Kind: KindVariable, Type: types.INTEGER, Mutable: true}))
	child := tbl.EnterNamed(ScopeFunction, "f")
	assert.NoError(t, tbl.DefineCurrent(&Symbol{Name: "p", Kind: KindParameter, Type: types.STRING}))
	tbl.SetFuncQualifiedName(child, "f")
	tbl.Leave()

	view := tbl.View(tbl.Global())
	raw, err := json.Marshal(view)
	assert.NoError(t, err)

	var roundTripped ScopeView
	assert.NoError(t, json.Unmarshal(raw, &roundTripped))
	assert.Equal(t, view, roundTripped)

	// Re-rendering the same table must produce byte-identical JSON (§8.1
	// Determinism), since map key order is irrelevant once both sides are
	// decoded back into the same structural shape.
	again, err := json.Marshal(tbl.View(tbl.Global()))
	assert.NoError(t, err)
	var againView ScopeView
	assert.NoError(t, json.Unmarshal(again, &againView))
	assert.Equal(t, view, againView)

	assert.Equal(t, "none", view.Symbols["x"].Address, "an unannotated symbol renders as \"none\"")
}
