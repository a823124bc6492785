package symtab

// SymbolView is the wire shape of one entry in a ScopeView's symbols map
// (§6 "Scopes JSON layout").
type SymbolView struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Mutable bool   `json:"mutable"`
	Address string `json:"address"`
}

// ScopeView is the wire shape of one scope node: name, kind, its symbol
// map, and its children in creation order.
type ScopeView struct {
	Name     string                `json:"name"`
	Kind     string                `json:"kind"`
	Symbols  map[string]SymbolView `json:"symbols"`
	Children []ScopeView           `json:"children"`
}

// View renders the scope tree rooted at h into the serializable shape
// consumed by the public compile API's Report.scopes field. Traversal is
// the table's stable pre-order, so two runs on equal input produce a
// byte-identical JSON encoding once marshalled (§8.1 Determinism).
func (t *Table) View(h Handle) ScopeView {
	node := &t.nodes[h]
	symbols := make(map[string]SymbolView, len(node.symbols))
	for name, sym := range node.symbols {
		symbols[name] = SymbolView{
			Type:    sym.Type.String(),
			Kind:    string(sym.Kind),
			Mutable: sym.Mutable,
			Address: sym.Storage.String(),
		}
	}
	children := make([]ScopeView, 0, len(node.children))
	for _, c := range node.children {
		children = append(children, t.View(c))
	}
	return ScopeView{
		Name:     node.name,
		Kind:     string(node.kind),
		Symbols:  symbols,
		Children: children,
	}
}
