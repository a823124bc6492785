// Package symtab implements the hierarchical symbol table: an arena of
// scopes addressed by integer handles, name resolution that walks parents,
// and the redeclaration/shadowing invariants of spec §3.2.
package symtab

import "fmt"

// DuplicateName is returned by Define when name already exists in the
// current scope.
type DuplicateName struct {
	Name string
}

func (e DuplicateName) Error() string {
	return fmt.Sprintf("duplicate name %q in scope", e.Name)
}

// Table owns the scope arena for a single compilation. It is never
// process-global — §5 requires a fresh Table per compile so no counter or
// mapping leaks between concurrent requests.
type Table struct {
	nodes   []scopeNode
	current Handle
}

// NewTable creates a table with a single GLOBAL scope, current.
func NewTable() *Table {
	t := &Table{}
	root := scopeNode{
		kind:    ScopeGlobal,
		name:    "global",
		parent:  NoHandle,
		symbols: make(map[string]*Symbol),
	}
	t.nodes = append(t.nodes, root)
	t.current = 0
	return t
}

// Global returns the handle of the root scope.
func (t *Table) Global() Handle { return 0 }

// Current returns the handle of the scope currently being populated.
func (t *Table) Current() Handle { return t.current }

// Enter pushes a new child scope of kind onto the current scope and makes
// it current, returning its handle.
func (t *Table) Enter(kind ScopeKind) Handle {
	return t.EnterNamed(kind, "")
}

// EnterNamed is Enter with an explicit debug name (e.g. a class or
// function name), used by the scopes JSON serializer.
func (t *Table) EnterNamed(kind ScopeKind, name string) Handle {
	h := Handle(len(t.nodes))
	t.nodes = append(t.nodes, scopeNode{
		kind:    kind,
		name:    name,
		parent:  t.current,
		symbols: make(map[string]*Symbol),
	})
	t.nodes[t.current].children = append(t.nodes[t.current].children, h)
	t.current = h
	return h
}

// SetCurrent repositions the table's current scope to h directly. This is
// a controlled exception to the Enter/Leave stack discipline, needed when
// a scope built in an earlier pass (e.g. a class scope built while
// registering members) must be revisited later (e.g. while analyzing that
// class's method bodies) without re-parenting it.
func (t *Table) SetCurrent(h Handle) { t.current = h }

// Leave pops the current scope back to its parent. Every Enter must be
// matched by exactly one Leave, including on error paths (§5's
// scoped-acquisition discipline); the analyzer uses defer for this.
func (t *Table) Leave() {
	if t.current == t.Global() {
		return
	}
	t.current = t.nodes[t.current].parent
}

// Kind returns the kind of the scope named by h.
func (t *Table) Kind(h Handle) ScopeKind { return t.nodes[h].kind }

// Name returns the debug name of the scope named by h.
func (t *Table) Name(h Handle) string { return t.nodes[h].name }

// Parent returns the parent handle of h, or NoHandle for the global scope.
func (t *Table) Parent(h Handle) Handle { return t.nodes[h].parent }

// Children returns the child handles of h in creation order.
func (t *Table) Children(h Handle) []Handle { return t.nodes[h].children }

// SetFuncQualifiedName records the qualified TAC name of a function/method
// scope (e.g. "Dog_speak"), used by the TAC generator and annotator.
func (t *Table) SetFuncQualifiedName(h Handle, name string) {
	t.nodes[h].funcQualifiedName = name
}

// FuncQualifiedName returns the qualified TAC name set by
// SetFuncQualifiedName, or "" if none was set.
func (t *Table) FuncQualifiedName(h Handle) string { return t.nodes[h].funcQualifiedName }

// Define adds symbol to scope h. Redeclaring a name already present in h —
// regardless of kind — is a DuplicateName error; shadowing a name from an
// ancestor scope is always allowed.
func (t *Table) Define(h Handle, sym *Symbol) error {
	node := &t.nodes[h]
	if _, exists := node.symbols[sym.Name]; exists {
		return DuplicateName{Name: sym.Name}
	}
	node.symbols[sym.Name] = sym
	node.order = append(node.order, sym.Name)
	return nil
}

// DefineCurrent is Define(t.Current(), sym).
func (t *Table) DefineCurrent(sym *Symbol) error {
	return t.Define(t.current, sym)
}

// LookupLocal returns the symbol named name if it is defined directly in
// scope h, without walking parents.
func (t *Table) LookupLocal(h Handle, name string) (*Symbol, bool) {
	sym, ok := t.nodes[h].symbols[name]
	return sym, ok
}

// Lookup resolves name starting at scope h and walking up through parents,
// returning the innermost enclosing definition (§3.2's core invariant).
func (t *Table) Lookup(h Handle, name string) (*Symbol, bool) {
	for cur := h; cur != NoHandle; cur = t.nodes[cur].parent {
		if sym, ok := t.nodes[cur].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrent is Lookup(t.Current(), name).
func (t *Table) LookupCurrent(name string) (*Symbol, bool) {
	return t.Lookup(t.current, name)
}

// Symbols returns the symbols directly defined in scope h, in declaration
// order — the stable traversal order required for debugging/serialization
// (§4.2).
func (t *Table) Symbols(h Handle) []*Symbol {
	node := &t.nodes[h]
	out := make([]*Symbol, 0, len(node.order))
	for _, name := range node.order {
		out = append(out, node.symbols[name])
	}
	return out
}

// Walk visits every scope in the tree rooted at h in a stable pre-order
// (parent before children, children in creation order).
func (t *Table) Walk(h Handle, visit func(Handle)) {
	visit(h)
	for _, c := range t.Children(h) {
		t.Walk(c, visit)
	}
}

// ScopeChainContains reports whether the scope chain from h up to the
// global scope passes through target — used to check the "scope
// containment" invariant (§8.1) in tests.
func (t *Table) ScopeChainContains(h, target Handle) bool {
	for cur := h; cur != NoHandle; cur = t.nodes[cur].parent {
		if cur == target {
			return true
		}
	}
	return false
}
