package symtab

// ScopeKind classifies what a Scope represents (§3.2).
type ScopeKind string

const (
	ScopeGlobal     ScopeKind = "GLOBAL"
	ScopeBlock      ScopeKind = "BLOCK"
	ScopeFunction   ScopeKind = "FUNCTION"
	ScopeMethod     ScopeKind = "METHOD"
	ScopeClass      ScopeKind = "CLASS"
	ScopeLoopBody   ScopeKind = "LOOP_BODY"
	ScopeSwitchCase ScopeKind = "SWITCH_CASE"
	ScopeCatch      ScopeKind = "CATCH"
)

// Handle is a non-owning reference to a scope inside a Table's arena.
// Representing the scope tree as an arena of handles rather than pointers
// keeps parent links non-owning without any manual lifetime bookkeeping.
type Handle int

// NoHandle is the zero value meaning "no scope" (e.g. the global scope's
// parent).
const NoHandle Handle = -1

// scopeNode is the arena-internal representation of one Scope.
type scopeNode struct {
	kind     ScopeKind
	name     string
	parent   Handle
	children []Handle
	symbols  map[string]*Symbol
	order    []string // declaration order, for stable traversal (§4.2)

	// funcQualifiedName is set for FUNCTION/METHOD scopes so the memory
	// annotator and TAC generator can recover the owning function without
	// walking back up through the parent chain.
	funcQualifiedName string
}
