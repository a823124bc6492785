package tac

import (
	"strconv"

	"github.com/XavierLopez25/compilscript/internal/ast"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// Generator lowers a typed AST into TAC. Per §5 it is never shared across
// compilations: one Generator, one label generator, one temp allocator
// per function (plus one for top-level script statements), all owned by
// a single compile call. Temps are scoped per function — g.temps is
// swapped out for a fresh Allocator on entry to genFunction and restored
// on exit — so each function's names start again at t0 and its spill
// size reflects only its own peak, never a sibling function's.
type Generator struct {
	temps  *Allocator
	labels *Labels
	instrs []Instr

	// ar is the activation record of the function or method currently
	// being lowered, nil for top-level script statements (which have no
	// frame). genStmt registers each local declaration it lowers here so
	// FrameSize reflects every local slot, not just params and spill.
	ar *ActivationRecord

	funcCount   int
	tempsMinted int // temp names minted by allocators already retired

	// breakStack holds `break` targets; both loops and switches push onto
	// it. continueStack holds `continue` targets; only loops push onto it
	// — mirroring the analyzer's loop_depth/switch_depth split.
	breakStack    []string
	continueStack []string
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{temps: NewAllocator(), labels: NewLabels()}
}

func (g *Generator) emit(i Instr) { g.instrs = append(g.instrs, i) }

// reserveLocal registers name as a local slot in the activation record of
// the function currently being lowered. It is a no-op at top level, where
// script statements have no enclosing frame.
func (g *Generator) reserveLocal(name string) {
	if g.ar != nil {
		g.ar.AddLocal(name)
	}
}

func (g *Generator) pushLoop(continueLabel, breakLabel string) {
	g.continueStack = append(g.continueStack, continueLabel)
	g.breakStack = append(g.breakStack, breakLabel)
}

func (g *Generator) popLoop() {
	g.continueStack = g.continueStack[:len(g.continueStack)-1]
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
}

func (g *Generator) pushSwitch(breakLabel string) {
	g.breakStack = append(g.breakStack, breakLabel)
}

func (g *Generator) popSwitch() {
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
}

func (g *Generator) currentBreak() string    { return g.breakStack[len(g.breakStack)-1] }
func (g *Generator) currentContinue() string { return g.continueStack[len(g.continueStack)-1] }

// Generate lowers every top-level declaration in program, in order, and
// returns the flat instruction stream. Ordinary top-level statements are
// emitted directly with no enclosing @function — only function and
// method bodies get a delimiter pair.
func (g *Generator) Generate(program *ast.Program) []Instr {
	for _, d := range program.Decls {
		g.genTopLevel(d)
	}
	return g.instrs
}

// Instructions returns the instruction stream built so far.
func (g *Generator) Instructions() []Instr { return g.instrs }

// FunctionsRegistered is the number of @function blocks emitted.
func (g *Generator) FunctionsRegistered() int { return g.funcCount }

// TemporariesUsed is the total number of distinct temporary names minted
// across every per-function allocator this Generator has used, plus
// whatever the currently active one has minted.
func (g *Generator) TemporariesUsed() int { return g.tempsMinted + g.temps.Minted() }

func (g *Generator) genTopLevel(d ast.Stmt) {
	switch n := d.(type) {
	case *ast.FunctionDecl:
		g.genFunction(n)
	case *ast.ClassDecl:
		for _, m := range n.Methods {
			g.genFunction(m)
		}
	default:
		g.genStmt(n)
	}
}

// genFunction emits one @function ... endfunc block. Void functions always
// get a trailing bare `return`, even when their body already ends in one,
// so the validator's return check never flags a legitimately
// return-less void function or constructor (§4.3's typing rules never
// require a return statement in a VOID function).
func (g *Generator) genFunction(fn *ast.FunctionDecl) {
	g.funcCount++

	params := make([]string, 0, len(fn.Params)+1)
	if fn.OwnerClass != "" {
		params = append(params, "this")
	}
	for _, p := range fn.Params {
		params = append(params, p.Name)
	}
	savedAR := g.ar
	g.ar = NewActivationRecord(params)

	savedTemps := g.temps
	g.temps = NewAllocator()

	beginIdx := len(g.instrs)
	g.emit(FuncBeginInstr{Name: fn.Qualified, Params: params})

	g.genBlock(fn.Body)
	if fn.Return.Equal(types.VOID) {
		g.emit(ReturnInstr{})
	}
	g.emit(FuncEndInstr{})

	g.ar.SetSpill(g.temps.Peak())
	g.instrs[beginIdx] = FuncBeginInstr{Name: fn.Qualified, Params: params, FrameSize: g.ar.FrameSize()}

	g.tempsMinted += g.temps.Minted()
	g.temps = savedTemps
	g.ar = savedAR
}

func (g *Generator) genBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		g.genStmt(s)
	}
}

// literalText renders a typed literal per §6's wire format: decimal
// numbers, double-quoted strings with \n \t \" \\ escapes.
func literalText(lit *ast.Literal) string {
	switch lit.Type.Kind {
	case types.Integer:
		return strconv.FormatInt(lit.Int, 10)
	case types.Float:
		return strconv.FormatFloat(lit.Float, 'f', -1, 64)
	case types.String:
		return strconv.Quote(lit.Str)
	case types.Boolean:
		if lit.Bool {
			return "true"
		}
		return "false"
	case types.Null:
		return "null"
	default:
		return ""
	}
}
