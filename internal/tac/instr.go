// Package tac implements the Three-Address-Code generator: lowering a
// typed AST (internal/ast) into the linear instruction set of spec §4.4,
// plus the temporary/label managers, the post-generation validator, and
// the textual listing serializer.
package tac

import "fmt"

// Instr is one TAC instruction. As with the CST and AST, every
// instruction shape is its own concrete type matched by a type switch —
// here inside Text() and the validator — rather than a single struct
// with a kind tag and unused fields per variant.
type Instr interface {
	Text() string
}

// BinaryInstr is `x = y op z`.
type BinaryInstr struct{ Dst, Left, Op, Right string }

func (i BinaryInstr) Text() string { return fmt.Sprintf("%s = %s %s %s", i.Dst, i.Left, i.Op, i.Right) }

// UnaryInstr is `x = op y`.
type UnaryInstr struct{ Dst, Op, Operand string }

func (i UnaryInstr) Text() string { return fmt.Sprintf("%s = %s %s", i.Dst, i.Op, i.Operand) }

// CopyInstr is `x = y`.
type CopyInstr struct{ Dst, Src string }

func (i CopyInstr) Text() string { return fmt.Sprintf("%s = %s", i.Dst, i.Src) }

// IndexLoadInstr is `x = y[i]`.
type IndexLoadInstr struct{ Dst, Array, Index string }

func (i IndexLoadInstr) Text() string { return fmt.Sprintf("%s = %s[%s]", i.Dst, i.Array, i.Index) }

// IndexStoreInstr is `x[i] = y`.
type IndexStoreInstr struct{ Array, Index, Value string }

func (i IndexStoreInstr) Text() string { return fmt.Sprintf("%s[%s] = %s", i.Array, i.Index, i.Value) }

// FieldLoadInstr is `x = y.f`.
type FieldLoadInstr struct{ Dst, Object, Field string }

func (i FieldLoadInstr) Text() string { return fmt.Sprintf("%s = %s.%s", i.Dst, i.Object, i.Field) }

// FieldStoreInstr is `x.f = y`.
type FieldStoreInstr struct{ Object, Field, Value string }

func (i FieldStoreInstr) Text() string { return fmt.Sprintf("%s.%s = %s", i.Object, i.Field, i.Value) }

// GotoInstr is an unconditional jump.
type GotoInstr struct{ Label string }

func (i GotoInstr) Text() string { return "goto " + i.Label }

// IfInstr is `if x goto L`.
type IfInstr struct{ Cond, Label string }

func (i IfInstr) Text() string { return fmt.Sprintf("if %s goto %s", i.Cond, i.Label) }

// IfFalseInstr is `ifFalse x goto L`.
type IfFalseInstr struct{ Cond, Label string }

func (i IfFalseInstr) Text() string { return fmt.Sprintf("ifFalse %s goto %s", i.Cond, i.Label) }

// ParamInstr pushes one call argument.
type ParamInstr struct{ Value string }

func (i ParamInstr) Text() string { return "param " + i.Value }

// CallInstr is `x = call f, n`, or `call f, n` when the callee is void
// (Dst == "").
type CallInstr struct {
	Dst  string
	Func string
	N    int
}

func (i CallInstr) Text() string {
	if i.Dst == "" {
		return fmt.Sprintf("call %s, %d", i.Func, i.N)
	}
	return fmt.Sprintf("%s = call %s, %d", i.Dst, i.Func, i.N)
}

// NewInstr is `x = new C, n`.
type NewInstr struct {
	Dst   string
	Class string
	N     int
}

func (i NewInstr) Text() string { return fmt.Sprintf("%s = new %s, %d", i.Dst, i.Class, i.N) }

// ReturnInstr is `return` or `return x`.
type ReturnInstr struct {
	Value    string
	HasValue bool
}

func (i ReturnInstr) Text() string {
	if !i.HasValue {
		return "return"
	}
	return "return " + i.Value
}

// LabelInstr introduces a branch target. Per §6 it is printed on its own
// line immediately preceding the instruction it labels.
type LabelInstr struct{ Name string }

func (i LabelInstr) Text() string { return i.Name + ":" }

// FuncBeginInstr opens a function body. FrameSize is generator-internal
// bookkeeping from the activation record (§4.4) and is not part of the
// printed form, which per §6 only carries the qualified name and params.
type FuncBeginInstr struct {
	Name      string
	Params    []string
	FrameSize int
}

func (i FuncBeginInstr) Text() string {
	s := "@function " + i.Name + "("
	for idx, p := range i.Params {
		if idx > 0 {
			s += ", "
		}
		s += p
	}
	return s + ")"
}

// FuncEndInstr closes a function body.
type FuncEndInstr struct{}

func (FuncEndInstr) Text() string { return "endfunc" }

// TryBeginInstr marks the start of a guarded region (§4.4 "try...catch").
type TryBeginInstr struct{ CatchLabel string }

func (i TryBeginInstr) Text() string { return "try_begin " + i.CatchLabel }

// TryEndInstr closes a guarded region opened by a matching TryBeginInstr.
type TryEndInstr struct{}

func (TryEndInstr) Text() string { return "try_end" }

// CommentInstr is a non-executable listing line. A declaration with no
// initializer still claims a storage slot from the memory annotator, so
// it lowers to a comment rather than silent nothing, keeping the listing
// traceable back to a source declaration.
type CommentInstr struct{ Comment string }

func (i CommentInstr) Text() string { return "# " + i.Comment }
