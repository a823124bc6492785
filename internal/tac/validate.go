package tac

import (
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/token"
)

// Validate checks the structural invariants §4.4 asks the generator to
// hold itself to: every label referenced is defined, every @function has
// a matching endfunc and contains at least one return instruction (whether
// that return is reachable is not analyzed), and every call's
// argument count matches the number of immediately preceding params at
// the same nesting depth. Violations are reported as tac diagnostics
// rather than panics — generation already finished, so these are about
// the generator's own correctness, not the source program's.
func Validate(instrs []Instr, sink *diag.Sink) {
	validateLabels(instrs, sink)
	validateFunctions(instrs, sink)
	validateCallArity(instrs, sink)
}

func validateLabels(instrs []Instr, sink *diag.Sink) {
	defined := map[string]bool{}
	for _, i := range instrs {
		if l, ok := i.(LabelInstr); ok {
			defined[l.Name] = true
		}
	}
	referenced := func(label string) {
		if !defined[label] {
			sink.TAC(diag.CodeTACValidation, token.Position{}, "undefined label %q", label)
		}
	}
	for _, i := range instrs {
		switch n := i.(type) {
		case GotoInstr:
			referenced(n.Label)
		case IfInstr:
			referenced(n.Label)
		case IfFalseInstr:
			referenced(n.Label)
		case TryBeginInstr:
			referenced(n.CatchLabel)
		}
	}
}

func validateFunctions(instrs []Instr, sink *diag.Sink) {
	depth := 0
	var name string
	sawReturn := false
	for _, i := range instrs {
		switch n := i.(type) {
		case FuncBeginInstr:
			if depth > 0 {
				sink.TAC(diag.CodeTACValidation, token.Position{}, "nested @function %q inside %q", n.Name, name)
			}
			depth++
			name = n.Name
			sawReturn = false
		case ReturnInstr:
			if depth > 0 {
				sawReturn = true
			}
		case FuncEndInstr:
			if depth == 0 {
				sink.TAC(diag.CodeTACValidation, token.Position{}, "endfunc without matching @function")
				continue
			}
			if !sawReturn {
				sink.TAC(diag.CodeTACValidation, token.Position{}, "function %q has no return instruction", name)
			}
			depth--
		}
	}
	if depth != 0 {
		sink.TAC(diag.CodeTACValidation, token.Position{}, "function %q missing endfunc", name)
	}
}

// validateCallArity checks that every `call f, n` (or `x = call f, n`) is
// preceded by exactly n ParamInstr at its own logical depth — the TAC
// shape property from §8. ParamInstr pushes onto a LIFO stack and
// CallInstr pops its own N off the top, so a sibling argument that is
// itself a call (with its own params interleaved ahead of it) resolves
// before the outer call is checked, instead of being miscounted by a flat
// backward scan over raw ParamInstr runs. The stack resets at every
// @function boundary since params never cross a function body.
func validateCallArity(instrs []Instr, sink *diag.Sink) {
	var pending []string
	for _, i := range instrs {
		switch n := i.(type) {
		case FuncBeginInstr:
			pending = pending[:0]
		case ParamInstr:
			pending = append(pending, n.Value)
		case CallInstr:
			count := 0
			for count < n.N && len(pending) > 0 {
				pending = pending[:len(pending)-1]
				count++
			}
			if count != n.N {
				sink.TAC(diag.CodeTACValidation, token.Position{},
					"call %s expects %d preceding param(s), found %d", n.Func, n.N, count)
			}
		}
	}
}
