package tac

import (
	"testing"

	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	instrs := []Instr{
		FuncBeginInstr{Name: "main", Params: nil},
		ParamInstr{Value: "5"},
		CallInstr{Dst: "t0", Func: "len", N: 1},
		ReturnInstr{},
		FuncEndInstr{},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.False(t, sink.HasErrors())
}

func TestValidateFlagsUndefinedLabel(t *testing.T) {
	instrs := []Instr{GotoInstr{Label: "Lmissing"}}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors())
}

func TestValidateFlagsCallArityMismatch(t *testing.T) {
	instrs := []Instr{
		ParamInstr{Value: "1"},
		CallInstr{Dst: "t0", Func: "f", N: 2},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors())
}

func TestValidateFlagsUnmatchedFuncEnd(t *testing.T) {
	instrs := []Instr{FuncEndInstr{}}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors())
}

func TestValidateFlagsNestedFunction(t *testing.T) {
	instrs := []Instr{
		FuncBeginInstr{Name: "outer"},
		FuncBeginInstr{Name: "inner"},
		ReturnInstr{},
		FuncEndInstr{},
		ReturnInstr{},
		FuncEndInstr{},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors())
}

func TestValidateFlagsMissingReachableReturn(t *testing.T) {
	instrs := []Instr{
		FuncBeginInstr{Name: "f"},
		BinaryInstr{Dst: "t0", Left: "1", Op: "+", Right: "2"},
		FuncEndInstr{},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors())
}

// outer(call1(x), call2(y)): call2's own single param ("y") is separated
// from call2 by "param t1", which belongs to outer, not call2. A flat
// backward scan over call2 would overcount and a LIFO stack must not.
func TestValidateAcceptsCallWithNestedCallSiblingArguments(t *testing.T) {
	instrs := []Instr{
		ParamInstr{Value: "x"},
		CallInstr{Dst: "t1", Func: "call1", N: 1},
		ParamInstr{Value: "t1"},
		ParamInstr{Value: "y"},
		CallInstr{Dst: "t2", Func: "call2", N: 1},
		ParamInstr{Value: "t2"},
		CallInstr{Dst: "t3", Func: "outer", N: 2},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.False(t, sink.HasErrors())
}

// new Foo(makeX(1), makeY(2)): the same interleaving, but the outer
// consumer is a constructor call rather than a plain call.
func TestValidateAcceptsNestedCallsAsConstructorArguments(t *testing.T) {
	instrs := []Instr{
		ParamInstr{Value: "1"},
		CallInstr{Dst: "t1", Func: "makeX", N: 1},
		ParamInstr{Value: "t1"},
		ParamInstr{Value: "2"},
		CallInstr{Dst: "t2", Func: "makeY", N: 1},
		ParamInstr{Value: "t2"},
		NewInstr{Dst: "t3", Class: "Foo", N: 2},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.False(t, sink.HasErrors())
}

func TestValidateCallArityStackResetsAtFunctionBoundary(t *testing.T) {
	instrs := []Instr{
		FuncBeginInstr{Name: "f"},
		ParamInstr{Value: "1"},
		ReturnInstr{},
		FuncEndInstr{},
		FuncBeginInstr{Name: "g"},
		CallInstr{Dst: "t0", Func: "h", N: 1},
		ReturnInstr{},
		FuncEndInstr{},
	}
	sink := diag.NewSink()
	Validate(instrs, sink)
	assert.True(t, sink.HasErrors(), "g's call must not be satisfied by f's leftover unconsumed param")
}
