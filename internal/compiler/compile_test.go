package compiler

import (
	"strings"
	"testing"

	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/fixtures"
	"github.com/stretchr/testify/assert"
)

func countDiagnostics(report *Report, code diag.Code) int {
	n := 0
	for _, d := range report.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestCompileArithmeticAndPrint(t *testing.T) {
	report := Compile(fixtures.S1(), Options{GenerateTAC: true, AnnotateMemory: true})
	assert.True(t, report.OK)
	assert.Empty(t, report.Diagnostics)
	assert.NotNil(t, report.TAC)
	assert.Contains(t, report.TAC.Code, "t0 = x + 5")
	assert.Contains(t, report.TAC.Code, "y = t0")
	assert.Contains(t, report.TAC.Code, "param y")
	assert.Contains(t, report.TAC.Code, "call print, 1")
}

func TestCompileShortCircuitNeverMaterializesIntermediateBoolean(t *testing.T) {
	report := Compile(fixtures.S2(), Options{GenerateTAC: true})
	assert.True(t, report.OK)
	assert.NotNil(t, report.TAC)

	found := false
	for i := 0; i+1 < len(report.TAC.Code); i++ {
		if strings.HasPrefix(report.TAC.Code[i], "ifFalse a goto ") &&
			strings.HasPrefix(report.TAC.Code[i+1], "ifFalse b goto ") {
			found = true
		}
	}
	assert.True(t, found, "expected consecutive ifFalse checks threading around b without materializing a && b:\n%s", strings.Join(report.TAC.Code, "\n"))
	for _, l := range report.TAC.Code {
		assert.NotContains(t, l, "&&", "&& must never appear as a materialized BinaryInstr operator")
	}
}

func TestCompileInheritedMethodDispatchesStatically(t *testing.T) {
	report := Compile(fixtures.S3(), Options{GenerateTAC: true, AnnotateMemory: true})
	assert.True(t, report.OK)
	assert.NotNil(t, report.TAC)
	assert.Equal(t, 3, report.TAC.FunctionsRegistered, "Animal_constructor, Animal_speak, Dog_speak")
	assert.True(t, containsLine(report.TAC.Code, "new Dog, 1"))
	assert.True(t, containsLine(report.TAC.Code, "call Dog_speak, 1"))
	assert.Empty(t, report.TAC.ValidationErrors)
}

func TestCompileBuiltinClashSkipsTACGeneration(t *testing.T) {
	report := Compile(fixtures.S4(), Options{GenerateTAC: true})
	assert.False(t, report.OK)
	assert.Nil(t, report.TAC, "TAC generation must not run once semantic analysis has errors")
	assert.Equal(t, 1, countDiagnostics(report, diag.CodeBuiltinClash))
}

func TestCompileBreakOutsideLoopIsInvalidJump(t *testing.T) {
	report := Compile(fixtures.S5(), Options{GenerateTAC: true})
	assert.False(t, report.OK)
	assert.Nil(t, report.TAC)
	assert.Equal(t, 1, countDiagnostics(report, diag.CodeInvalidJump))
}

func TestCompileHeterogeneousArrayIsTypeMismatch(t *testing.T) {
	report := Compile(fixtures.S6(), Options{GenerateTAC: true})
	assert.False(t, report.OK)
	assert.Nil(t, report.TAC)
	assert.Equal(t, 1, countDiagnostics(report, diag.CodeTypeMismatch))
}

func TestCompileIsDeterministic(t *testing.T) {
	first := Compile(fixtures.S3(), Options{GenerateTAC: true, AnnotateMemory: true})
	second := Compile(fixtures.S3(), Options{GenerateTAC: true, AnnotateMemory: true})
	assert.Equal(t, first.TAC.Code, second.TAC.Code)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestCompileAlwaysPopulatesScopesEvenOnError(t *testing.T) {
	report := Compile(fixtures.S5(), Options{})
	assert.NotNil(t, report.Scopes)
}

func TestCompileReturnsASTDotOnRequest(t *testing.T) {
	report := Compile(fixtures.S1(), Options{ReturnASTDot: true})
	assert.NotNil(t, report.ASTDot)
	assert.NotEmpty(t, *report.ASTDot)
}
