// Package compiler exposes the single public entry point (§6): a
// compile call that wires the semantic analyzer, memory annotator, and
// TAC generator together according to an explicit Options toggle set and
// returns one Report value.
package compiler

import (
	"github.com/XavierLopez25/compilscript/internal/astutil"
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/diag"
	"github.com/XavierLopez25/compilscript/internal/mem"
	"github.com/XavierLopez25/compilscript/internal/sema"
	"github.com/XavierLopez25/compilscript/internal/symtab"
	"github.com/XavierLopez25/compilscript/internal/tac"
)

// Options selects which optional passes a Compile call runs, independent
// of one another (§5: generate_tac and annotate_memory never depend on
// each other having run).
type Options struct {
	ReturnASTDot   bool
	GenerateTAC    bool
	AnnotateMemory bool
}

// TACReport is the §6 "tac" field of a Report.
type TACReport struct {
	Code                []string `json:"code"`
	InstructionCount    int      `json:"instruction_count"`
	TemporariesUsed     int      `json:"temporaries_used"`
	FunctionsRegistered int      `json:"functions_registered"`
	ValidationErrors    []string `json:"validation_errors"`
}

// Report is the return value of Compile (§6).
type Report struct {
	OK          bool              `json:"ok"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	ASTDot      *string           `json:"ast_dot,omitempty"`
	TAC         *TACReport        `json:"tac,omitempty"`
	Scopes      *symtab.ScopeView `json:"scopes,omitempty"`
}

// Compile runs semantic analysis on program, then whichever of the
// memory annotator and TAC generator opts selects. TAC generation only
// runs when semantic analysis produced no errors, per §2's data-flow
// note ("TAC generation runs only if the diagnostic list is empty").
func Compile(program *cst.Program, opts Options) *Report {
	analyzer := sema.New()
	typed := analyzer.Analyze(program)
	sink := analyzer.Sink()

	report := &Report{}

	if opts.ReturnASTDot {
		dot := astutil.DOT(typed)
		report.ASTDot = &dot
	}

	if !sink.HasErrors() {
		if opts.AnnotateMemory {
			mem.Annotate(analyzer.Table())
		}
		if opts.GenerateTAC {
			gen := tac.New()
			instrs := gen.Generate(typed)
			tac.Validate(instrs, sink)

			var validationErrors []string
			for _, d := range sink.All() {
				if d.Kind == diag.KindTAC {
					validationErrors = append(validationErrors, d.Message)
				}
			}
			report.TAC = &TACReport{
				Code:                splitListing(tac.Listing(instrs)),
				InstructionCount:    len(instrs),
				TemporariesUsed:     gen.TemporariesUsed(),
				FunctionsRegistered: gen.FunctionsRegistered(),
				ValidationErrors:    validationErrors,
			}
		}
	}

	scopes := analyzer.Table().View(analyzer.Table().Global())
	report.Scopes = &scopes

	report.Diagnostics = sink.All()
	report.OK = !sink.HasErrors()
	return report
}

// splitListing breaks a rendered listing back into its component lines,
// dropping the trailing empty line Listing's final '\n' produces.
func splitListing(listing string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(listing); i++ {
		if listing[i] == '\n' {
			lines = append(lines, listing[start:i])
			start = i + 1
		}
	}
	return lines
}
