// Command compilscriptc drives a single Compile call over one of the
// built-in scenario fixtures and prints the resulting report.
//
// There is no lexer or parser in this repo (§1's scope is analysis,
// TAC generation, and memory annotation on an already-parsed tree), so
// unlike a source-file compiler this CLI selects a fixture by name
// rather than reading a .cspt file from disk.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/XavierLopez25/compilscript/internal/compiler"
	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/fixtures"
	"github.com/pkg/errors"
)

var scenarios = map[string]func() *cst.Program{
	"s1": fixtures.S1,
	"s2": fixtures.S2,
	"s3": fixtures.S3,
	"s4": fixtures.S4,
	"s5": fixtures.S5,
	"s6": fixtures.S6,
}

func main() {
	scenario := flag.String("scenario", "s1", "fixture to compile: s1..s6")
	ast := flag.Bool("ast", false, "include an AST DOT rendering in the report")
	tac := flag.Bool("tac", true, "generate three-address code")
	mem := flag.Bool("mem", true, "annotate symbol-table storage")
	pretty := flag.Bool("pretty", true, "pretty-print the JSON report")
	flag.Parse()

	build, ok := scenarios[*scenario]
	if !ok {
		flag.PrintDefaults()
		log.Fatalf("%+v", errors.Errorf("unknown scenario %q", *scenario))
	}

	fmt.Printf("compiling scenario %s...\n", *scenario)

	report := compiler.Compile(build(), compiler.Options{
		ReturnASTDot:   *ast,
		GenerateTAC:    *tac,
		AnnotateMemory: *mem,
	})

	fmt.Printf("semantic analysis: %d diagnostic(s)\n", len(report.Diagnostics))
	if report.TAC != nil {
		fmt.Printf("TAC: %d instruction(s), %d function(s), %d temporar(y/ies)\n",
			report.TAC.InstructionCount, report.TAC.FunctionsRegistered, report.TAC.TemporariesUsed)
	}

	out, err := renderReport(report, *pretty)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	fmt.Println(string(out))

	if !report.OK {
		log.Fatal("compilation finished with errors")
	}
}

func renderReport(report *compiler.Report, pretty bool) ([]byte, error) {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = json.Marshal(report)
	}
	if err != nil {
		return nil, errors.Wrap(err, "marshaling report")
	}
	return out, nil
}
