// Package diag holds the diagnostic value type shared by every pass and the
// sink each compilation accumulates them into. Diagnostics are values, not
// exceptions: a pass appends to the sink and keeps going rather than
// aborting on the first error.
package diag

import (
	"fmt"

	"github.com/XavierLopez25/compilscript/internal/token"
)

// Kind classifies the pass that raised a diagnostic.
type Kind string

const (
	KindLex      Kind = "lex"
	KindSyntax   Kind = "syntax"
	KindSemantic Kind = "semantic"
	KindTAC      Kind = "tac"
)

// Severity distinguishes hard errors from advisory warnings (only DeadCode
// is a warning today).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code enumerates the error categories from §7.
type Code string

const (
	CodeDuplicateName        Code = "DuplicateName"
	CodeBuiltinClash         Code = "BuiltinClash"
	CodeUndeclaredName       Code = "UndeclaredName"
	CodeTypeMismatch         Code = "TypeMismatch"
	CodeArityMismatch        Code = "ArityMismatch"
	CodeInvalidCondition     Code = "InvalidCondition"
	CodeInvalidJump          Code = "InvalidJump"
	CodeNonCallable          Code = "NonCallable"
	CodeNonIndexable         Code = "NonIndexable"
	CodeMemberNotFound       Code = "MemberNotFound"
	CodePropertyOnPrimitive  Code = "PropertyOnPrimitive"
	CodeInheritanceCycle     Code = "InheritanceCycle"
	CodeOverrideIncompatible Code = "OverrideIncompatible"
	CodeConstWithoutInit     Code = "ConstWithoutInit"
	CodeConstReassigned      Code = "ConstReassigned"
	CodeDeadCode             Code = "DeadCode"
	CodeTACValidation        Code = "TACValidation"
	CodeMalformedTree        Code = "MalformedTree"
)

// severityOf reports the default severity for a code; only DeadCode is a
// warning, everything else is an error.
func severityOf(c Code) Severity {
	if c == CodeDeadCode {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic is one reported problem, carrying enough position information
// for a caller to underline the offending span in the source (§8.2).
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Length   int      `json:"length"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Kind, d.Line, d.Column, d.Severity, d.Message)
}

// IsError reports whether the diagnostic should fail a compile.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// Sink accumulates diagnostics for a single compilation. It is never
// shared across compilations — §5 requires every stateful component,
// including this one, to be constructed fresh per request.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic built from a code, message, and source position.
func (s *Sink) Add(kind Kind, code Code, pos token.Position, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Kind:     kind,
		Code:     code,
		Severity: severityOf(code),
		Message:  fmt.Sprintf(format, args...),
		Line:     pos.Line,
		Column:   pos.Column,
		Length:   pos.Length,
	})
}

// Semantic is a convenience wrapper for the overwhelmingly common case.
func (s *Sink) Semantic(code Code, pos token.Position, format string, args ...any) {
	s.Add(KindSemantic, code, pos, format, args...)
}

// TAC is the equivalent convenience wrapper for the generator's own pass.
func (s *Sink) TAC(code Code, pos token.Position, format string, args ...any) {
	s.Add(KindTAC, code, pos, format, args...)
}

// All returns every diagnostic collected so far, in report order.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics recorded so far.
func (s *Sink) Len() int { return len(s.diagnostics) }
