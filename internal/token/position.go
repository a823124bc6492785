// Package token defines the source-position type shared by the concrete
// syntax tree, the typed AST, and diagnostics.
package token

import "fmt"

// Position identifies a span in the original source text. Column is
// 0-based; Length is the number of characters the span covers, matching
// the diagnostic wire shape in the public API.
type Position struct {
	Line   int
	Column int
	Length int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Zero reports whether the position was never set by a producer.
func (p Position) Zero() bool {
	return p.Line == 0 && p.Column == 0 && p.Length == 0
}
