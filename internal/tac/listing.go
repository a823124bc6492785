package tac

import "strings"

// Listing renders a textual TAC program per §6: a header line followed
// by one instruction per line, in emission order.
func Listing(instrs []Instr) string {
	var b strings.Builder
	b.WriteString("# TAC Code Generation\n")
	for _, i := range instrs {
		b.WriteString(i.Text())
		b.WriteByte('\n')
	}
	return b.String()
}
