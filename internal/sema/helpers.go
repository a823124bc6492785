package sema

import (
	"strconv"
	"strings"

	"github.com/XavierLopez25/compilscript/internal/cst"
	"github.com/XavierLopez25/compilscript/internal/types"
)

// primitiveKinds maps the lowercase primitive keywords onto their Type.
var primitiveKinds = map[string]types.Type{
	"integer": types.INTEGER,
	"float":   types.FLOAT,
	"string":  types.STRING,
	"boolean": types.BOOLEAN,
	"void":    types.VOID,
}

// resolveType turns a syntactic type annotation into a semantic Type. A
// base name that isn't a known primitive is treated as a class type; the
// analyzer checks class existence separately where it matters (declared
// class types are allowed to be forward-referenced within a compilation
// unit, since all classes are registered in pass 1 before any body is
// type-checked).
func resolveType(ref *cst.TypeRef) types.Type {
	if ref == nil {
		return types.INVALID
	}
	base, ok := primitiveKinds[strings.ToLower(ref.Base)]
	if !ok {
		base = types.NewClass(ref.Base)
	}
	if ref.Rank == 0 {
		return base
	}
	return types.NewArray(base, ref.Rank)
}

// parseLiteral computes the semantic type and value of a literal from its
// syntactic kind and raw lexeme (§3.1 "Literal type inference").
func parseLiteral(lit *cst.Literal) (types.Type, int64, float64, string, bool, bool) {
	switch lit.Kind {
	case cst.LitInteger:
		v, _ := strconv.ParseInt(lit.Text, 10, 64)
		return types.INTEGER, v, 0, "", false, false
	case cst.LitFloat:
		v, _ := strconv.ParseFloat(lit.Text, 64)
		return types.FLOAT, 0, v, "", false, false
	case cst.LitString:
		return types.STRING, 0, 0, unescapeString(lit.Text), false, false
	case cst.LitBoolean:
		return types.BOOLEAN, 0, 0, "", lit.Text == "true", false
	case cst.LitNull:
		return types.NULL, 0, 0, "", false, true
	default:
		return types.INVALID, 0, 0, "", false, false
	}
}

// unescapeString processes the escapes named in §6 ("\n", "\t", "\"", "\\").
func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
