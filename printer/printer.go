// Package printer renders *mal.Term values back to text.
package printer

import (
	"strconv"
	"strings"

	"github.com/gomal-lang/gomal/mal"
)

// PrintStr renders t. When readable is true, strings are quoted and escaped
// so that the output re-parses to an equal term; when false, strings render
// as their raw content (used by str/println).
func PrintStr(t *mal.Term, readable bool) string {
	switch t.Type {
	case mal.TNil:
		return "nil"
	case mal.TBool:
		if t.B {
			return "true"
		}
		return "false"
	case mal.TNumber:
		return strconv.FormatInt(t.Num, 10)
	case mal.TString:
		if !readable {
			return t.Str
		}
		return quoteString(t.Str)
	case mal.TSymbol:
		return t.Str
	case mal.TKeyword:
		return ":" + t.Str
	case mal.TList:
		return "(" + joinTerms(t.Cells, readable) + ")"
	case mal.TVector:
		return "[" + joinTerms(t.Cells, readable) + "]"
	case mal.THashMap:
		return "{" + joinHashMap(t, readable) + "}"
	case mal.TFunction:
		return "#<function>"
	case mal.TNative:
		return "#<native>"
	case mal.TAtom:
		return "(atom " + PrintStr(t.Ref, readable) + ")"
	default:
		return "#<" + t.Type.String() + ">"
	}
}

// Printer adapts PrintStr to mal.Printer, injected into the root
// Environment via mal.WithPrinter.
type Printer struct{}

// NewPrinter returns a mal.Printer implementation backed by this package.
func NewPrinter() Printer { return Printer{} }

// PrintStr implements mal.Printer.
func (Printer) PrintStr(t *mal.Term, readable bool) string {
	return PrintStr(t, readable)
}

func joinTerms(cells []*mal.Term, readable bool) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = PrintStr(c, readable)
	}
	return strings.Join(parts, " ")
}

func joinHashMap(m *mal.Term, readable bool) string {
	keys := mal.HashMapKeys(m)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := mal.HashMapGet(m, k)
		parts = append(parts, PrintStr(k, readable)+" "+PrintStr(v, readable))
	}
	return strings.Join(parts, " ")
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
