package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/printer"
)

func TestPrintStrReadableVsDisplay(t *testing.T) {
	s := mal.NewString("a\nb")
	assert.Equal(t, `"a\nb"`, printer.PrintStr(s, true))
	assert.Equal(t, "a\nb", printer.PrintStr(s, false))
}

func TestPrintStrCollections(t *testing.T) {
	list := mal.NewList(mal.NewNumber(1), mal.NewNumber(2), mal.NewNumber(3))
	assert.Equal(t, "(1 2 3)", printer.PrintStr(list, true))

	vec := mal.NewVector(mal.NewSymbol("a"), mal.NewSymbol("b"))
	assert.Equal(t, "[a b]", printer.PrintStr(vec, true))

	m := mal.NewHashMap()
	m, _ = mal.HashMapSet(m, mal.NewKeyword("x"), mal.NewNumber(1))
	assert.Equal(t, "{:x 1}", printer.PrintStr(m, true))
}

func TestPrintStrAtom(t *testing.T) {
	a := mal.NewAtom(mal.NewNumber(5))
	assert.Equal(t, "(atom 5)", printer.PrintStr(a, true))
}
