package mal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gomal-lang/gomal/mal"
)

func TestEqualSequentialIgnoresListVsVector(t *testing.T) {
	list := mal.NewList(mal.NewNumber(1), mal.NewNumber(2))
	vec := mal.NewVector(mal.NewNumber(1), mal.NewNumber(2))
	assert.True(t, mal.Equal(list, vec))
}

func TestEqualDistinguishesTypeOtherwise(t *testing.T) {
	assert.False(t, mal.Equal(mal.NewString("1"), mal.NewKeyword("1")))
	assert.False(t, mal.Equal(mal.NewString("1"), mal.NewNumber(1)))
}

func TestSymbolInterning(t *testing.T) {
	a := mal.NewSymbol("foo")
	b := mal.NewSymbol("foo")
	assert.True(t, a == b)
}

func TestHashMapSetGetDissoc(t *testing.T) {
	m := mal.NewHashMap()
	m, ok := mal.HashMapSet(m, mal.NewKeyword("a"), mal.NewNumber(1))
	assert.True(t, ok)

	v, ok := mal.HashMapGet(m, mal.NewKeyword("a"))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.Num)

	m2, ok := mal.HashMapDissoc(m, mal.NewKeyword("a"))
	assert.True(t, ok)
	_, ok = mal.HashMapGet(m2, mal.NewKeyword("a"))
	assert.False(t, ok)
}

func TestHashMapRejectsNonStringKeywordKeys(t *testing.T) {
	m := mal.NewHashMap()
	_, ok := mal.HashMapSet(m, mal.NewNumber(1), mal.NewNumber(2))
	assert.False(t, ok)
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, mal.Nil.IsTruthy())
	assert.False(t, mal.False.IsTruthy())
	assert.True(t, mal.True.IsTruthy())
	assert.True(t, mal.NewNumber(0).IsTruthy())
}
