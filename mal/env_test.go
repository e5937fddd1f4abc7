package mal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gomal-lang/gomal/mal"
)

func TestEnvironmentSetGet(t *testing.T) {
	env := mal.NewEnvironment(nil)
	sym := mal.NewSymbol("x")
	env.Set(sym, mal.NewNumber(10))

	v, err := env.Get(sym)
	assert.Nil(t, err)
	assert.Equal(t, int64(10), v.Num)
}

func TestEnvironmentLookupThroughParent(t *testing.T) {
	parent := mal.NewEnvironment(nil)
	parent.Set(mal.NewSymbol("x"), mal.NewNumber(1))
	child := mal.NewEnvironment(parent)

	v, err := child.Get(mal.NewSymbol("x"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), v.Num)
}

func TestEnvironmentShadowing(t *testing.T) {
	parent := mal.NewEnvironment(nil)
	parent.Set(mal.NewSymbol("x"), mal.NewNumber(1))
	child := mal.NewEnvironment(parent)
	child.Set(mal.NewSymbol("x"), mal.NewNumber(2))

	v, err := child.Get(mal.NewSymbol("x"))
	assert.Nil(t, err)
	assert.Equal(t, int64(2), v.Num)

	pv, err := parent.Get(mal.NewSymbol("x"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), pv.Num)
}

func TestEnvironmentUnbound(t *testing.T) {
	env := mal.NewEnvironment(nil)
	_, err := env.Get(mal.NewSymbol("missing"))
	assert.NotNil(t, err)
	assert.Equal(t, mal.CondUnboundSymbol, err.Condition)
}

func TestBindFormalsRestParameter(t *testing.T) {
	params := mal.NewList(mal.NewSymbol("a"), mal.NewSymbol("&"), mal.NewSymbol("rest"))
	args := []*mal.Term{mal.NewNumber(1), mal.NewNumber(2), mal.NewNumber(3)}
	env, err := mal.BindFormals(nil, params, args)
	assert.Nil(t, err)

	a, _ := env.Get(mal.NewSymbol("a"))
	assert.Equal(t, int64(1), a.Num)

	rest, _ := env.Get(mal.NewSymbol("rest"))
	assert.Equal(t, 2, rest.Len())
}

func TestBindFormalsArityMismatch(t *testing.T) {
	params := mal.NewList(mal.NewSymbol("a"), mal.NewSymbol("b"))
	args := []*mal.Term{mal.NewNumber(1)}
	_, err := mal.BindFormals(nil, params, args)
	assert.NotNil(t, err)
	assert.Equal(t, mal.CondArityError, err.Condition)
}

func TestValidateParamsRejectsMisplacedRest(t *testing.T) {
	params := mal.NewList(mal.NewSymbol("&"), mal.NewSymbol("rest"), mal.NewSymbol("extra"))
	err := mal.ValidateParams(params)
	assert.NotNil(t, err)
	assert.Equal(t, mal.CondInvalidRestParameter, err.Condition)
}
