package mal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomal-lang/gomal/malt"
	"github.com/gomal-lang/gomal/reader"

	"github.com/gomal-lang/gomal/mal"
)

func TestBuiltinsExtras(t *testing.T) {
	malt.RunTestSuite(t, malt.TestSuite{
		{
			Name: "max-min-mod",
			TestSequence: malt.TestSequence{
				{Expr: "(max 3 7 2)", Result: "7"},
				{Expr: "(min 3 7 2)", Result: "2"},
				{Expr: "(mod 7 3)", Result: "1"},
			},
		},
		{
			Name: "string-compare",
			TestSequence: malt.TestSequence{
				{Expr: `(string= "abc" "abc")`, Result: "true"},
				{Expr: `(string< "abc" "abd")`, Result: "true"},
				{Expr: `(string> "abd" "abc")`, Result: "true"},
				{Expr: `(string<= "abc" "abc")`, Result: "true"},
				{Expr: `(string>= "abc" "abc")`, Result: "true"},
			},
		},
		{
			Name: "reverse",
			TestSequence: malt.TestSequence{
				{Expr: "(reverse (list 1 2 3))", Result: "(3 2 1)"},
				{Expr: "(reverse [1 2 3])", Result: "[3 2 1]"},
			},
		},
		{
			Name: "count-and-empty-on-seqables",
			TestSequence: malt.TestSequence{
				{Expr: "(count (list 1 2 3))", Result: "3"},
				{Expr: "(count nil)", Result: "0"},
				{Expr: "(empty? [])", Result: "true"},
				{Expr: "(empty? [1])", Result: "false"},
			},
		},
	})
}

func evalErr(t *testing.T, src string) *mal.MalError {
	t.Helper()
	env, err := malt.NewEnv()
	require.NoError(t, err)
	form, rerr := reader.ReadStr(src)
	require.Nilf(t, rerr, "ReadStr(%q): parse error", src)
	_, merr := mal.Eval(form, env)
	return merr
}

func TestCountRejectsNonSeqable(t *testing.T) {
	err := evalErr(t, `(count "x")`)
	require.NotNil(t, err)
	assert.Equal(t, mal.CondTypeError, err.Condition)
}

func TestEmptyRejectsNonSeqable(t *testing.T) {
	err := evalErr(t, `(empty? 5)`)
	require.NotNil(t, err)
	assert.Equal(t, mal.CondTypeError, err.Condition)
}
