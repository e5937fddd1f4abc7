package mal_test

import (
	"testing"

	"github.com/gomal-lang/gomal/malt"
)

// TestScenarios exercises representative end-to-end evaluation scenarios.
func TestScenarios(t *testing.T) {
	malt.RunTestSuite(t, malt.TestSuite{
		{
			Name: "arithmetic",
			TestSequence: malt.TestSequence{
				{Expr: "(+ 1 2 3)", Result: "6"},
			},
		},
		{
			Name: "let",
			TestSequence: malt.TestSequence{
				{Expr: "(let* [a 1 b 2] (+ a b))", Result: "3"},
			},
		},
		{
			Name: "closures",
			TestSequence: malt.TestSequence{
				{Expr: "(def! sq (fn* [n] (* n n)))", Result: "#<function>"},
				{Expr: "(sq 5)", Result: "25"},
			},
		},
		{
			Name: "quasiquote-splice",
			TestSequence: malt.TestSequence{
				{Expr: "`(1 ~(+ 1 1) ~@(list 3 4) 5)", Result: "(1 2 3 4 5)"},
			},
		},
		{
			Name: "macros",
			TestSequence: malt.TestSequence{
				{Expr: "(defmacro! unless (fn* (p a b) `(if ~p ~b ~a)))", Result: "#<function>"},
				{Expr: "(unless false 1 2)", Result: "1"},
			},
		},
		{
			Name: "try-catch",
			TestSequence: malt.TestSequence{
				{Expr: "(try* (throw {:e 1}) (catch* err (get err :e)))", Result: "1"},
			},
		},
		{
			Name: "atoms",
			TestSequence: malt.TestSequence{
				{Expr: "(def! c (atom 0))", Result: "(atom 0)"},
				{Expr: "(swap! c (fn* (x) (+ x 10)))", Result: "10"},
				{Expr: "(swap! c (fn* (x) (+ x 10)))", Result: "20"},
				{Expr: "(deref c)", Result: "20"},
			},
		},
		{
			Name: "bootstrap-not",
			TestSequence: malt.TestSequence{
				{Expr: "(not false)", Result: "true"},
				{Expr: "(not 0)", Result: "false"},
			},
		},
		{
			Name: "bootstrap-cond",
			TestSequence: malt.TestSequence{
				{Expr: "(cond false 1 false 2 :else 3)", Result: "3"},
				{Expr: "(cond)", Result: "nil"},
			},
		},
		{
			Name: "bootstrap-or",
			TestSequence: malt.TestSequence{
				{Expr: "(or false nil 3 4)", Result: "3"},
				{Expr: "(or)", Result: "nil"},
			},
		},
		{
			Name: "sequential-equality",
			TestSequence: malt.TestSequence{
				{Expr: "(= (list 1 2) [1 2])", Result: "true"},
			},
		},
		{
			Name: "hashmap-roundtrip",
			TestSequence: malt.TestSequence{
				{Expr: "(get (assoc {} :a 1 :b 2) :b)", Result: "2"},
				{Expr: `(contains? (hash-map "a" 1) "a")`, Result: "true"},
			},
		},
		{
			Name: "json",
			TestSequence: malt.TestSequence{
				{Expr: `(from-json (to-json [1 2 3]))`, Result: "[1 2 3]"},
			},
		},
		{
			Name: "eval-as-value",
			TestSequence: malt.TestSequence{
				{Expr: "(def! ev eval)", Result: "#<native>"},
				{Expr: "(ev (list + 1 2))", Result: "3"},
				{Expr: "(map eval (list (list + 1 2) (list + 3 4)))", Result: "(3 7)"},
				{Expr: "(apply eval (list (list + 1 2 3)))", Result: "6"},
			},
		},
	})
}

// TestMacroexpandFixedPoint checks that macroexpand on a form that is not
// itself a macro call (including an already-expanded one) returns it
// unchanged, so expanding twice is the same as expanding once.
func TestMacroexpandFixedPoint(t *testing.T) {
	malt.RunTestSuite(t, malt.TestSuite{
		{
			Name: "fixed-point",
			TestSequence: malt.TestSequence{
				{Expr: "(defmacro! unless (fn* (p a b) `(if ~p ~b ~a)))", Result: "#<function>"},
				{Expr: "(macroexpand (unless false 1 2))", Result: "(if false 2 1)"},
				{Expr: "(macroexpand '(if false 2 1))", Result: "(if false 2 1)"},
			},
		},
	})
}

// TestTailCallDepth checks that unbounded tail recursion completes without
// host-stack overflow.
func TestTailCallDepth(t *testing.T) {
	malt.RunTestSuite(t, malt.TestSuite{
		{
			Name: "deep-tail-recursion",
			TestSequence: malt.TestSequence{
				{Expr: "(def! count-down (fn* (n) (if (= n 0) :done (count-down (- n 1)))))", Result: "#<function>"},
				{Expr: "(count-down 100000)", Result: ":done"},
			},
		},
	})
}

// TestQuoteIdentity checks that quoting a term free of
// Function/NativeFunction/Atom returns it unchanged.
func TestQuoteIdentity(t *testing.T) {
	malt.RunTestSuite(t, malt.TestSuite{
		{
			Name: "quote",
			TestSequence: malt.TestSequence{
				{Expr: "(quote (1 2 3))", Result: "(1 2 3)"},
				{Expr: "'(a b c)", Result: "(a b c)"},
			},
		},
	})
}
