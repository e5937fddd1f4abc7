// Package malt is a small table-driven test harness for gomal programs: a
// named sequence of expressions evaluated in order against a fresh
// environment, each checked against its expected printed result.
package malt

import (
	"testing"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/printer"
	"github.com/gomal-lang/gomal/reader"
)

// TestSequence is a sequence of expressions evaluated in order against a
// single Environment; Result is the expected readable printed form of the
// final value each Expr evaluates to.
type TestSequence []struct {
	Expr   string
	Result string
}

// TestSuite is a set of named TestSequences, each run on its own isolated
// Environment.
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns a fresh root Environment wired with this package's
// Reader/Printer, suitable for a single TestSequence run.
func NewEnv() (*mal.Environment, error) {
	return mal.NewRootEnv(
		mal.WithReader(reader.NewReader()),
		mal.WithPrinter(printer.NewPrinter()),
	)
}

// RunTestSuite runs each TestSequence in tests on an isolated Environment,
// reporting a subtest per named sequence.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			env, err := NewEnv()
			if err != nil {
				t.Fatalf("failed to construct environment: %v", err)
			}
			for j, step := range test.TestSequence {
				form, rerr := reader.ReadStr(step.Expr)
				if rerr != nil {
					t.Errorf("expr %d (%s): parse error: %s", j, step.Expr, mal.PrintError(rerr.Value))
					continue
				}
				value, evalErr := mal.Eval(form, env)
				if evalErr != nil {
					t.Errorf("expr %d (%s): eval error: %s", j, step.Expr, mal.PrintError(evalErr.Value))
					continue
				}
				got := printer.PrintStr(value, true)
				if got != step.Result {
					t.Errorf("expr %d (%s): got %q, want %q", j, step.Expr, got, step.Result)
				}
			}
		})
	}
}
