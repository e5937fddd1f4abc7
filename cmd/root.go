// Package cmd wires gomal's cobra CLI: a single root command taking an
// optional script path plus trailing *ARGV* arguments, or -e/--expression
// to evaluate a literal expression instead of entering the REPL.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/printer"
	"github.com/gomal-lang/gomal/reader"
	"github.com/gomal-lang/gomal/repl"
)

var runExpression string

// rootCmd is gomal's entry point: zero args enters the interactive loop,
// one positional argument is evaluated as (load-file "<path>"), and -e
// evaluates a literal expression instead.
var rootCmd = &cobra.Command{
	Use:   "gomal [path] [args...]",
	Short: "gomal is a small Clojure-inspired Lisp",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}

		if runExpression != "" {
			bindArgv(env, args)
			return evalAndPrint(env, runExpression)
		}

		if len(args) == 0 {
			return repl.Run(env, "user> ")
		}

		bindArgv(env, args[1:])
		form, rerr := reader.ReadStr(fmt.Sprintf("(load-file %q)", args[0]))
		if rerr != nil {
			return rerr
		}
		if _, evalErr := mal.Eval(form, env); evalErr != nil {
			mal.FormatTrace(os.Stderr, evalErr, func(t *mal.Term) string { return printer.PrintStr(t, true) })
			os.Exit(1)
		}
		return nil
	},
}

func newEnv() (*mal.Environment, error) {
	return mal.NewRootEnv(
		mal.WithReader(reader.NewReader()),
		mal.WithPrinter(printer.NewPrinter()),
	)
}

func bindArgv(env *mal.Environment, args []string) {
	items := make([]*mal.Term, len(args))
	for i, a := range args {
		items[i] = mal.NewString(a)
	}
	env.Set(mal.NewSymbol("*ARGV*"), mal.NewVector(items...))
}

func evalAndPrint(env *mal.Environment, src string) error {
	form, rerr := reader.ReadStr(src)
	if rerr != nil {
		return rerr
	}
	result, evalErr := mal.Eval(form, env)
	if evalErr != nil {
		mal.FormatTrace(os.Stderr, evalErr, func(t *mal.Term) string { return printer.PrintStr(t, true) })
		os.Exit(1)
	}
	fmt.Println(printer.PrintStr(result, true))
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&runExpression, "expression", "e", "",
		"evaluate a literal expression instead of a file")
}

// Execute runs the root command; it is the single entry point called from
// main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
