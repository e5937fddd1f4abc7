// Package repl implements the interactive read-eval-print loop: reads a
// form with chzyer/readline (showing a continuation prompt on input that
// looks incomplete rather than failing immediately), evaluates it, and
// prints the result or reports an uncaught error's trace.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/printer"
	"github.com/gomal-lang/gomal/reader"
)

// Run runs the interactive loop against env until EOF (Ctrl-D).
func Run(env *mal.Environment, prompt string) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	contPrompt := strings.Repeat(" ", len(prompt))
	var buf string

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buf = ""
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if buf != "" {
			buf += "\n" + line
		} else {
			buf = line
		}
		if strings.TrimSpace(buf) == "" {
			buf = ""
			continue
		}

		form, rerr := reader.ReadStr(buf)
		if rerr != nil {
			if rerr.Condition == mal.CondReaderError && incomplete(rerr) {
				rl.SetPrompt(contPrompt)
				continue
			}
			fmt.Fprintln(os.Stderr, "Error:", mal.PrintError(rerr.Value))
			buf = ""
			rl.SetPrompt(prompt)
			continue
		}

		buf = ""
		rl.SetPrompt(prompt)

		result, evalErr := mal.Eval(form, env)
		if evalErr != nil {
			mal.FormatTrace(os.Stderr, evalErr, func(t *mal.Term) string { return printer.PrintStr(t, true) })
			continue
		}
		fmt.Println(printer.PrintStr(result, true))
	}
}

// incomplete reports whether a reader error looks like "more input needed"
// (an unterminated string or an unclosed bracket hitting EOF) rather than a
// genuine syntax error, so the REPL can show a continuation prompt instead
// of reporting failure immediately.
func incomplete(e *mal.MalError) bool {
	msg := mal.PrintError(e.Value)
	return strings.Contains(msg, "EOF") || strings.Contains(msg, "unterminated")
}
