// Command gomal is a small Clojure-inspired Lisp interpreter.
package main

import "github.com/gomal-lang/gomal/cmd"

func main() {
	cmd.Execute()
}
