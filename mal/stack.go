package mal

import (
	"fmt"
	"io"
)

// FormatTrace renders a MalError's accumulated ast trace the way the
// read-eval-print boundary reports an uncaught error, using print to render
// each traced ast.
func FormatTrace(w io.Writer, e *MalError, print func(*Term) string) (int, error) {
	n, err := fmt.Fprintf(w, "Error: %s\n", PrintError(e.Value))
	if err != nil {
		return n, err
	}
	if len(e.Trace) == 0 {
		return n, nil
	}
	total := n
	m, err := fmt.Fprintf(w, "Trace [%d frames -- innermost first]:\n", len(e.Trace))
	total += m
	if err != nil {
		return total, err
	}
	for i := 0; i < len(e.Trace); i++ {
		m, err := fmt.Fprintf(w, "  %s\n", print(e.Trace[i]))
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
