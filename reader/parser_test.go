package reader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/printer"
	"github.com/gomal-lang/gomal/reader"
)

// TestRoundTrip checks that for any readable Term the reader can produce,
// read(print_readable(t)) == t.
func TestRoundTrip(t *testing.T) {
	cases := []string{
		`nil`,
		`true`,
		`false`,
		`42`,
		`-7`,
		`"hello\nworld"`,
		`sym`,
		`:keyword`,
		`(1 2 3)`,
		`[1 2 3]`,
		`{:a 1 :b 2}`,
		`(a (b c) [d e] {:f 1})`,
	}
	for _, src := range cases {
		term, err := reader.ReadStr(src)
		require.Nil(t, err, "ReadStr(%q): %s", src, errMsg(err))
		printed := printer.PrintStr(term, true)
		reparsed, err := reader.ReadStr(printed)
		require.Nil(t, err, "ReadStr(%q) (reparse of %q): %s", printed, src, errMsg(err))
		assert.Truef(t, mal.Equal(term, reparsed), "round trip mismatch for %q: printed %q, reparsed to a different term", src, printed)
	}
}

func TestReaderErrors(t *testing.T) {
	cases := []string{
		`(1 2`,
		`"unterminated`,
		`)`,
		`{:a}`,
	}
	for _, src := range cases {
		_, err := reader.ReadStr(src)
		assert.NotNilf(t, err, "ReadStr(%q): expected an error, got none", src)
	}
}

func TestQuoteFamilyDesugaring(t *testing.T) {
	cases := map[string]string{
		`'a`:  `(quote a)`,
		"`a":  `(quasiquote a)`,
		`~a`:  `(unquote a)`,
		`~@a`: `(splice-unquote a)`,
		`@a`:  `(deref a)`,
	}
	for src, want := range cases {
		term, err := reader.ReadStr(src)
		require.Nil(t, err, "ReadStr(%q): %s", src, errMsg(err))
		assert.Equal(t, want, printer.PrintStr(term, true))
	}
}

func TestMetaDesugaring(t *testing.T) {
	term, err := reader.ReadStr(`^{:k "v"} x`)
	require.Nil(t, err, "ReadStr: %s", errMsg(err))
	assert.Equal(t, `(with-meta x {:k "v"})`, printer.PrintStr(term, true))
}

// errMsg renders a *MalError's payload for test failure messages, tolerating
// a nil error so callers can pass it unconditionally to require/assert.
func errMsg(err *mal.MalError) string {
	if err == nil {
		return ""
	}
	return mal.PrintError(err.Value)
}
