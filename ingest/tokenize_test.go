package ingest

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestTokenizeLineBasic(t *testing.T) {
	got := tokenizeLine("<A> <B> \"C\" .")
	expect.EQ(t, len(got), 4)
	expect.EQ(t, got[0], "<A>")
	expect.EQ(t, got[1], "<B>")
	expect.EQ(t, got[2], "\"C\"")
	expect.EQ(t, got[3], ".")
}

func TestTokenizeLineQuotedWhitespace(t *testing.T) {
	got := tokenizeLine(`<A> <B> "New York" .`)
	expect.EQ(t, len(got), 4)
	expect.EQ(t, got[2], `"New York"`)
}

func TestTokenizeLineEscapes(t *testing.T) {
	got := tokenizeLine(`"a\"b"`)
	expect.EQ(t, len(got), 1)
	expect.EQ(t, got[0], `"a"b"`)

	got = tokenizeLine(`a\tb`)
	expect.EQ(t, len(got), 1)
	expect.EQ(t, got[0], "a\tb")
}

func TestTokenizeLineUnrecognizedEscapeKeptVerbatim(t *testing.T) {
	got := tokenizeLine(`a\qb`)
	expect.EQ(t, len(got), 1)
	expect.EQ(t, got[0], `a\qb`)
}

func TestTokenizeLineEmpty(t *testing.T) {
	got := tokenizeLine("   ")
	expect.EQ(t, len(got), 0)
}
