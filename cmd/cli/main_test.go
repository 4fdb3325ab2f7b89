package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very lo…", truncate("a very long review body", 10))

	// A multibyte rune straddling the cut must not leave mangled bytes.
	got := truncate("année après année", 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "anné…", got)
}
