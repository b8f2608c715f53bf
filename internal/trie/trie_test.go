package trie

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"break", "b", "br", "print", "p", "printf", "set", "info", "x", "silent", "add-symbol-file", "!"}

func build(t *testing.T, names ...string) *Trie {
	t.Helper()
	tr := New()
	for _, name := range names {
		require.True(t, tr.Insert(name), name)
	}
	return tr
}

func TestRecognizeWholeWords(t *testing.T) {
	tr := build(t, commands...)

	for _, name := range commands {
		assert.True(t, tr.Contains(name), name)
	}
	for _, other := range []string{"brea", "pri", "prin", "printff", "inf", "se", "sett", "myproc", ""} {
		assert.False(t, tr.Contains(other), other)
	}
}

func TestRecognizeMatchedLength(t *testing.T) {
	tr := build(t, "print", "printf")

	matched, whole := tr.Recognize("pri")
	assert.Equal(t, 3, matched)
	assert.False(t, whole)

	matched, whole = tr.Recognize("printx")
	assert.Equal(t, 5, matched)
	assert.False(t, whole)

	matched, whole = tr.Recognize("print")
	assert.Equal(t, 5, matched)
	assert.True(t, whole)

	matched, whole = tr.Recognize("pr int")
	assert.Equal(t, 2, matched)
	assert.False(t, whole)
}

func TestInsertRejectsOutsideAlphabet(t *testing.T) {
	tr := New()
	assert.False(t, tr.Insert(""))
	assert.False(t, tr.Insert("two words"))
	assert.False(t, tr.Insert("tab\there"))
	assert.False(t, tr.Insert("ünicode"))
	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.Contains("two"))
}

func TestLenCountsDistinctNames(t *testing.T) {
	tr := build(t, "run", "run", "r")
	assert.Equal(t, 2, tr.Len())
}

func TestWordsSorted(t *testing.T) {
	tr := build(t, commands...)
	want := append([]string(nil), commands...)
	sort.Strings(want)
	assert.Equal(t, want, tr.Words())
}

func TestEncodingRoundTrip(t *testing.T) {
	tr := build(t, commands...)

	data, err := tr.MarshalText()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")

	decoded := New()
	require.NoError(t, decoded.UnmarshalText(data))

	assert.Equal(t, tr.Words(), decoded.Words())
	assert.Equal(t, tr.Len(), decoded.Len())
	for _, name := range commands {
		assert.True(t, decoded.Contains(name), name)
	}
	assert.False(t, decoded.Contains("brea"))
	assert.False(t, decoded.Contains("pri"))
}

func TestEncodingKnownLayout(t *testing.T) {
	tr := build(t, "ab", "a")
	data, err := tr.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "a b \t\t", string(data))
}

func TestEncodingEmptyTrie(t *testing.T) {
	data, err := New().MarshalText()
	require.NoError(t, err)
	assert.Empty(t, data)

	decoded := build(t, "stale")
	require.NoError(t, decoded.UnmarshalText(data))
	assert.Equal(t, 0, decoded.Len())
	assert.False(t, decoded.Contains("stale"))
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"terminal at root": " ",
		"ascend past root": "a \t\t",
		"unclosed":         "ab ",
		"bad byte":         "a\n\t",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			tr := build(t, "keep")
			err := tr.UnmarshalText([]byte(input))
			require.ErrorIs(t, err, ErrMalformed)
			assert.True(t, tr.Contains("keep"), "failed decode must not modify the trie")
		})
	}
}
