package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Tokens(t *testing.T) {
	sc := newScanner("t", []byte("version 1 // comment\n  \"two words\" 2.5\n-1\n"))

	require.True(t, sc.checkString("VERSION"))
	assert.Equal(t, 1, sc.mustInt())
	assert.Equal(t, "two words", sc.mustString())
	assert.Equal(t, 2, sc.tok.line)
	assert.InDelta(t, 2.5, sc.mustFloat(), 1e-6)

	_, ok := sc.checkIntOnLine()
	assert.False(t, ok, "integer on the next line is not on the current line")
	assert.Equal(t, -1, sc.mustInt())
	assert.Equal(t, 3, sc.tok.line)

	assert.False(t, sc.next())
	assert.True(t, sc.ok())
}

func TestScanner_IntOnLine(t *testing.T) {
	sc := newScanner("t", []byte("0.5 3 x"))
	sc.mustFloat()
	n, ok := sc.checkIntOnLine()
	require.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = sc.checkIntOnLine()
	assert.False(t, ok)
	assert.Equal(t, "x", sc.mustString())
}

func TestScanner_StickyError(t *testing.T) {
	sc := newScanner("t.smd", []byte("abc 1"))
	sc.mustInt()
	require.Error(t, sc.err)
	assert.ErrorIs(t, sc.err, ErrMalformedSMD)
	assert.Equal(t, 0, sc.mustInt(), "reads after an error return zero")
	assert.Contains(t, sc.err.Error(), "t.smd:1")
}

func TestScanner_QuotedEndIsName(t *testing.T) {
	sc := newScanner("t", []byte(`"end" end`))
	assert.False(t, sc.checkString("end"))
	assert.Equal(t, "end", sc.mustString())
	assert.True(t, sc.checkString("end"))
}
