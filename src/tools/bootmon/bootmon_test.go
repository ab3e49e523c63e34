package bootmon

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awaken/src/boot/exception"
)

const diagnostic = "ERROR:exception: data abort same EL (write, translation level 2) type=CurrentElSpxSync(0x11) ec=0x25 esr=0x96000046 spsr=0x3c5 far=0x7fe00000 elr=0x81234"

func readAll(t *testing.T, r io.Reader) []string {
	t.Helper()
	lr := NewLineReader(r)
	var lines []string
	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			if line != "" {
				lines = append(lines, line)
			}
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestLineReader(t *testing.T) {
	in := "\r\nhello\r\n\x07bell\nlast"
	got := readAll(t, iotest.OneByteReader(strings.NewReader(in)))
	if diff := cmp.Diff([]string{"", "hello", "bell", "last"}, got); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
}

func TestLineReaderDropsOverlong(t *testing.T) {
	long := strings.Repeat("x", MaxLine+10)
	lr := NewLineReader(strings.NewReader(long + "\nnext\n"))
	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Len(t, line, MaxLine)
	assert.Equal(t, 10, lr.Dropped)

	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestLineReaderError(t *testing.T) {
	lr := NewLineReader(iotest.ErrReader(io.ErrUnexpectedEOF))
	_, err := lr.ReadLine()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMonitor(t *testing.T) {
	console := "\r\n########## awaken ----- Bootstrapper @ AArch64 ----- ##########\r\n" +
		"DEBUG:core 0: mmu on\r\n" +
		diagnostic + "\r\n"

	var out bytes.Buffer
	m := NewMonitor(&out, logr.Discard())
	require.NoError(t, m.Run(strings.NewReader(console)))

	r, ok := exception.ParseDiagnostic(diagnostic)
	require.True(t, ok)
	c := exception.Classify(r)

	s := m.Summary()
	assert.Equal(t, 4, s.Lines)
	assert.Equal(t, 1, s.Boots)
	assert.Equal(t, "AArch64", s.Variant)
	require.Len(t, s.Diagnostics, 1)
	assert.Equal(t, exception.DataAbortSameEL, s.Diagnostics[0].Condition)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, diagnostic, lines[3])
	assert.Equal(t, "    -> "+c.String()+": "+exception.ClassName(exception.ClassDataAbortSameEL), lines[4])
}

func TestMonitorIgnoresPlainLines(t *testing.T) {
	var out bytes.Buffer
	m := NewMonitor(&out, logr.Discard())
	require.NoError(t, m.Run(strings.NewReader("INFO:exception: nothing here\n")))
	assert.Empty(t, m.Summary().Diagnostics)
	assert.Equal(t, "INFO:exception: nothing here\n", out.String())
}
