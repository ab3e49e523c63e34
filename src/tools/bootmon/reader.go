// Package bootmon follows the serial console of a booting board and explains
// the exception diagnostics the boot path prints.
package bootmon

import (
	"errors"
	"io"
)

// MaxLine is the longest line kept; the rest of a longer line is dropped.
const MaxLine = 512

// LineReader splits console output into lines. Control characters other
// than newline are dropped, so \r\n endings come out clean.
type LineReader struct {
	r       io.Reader
	buf     [MaxLine]byte
	one     [1]byte
	Dropped int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// ReadLine returns the next line without its newline. A final line with no
// newline is returned with io.EOF.
func (l *LineReader) ReadLine() (string, error) {
	count := 0
	for {
		n, err := l.r.Read(l.one[:])
		if n == 0 {
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) && count > 0 {
				return string(l.buf[:count]), io.EOF
			}
			return "", err
		}
		c := l.one[0]
		switch {
		case c == '\n':
			return string(l.buf[:count]), nil
		case c < ' ':
		case count == MaxLine:
			l.Dropped++
		default:
			l.buf[count] = c
			count++
		}
	}
}
