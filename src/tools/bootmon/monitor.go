package bootmon

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/go-logr/logr"

	"awaken/src/boot/exception"
)

var bannerPattern = regexp.MustCompile(`Bootstrapper @ (\S+)`)

// Summary counts what a monitor saw.
type Summary struct {
	Lines       int
	Boots       int
	Variant     string
	Diagnostics []exception.Classification
}

// Monitor copies console lines to its output and annotates each exception
// diagnostic with its decoded classification.
type Monitor struct {
	out     io.Writer
	log     logr.Logger
	summary Summary
}

func NewMonitor(out io.Writer, log logr.Logger) *Monitor {
	return &Monitor{out: out, log: log}
}

func (m *Monitor) Summary() Summary { return m.summary }

// Line handles one console line.
func (m *Monitor) Line(line string) error {
	m.summary.Lines++
	if _, err := fmt.Fprintln(m.out, line); err != nil {
		return err
	}
	if match := bannerPattern.FindStringSubmatch(line); match != nil {
		m.summary.Boots++
		m.summary.Variant = match[1]
		m.log.V(1).Info("boot started", "variant", match[1])
		return nil
	}
	r, ok := exception.ParseDiagnostic(line)
	if !ok {
		return nil
	}
	c := exception.Classify(r)
	m.summary.Diagnostics = append(m.summary.Diagnostics, c)
	m.log.Info("exception", "type", r.Type.String(), "classification", c.String())
	_, err := fmt.Fprintf(m.out, "    -> %s: %s\n", c, exception.ClassName(c.Class))
	return err
}

// Run feeds every line of r to m until r is exhausted.
func (m *Monitor) Run(r io.Reader) error {
	lr := NewLineReader(r)
	defer func() {
		if lr.Dropped > 0 {
			m.log.Info("dropped characters from long lines", "count", lr.Dropped)
		}
	}()
	for {
		line, err := lr.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line != "" || err == nil {
			if lerr := m.Line(line); lerr != nil {
				return lerr
			}
		}
		if err != nil {
			return nil
		}
	}
}
