// Package trust is the leveled logger of the boot path. On the device it
// writes plain lines to the console; on a host it forwards to logr.
package trust

import (
	"fmt"
	"io"
)

type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10
	fatalMask MaskLevel = 0x80
)

// All enables every level.
const All = ErrorMask | WarnMask | InfoMask | DebugMask | StatsMask

// Logger is what the boot path logs through. Fatalf logs regardless of the
// mask; what happens to the core afterwards is up to the caller.
type Logger interface {
	Errorf(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Debugf(format string, params ...interface{})
	Fatalf(format string, params ...interface{})
}

// MaskLogger writes one line per message to w, prefixed with its level, if
// the level is enabled in its mask.
type MaskLogger struct {
	w     io.Writer
	level MaskLevel
}

// New returns a logger writing the levels in mask to w.
func New(w io.Writer, mask MaskLevel) *MaskLogger {
	l := &MaskLogger{w: w}
	l.SetLevel(mask)
	return l
}

// Discard drops everything.
var Discard Logger = New(io.Discard, Nothing)

// SetLevel lets you set an error mask directly. Enabling a level enables
// every less verbose one as well, so ErrorMask|DebugMask is the same as
// DebugMask|InfoMask|WarnMask|ErrorMask. It returns the previous mask.
func (l *MaskLogger) SetLevel(mask MaskLevel) MaskLevel {
	result := Nothing
	switch {
	case mask&StatsMask > 0:
		result |= StatsMask
		fallthrough
	case mask&DebugMask > 0:
		result |= DebugMask
		fallthrough
	case mask&InfoMask > 0:
		result |= InfoMask
		fallthrough
	case mask&WarnMask > 0:
		result |= WarnMask
		fallthrough
	case mask&ErrorMask > 0:
		result |= ErrorMask
	}
	r := l.level &^ fatalMask
	l.level = result | fatalMask
	return r
}

func (l *MaskLogger) Level() MaskLevel {
	return l.level &^ fatalMask
}

// LevelToString names the enabled levels, least verbose first.
func (l *MaskLogger) LevelToString() string {
	result := ""
	for _, n := range []struct {
		m MaskLevel
		s string
	}{{ErrorMask, "error"}, {WarnMask, "warn"}, {InfoMask, "info"}, {DebugMask, "debug"}, {StatsMask, "stats"}} {
		if l.level&n.m == 0 {
			continue
		}
		if result != "" {
			result += " "
		}
		result += n.s
	}
	return result
}

func prefix(l MaskLevel) string {
	switch {
	case l&ErrorMask > 0:
		return "ERROR:"
	case l&WarnMask > 0:
		return " WARN:"
	case l&InfoMask > 0:
		return " INFO:"
	case l&DebugMask > 0:
		return "DEBUG:"
	case l&fatalMask > 0:
		return "FATAL:"
	}
	return ""
}

func (l *MaskLogger) logf(m MaskLevel, format string, params ...interface{}) {
	if l.level&m == 0 {
		return
	}
	if len(format) == 0 || format[len(format)-1] != '\n' {
		format += "\n"
	}
	fmt.Fprintf(l.w, prefix(m)+format, params...)
}

// Errorf prints the given log message (format + params) using the ErrorMask level.
func (l *MaskLogger) Errorf(format string, params ...interface{}) {
	l.logf(ErrorMask, format, params...)
}

// Warnf prints the given log message (format + params) using the WarnMask level.
func (l *MaskLogger) Warnf(format string, params ...interface{}) {
	l.logf(WarnMask, format, params...)
}

// Infof prints the given log message (format + params) using the InfoMask level.
func (l *MaskLogger) Infof(format string, params ...interface{}) {
	l.logf(InfoMask, format, params...)
}

// Debugf prints the given log message (format + params) using the DebugMask level.
func (l *MaskLogger) Debugf(format string, params ...interface{}) {
	l.logf(DebugMask, format, params...)
}

// Fatalf is not maskable.
func (l *MaskLogger) Fatalf(format string, params ...interface{}) {
	l.logf(fatalMask, format, params...)
}

// Statsf prints the given log message using the StatsMask level, tagged with
// the category of stats that is reported.
func (l *MaskLogger) Statsf(category string, format string, params ...interface{}) {
	l.logf(StatsMask, "STATS["+category+"]:"+format, params...)
}
