//go:build !tinygo

package trust

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logr verbosity of each level; errors go through logr's error path.
const (
	warnV  = 0
	infoV  = 1
	debugV = 2
)

type logrLogger struct {
	log logr.Logger
}

// FromLogr adapts a logr.Logger. Messages are formatted before they are
// handed over, so the line the device would print is the logr message.
func FromLogr(l logr.Logger) Logger {
	return logrLogger{log: l}
}

func (l logrLogger) Errorf(format string, params ...interface{}) {
	l.log.Error(nil, fmt.Sprintf(format, params...))
}

func (l logrLogger) Warnf(format string, params ...interface{}) {
	l.log.V(warnV).Info(fmt.Sprintf(format, params...), "level", "warn")
}

func (l logrLogger) Infof(format string, params ...interface{}) {
	l.log.V(infoV).Info(fmt.Sprintf(format, params...))
}

func (l logrLogger) Debugf(format string, params ...interface{}) {
	l.log.V(debugV).Info(fmt.Sprintf(format, params...))
}

func (l logrLogger) Fatalf(format string, params ...interface{}) {
	l.log.Error(nil, fmt.Sprintf(format, params...), "fatal", true)
}

// NewZapLogr builds the host tools' logr.Logger on zap. Verbosity follows
// logr: 0 shows errors and warnings, 1 adds info, 2 adds debug.
func NewZapLogr(verbosity int, development bool) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(z), nil
}
