package flasher

import (
	"fmt"

	"github.com/moffa90/go-dfuutil/protocol"
	"github.com/sirupsen/logrus"
)

// ProgressCallback is called for every progress line dfu-util prints.
// Implementations should return quickly: dfu-util output is not read while
// the callback runs.
//
// Example:
//
//	f.Flash(ctx, req, func(p protocol.Progress) {
//	    fmt.Printf("\r%s %d bytes", p.Stage, p.Bytes)
//	})
type ProgressCallback func(protocol.Progress)

// Logger is an optional logging interface that can be provided to the flasher.
// This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// NewLogrusLogger adapts a logrus logger. Key-value pairs become fields.
//
// Example:
//
//	f := flasher.New(flasher.WithLogger(flasher.NewLogrusLogger(logrus.StandardLogger())))
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLogger{l: l}
}

type logrusLogger struct {
	l logrus.FieldLogger
}

func (l *logrusLogger) Debug(msg string, kv ...interface{}) {
	l.l.WithFields(toFields(kv)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, kv ...interface{}) {
	l.l.WithFields(toFields(kv)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, kv ...interface{}) {
	l.l.WithFields(toFields(kv)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, kv ...interface{}) {
	l.l.WithFields(toFields(kv)).Error(msg)
}

// toFields pairs up keys and values. A trailing key without a value is kept
// with a nil value.
func toFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}
