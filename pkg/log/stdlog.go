package log

import (
	stdlog "log"
	"strings"
)

// stdLogWriter adapts a Logger to io.Writer for the standard library logger.
type stdLogWriter struct {
	logger Logger
	level  Level
}

// Write logs each line of p through the wrapped Logger.
func (w *stdLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(msg, "\n") {
		if line == "" {
			continue
		}
		switch w.level {
		case DebugLevel:
			w.logger.Debug(line)
		case WarnLevel:
			w.logger.Warn(line)
		case ErrorLevel, FatalLevel:
			w.logger.Error(line)
		default:
			w.logger.Info(line)
		}
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that forwards output through l at the
// given level. Useful for libraries that only accept the standard logger.
func ToStdLogger(l Logger, level Level) *stdlog.Logger {
	return stdlog.New(&stdLogWriter{logger: l, level: level}, "", 0)
}

// RedirectStdLog reroutes the standard library's default logger through l.
// Prefixes and flags are cleared; the structured formatter supplies both.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&stdLogWriter{logger: l, level: InfoLevel})
}
