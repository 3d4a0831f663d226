// Package log provides leveled diagnostic logging for lofreq commands.
// Diagnostics go to a single writer (normally stderr) as one line per
// message, formatted as "LEVEL [timestamp]: message". The level threshold
// is derived from the quiet/verbose/debug command-line switches.
package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level controls which diagnostics are emitted.
type Level int

// Levels in increasing verbosity. Fatal and Error messages are always
// emitted; warnings are the default; Info needs verbose mode and Debug
// needs debug mode.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// LevelFor maps the verbosity switches to a level threshold. Quiet wins
// over the other two since the flags are declared mutually exclusive and
// this keeps behavior deterministic if callers bypass that check.
func LevelFor(quiet, verbose, debug bool) Level {
	switch {
	case quiet:
		return LevelError
	case debug:
		return LevelDebug
	case verbose:
		return LevelInfo
	default:
		return LevelWarn
	}
}

// Logger writes leveled diagnostic lines to a single writer. It is safe
// for concurrent use; the call pipeline logs from multiple goroutines.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	now   func() time.Time
}

// New creates a Logger writing to w with the given level threshold.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		w:     w,
		level: level,
		now:   time.Now,
	}
}

func (l *Logger) log(level Level, tag, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	stamp := l.now().Format("2006-01-02 15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s [%s]: %s\n", tag, stamp, msg)
}

// Debugf emits a debug-level diagnostic.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, "DEBUG", format, args...)
}

// Infof emits an info-level diagnostic.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, "INFO", format, args...)
}

// Warnf emits a warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, "WARN", format, args...)
}

// Errorf emits an error diagnostic.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", format, args...)
}

// Fatalf emits a fatal diagnostic. It does not terminate the process;
// deciding the exit code is the caller's job.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(LevelError, "FATAL", format, args...)
}
