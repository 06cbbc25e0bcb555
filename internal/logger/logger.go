// Package logger provides leveled debug logging for the proxyup CLI tool.
//
// Log output goes to stderr, separate from the user-facing messages the
// output package writes to stdout, so verbose debugging never interferes
// with normal CLI output or JSON formatting.
//
// By default only Warn and Error are shown; Init(true) enables Debug and
// Info for the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn, // Default: only warnings and errors
	output: os.Stderr,
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// Useful for testing. Default is os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// log writes a formatted message at the specified level.
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s\n", level.String(), timestamp, msg)
}

// Debug logs a debug message. Only shown when verbose mode is enabled.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message. Only shown when verbose mode is enabled.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}
