// Package logger is the process-wide log sink for sercha-audio.
//
// Debug, Info and Warn lines are only written in verbose mode.
// Error lines are always written so request and pipeline failures are never
// lost. The long-running serve command turns on timestamps.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetTimestamps prefixes every line with an RFC 3339 timestamp when enabled.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

// SetOutput replaces the destination writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug logs pipeline tracing detail.
func Debug(format string, args ...any) { write(levelDebug, false, format, args) }

// Info logs normal operational events.
func Info(format string, args ...any) { write(levelInfo, false, format, args) }

// Warn logs degraded but recoverable conditions.
func Warn(format string, args ...any) { write(levelWarn, false, format, args) }

// Error logs a failure regardless of verbose mode.
func Error(format string, args ...any) { write(levelError, true, format, args) }

// Section prints a blank line and a "=== name ===" banner in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(lvl level, always bool, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if !always && !verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if timestamps {
		fmt.Fprintf(output, "%s [%s] %s\n", now().UTC().Format(timeLayout), lvl, msg)
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", lvl, msg)
}
