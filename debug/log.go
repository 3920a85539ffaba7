package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	Level      string // debug, info, warn, error
	File       string // empty = Writer (or stderr)
	MaxSizeMB  int
	MaxBackups int
	Writer     io.Writer // used when File is empty
}

var (
	mu       sync.Mutex
	logger   = newLogger(os.Stderr, log.WarnLevel)
	rotator  *lumberjack.Logger
	counters = make(map[string]int)
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "genseq",
	})
	l.SetLevel(level)
	return l
}

// Init replaces the global logger. Safe to call more than once; a previously
// opened log file is closed.
func Init(opts Options) error {
	level := log.InfoLevel
	if opts.Level != "" {
		lv, err := log.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = lv
	}

	var w io.Writer = os.Stderr
	var rot *lumberjack.Logger
	switch {
	case opts.File != "":
		rot = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = rot
	case opts.Writer != nil:
		w = opts.Writer
	}

	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		rotator.Close()
	}
	rotator = rot
	logger = newLogger(w, level)
	return nil
}

// Close flushes and closes the log file, if any. Logging continues on stderr.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		rotator.Close()
		rotator = nil
	}
	logger = newLogger(os.Stderr, log.WarnLevel)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes a debug message under a category
func Log(category, format string, args ...any) {
	current().With("cat", category).Debugf(format, args...)
}

// Info writes an info message under a category
func Info(category, format string, args ...any) {
	current().With("cat", category).Infof(format, args...)
}

// Warn reports a recoverable problem: caller contract violations, dropped
// commands, degraded output.
func Warn(category, format string, args ...any) {
	current().With("cat", category).Warnf(format, args...)
}

// Error reports a failure the caller could not recover from.
func Error(category, format string, args ...any) {
	current().With("cat", category).Errorf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events)
func LogEvery(n int, category, format string, args ...any) {
	if count, ok := every(n, category+format); ok {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

// WarnEvery is LogEvery at warn level. The first occurrence is always logged.
func WarnEvery(n int, category, format string, args ...any) {
	if count, ok := every(n, category+format); ok {
		Warn(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func every(n int, key string) (int, bool) {
	if n <= 0 {
		n = 1
	}
	mu.Lock()
	counters[key]++
	count := counters[key]
	mu.Unlock()
	return count, n == 1 || count%n == 1
}

// Logger exposes the underlying logger for libraries that want a *log.Logger.
func Logger() *log.Logger {
	return current()
}
