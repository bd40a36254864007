package api

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel is the verbosity of a Logger.
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a config value such as "debug" or "WARN" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogError, nil
	case "warn", "warning":
		return LogWarn, nil
	case "", "info":
		return LogInfo, nil
	case "debug":
		return LogDebug, nil
	default:
		return LogInfo, NewError(ErrCodeInvalidConfig, fmt.Sprintf("unknown log level %q", s), nil)
	}
}

// Logger is the leveled printf-style logger used across the optimizer.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger writes "[LEVEL] message" lines to an io.Writer. With
// timestamps on, each line starts with the local wall-clock time.
type DefaultLogger struct {
	mu         sync.Mutex
	level      LogLevel
	output     io.Writer
	timestamps bool
	now        func() time.Time
}

// NewDefaultLogger creates a logger writing to stderr, leaving stdout to reports.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return NewDefaultLoggerWithOutput(level, os.Stderr)
}

// NewDefaultLoggerWithOutput creates a logger writing to output.
func NewDefaultLoggerWithOutput(level LogLevel, output io.Writer) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		output: output,
		now:    time.Now,
	}
}

// SetLevel changes the minimum level that is written.
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current level.
func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetTimestamps turns the time prefix on or off.
func (l *DefaultLogger) SetTimestamps(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = on
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) { l.logf(LogDebug, format, args...) }
func (l *DefaultLogger) Info(format string, args ...interface{})  { l.logf(LogInfo, format, args...) }
func (l *DefaultLogger) Warn(format string, args ...interface{})  { l.logf(LogWarn, format, args...) }
func (l *DefaultLogger) Error(format string, args ...interface{}) { l.logf(LogError, format, args...) }

func (l *DefaultLogger) logf(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}
	message := fmt.Sprintf(format, args...)
	if l.timestamps {
		fmt.Fprintf(l.output, "%s [%s] %s\n", l.now().Format(timestampLayout), level, message)
		return
	}
	fmt.Fprintf(l.output, "[%s] %s\n", level, message)
}

const timestampLayout = "2006-01-02 15:04:05.000"

// PrefixLogger prepends a fixed tag to every message of the wrapped Logger.
type PrefixLogger struct {
	Logger
	prefix string
}

// WithPrefix wraps l so every message starts with prefix. A "%" in prefix is
// written literally.
func WithPrefix(l Logger, prefix string) *PrefixLogger {
	return &PrefixLogger{Logger: l, prefix: strings.ReplaceAll(prefix, "%", "%%")}
}

func (p *PrefixLogger) Debug(format string, args ...interface{}) {
	p.Logger.Debug(p.prefix+format, args...)
}

func (p *PrefixLogger) Info(format string, args ...interface{}) {
	p.Logger.Info(p.prefix+format, args...)
}

func (p *PrefixLogger) Warn(format string, args ...interface{}) {
	p.Logger.Warn(p.prefix+format, args...)
}

func (p *PrefixLogger) Error(format string, args ...interface{}) {
	p.Logger.Error(p.prefix+format, args...)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards everything.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(format string, args ...interface{}) {}
func (l *NoOpLogger) Info(format string, args ...interface{})  {}
func (l *NoOpLogger) Warn(format string, args ...interface{})  {}
func (l *NoOpLogger) Error(format string, args ...interface{}) {}
func (l *NoOpLogger) SetLevel(level LogLevel)                  {}
func (l *NoOpLogger) GetLevel() LogLevel                       { return LogInfo }
