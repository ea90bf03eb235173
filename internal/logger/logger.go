// Package logger is a small leveled logger with key/value fields. Entries go
// to a rotating file, and optionally to stderr, as text or JSON lines.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the string representation of the log level
func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a level name, in any case, to a Level. Unknown names
// mean INFO.
func ParseLevel(s string) Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i)
		}
	}
	if s == "WARNING" {
		return WARN
	}
	return INFO
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Err is a shorthand for an "error" field
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Config holds logger configuration
type Config struct {
	Level      Level  // Minimum log level
	FilePath   string // Path to log file, empty for none
	MaxSize    int64  // Rotate once the file reaches this many bytes
	MaxAge     int    // Rotate once the file is older than this many days
	MaxBackups int    // Rotated files to keep
	Console    bool   // Also write to stderr
	JSON       bool   // One JSON object per line instead of text

	// Output receives entries in addition to the file and console, if set
	Output io.Writer
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		Level:      INFO,
		FilePath:   filepath.Join(home, ".weektrack", "logs", "weektrack.log"),
		MaxSize:    10 * 1024 * 1024,
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // stderr would draw over the TUI
	}
}

// Logger writes entries with a fixed set of preset fields. Loggers derived
// with WithFields share their parent's outputs.
type Logger struct {
	core    *core
	fields  []Field
	derived bool
}

var (
	global atomic.Pointer[core]
	once   sync.Once
)

// Init initializes the global logger. Only the first call has any effect.
func Init(config Config) error {
	var err error
	once.Do(func() {
		var c *core
		c, err = newCore(config)
		if err == nil {
			global.Store(c)
		}
	})
	return err
}

// New creates a standalone logger
func New(config Config) (*Logger, error) {
	c, err := newCore(config)
	if err != nil {
		return nil, err
	}
	return &Logger{core: c}, nil
}

// target resolves the outputs. Loggers derived from the package-level
// WithFields follow the global logger, even if it is initialized later.
func (l *Logger) target() *core {
	if l == nil {
		return nil
	}
	if l.core != nil {
		return l.core
	}
	return global.Load()
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	c := l.target()
	if c == nil || level < c.config.Level {
		return
	}

	// Skip log and the exported wrapper
	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	all := fields
	if len(l.fields) > 0 {
		all = make([]Field, 0, len(l.fields)+len(fields))
		all = append(all, l.fields...)
		all = append(all, fields...)
	}

	var entry []byte
	if c.config.JSON {
		entry = formatJSON(time.Now(), level, caller, msg, all)
	} else {
		entry = formatText(time.Now(), level, caller, msg, all)
	}
	c.write(entry)
}

func formatText(ts time.Time, level Level, caller, msg string, fields []Field) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s", ts.Format("2006-01-02 15:04:05.000"), level, caller, msg)
	if len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func formatJSON(ts time.Time, level Level, caller, msg string, fields []Field) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, `{"time":%q,"level":%q,"caller":%q,"msg":%s`,
		ts.Format(time.RFC3339Nano), level.String(), caller, jsonValue(msg))
	for _, f := range fields {
		fmt.Fprintf(&b, ",%s:%s", jsonValue(f.Key), jsonValue(f.Value))
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func jsonValue(v interface{}) string {
	switch x := v.(type) {
	case error:
		v = x.Error()
	case fmt.Stringer:
		v = x.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	return string(data)
}

// WithFields returns a logger that adds fields to every entry
func (l *Logger) WithFields(fields ...Field) *Logger {
	child := &Logger{fields: make([]Field, 0, len(fields)), derived: true}
	if l != nil {
		child.core = l.core
		child.fields = append(child.fields, l.fields...)
	}
	child.fields = append(child.fields, fields...)
	return child
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the log file of a standalone logger. Derived loggers share
// their parent's file and do nothing.
func (l *Logger) Close() error {
	if l == nil || l.core == nil || l.derived {
		return nil
	}
	return l.core.close()
}

// std is the zero Logger, bound to the global outputs
var std = &Logger{}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	std.log(DEBUG, msg, fields)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	std.log(INFO, msg, fields)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	std.log(WARN, msg, fields)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	std.log(ERROR, msg, fields)
}

// WithFields returns a logger bound to the global outputs with preset fields.
// It is safe to call before Init.
func WithFields(fields ...Field) *Logger {
	return std.WithFields(fields...)
}

// Close closes the global log file
func Close() error {
	if c := global.Load(); c != nil {
		return c.close()
	}
	return nil
}
