package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Fields map[string]interface{}

// Level orders log severities; messages below the configured level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	std      = log.New(os.Stderr, "", log.LstdFlags)
)

// SetOutput redirects log lines, mostly for tests. nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.SetOutput(w)
}

// SetLevel parses a level name (debug, info, warn, error). Unknown names keep info.
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		minLevel = LevelDebug
	case "warn", "warning":
		minLevel = LevelWarn
	case "error":
		minLevel = LevelError
	default:
		minLevel = LevelInfo
	}
}

func output(lvl Level, level, msg string, fields Fields) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < minLevel {
		return
	}
	out := make(Fields, len(fields)+3)
	for k, v := range fields {
		out[k] = v
	}
	out["level"] = level
	out["ts"] = time.Now().UTC().Format(time.RFC3339)
	out["msg"] = msg
	b, err := json.Marshal(out)
	if err != nil {
		// fallback to plain logging
		std.Printf("%s: %s (%v)\n", level, msg, fields)
		return
	}
	std.Println(string(b))
}

// Debug logs verbose diagnostics that are off by default.
func Debug(msg string, fields Fields) {
	output(LevelDebug, "debug", msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(LevelInfo, "info", msg, fields)
}

// Warn logs a recoverable problem, such as a skipped effect.
func Warn(msg string, fields Fields) {
	output(LevelWarn, "warn", msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(LevelError, "error", msg, withError(fields, err))
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output(LevelError, "fatal", msg, withError(fields, err))
	os.Exit(1)
}

func withError(fields Fields, err error) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
