package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug adds V(1) records.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn keeps only error records; logr has no warning severity.
	LogLevelWarn
	// LogLevelError keeps only error records.
	LogLevelError
	// LogLevelOff discards everything.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names give LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "off", "none":
		return LogLevelOff
	default:
		return LogLevelInfo
	}
}

// NewLogger returns a logger writing one line per record to w. A nil writer
// or LogLevelOff discards everything.
func NewLogger(level LogLevel, w io.Writer) logr.Logger {
	if w == nil || level >= LogLevelOff {
		return logr.Discard()
	}
	var mu sync.Mutex
	write := func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}
	verbosity := 0
	if level == LogLevelDebug {
		verbosity = 1
	}
	base := funcr.New(write, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "2006-01-02T15:04:05.000",
		Verbosity:       verbosity,
	})
	if level <= LogLevelInfo {
		return base
	}
	return logr.New(errorsOnly{base.GetSink()})
}

// errorsOnly drops every Info record of the wrapped sink.
type errorsOnly struct {
	logr.LogSink
}

func (errorsOnly) Enabled(int) bool { return false }

func (s errorsOnly) WithValues(kv ...any) logr.LogSink {
	return errorsOnly{s.LogSink.WithValues(kv...)}
}

func (s errorsOnly) WithName(name string) logr.LogSink {
	return errorsOnly{s.LogSink.WithName(name)}
}

// OpenLog opens path for appending log records.
func OpenLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, NewOperationError("open log", path, err)
	}
	return f, nil
}
