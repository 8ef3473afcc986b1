// Package ports defines the interfaces the render pipeline consumes:
// storage, render surface, block decoder, filesystem, memory probe and
// logger. Implementations live under pkg/adapters.
package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-decode internals (scale plans, timings).
	LevelDebug LogLevel = iota
	// LevelInfo is for decode lifecycle messages.
	LevelInfo
	// LevelWarn is for degraded-but-continuing conditions, such as a
	// failed cache allocation.
	LevelWarn
	// LevelError is for failures that abort a decode.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown strings map to
// LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations.
type Logger interface {
	// Debug logs a debug message with optional format arguments.
	Debug(msg string, args ...interface{})

	// Info logs an informational message with optional format arguments.
	Info(msg string, args ...interface{})

	// Warn logs a warning message with optional format arguments.
	Warn(msg string, args ...interface{})

	// Error logs an error message with optional format arguments.
	Error(msg string, args ...interface{})

	// WithComponent returns a new Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}
