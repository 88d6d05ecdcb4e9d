package versioned

import "time"

// LogEvent describes a single store or context operation.
type LogEvent struct {
	Op       string
	ObjectID ObjectID
	Property PropertyKey
	Version  Version
	Layer    Layer
	Duration time.Duration
	Err      error
}

// Logger records session events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a logger to the session.
func WithLogger(logger Logger) Option {
	return func(cfg *sessionConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

const (
	OpOpen         = "open"
	OpRelease      = "release"
	OpWrite        = "write"
	OpRead         = "read"
	OpEvaluate     = "evaluate"
	OpActivityHook = "activity"
)
