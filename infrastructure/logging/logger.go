// Package logging is the solver's structured logger, a thin layer over
// bolt with descent-specific fields.
//
// Log calls chain fields and end with Msg:
//
//	logging.Info().Add(logging.RunID(id)).Add(logging.Step(n)).Msg("descent step")
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	defaultLogger *bolt.Logger
	once          sync.Once
)

// Config selects level, format and destination.
type Config struct {
	// Level is one of trace, debug, info, warn or error.
	Level string

	// Format is json or console.
	Format string

	Output io.Writer
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

var levels = map[string]bolt.Level{
	"trace": bolt.TRACE,
	"debug": bolt.DEBUG,
	"info":  bolt.INFO,
	"warn":  bolt.WARN,
	"error": bolt.ERROR,
}

// parseLevel falls back to info for unknown names.
func parseLevel(s string) bolt.Level {
	if l, ok := levels[s]; ok {
		return l
	}
	return bolt.INFO
}

// New builds a logger without touching the default one.
func New(config Config) *bolt.Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	var handler bolt.Handler = bolt.NewConsoleHandler(out)
	if config.Format == "json" {
		handler = bolt.NewJSONHandler(out)
	}
	return bolt.New(handler).SetLevel(parseLevel(config.Level))
}

// Init sets the default logger. Later calls are ignored; use SetLevel to
// adjust verbosity afterwards.
func Init(config Config) {
	once.Do(func() {
		defaultLogger = New(config)
	})
}

// Get returns the default logger, creating it from DefaultConfig if Init
// was never called.
func Get() *bolt.Logger {
	Init(DefaultConfig())
	return defaultLogger
}

// SetLevel changes the level of the default logger.
func SetLevel(level string) {
	Get().SetLevel(parseLevel(level))
}

// LogEvent is a pending log line that accepts Fields.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt event.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies f and returns the event for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg writes the line with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Send writes the line without a message.
func (l *LogEvent) Send() {
	l.event.Send()
}

func Trace() *LogEvent { return NewEvent(Get().Trace()) }
func Debug() *LogEvent { return NewEvent(Get().Debug()) }
func Info() *LogEvent  { return NewEvent(Get().Info()) }
func Warn() *LogEvent  { return NewEvent(Get().Warn()) }
func Error() *LogEvent { return NewEvent(Get().Error()) }
