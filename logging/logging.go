// Package logging abstracts the logging interface the session and CLI
// depend on, so callers can supply their own sink without this module
// committing them to zerolog's API. It's grounded directly on the
// Logger/Event interface pair from cmd/webclient/logger_api.go, trimmed
// to the subset the session actually calls.
package logging

// Logger is implemented by anything that can produce log Events at each
// of the four severities the session emits.
type Logger interface {
	Debug() Event
	Info() Event
	Warn() Event
	Error() Event
}

// Event is a single in-flight log line, built up with chained key/value
// calls and emitted by Msg or Msgf.
type Event interface {
	Str(key, val string) Event
	Int(key string, val int) Event
	Uint32(key string, val uint32) Event
	Bool(key string, val bool) Event
	Err(err error) Event
	Msg(msg string)
	Msgf(format string, v ...interface{})
}

// Discard returns a Logger whose Events are no-ops, the default when a
// Config doesn't supply one.
func Discard() Logger { return discardLogger{} }

type discardLogger struct{}

func (discardLogger) Debug() Event { return discardEvent{} }
func (discardLogger) Info() Event  { return discardEvent{} }
func (discardLogger) Warn() Event  { return discardEvent{} }
func (discardLogger) Error() Event { return discardEvent{} }

type discardEvent struct{}

func (discardEvent) Str(string, string) Event       { return discardEvent{} }
func (discardEvent) Int(string, int) Event          { return discardEvent{} }
func (discardEvent) Uint32(string, uint32) Event     { return discardEvent{} }
func (discardEvent) Bool(string, bool) Event        { return discardEvent{} }
func (discardEvent) Err(error) Event                { return discardEvent{} }
func (discardEvent) Msg(string)                     {}
func (discardEvent) Msgf(string, ...interface{})    {}
