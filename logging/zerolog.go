package logging

import "github.com/rs/zerolog"

// NewZerolog adapts a zerolog.Logger to the Logger interface, the
// default sink used by cmd/espclient-cli and available to any caller
// that wants structured, leveled output instead of Discard().
func NewZerolog(l zerolog.Logger) Logger {
	return zerologLogger{l}
}

type zerologLogger struct{ l zerolog.Logger }

func (z zerologLogger) Debug() Event { return zerologEvent{z.l.Debug()} }
func (z zerologLogger) Info() Event  { return zerologEvent{z.l.Info()} }
func (z zerologLogger) Warn() Event  { return zerologEvent{z.l.Warn()} }
func (z zerologLogger) Error() Event { return zerologEvent{z.l.Error()} }

type zerologEvent struct{ e *zerolog.Event }

func (z zerologEvent) Str(key, val string) Event {
	z.e.Str(key, val)
	return z
}

func (z zerologEvent) Int(key string, val int) Event {
	z.e.Int(key, val)
	return z
}

func (z zerologEvent) Uint32(key string, val uint32) Event {
	z.e.Uint32(key, val)
	return z
}

func (z zerologEvent) Bool(key string, val bool) Event {
	z.e.Bool(key, val)
	return z
}

func (z zerologEvent) Err(err error) Event {
	z.e.Err(err)
	return z
}

func (z zerologEvent) Msg(msg string) { z.e.Msg(msg) }

func (z zerologEvent) Msgf(format string, v ...interface{}) { z.e.Msgf(format, v...) }
