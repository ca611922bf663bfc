package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDiscardDoesNotPanic(t *testing.T) {
	l := Discard()
	l.Info().Str("k", "v").Int("n", 1).Bool("b", true).Err(nil).Msg("noop")
}

func TestZerologAdapterWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := NewZerolog(zl)

	l.Info().Str("device", "kitchen").Uint32("key", 7).Msg("connected")

	out := buf.String()
	require.Contains(t, out, "kitchen")
	require.Contains(t, out, "connected")
}
