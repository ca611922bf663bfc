package frame

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"
	"testing/iotest"

	"github.com/esphome-go/client/internal/noisecrypto"
	"github.com/stretchr/testify/require"
)

func TestPlaintextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlaintextWriter(&buf)
	require.NoError(t, w.WriteFrame(Frame{Type: 1, Body: nil}))
	require.NoError(t, w.WriteFrame(Frame{Type: 42, Body: []byte("hello")}))

	r := NewPlaintextReader(&buf, 0)
	f1, err := r.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, Frame{Type: 1, Body: []byte{}}, f1)

	f2, err := r.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, Frame{Type: 42, Body: []byte("hello")}, f2)
}

func TestPlaintextReaderRejectsEncryptionIndicator(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x01, 0x00, 0x00})
	r := NewPlaintextReader(buf, 0)
	_, err := r.ReadFrame()
	require.ErrorIs(t, err, ErrEncryptionRequired)
}

func TestPlaintextReaderOversizeFrame(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlaintextWriter(&buf)
	require.NoError(t, w.WriteFrame(Frame{Type: 1, Body: make([]byte, 100)}))

	r := NewPlaintextReader(&buf, 10)
	_, err := r.ReadFrame()
	require.ErrorIs(t, err, ErrOversizeFrame)
}

func TestPlaintextReaderPartialDelivery(t *testing.T) {
	var encoded bytes.Buffer
	w := NewPlaintextWriter(&encoded)
	require.NoError(t, w.WriteFrame(Frame{Type: 7, Body: []byte("partial delivery body")}))

	full := encoded.Bytes()
	pr, pw := newByteAtATimePipe(full)
	go pw()

	r := NewPlaintextReader(pr, 0)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, uint32(7), f.Type)
	require.Equal(t, "partial delivery body", string(f.Body))
}

func newByteAtATimePipe(data []byte) (io.Reader, func()) {
	// Every Read returns at most one byte, the way a slow net.Conn can,
	// so the reader must not assume a single Read call fills its buffer.
	return iotest.OneByteReader(bytes.NewReader(data)), func() {}
}

func pairedCiphers(t *testing.T) (send, recv *noisecrypto.CipherState) {
	t.Helper()
	var key [noisecrypto.KeyLen]byte
	_, err := rand.Read(key[:])
	require.NoError(t, err)
	send = &noisecrypto.CipherState{}
	recv = &noisecrypto.CipherState{}
	send.InitializeKey(key)
	recv.InitializeKey(key)
	return send, recv
}

func TestNoiseRoundTrip(t *testing.T) {
	send, recv := pairedCiphers(t)
	var buf bytes.Buffer
	w := NewNoiseWriter(&buf, send)
	require.NoError(t, w.WriteFrame(Frame{Type: 3, Body: []byte("device info")}))

	r := NewNoiseReader(&buf, recv, 0)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, Frame{Type: 3, Body: []byte("device info")}, f)
}

func TestNoiseReaderRejectsPlaintextIndicator(t *testing.T) {
	_, recv := pairedCiphers(t)
	buf := bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x00})
	r := NewNoiseReader(buf, recv, 0)
	_, err := r.ReadFrame()
	require.ErrorIs(t, err, ErrEncryptionMismatch)
}

func TestNoiseReaderOversizeCiphertext(t *testing.T) {
	send, recv := pairedCiphers(t)
	var buf bytes.Buffer
	w := NewNoiseWriter(&buf, send)
	require.NoError(t, w.WriteFrame(Frame{Type: 1, Body: make([]byte, 1000)}))

	r := NewNoiseReader(&buf, recv, 100)
	_, err := r.ReadFrame()
	require.ErrorIs(t, err, ErrOversizeFrame)
}

func TestNoiseReaderCorruptCiphertextFails(t *testing.T) {
	send, recv := pairedCiphers(t)
	var buf bytes.Buffer
	w := NewNoiseWriter(&buf, send)
	require.NoError(t, w.WriteFrame(Frame{Type: 1, Body: []byte("x")}))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	r := NewNoiseReader(bytes.NewBuffer(corrupted), recv, 0)
	_, err := r.ReadFrame()
	require.Error(t, err)
}

func TestBadIndicatorByte(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x7f, 0x00})
	_, err := NewPlaintextReader(buf, 0).ReadFrame()
	require.ErrorIs(t, err, ErrBadIndicator)
}
