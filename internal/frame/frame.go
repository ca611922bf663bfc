// Package frame implements the ESPHome native API's two on-wire framings:
// plaintext (0x00 indicator, varint length, varint message type, body) and
// Noise-encrypted (big-endian uint16 size, ciphertext whose plaintext is a
// 2-byte BE type and 2-byte BE length followed by body). It is grounded on
// the length-prefixed read/write helpers in cryptoops/handshaker.go, kept
// as two Reader/Writer pairs instead of one SecureConnection since a
// session uses one framing for its whole life: plaintext without a PSK,
// and with a PSK the 0x01 envelope from the first handshake message on.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/esphome-go/client/internal/noisecrypto"
	"github.com/esphome-go/client/internal/wire"
)

// Default oversize limits from spec.md §5. Sessions may override these.
const (
	DefaultMaxPlaintextFrame = 1 << 20  // 1 MiB
	DefaultMaxCiphertextSize = 16 << 20 // 16 MiB
)

const (
	plaintextIndicator = 0x00
	noiseIndicator     = 0x01
)

var (
	// ErrEncryptionRequired is returned when a connection advertises
	// Noise (0x01) framing but the session has no PSK configured.
	ErrEncryptionRequired = errors.New("frame: device requires encryption but no pre-shared key was configured")
	// ErrEncryptionMismatch is returned when a connection advertises
	// plaintext (0x00) framing but the session was configured with a PSK.
	ErrEncryptionMismatch = errors.New("frame: pre-shared key configured but device sent a plaintext indicator")
	// ErrOversizeFrame is returned when a frame's declared length
	// exceeds the configured maximum.
	ErrOversizeFrame = errors.New("frame: declared length exceeds maximum")
	// ErrBadIndicator is returned for a leading byte that is neither
	// 0x00 nor 0x01.
	ErrBadIndicator = errors.New("frame: unrecognized indicator byte")
	// ErrTruncatedCiphertext is returned when a Noise frame's declared
	// plaintext size doesn't match the recovered plaintext's embedded
	// length header.
	ErrTruncatedCiphertext = errors.New("frame: ciphertext decrypts to an inconsistent length header")
)

// Frame is one decoded application message: its numeric type and body.
type Frame struct {
	Type uint32
	Body []byte
}

// PlaintextReader decodes 0x00-indicator frames directly off a connection.
type PlaintextReader struct {
	r       io.Reader
	maxSize int
}

// NewPlaintextReader wraps r. maxSize <= 0 uses DefaultMaxPlaintextFrame.
func NewPlaintextReader(r io.Reader, maxSize int) *PlaintextReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxPlaintextFrame
	}
	return &PlaintextReader{r: r, maxSize: maxSize}
}

// ReadFrame blocks until one full plaintext frame has been read, checking
// the leading indicator byte against what the session expects.
func (p *PlaintextReader) ReadFrame() (Frame, error) {
	var indicator [1]byte
	if _, err := io.ReadFull(p.r, indicator[:]); err != nil {
		return Frame{}, err
	}
	switch indicator[0] {
	case plaintextIndicator:
	case noiseIndicator:
		return Frame{}, ErrEncryptionRequired
	default:
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrBadIndicator, indicator[0])
	}

	length, err := readVarintFrom(p.r)
	if err != nil {
		return Frame{}, err
	}
	if length > uint64(p.maxSize) {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrOversizeFrame, length, p.maxSize)
	}
	msgType, err := readVarintFrom(p.r)
	if err != nil {
		return Frame{}, err
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(p.r, body); err != nil {
		return Frame{}, err
	}
	return Frame{Type: uint32(msgType), Body: body}, nil
}

// PlaintextWriter encodes frames with the 0x00 indicator.
type PlaintextWriter struct {
	w io.Writer
}

func NewPlaintextWriter(w io.Writer) *PlaintextWriter { return &PlaintextWriter{w: w} }

func (p *PlaintextWriter) WriteFrame(f Frame) error {
	out := make([]byte, 0, 1+10+10+len(f.Body))
	out = append(out, plaintextIndicator)
	out = wire.AppendVarint(out, uint64(len(f.Body)))
	out = wire.AppendVarint(out, uint64(f.Type))
	out = append(out, f.Body...)
	_, err := p.w.Write(out)
	return err
}

// NoiseReader decodes 0x01-indicator frames, decrypting each with recv.
type NoiseReader struct {
	r       io.Reader
	recv    *noisecrypto.CipherState
	maxSize int
}

func NewNoiseReader(r io.Reader, recv *noisecrypto.CipherState, maxSize int) *NoiseReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxCiphertextSize
	}
	return &NoiseReader{r: r, recv: recv, maxSize: maxSize}
}

func (n *NoiseReader) ReadFrame() (Frame, error) {
	var indicator [1]byte
	if _, err := io.ReadFull(n.r, indicator[:]); err != nil {
		return Frame{}, err
	}
	switch indicator[0] {
	case noiseIndicator:
	case plaintextIndicator:
		return Frame{}, ErrEncryptionMismatch
	default:
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrBadIndicator, indicator[0])
	}

	var sizeBuf [2]byte
	if _, err := io.ReadFull(n.r, sizeBuf[:]); err != nil {
		return Frame{}, err
	}
	size := binary.BigEndian.Uint16(sizeBuf[:])
	if int(size) > n.maxSize {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrOversizeFrame, size, n.maxSize)
	}

	ciphertext := make([]byte, size)
	if _, err := io.ReadFull(n.r, ciphertext); err != nil {
		return Frame{}, err
	}

	plaintext, err := n.recv.Decrypt(nil, nil, ciphertext)
	if err != nil {
		return Frame{}, err
	}
	if len(plaintext) < 4 {
		return Frame{}, ErrTruncatedCiphertext
	}
	msgType := binary.BigEndian.Uint16(plaintext[0:2])
	payloadLen := binary.BigEndian.Uint16(plaintext[2:4])
	if int(payloadLen) != len(plaintext)-4 {
		return Frame{}, ErrTruncatedCiphertext
	}
	return Frame{Type: uint32(msgType), Body: plaintext[4:]}, nil
}

// NoiseWriter encrypts frames with send and wraps them with the 0x01
// indicator and a big-endian uint16 ciphertext size.
type NoiseWriter struct {
	w    io.Writer
	send *noisecrypto.CipherState
}

func NewNoiseWriter(w io.Writer, send *noisecrypto.CipherState) *NoiseWriter {
	return &NoiseWriter{w: w, send: send}
}

func (n *NoiseWriter) WriteFrame(f Frame) error {
	if len(f.Body) > 1<<16-1 {
		return fmt.Errorf("%w: plaintext body %d bytes", ErrOversizeFrame, len(f.Body))
	}
	plaintext := make([]byte, 4, 4+len(f.Body))
	binary.BigEndian.PutUint16(plaintext[0:2], uint16(f.Type))
	binary.BigEndian.PutUint16(plaintext[2:4], uint16(len(f.Body)))
	plaintext = append(plaintext, f.Body...)

	ciphertext, err := n.send.Encrypt(nil, nil, plaintext)
	if err != nil {
		return err
	}
	if len(ciphertext) > 1<<16-1 {
		return fmt.Errorf("%w: ciphertext %d bytes", ErrOversizeFrame, len(ciphertext))
	}

	out := make([]byte, 0, 3+len(ciphertext))
	out = append(out, noiseIndicator)
	out = binary.BigEndian.AppendUint16(out, uint16(len(ciphertext)))
	out = append(out, ciphertext...)
	_, werr := n.w.Write(out)
	return werr
}

// WriteHandshakeMessage writes one raw Noise handshake message (not yet
// run through a CipherState) with the same 0x01-indicator, uint16-size
// framing transport frames use, grounded on writeLengthPrefixed in
// cryptoops/handshaker.go.
func WriteHandshakeMessage(w io.Writer, payload []byte) error {
	if len(payload) > 1<<16-1 {
		return fmt.Errorf("%w: handshake message %d bytes", ErrOversizeFrame, len(payload))
	}
	out := make([]byte, 0, 3+len(payload))
	out = append(out, noiseIndicator)
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)))
	out = append(out, payload...)
	_, err := w.Write(out)
	return err
}

// ReadHandshakeMessage reads one raw Noise handshake message, checking
// the leading indicator against what a PSK-configured session expects
// (0x01) and surfacing ErrEncryptionMismatch if the device answered in
// plaintext instead.
func ReadHandshakeMessage(r io.Reader, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxCiphertextSize
	}
	var indicator [1]byte
	if _, err := io.ReadFull(r, indicator[:]); err != nil {
		return nil, err
	}
	switch indicator[0] {
	case noiseIndicator:
	case plaintextIndicator:
		return nil, ErrEncryptionMismatch
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadIndicator, indicator[0])
	}

	var sizeBuf [2]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint16(sizeBuf[:])
	if int(size) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrOversizeFrame, size, maxSize)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func readVarintFrom(r io.Reader) (uint64, error) {
	var result uint64
	var shift uint
	var b [1]byte
	for i := 0; i < 10; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, wire.ErrVarintOverflow
}
