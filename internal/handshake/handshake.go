// Package handshake drives the two-message Noise_NNpsk0_25519_ChaChaPoly_SHA256
// pattern (psk, e / e, ee) on top of internal/noisecrypto's symmetric
// state machine, producing the pair of transport CipherStates the
// session uses once the handshake completes.
package handshake

import (
	crand "crypto/rand"
	"errors"
	"io"

	"github.com/esphome-go/client/internal/noisecrypto"
)

// ProtocolName seeds the symmetric state per the Noise spec.
const ProtocolName = "Noise_NNpsk0_25519_ChaChaPoly_SHA256"

// Prologue is the ESPHome-specific bytes mixed into the handshake hash
// before the first message of every handshake. Any deviation — on
// either side — causes the second handshake message to fail AEAD
// verification rather than failing visibly on the first message.
var Prologue = []byte("NoiseAPIInit\x00\x00")

// ErrMalformedMessage is returned when a handshake message is too
// short to contain an ephemeral public key and an encrypted payload.
var ErrMalformedMessage = errors.New("handshake: malformed message")

// ErrWrongRole is returned when a Write/Read method is called on the
// side that doesn't send/receive that handshake message.
var ErrWrongRole = errors.New("handshake: method not valid for this role")

// ErrIncomplete is returned by Split before both handshake messages
// have been processed.
var ErrIncomplete = errors.New("handshake: not complete")

// Role distinguishes which side of NNpsk0 a State drives.
type Role int

const (
	Initiator Role = iota
	Responder
)

const ephemeralMessageLen = noisecrypto.KeyLen + noisecrypto.TagLen

// State drives one handshake attempt. It is single-use: construct a
// fresh State per connection attempt.
type State struct {
	role Role
	rand io.Reader
	sym  *noisecrypto.SymmetricState
	psk  [32]byte

	localEphPriv  [32]byte
	localEphPub   [32]byte
	remoteEphPub  [32]byte
	haveRemoteEph bool
	msg1Done      bool
	msg2Done      bool
}

// New creates a handshake state for the given role and pre-shared key.
// rand defaults to crypto/rand.Reader when nil.
func New(role Role, psk [32]byte, rand io.Reader) *State {
	if rand == nil {
		rand = crand.Reader
	}
	sym := noisecrypto.InitializeSymmetric([]byte(ProtocolName))
	sym.MixHash(Prologue)
	return &State{role: role, rand: rand, sym: sym, psk: psk}
}

// WriteMessage1 builds the initiator's "psk, e" message: the raw
// ephemeral public key followed by an encrypted (empty) payload.
func (s *State) WriteMessage1() ([]byte, error) {
	if s.role != Initiator {
		return nil, ErrWrongRole
	}
	s.sym.MixKeyAndHash(s.psk[:])

	priv, pub, err := noisecrypto.GenerateKeypair(s.rand)
	if err != nil {
		return nil, err
	}
	s.localEphPriv, s.localEphPub = priv, pub

	s.sym.MixHash(pub[:])
	s.sym.MixKey(pub[:])

	out := make([]byte, 0, ephemeralMessageLen)
	out = append(out, pub[:]...)
	out, err = s.sym.EncryptAndHash(out, nil)
	if err != nil {
		return nil, err
	}
	s.msg1Done = true
	return out, nil
}

// ReadMessage1 consumes the initiator's "psk, e" message on the
// responder side.
func (s *State) ReadMessage1(msg []byte) error {
	if s.role != Responder {
		return ErrWrongRole
	}
	if len(msg) < ephemeralMessageLen {
		return ErrMalformedMessage
	}
	var re [32]byte
	copy(re[:], msg[:32])
	rest := msg[32:]

	s.sym.MixKeyAndHash(s.psk[:])
	s.remoteEphPub = re
	s.haveRemoteEph = true
	s.sym.MixHash(re[:])
	s.sym.MixKey(re[:])

	if _, err := s.sym.DecryptAndHash(nil, rest); err != nil {
		return err
	}
	s.msg1Done = true
	return nil
}

// WriteMessage2 builds the responder's "e, ee" message.
func (s *State) WriteMessage2() ([]byte, error) {
	if s.role != Responder {
		return nil, ErrWrongRole
	}
	if !s.msg1Done || !s.haveRemoteEph {
		return nil, ErrIncomplete
	}

	priv, pub, err := noisecrypto.GenerateKeypair(s.rand)
	if err != nil {
		return nil, err
	}
	s.localEphPriv, s.localEphPub = priv, pub

	s.sym.MixHash(pub[:])
	s.sym.MixKey(pub[:])

	dh, err := noisecrypto.DH(priv, s.remoteEphPub)
	if err != nil {
		return nil, err
	}
	s.sym.MixKey(dh[:])

	out := make([]byte, 0, ephemeralMessageLen)
	out = append(out, pub[:]...)
	out, err = s.sym.EncryptAndHash(out, nil)
	if err != nil {
		return nil, err
	}
	s.msg2Done = true
	return out, nil
}

// ReadMessage2 consumes the responder's "e, ee" message on the
// initiator side.
func (s *State) ReadMessage2(msg []byte) error {
	if s.role != Initiator {
		return ErrWrongRole
	}
	if !s.msg1Done {
		return ErrIncomplete
	}
	if len(msg) < ephemeralMessageLen {
		return ErrMalformedMessage
	}
	var re [32]byte
	copy(re[:], msg[:32])
	rest := msg[32:]

	s.remoteEphPub = re
	s.haveRemoteEph = true
	s.sym.MixHash(re[:])
	s.sym.MixKey(re[:])

	dh, err := noisecrypto.DH(s.localEphPriv, re)
	if err != nil {
		return err
	}
	s.sym.MixKey(dh[:])

	if _, err := s.sym.DecryptAndHash(nil, rest); err != nil {
		return err
	}
	s.msg2Done = true
	return nil
}

// Split finalizes the handshake, returning the send and receive
// CipherStates for this side. The initiator keeps the symmetric
// state's first output as send and second as receive; the responder
// mirrors this (first as receive, second as send) so both sides agree
// on direction.
func (s *State) Split() (send, recv *noisecrypto.CipherState, err error) {
	if !s.msg1Done || !s.msg2Done {
		return nil, nil, ErrIncomplete
	}
	c1, c2 := s.sym.Split()
	if s.role == Initiator {
		return c1, c2, nil
	}
	return c2, c1, nil
}

// HandshakeHash exposes the final h value, mainly for tests verifying
// both sides converge (spec.md §8 round-trip property).
func (s *State) HandshakeHash() [noisecrypto.HashLen]byte {
	return s.sym.Hash()
}
