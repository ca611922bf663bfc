package noisecrypto

// SymmetricState tracks the running handshake hash h, chaining key ck,
// and the CipherState used while a Noise handshake is in progress. Its
// method set (MixHash, MixKey, MixKeyAndHash, EncryptAndHash,
// DecryptAndHash, Split) is the textbook Noise symmetric-state machine,
// grounded on the reference flynn/noise symmetricState implementation
// retrieved alongside this spec: the same HKDF fan-out for MixKey (2
// outputs) and MixKeyAndHash (3 outputs, the second mixed into h), and
// the same Split() producing two fresh CipherStates from ck.
type SymmetricState struct {
	h    [HashLen]byte
	ck   [HashLen]byte
	ciph CipherState
}

// InitializeSymmetric seeds h from protocolName (hashed if longer than
// HASHLEN, else zero-padded on the right) and sets ck = h.
func InitializeSymmetric(protocolName []byte) *SymmetricState {
	s := &SymmetricState{}
	if len(protocolName) <= HashLen {
		copy(s.h[:], protocolName)
	} else {
		s.h = Hash(protocolName)
	}
	s.ck = s.h
	return s
}

// MixHash sets h = SHA256(h || data).
func (s *SymmetricState) MixHash(data []byte) {
	buf := make([]byte, 0, HashLen+len(data))
	buf = append(buf, s.h[:]...)
	buf = append(buf, data...)
	s.h = Hash(buf)
}

// MixKey derives a new chaining key and transport key from dhOutput:
// (ck, tempK) = HKDF(ck, dhOutput, 2), and installs tempK with nonce 0.
func (s *SymmetricState) MixKey(dhOutput []byte) {
	outs := HKDF(s.ck[:], dhOutput, 2)
	copy(s.ck[:], outs[0])
	var key [KeyLen]byte
	copy(key[:], outs[1])
	s.ciph.InitializeKey(key)
}

// MixKeyAndHash is used for the psk: HKDF(ck, ikm, 3) produces a new
// ck, a hash-mixed intermediate, and the new cipher key.
func (s *SymmetricState) MixKeyAndHash(ikm []byte) {
	outs := HKDF(s.ck[:], ikm, 3)
	copy(s.ck[:], outs[0])
	s.MixHash(outs[1])
	var key [KeyLen]byte
	copy(key[:], outs[2])
	s.ciph.InitializeKey(key)
}

// EncryptAndHash encrypts plaintext (if a key is set) with h as
// associated data and mixes the ciphertext into h; with no key it
// passes plaintext through unchanged and mixes the plaintext instead.
func (s *SymmetricState) EncryptAndHash(dst, plaintext []byte) ([]byte, error) {
	base := len(dst)
	out, err := s.ciph.Encrypt(dst, s.h[:], plaintext)
	if err != nil {
		return nil, err
	}
	s.MixHash(out[base:])
	return out, nil
}

// DecryptAndHash is EncryptAndHash's inverse. It mixes the ciphertext
// (not the recovered plaintext) into h, matching spec.md §4.3.
func (s *SymmetricState) DecryptAndHash(dst, ciphertext []byte) ([]byte, error) {
	out, err := s.ciph.Decrypt(dst, s.h[:], ciphertext)
	if err != nil {
		return nil, err
	}
	s.MixHash(ciphertext)
	return out, nil
}

// Split returns the two transport CipherStates derived from the final
// ck, one per direction, each keyed from HKDF(ck, empty, 2) with its
// own nonce starting at 0.
func (s *SymmetricState) Split() (c1, c2 *CipherState) {
	outs := HKDF(s.ck[:], nil, 2)
	c1, c2 = &CipherState{}, &CipherState{}
	var k1, k2 [KeyLen]byte
	copy(k1[:], outs[0])
	copy(k2[:], outs[1])
	c1.InitializeKey(k1)
	c2.InitializeKey(k2)
	return c1, c2
}

// Hash exposes the running handshake hash, mainly for tests asserting
// that both sides of a handshake converge on the same h (spec.md §8).
func (s *SymmetricState) Hash() [HashLen]byte {
	return s.h
}
