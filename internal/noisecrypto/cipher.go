package noisecrypto

import "errors"

// ErrNonceExhausted is returned once a CipherState's nonce counter
// would wrap past 2^64-1; per spec.md §3 the cipher state is then
// permanently invalid and a new handshake is required.
var ErrNonceExhausted = errors.New("noisecrypto: cipher state nonce exhausted")

// maxNonce reserves the top value (2^64-1) the way the reference Noise
// implementations do, rather than using it as one more valid nonce.
const maxNonce = ^uint64(0) - 1

// CipherState is Noise's (key, nonce) pair for one transport direction.
type CipherState struct {
	key       [KeyLen]byte
	hasKey    bool
	nonce     uint64
	exhausted bool
}

// InitializeKey installs key and resets the nonce counter to zero.
func (c *CipherState) InitializeKey(key [KeyLen]byte) {
	c.key = key
	c.hasKey = true
	c.nonce = 0
	c.exhausted = false
}

// HasKey reports whether a key has been installed yet.
func (c *CipherState) HasKey() bool {
	return c.hasKey
}

// Nonce returns the current nonce counter, for tests and diagnostics.
func (c *CipherState) Nonce() uint64 {
	return c.nonce
}

// Encrypt seals plaintext under the current key and nonce, appending
// the ciphertext+tag to dst, then increments the nonce. Every AEAD call
// increments the direction's nonce per spec.md §4.3.
func (c *CipherState) Encrypt(dst, ad, plaintext []byte) ([]byte, error) {
	if c.exhausted {
		return nil, ErrNonceExhausted
	}
	if !c.hasKey {
		return append(dst, plaintext...), nil
	}
	out, err := AEADEncrypt(dst, c.key[:], c.nonce, ad, plaintext)
	if err != nil {
		return nil, err
	}
	c.advance()
	return out, nil
}

// Decrypt opens ciphertext under the current key and nonce, appending
// the plaintext to dst, then increments the nonce. On AEAD failure the
// nonce is left untouched, matching the invariant that a forged
// ciphertext must not mutate the cipher state (spec.md §8 boundary
// behaviors).
func (c *CipherState) Decrypt(dst, ad, ciphertext []byte) ([]byte, error) {
	if c.exhausted {
		return nil, ErrNonceExhausted
	}
	if !c.hasKey {
		return append(dst, ciphertext...), nil
	}
	out, err := AEADDecrypt(dst, c.key[:], c.nonce, ad, ciphertext)
	if err != nil {
		return nil, err
	}
	c.advance()
	return out, nil
}

func (c *CipherState) advance() {
	if c.nonce >= maxNonce {
		c.exhausted = true
		return
	}
	c.nonce++
}
