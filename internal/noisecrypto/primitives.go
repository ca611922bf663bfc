// Package noisecrypto provides exactly the primitives required by the
// Noise_NNpsk0_25519_ChaChaPoly_SHA256 handshake pattern: X25519 DH,
// HKDF-SHA256, SHA-256, and ChaCha20-Poly1305 AEAD with a 96-bit
// nonce. The DH/AEAD/HKDF choices and their wiring mirror the way the
// teacher repo's cryptoops.Handshaker composes the same primitives
// (curve25519.X25519, chacha20poly1305.New, hkdf.New) for its own
// X25519-ChaCha20Poly1305 handshake.
package noisecrypto

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

const (
	// HashLen is Noise's HASHLEN for SHA-256.
	HashLen = 32
	// BlockLen is Noise's BLOCKLEN for SHA-256.
	BlockLen = 64
	// KeyLen is the ChaCha20-Poly1305 key size and DH output size.
	KeyLen = 32
	// NonceLen is the ChaCha20-Poly1305 nonce size Noise specifies.
	NonceLen = 12
	// TagLen is the Poly1305 authentication tag size.
	TagLen = 16
)

// ErrAllZeroDH is returned when an X25519 DH computation yields an
// all-zero output, which Noise treats as a fatal handshake failure
// (it indicates a small-order or otherwise degenerate public key).
var ErrAllZeroDH = errors.New("noisecrypto: DH output is all-zero")

// GenerateKeypair creates a new X25519 key pair.
func GenerateKeypair(rand io.Reader) (priv, pub [KeyLen]byte, err error) {
	if _, err = io.ReadFull(rand, priv[:]); err != nil {
		return priv, pub, err
	}
	p, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return priv, pub, err
	}
	copy(pub[:], p)
	return priv, pub, nil
}

// DH performs X25519(priv, pub) and rejects an all-zero result.
func DH(priv, pub [KeyLen]byte) ([KeyLen]byte, error) {
	var out [KeyLen]byte
	shared, err := curve25519.X25519(priv[:], pub[:])
	if err != nil {
		return out, err
	}
	copy(out[:], shared)
	if allZero(out[:]) {
		return out, ErrAllZeroDH
	}
	return out, nil
}

func allZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// HKDF runs HMAC-SHA-256 based HKDF with salt=ck and input keying
// material ikm, producing n successive 32-byte outputs as Noise's
// HKDF(ck, ikm, n) requires.
func HKDF(ck []byte, ikm []byte, n int) [][]byte {
	r := hkdf.New(sha256.New, ikm, ck, nil)
	out := make([][]byte, n)
	for i := range out {
		buf := make([]byte, HashLen)
		if _, err := io.ReadFull(r, buf); err != nil {
			// hkdf.New with SHA-256 can produce up to 255*32 bytes;
			// n is always small (2 or 3) so this can never fail.
			panic("noisecrypto: hkdf read failed: " + err.Error())
		}
		out[i] = buf
	}
	return out
}

// Hash returns SHA-256(data).
func Hash(data []byte) [HashLen]byte {
	return sha256.Sum256(data)
}

// aeadNonce builds the 12-byte ChaCha20-Poly1305 nonce Noise specifies:
// 4 zero bytes followed by the little-endian 8-byte counter.
func aeadNonce(counter uint64) [NonceLen]byte {
	var n [NonceLen]byte
	binary.LittleEndian.PutUint64(n[4:], counter)
	return n
}

// AEADEncrypt seals plaintext with key, the given nonce counter, and
// associated data ad, appending the result to dst.
func AEADEncrypt(dst, key []byte, counter uint64, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := aeadNonce(counter)
	return aead.Seal(dst, nonce[:], plaintext, ad), nil
}

// AEADDecrypt opens ciphertext with key, the given nonce counter, and
// associated data ad, appending the plaintext to dst.
func AEADDecrypt(dst, key []byte, counter uint64, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := aeadNonce(counter)
	return aead.Open(dst, nonce[:], ciphertext, ad)
}
