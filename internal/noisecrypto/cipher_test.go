package noisecrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCipherStateRoundTrip(t *testing.T) {
	var key [KeyLen]byte
	for i := range key {
		key[i] = byte(i)
	}
	var send, recv CipherState
	send.InitializeKey(key)
	recv.InitializeKey(key)

	plaintext := make([]byte, 65519)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}

	ct, err := send.Encrypt(nil, []byte("ad"), plaintext)
	require.NoError(t, err)
	pt, err := recv.Decrypt(nil, []byte("ad"), ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, pt)
}

func TestCipherStateNonceMonotone(t *testing.T) {
	var key [KeyLen]byte
	var c CipherState
	c.InitializeKey(key)

	require.EqualValues(t, 0, c.Nonce())
	_, err := c.Encrypt(nil, nil, []byte("a"))
	require.NoError(t, err)
	require.EqualValues(t, 1, c.Nonce())
	_, err = c.Encrypt(nil, nil, []byte("b"))
	require.NoError(t, err)
	require.EqualValues(t, 2, c.Nonce())
}

func TestCipherStateFlippedByteFailsWithoutMutatingNonce(t *testing.T) {
	var key [KeyLen]byte
	var send, recv CipherState
	send.InitializeKey(key)
	recv.InitializeKey(key)

	ct, err := send.Encrypt(nil, nil, []byte("hello world"))
	require.NoError(t, err)
	corrupt := append([]byte(nil), ct...)
	corrupt[0] ^= 0x01

	before := recv.Nonce()
	_, err = recv.Decrypt(nil, nil, corrupt)
	require.Error(t, err)
	require.Equal(t, before, recv.Nonce(), "failed AEAD decrypt must not advance the nonce")

	// The original ciphertext still decrypts correctly afterward.
	pt, err := recv.Decrypt(nil, nil, ct)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(pt))
}

func TestCipherStateExhaustion(t *testing.T) {
	var key [KeyLen]byte
	var c CipherState
	c.InitializeKey(key)
	c.nonce = maxNonce

	_, err := c.Encrypt(nil, nil, []byte("x"))
	require.NoError(t, err)

	_, err = c.Encrypt(nil, nil, []byte("x"))
	require.ErrorIs(t, err, ErrNonceExhausted)
}
