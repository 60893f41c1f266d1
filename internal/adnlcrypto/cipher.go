// Package adnlcrypto provides the symmetric cipher and key agreement
// primitives used to secure an ADNL/TCP session.
package adnlcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"sync"
)

// KeySize is the size of an AES-256 key in bytes.
const KeySize = 32

// CounterSize is the size of the CTR counter in bytes.
const CounterSize = 16

// Cipher applies an AES-256-CTR keystream to byte buffers in place. The
// counter advances exactly once per byte processed, so the same Cipher
// must be reused across an entire connection's lifetime for the keystream
// to stay continuous across frames.
type Cipher struct {
	mu     sync.Mutex
	stream cipher.Stream
}

// NewCipher builds an AES-256-CTR cipher from a 32-byte key and a 16-byte
// initial counter value.
func NewCipher(key [KeySize]byte, counter [CounterSize]byte) (*Cipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("adnlcrypto: new AES block cipher: %w", err)
	}

	iv := make([]byte, CounterSize)
	copy(iv, counter[:])

	return &Cipher{stream: cipher.NewCTR(block, iv)}, nil
}

// Apply XORs the keystream into buf in place, advancing the internal
// counter by len(buf) bytes.
func (c *Cipher) Apply(buf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stream.XORKeyStream(buf, buf)
}
