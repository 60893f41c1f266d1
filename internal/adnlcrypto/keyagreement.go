package adnlcrypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// keyIDTag prefixes a public key before hashing to produce its key-id.
var keyIDTag = [4]byte{0xc6, 0xb4, 0x13, 0x48}

// GenerateKeyPair generates a fresh Curve25519 identity keypair.
func GenerateKeyPair() (priv, pub [KeySize]byte, err error) {
	if _, err = io.ReadFull(rand.Reader, priv[:]); err != nil {
		return priv, pub, fmt.Errorf("adnlcrypto: generate private key: %w", err)
	}

	// Clamp the private key per the X25519 spec.
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	curve25519.ScalarBaseMult(&pub, &priv)
	return priv, pub, nil
}

// ComputeShared derives the ECDH shared secret as the x-coordinate of the
// curve-multiplied peer point in canonical Montgomery encoding.
func ComputeShared(priv, peerPub [KeySize]byte) ([KeySize]byte, error) {
	var shared [KeySize]byte

	var zero [KeySize]byte
	if peerPub == zero {
		return shared, fmt.Errorf("adnlcrypto: invalid peer public key: zero key")
	}

	curve25519.ScalarMult(&shared, &priv, &peerPub)

	if shared == zero {
		return shared, fmt.Errorf("adnlcrypto: invalid ECDH result: low-order point")
	}

	return shared, nil
}

// KeyID returns the 32-byte key-id of a public key: SHA-256 of the 4-byte
// tag 0xC6 0xB4 0x13 0x48 followed by the public key bytes.
func KeyID(pub [KeySize]byte) [32]byte {
	h := sha256.New()
	h.Write(keyIDTag[:])
	h.Write(pub[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
