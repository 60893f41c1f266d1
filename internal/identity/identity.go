// Package identity provides the ADNL identity key type: a 32-byte public
// key plus its derived key-id, with keypair generation delegated to
// internal/adnlcrypto.
package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tonfleet/liteclient/internal/adnlcrypto"
)

// KeySize is the size of an ADNL public key in bytes.
const KeySize = 32

var (
	// ErrInvalidKeyLength is returned when a decoded key is the wrong length.
	ErrInvalidKeyLength = errors.New("invalid public key length: expected 32 bytes")

	// ErrInvalidHexString is returned when the hex string is malformed.
	ErrInvalidHexString = errors.New("invalid hex string for public key")

	// ZeroKey represents an uninitialized public key.
	ZeroKey = PublicKey{}
)

// PublicKey is a 32-byte Curve25519 identity public key.
type PublicKey [KeySize]byte

// ParsePublicKey parses a PublicKey from a hex string.
func ParsePublicKey(s string) (PublicKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")

	if len(s) != KeySize*2 {
		return ZeroKey, fmt.Errorf("%w: got %d hex chars, expected %d", ErrInvalidHexString, len(s), KeySize*2)
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return ZeroKey, fmt.Errorf("%w: %v", ErrInvalidHexString, err)
	}

	var pk PublicKey
	copy(pk[:], raw)
	return pk, nil
}

// PublicKeyFromBytes builds a PublicKey from a byte slice of exactly
// KeySize bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != KeySize {
		return ZeroKey, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
	}
	var pk PublicKey
	copy(pk[:], b)
	return pk, nil
}

// String returns the full hex representation of the public key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// ShortString returns a shortened hex representation (first 8 chars).
func (pk PublicKey) ShortString() string {
	return hex.EncodeToString(pk[:4])
}

// Bytes returns the public key as a byte slice.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// IsZero returns true if the public key is uninitialized.
func (pk PublicKey) IsZero() bool {
	return pk == ZeroKey
}

// Equal returns true if two public keys are identical.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk == other
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// KeyID returns the 32-byte key-id of this public key.
func (pk PublicKey) KeyID() [32]byte {
	return adnlcrypto.KeyID([KeySize]byte(pk))
}

// KeyPair is an ADNL identity keypair.
type KeyPair struct {
	Private [KeySize]byte
	Public  PublicKey
}

// GenerateKeyPair generates a fresh identity keypair.
func GenerateKeyPair() (KeyPair, error) {
	priv, pub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		return KeyPair{}, fmt.Errorf("identity: generate keypair: %w", err)
	}
	return KeyPair{Private: priv, Public: PublicKey(pub)}, nil
}
