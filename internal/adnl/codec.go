package adnl

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tonfleet/liteclient/internal/adnlcrypto"
)

// nonceSize and checksumSize are fixed by the ADNL TCP packet layout:
// every packet is
//
//	length(4, LE) || nonce(32) || payload || checksum(32)
//
// where checksum is SHA-256(nonce || payload), and the whole packet
// (length prefix included) is XORed against the session's running
// AES-256-CTR keystream — the same keystream used for every other
// packet on the connection, so encryption state carries across reads.
const (
	nonceSize    = 32
	checksumSize = 32
	headerSize   = 4

	// MaxFrameSize bounds a packet's declared length (nonce, payload and
	// checksum together), guarding against a corrupted or hostile length
	// prefix driving an unbounded allocation.
	MaxFrameSize = 16 << 20
)

// ErrChecksumMismatch is returned when a decoded packet's trailing
// checksum does not match SHA-256(nonce || payload).
var ErrChecksumMismatch = errors.New("adnl: packet checksum mismatch")

// ErrFrameTooLarge is returned when a packet's declared length exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("adnl: frame exceeds maximum size")

// FrameReader decodes ADNL TCP packets from an underlying connection,
// decrypting each packet's length prefix and body in turn through the
// session's receive cipher. It runs a small two-state machine: read and
// decrypt the length, then read and decrypt the body.
type FrameReader struct {
	r      io.Reader
	cipher *adnlcrypto.Cipher
}

// NewFrameReader wraps r, decrypting every packet read through recvCipher.
func NewFrameReader(r io.Reader, recvCipher *adnlcrypto.Cipher) *FrameReader {
	return &FrameReader{r: r, cipher: recvCipher}
}

// Read reads, decrypts and validates the next packet, returning its payload.
func (fr *FrameReader) Read() ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		return nil, err
	}
	fr.cipher.Apply(header[:])

	length := binary.LittleEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	if length < nonceSize+checksumSize {
		return nil, fmt.Errorf("adnl: packet length %d shorter than nonce+checksum", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(fr.r, body); err != nil {
		return nil, err
	}
	fr.cipher.Apply(body)

	payloadLen := int(length) - nonceSize - checksumSize
	nonce := body[:nonceSize]
	payload := body[nonceSize : nonceSize+payloadLen]
	wantChecksum := body[nonceSize+payloadLen:]

	sum := sha256.Sum256(append(append([]byte(nil), nonce...), payload...))
	if !hmacEqual(sum[:], wantChecksum) {
		return nil, ErrChecksumMismatch
	}
	return payload, nil
}

// FrameWriter encrypts and writes ADNL TCP packets to an underlying connection.
type FrameWriter struct {
	w      io.Writer
	cipher *adnlcrypto.Cipher
}

// NewFrameWriter wraps w, encrypting every packet written through sendCipher.
func NewFrameWriter(w io.Writer, sendCipher *adnlcrypto.Cipher) *FrameWriter {
	return &FrameWriter{w: w, cipher: sendCipher}
}

// Write encodes payload as one ADNL TCP packet and writes it to the
// underlying connection.
func (fw *FrameWriter) Write(payload []byte) error {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("adnl: generating nonce: %w", err)
	}

	sum := sha256.Sum256(append(append([]byte(nil), nonce...), payload...))

	body := make([]byte, 0, headerSize+nonceSize+len(payload)+checksumSize)
	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(nonceSize+len(payload)+checksumSize))

	body = append(body, header[:]...)
	body = append(body, nonce...)
	body = append(body, payload...)
	body = append(body, sum[:]...)

	fw.cipher.Apply(body)
	_, err := fw.w.Write(body)
	return err
}

// hmacEqual is a constant-time byte comparison; checksum verification is
// not attacker-adaptive over the network (a mismatch ends the read with
// ErrChecksumMismatch) but there is no reason to leak timing here either.
func hmacEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
