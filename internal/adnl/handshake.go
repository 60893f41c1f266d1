// Package adnl implements the ADNL-over-TCP transport: an encrypted
// handshake, a length-prefixed checksummed frame codec, and a query-id
// multiplexer layered over a single connection.
package adnl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tonfleet/liteclient/internal/adnlcrypto"
)

// Endpoint identifies a lite-server: its dial address and its long-term
// Ed25519-style Curve25519 public key, used both to derive the
// handshake's key id and to authenticate the peer we actually reached.
type Endpoint struct {
	Address   string
	PublicKey [32]byte
}

// HandshakeResult carries the session ciphers and timing established by
// a completed handshake.
type HandshakeResult struct {
	RecvCipher *adnlcrypto.Cipher
	SendCipher *adnlcrypto.Cipher
	RTT        time.Duration
}

// handshakePacketSize is serverKeyID(32) || clientEphemeralPub(32) || checksum(32) || encryptedBasis(160).
const handshakePacketSize = 32 + 32 + 32 + adnlcrypto.BasisSize

// DialClient performs the ADNL handshake as the connection initiator:
// it generates an ephemeral key pair, encrypts a random key basis under
// the ECDH shared secret, and sends it addressed to the server's known
// key id. It then waits for the server's empty acknowledgement packet
// before the session ciphers are considered live.
func DialClient(ctx context.Context, conn net.Conn, server Endpoint) (*HandshakeResult, error) {
	start := time.Now()

	clientPriv, clientPub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("adnl: generating ephemeral key pair: %w", err)
	}

	shared, err := adnlcrypto.ComputeShared(clientPriv, server.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("adnl: computing shared secret: %w", err)
	}

	var basis [adnlcrypto.BasisSize]byte
	if _, err := rand.Read(basis[:]); err != nil {
		return nil, fmt.Errorf("adnl: generating key basis: %w", err)
	}
	checksum := sha256.Sum256(basis[:])

	initCipher, err := adnlcrypto.InitialCipher(shared, checksum)
	if err != nil {
		return nil, fmt.Errorf("adnl: deriving initial cipher: %w", err)
	}
	encryptedBasis := basis
	initCipher.Apply(encryptedBasis[:])

	keyID := adnlcrypto.KeyID(server.PublicKey)

	packet := make([]byte, 0, handshakePacketSize)
	packet = append(packet, keyID[:]...)
	packet = append(packet, clientPub[:]...)
	packet = append(packet, checksum[:]...)
	packet = append(packet, encryptedBasis[:]...)

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	if _, err := conn.Write(packet); err != nil {
		return nil, fmt.Errorf("adnl: sending handshake packet: %w", err)
	}

	halves := adnlcrypto.SplitBasis(basis)
	recv, send, err := adnlcrypto.SessionCiphers(halves, true)
	if err != nil {
		return nil, fmt.Errorf("adnl: deriving session ciphers: %w", err)
	}

	// The server acknowledges with one empty encrypted packet before
	// either side sends application frames.
	ackReader := NewFrameReader(conn, recv)
	ack, err := ackReader.Read()
	if err != nil {
		return nil, fmt.Errorf("adnl: reading handshake ack: %w", err)
	}
	if len(ack) != 0 {
		return nil, fmt.Errorf("adnl: handshake ack carried %d payload bytes, want empty packet", len(ack))
	}

	return &HandshakeResult{RecvCipher: recv, SendCipher: send, RTT: time.Since(start)}, nil
}

// AcceptServer performs the ADNL handshake as the connection acceptor: it
// reads the dialer's handshake packet, matches it against its own known
// server key pair, decrypts and validates the key basis, and replies
// with an empty acknowledgement packet once the session ciphers are
// derived.
func AcceptServer(ctx context.Context, conn net.Conn, serverPriv, serverPub [32]byte) (*HandshakeResult, error) {
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	var packet [handshakePacketSize]byte
	if _, err := io.ReadFull(conn, packet[:]); err != nil {
		return nil, fmt.Errorf("adnl: reading handshake packet: %w", err)
	}

	var keyID [32]byte
	copy(keyID[:], packet[:32])
	wantKeyID := adnlcrypto.KeyID(serverPub)
	if keyID != wantKeyID {
		return nil, fmt.Errorf("adnl: handshake addressed to unknown key id %x", keyID)
	}

	var clientPub [32]byte
	copy(clientPub[:], packet[32:64])
	var checksum [32]byte
	copy(checksum[:], packet[64:96])
	encryptedBasis := packet[96:]

	shared, err := adnlcrypto.ComputeShared(serverPriv, clientPub)
	if err != nil {
		return nil, fmt.Errorf("adnl: computing shared secret: %w", err)
	}

	initCipher, err := adnlcrypto.InitialCipher(shared, checksum)
	if err != nil {
		return nil, fmt.Errorf("adnl: deriving initial cipher: %w", err)
	}
	var basis [adnlcrypto.BasisSize]byte
	copy(basis[:], encryptedBasis)
	initCipher.Apply(basis[:])

	gotChecksum := sha256.Sum256(basis[:])
	if gotChecksum != checksum {
		return nil, ErrChecksumMismatch
	}

	halves := adnlcrypto.SplitBasis(basis)
	recv, send, err := adnlcrypto.SessionCiphers(halves, false)
	if err != nil {
		return nil, fmt.Errorf("adnl: deriving session ciphers: %w", err)
	}

	ackWriter := NewFrameWriter(conn, send)
	if err := ackWriter.Write(nil); err != nil {
		return nil, fmt.Errorf("adnl: sending handshake ack: %w", err)
	}

	return &HandshakeResult{RecvCipher: recv, SendCipher: send}, nil
}
