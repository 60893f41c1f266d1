package adnl

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/tonfleet/liteclient/internal/adnlcrypto"
)

func TestHandshakeRoundTrip(t *testing.T) {
	serverPriv, serverPub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type clientResult struct {
		res *HandshakeResult
		err error
	}
	clientDone := make(chan clientResult, 1)
	go func() {
		res, err := DialClient(ctx, clientConn, Endpoint{Address: "test", PublicKey: serverPub})
		clientDone <- clientResult{res, err}
	}()

	serverResult, err := AcceptServer(ctx, serverConn, serverPriv, serverPub)
	if err != nil {
		t.Fatalf("AcceptServer() error = %v", err)
	}

	cr := <-clientDone
	if cr.err != nil {
		t.Fatalf("DialClient() error = %v", cr.err)
	}

	// Application data written with the client's send cipher must decode
	// correctly through the server's recv cipher, and vice versa.
	clientWriter := NewFrameWriter(clientConn, cr.res.SendCipher)
	serverReader := NewFrameReader(serverConn, serverResult.RecvCipher)

	done := make(chan error, 1)
	go func() {
		done <- clientWriter.Write([]byte("ping"))
	}()

	got, err := serverReader.Read()
	if err != nil {
		t.Fatalf("serverReader.Read() error = %v", err)
	}
	if string(got) != "ping" {
		t.Fatalf("serverReader.Read() = %q, want %q", got, "ping")
	}
	if err := <-done; err != nil {
		t.Fatalf("clientWriter.Write() error = %v", err)
	}
}

func TestHandshakeWrongKeyIDRejected(t *testing.T) {
	_, serverPub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	otherPriv, otherPub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		// Dial addressed to serverPub, but the acceptor below holds a
		// different identity (otherPriv/otherPub) — it must reject.
		DialClient(ctx, clientConn, Endpoint{Address: "test", PublicKey: serverPub})
	}()

	if _, err := AcceptServer(ctx, serverConn, otherPriv, otherPub); err == nil {
		t.Fatal("AcceptServer() expected error for mismatched key id, got nil")
	}
}
