package adnl

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/tonfleet/liteclient/internal/adnlcrypto"
	"github.com/tonfleet/liteclient/tl"
)

func handshakenPipe(t *testing.T) (client *Multiplexer, server *Multiplexer, cleanup func()) {
	t.Helper()

	serverPriv, serverPub, err := adnlcrypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	clientConn, serverConn := net.Pipe()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

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

	client = NewMultiplexer(
		NewFrameReader(clientConn, cr.res.RecvCipher),
		NewFrameWriter(clientConn, cr.res.SendCipher),
	)
	server = NewMultiplexer(
		NewFrameReader(serverConn, serverResult.RecvCipher),
		NewFrameWriter(serverConn, serverResult.SendCipher),
	)

	cleanup = func() {
		cancel()
		clientConn.Close()
		serverConn.Close()
	}
	return client, server, cleanup
}

func TestMultiplexerQueryAnswer(t *testing.T) {
	client, server, cleanup := handshakenPipe(t)
	defer cleanup()

	ctx := context.Background()
	go client.Run(ctx)

	// A minimal server loop: read one envelope, echo the query bytes
	// back wrapped in an answer envelope addressed to the same query id.
	go func() {
		payload, err := server.reader.Read()
		if err != nil {
			return
		}
		d := tl.NewDeserializer(payload)
		ctor, err := d.ParseConstructor()
		if err != nil || ctor != queryConstructor {
			return
		}
		queryID, err := d.ParseInt256()
		if err != nil {
			return
		}
		query, err := d.ParseBytes()
		if err != nil {
			return
		}

		s := tl.NewSerializer()
		s.WriteConstructor(answerConstructor)
		s.WriteInt256(queryID)
		s.WriteBytes(query)

		server.writeMu.Lock()
		server.writer.Write(s.Bytes())
		server.writeMu.Unlock()
	}()

	answer, err := client.Query(ctx, []byte("hello lite-server"))
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if string(answer) != "hello lite-server" {
		t.Fatalf("Query() = %q, want %q", answer, "hello lite-server")
	}
}

func TestMultiplexerPingPong(t *testing.T) {
	client, server, cleanup := handshakenPipe(t)
	defer cleanup()

	ctx := context.Background()
	go client.Run(ctx)

	// Server side: expect a bare 12-byte tcp.ping (4-byte constructor,
	// 8-byte random id) and echo the id back in a tcp.pong.
	go func() {
		payload, err := server.reader.Read()
		if err != nil {
			return
		}
		if len(payload) != 12 {
			t.Errorf("ping frame payload = %d bytes, want 12", len(payload))
			return
		}
		d := tl.NewDeserializer(payload)
		ctor, err := d.ParseConstructor()
		if err != nil || ctor != pingConstructor {
			t.Errorf("ping constructor = %x, %v; want %x", ctor, err, pingConstructor)
			return
		}
		id, err := d.ParseInt64()
		if err != nil {
			return
		}

		s := tl.NewSerializer()
		s.WriteConstructor(pongConstructor)
		s.WriteInt64(id)
		server.writeMu.Lock()
		server.writer.Write(s.Bytes())
		server.writeMu.Unlock()
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestMultiplexerCloseFailsPending(t *testing.T) {
	client, _, cleanup := handshakenPipe(t)
	defer cleanup()

	done := make(chan error, 1)
	go func() {
		_, err := client.Query(context.Background(), []byte("x"))
		done <- err
	}()

	// give Query a moment to register before closing
	time.Sleep(50 * time.Millisecond)
	client.Close()

	if err := <-done; err == nil {
		t.Fatal("Query() expected error after Close(), got nil")
	}
}
