package adnl

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/tonfleet/liteclient/internal/metrics"
	"github.com/tonfleet/liteclient/internal/tlschema"
	"github.com/tonfleet/liteclient/tl"
)

// queryCombinator and answerCombinator are the standard ADNL envelope
// combinators every query/response is wrapped in. Their constructor
// numbers are derived the same way the schema generator derives every
// other combinator's number (from the CRC-32 of the canonical form)
// rather than hardcoded as magic constants, so the envelope and
// generated-from-schema code stay internally consistent.
var (
	queryCombinator = tlschema.Combinator{
		Namespace: "adnl",
		Name:      "message.query",
		Params: []tlschema.Param{
			{Name: "query_id", Type: "int256"},
			{Name: "query", Type: "bytes"},
		},
		Result: "adnl.Message",
	}
	answerCombinator = tlschema.Combinator{
		Namespace: "adnl",
		Name:      "message.answer",
		Params: []tlschema.Param{
			{Name: "query_id", Type: "int256"},
			{Name: "answer", Type: "bytes"},
		},
		Result: "adnl.Message",
	}

	queryConstructor  = tlschema.ConstructorNumber(queryCombinator)
	answerConstructor = tlschema.ConstructorNumber(answerCombinator)

	// tcp.ping/tcp.pong ride the raw framed connection outside the
	// query/answer envelope; servers echo the ping's random id back.
	pingConstructor = tlschema.ConstructorNumber(tlschema.Combinator{
		Namespace: "tcp",
		Name:      "ping",
		Params:    []tlschema.Param{{Name: "random_id", Type: "long"}},
		Result:    "tcp.Pong",
	})
	pongConstructor = tlschema.ConstructorNumber(tlschema.Combinator{
		Namespace: "tcp",
		Name:      "pong",
		Params:    []tlschema.Param{{Name: "random_id", Type: "long"}},
		Result:    "tcp.Pong",
	})
)

type pendingResult struct {
	payload []byte
	err     error
}

// Multiplexer correlates outgoing queries with incoming answers by
// query id over one ADNL connection, using a pending-request map and
// completion-channel idiom to match responses to callers without
// blocking the read loop.
type Multiplexer struct {
	reader *FrameReader

	writeMu sync.Mutex
	writer  *FrameWriter

	mu      sync.Mutex
	pending map[[32]byte]chan pendingResult
	pings   map[int64]chan struct{}
	closed  bool
	closeCh chan struct{}

	metrics *metrics.Metrics
}

// NewMultiplexer wraps a handshaken connection's frame reader/writer.
func NewMultiplexer(reader *FrameReader, writer *FrameWriter) *Multiplexer {
	return &Multiplexer{
		reader:  reader,
		writer:  writer,
		pending: make(map[[32]byte]chan pendingResult),
		pings:   make(map[int64]chan struct{}),
		closeCh: make(chan struct{}),
	}
}

// WithMetrics attaches m as the destination for this multiplexer's frame
// counters; nil disables recording. Returns the multiplexer for chaining
// at construction time.
func (m *Multiplexer) WithMetrics(mm *metrics.Metrics) *Multiplexer {
	m.metrics = mm
	return m
}

// Run drives the multiplexer's read loop until the connection errors, the
// context is cancelled, or Close is called. Cancellation and Close are
// checked after each non-empty frame is dispatched; a Read blocked on the
// connection is not interrupted by either, only by the connection itself
// delivering a frame or failing. It must run on its own goroutine;
// callers observe completions only through Query.
func (m *Multiplexer) Run(ctx context.Context) error {
	for {
		payload, err := m.reader.Read()
		if err != nil {
			if m.metrics != nil {
				m.metrics.RecordFrameError("read")
			}
			m.failAll(err)
			return err
		}
		if len(payload) == 0 {
			// keepalive / handshake-ack style empty packet
			continue
		}
		if m.metrics != nil {
			m.metrics.RecordFrameReceived(len(payload))
		}
		m.dispatch(payload)

		select {
		case <-ctx.Done():
			m.failAll(ctx.Err())
			return ctx.Err()
		case <-m.closeCh:
			return io.EOF
		default:
		}
	}
}

func (m *Multiplexer) dispatch(payload []byte) {
	d := tl.NewDeserializer(payload)
	ctor, err := d.ParseConstructor()
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordFrameError("decode_constructor")
		}
		return
	}
	if ctor == pongConstructor {
		if id, err := d.ParseInt64(); err == nil {
			m.mu.Lock()
			ch, ok := m.pings[id]
			if ok {
				delete(m.pings, id)
			}
			m.mu.Unlock()
			if ok {
				close(ch)
			}
		}
		return
	}
	if ctor != answerConstructor {
		return
	}
	queryID, err := d.ParseInt256()
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordFrameError("decode_query_id")
		}
		return
	}
	answer, err := d.ParseBytes()
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordFrameError("decode_answer")
		}
		return
	}

	m.mu.Lock()
	ch, ok := m.pending[queryID]
	if ok {
		delete(m.pending, queryID)
	}
	m.mu.Unlock()

	if ok {
		ch <- pendingResult{payload: answer}
	}
}

func (m *Multiplexer) failAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.pending {
		ch <- pendingResult{err: err}
		delete(m.pending, id)
	}
}

// Query sends query wrapped in the standard ADNL envelope and blocks
// until the matching answer arrives, ctx is done, or the multiplexer is
// closed. It is safe to call concurrently from multiple goroutines.
func (m *Multiplexer) Query(ctx context.Context, query []byte) ([]byte, error) {
	var queryID [32]byte
	if _, err := rand.Read(queryID[:]); err != nil {
		return nil, fmt.Errorf("adnl: generating query id: %w", err)
	}

	resultCh := make(chan pendingResult, 1)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, io.ErrClosedPipe
	}
	m.pending[queryID] = resultCh
	m.mu.Unlock()

	s := tl.NewSerializer()
	s.WriteConstructor(queryConstructor)
	s.WriteInt256(queryID)
	s.WriteBytes(query)

	frame := s.Bytes()
	writeErr := make(chan error, 1)
	go func() {
		m.writeMu.Lock()
		defer m.writeMu.Unlock()
		writeErr <- m.writer.Write(frame)
	}()
	var err error
	select {
	case err = <-writeErr:
	case <-ctx.Done():
		m.mu.Lock()
		delete(m.pending, queryID)
		m.mu.Unlock()
		return nil, ctx.Err()
	case <-m.closeCh:
		return nil, io.ErrClosedPipe
	}
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordFrameError("write")
		}
		m.mu.Lock()
		delete(m.pending, queryID)
		m.mu.Unlock()
		return nil, fmt.Errorf("adnl: sending query: %w", err)
	}
	if m.metrics != nil {
		m.metrics.RecordFrameSent(len(frame))
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return res.payload, nil
	case <-ctx.Done():
		m.mu.Lock()
		delete(m.pending, queryID)
		m.mu.Unlock()
		return nil, ctx.Err()
	case <-m.closeCh:
		return nil, io.ErrClosedPipe
	}
}

// Ping sends a tcp.ping keepalive and blocks until the matching
// tcp.pong arrives, ctx is done, or the multiplexer is closed. Pings
// ride the framed connection bare, outside the query/answer envelope.
func (m *Multiplexer) Ping(ctx context.Context) error {
	var idBytes [8]byte
	if _, err := rand.Read(idBytes[:]); err != nil {
		return fmt.Errorf("adnl: generating ping id: %w", err)
	}
	id := int64(binary.LittleEndian.Uint64(idBytes[:]))

	pongCh := make(chan struct{})
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	m.pings[id] = pongCh
	m.mu.Unlock()

	s := tl.NewSerializer()
	s.WriteConstructor(pingConstructor)
	s.WriteInt64(id)

	m.writeMu.Lock()
	err := m.writer.Write(s.Bytes())
	m.writeMu.Unlock()
	if err != nil {
		m.mu.Lock()
		delete(m.pings, id)
		m.mu.Unlock()
		return fmt.Errorf("adnl: sending ping: %w", err)
	}

	select {
	case <-pongCh:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		delete(m.pings, id)
		m.mu.Unlock()
		return ctx.Err()
	case <-m.closeCh:
		return io.ErrClosedPipe
	}
}

// Close fails every pending query with io.ErrClosedPipe and makes later
// Query and Ping calls fail the same way. Run returns io.EOF after its
// next non-empty frame; a Read blocked on the connection is not
// interrupted.
func (m *Multiplexer) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()
	close(m.closeCh)
	m.failAll(io.ErrClosedPipe)
}
