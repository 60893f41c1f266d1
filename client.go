// Package liteclient implements a fleet-aware client for the TON
// lite-server protocol: an encrypted ADNL transport, TL binary framing,
// and a load-balancing router across a set of lite-servers.
package liteclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/tonfleet/liteclient/internal/adnl"
	"github.com/tonfleet/liteclient/internal/balancer"
	"github.com/tonfleet/liteclient/internal/config"
	"github.com/tonfleet/liteclient/internal/discovery"
	"github.com/tonfleet/liteclient/internal/logging"
	"github.com/tonfleet/liteclient/internal/metrics"
	"github.com/tonfleet/liteclient/internal/registry"
	"github.com/tonfleet/liteclient/internal/router"
	"github.com/tonfleet/liteclient/internal/shardconfig"
	"github.com/tonfleet/liteclient/internal/tracker"
	"github.com/tonfleet/liteclient/lsapi"
	"github.com/tonfleet/liteclient/tl"
)

// Request is anything the generated lsapi types implement: a query
// combinator that can serialize itself onto the wire.
type Request interface {
	Encode(s *tl.Serializer)
}

// server is one connected lite-server: its live multiplexer, the
// registry view trackers keep updated for it, and the cancel func that
// tears down its background goroutines.
type server struct {
	id       string
	endpoint adnl.Endpoint
	mux      *adnl.Multiplexer
	reg      *registry.Registry
	cancel   context.CancelFunc
}

// Client is a fleet of connected lite-servers, reachable through a
// single Call/DiscoverStream surface. Use New to construct one, then
// Connect to add servers (directly or by subscribing to a
// discovery.Source).
type Client struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	balancer *balancer.Balancer

	mu      chan struct{} // binary mutex as a one-slot channel, taken by lock and returned by unlock
	servers map[string]*server

	dialTimeout      time.Duration
	handshakeTimeout time.Duration
	queryTimeout     time.Duration
	masterPoll       time.Duration
	firstPoll        time.Duration

	discovery *discovery.Source
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger overrides the default slog.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics overrides the default metrics.Metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithMaxConcurrentPerServer caps in-flight requests per server, keeping
// the balancer's decay half-life and default RTT at their defaults.
func WithMaxConcurrentPerServer(n int) Option {
	return func(c *Client) { c.balancer = balancer.New(n) }
}

// WithBalancerConfig configures the balancer's concurrency cap, decay
// half-life, and default RTT from a parsed config.BalancerConfig.
func WithBalancerConfig(cfg config.BalancerConfig) Option {
	return func(c *Client) {
		c.balancer = balancer.New(cfg.MaxConcurrentPerServer,
			balancer.WithDecayHalfLife(cfg.DecayHalfLife),
			balancer.WithDefaultRTT(cfg.DefaultRTT),
		)
	}
}

// WithTimeoutsConfig overrides the client's default deadlines from a
// parsed config.TimeoutsConfig.
func WithTimeoutsConfig(cfg config.TimeoutsConfig) Option {
	return func(c *Client) {
		if cfg.Handshake > 0 {
			c.handshakeTimeout = cfg.Handshake
		}
		if cfg.Query > 0 {
			c.queryTimeout = cfg.Query
		}
		if cfg.MasterchainPoll > 0 {
			c.masterPoll = cfg.MasterchainPoll
		}
		if cfg.FirstBlockPoll > 0 {
			c.firstPoll = cfg.FirstBlockPoll
		}
	}
}

// New creates an empty fleet client. Servers are added via Connect.
func New(opts ...Option) *Client {
	c := &Client{
		log:              logging.NewLogger("info", "text"),
		metrics:          metrics.Default(),
		balancer:         balancer.New(100),
		mu:               make(chan struct{}, 1),
		servers:          make(map[string]*server),
		dialTimeout:      10 * time.Second,
		handshakeTimeout: 5 * time.Second,
		queryTimeout:     3 * time.Second,
		masterPoll:       2 * time.Second,
		firstPoll:        30 * time.Second,
		discovery:        discovery.New(),
	}
	c.mu <- struct{}{}
	for _, opt := range opts {
		opt(c)
	}
	c.balancer.SetMetrics(c.metrics)
	return c
}

func (c *Client) lock()   { <-c.mu }
func (c *Client) unlock() { c.mu <- struct{}{} }

// Connect dials endpoint's socket address, performs the ADNL handshake
// against its known public key, and adds it to the fleet. ctx bounds the
// dial and the handshake only: the connection's background read loop and
// trackers run until Disconnect or Close is called or the connection
// fails.
func (c *Client) Connect(ctx context.Context, endpoint adnl.Endpoint) error {
	dialCtx, cancelDial := context.WithTimeout(ctx, c.dialTimeout)
	defer cancelDial()

	conn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", endpoint.Address)
	if err != nil {
		return fmt.Errorf("liteclient: dialing %s: %w", endpoint.Address, err)
	}

	hsCtx, cancelHs := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancelHs()

	start := time.Now()
	hsResult, err := adnl.DialClient(hsCtx, conn, endpoint)
	if err != nil {
		conn.Close()
		c.metrics.RecordHandshakeError("dial")
		return fmt.Errorf("liteclient: handshake with %s: %w", endpoint.Address, err)
	}
	c.metrics.RecordHandshake(time.Since(start).Seconds())

	srvCtx, cancel := context.WithCancel(context.Background())
	mux := adnl.NewMultiplexer(
		adnl.NewFrameReader(conn, hsResult.RecvCipher),
		adnl.NewFrameWriter(conn, hsResult.SendCipher),
	).WithMetrics(c.metrics)

	srv := &server{
		id:       endpoint.Address,
		endpoint: endpoint,
		mux:      mux,
		reg:      registry.New(),
		cancel:   cancel,
	}

	c.lock()
	c.servers[srv.id] = srv
	c.unlock()
	c.discovery.Insert(endpoint)

	// Closing the connection is what unblocks the read loop's pending Read.
	go func() { <-srvCtx.Done(); conn.Close() }()
	go func() {
		if err := mux.Run(srvCtx); err != nil {
			c.log.Warn("connection closed", logging.KeyServerID, srv.id, logging.KeyError, err)
		}
		cancel()
		c.lock()
		delete(c.servers, srv.id)
		c.unlock()
		c.discovery.Remove(endpoint)
		c.metrics.RecordSessionClosed()
		conn.Close()
	}()

	q := &lsapiQuerier{mux: mux}
	masterTracker := tracker.NewLastMasterchainTracker(q, srv.reg, c.masterPoll, c.log)
	firstTracker := tracker.NewFirstMasterchainTracker(q, srv.reg, c.firstPoll, c.log)
	shardsTracker := tracker.NewShardsTracker(srvCtx, q, srv.reg, c.log)
	masterTracker.SetMetrics(c.metrics, srv.id)
	firstTracker.SetMetrics(c.metrics, srv.id)
	shardsTracker.SetMetrics(c.metrics, srv.id)
	shardsTracker.AttachTo(masterTracker)

	go masterTracker.Run(srvCtx)
	go firstTracker.Run(srvCtx)

	return nil
}

// Call routes request to a server satisfying route, waits for the
// matching answer, and decodes it with decode. The caller supplies
// decode because the response's Go type varies per request: use
// Expect(lsapi.DecodeX) for a single-combinator reply, or one of the
// generated DecodeBoxedX dispatchers for a sum-typed reply. A timeout
// of zero uses the client's default per-request deadline.
func Call[T any](ctx context.Context, c *Client, request Request, route router.Route, timeout time.Duration, decode func(*tl.Deserializer) (T, error)) (T, error) {
	var zero T

	candidates := c.routeCandidates(route)
	eligible, err := router.Select(route, candidates)
	if errors.Is(err, router.ErrRouteUnknown) && !route.Latest {
		// A Block route nobody has ever claimed falls back to whichever
		// server has the freshest head, rather than failing outright.
		c.metrics.RecordRouteOutcome("fallback_latest")
		eligible, err = router.Select(router.LatestRoute(), candidates)
	}
	if err != nil {
		c.metrics.RecordRouteOutcome("no_candidate")
		return zero, err
	}
	c.metrics.RecordRouteOutcome("selected")

	ids := make([]string, len(eligible))
	for i, cand := range eligible {
		ids[i] = cand.ServerID
	}
	pickedID, ok := c.balancer.Pick(ids)
	if !ok {
		return zero, router.ErrRouteUnknown
	}
	c.metrics.RecordBalancerPick(pickedID)

	c.lock()
	srv, ok := c.servers[pickedID]
	c.unlock()
	if !ok {
		return zero, fmt.Errorf("liteclient: picked server %s is no longer connected", pickedID)
	}

	release, err := c.balancer.Acquire(ctx, pickedID)
	if err != nil {
		return zero, err
	}
	defer release()

	if timeout <= 0 {
		timeout = c.queryTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.metrics.RecordRequestStart()
	start := time.Now()
	answer, err := srv.mux.Query(callCtx, wrapQuery(request))
	elapsed := time.Since(start)
	c.balancer.Record(balancer.LoadSample{ServerID: pickedID, Latency: elapsed})

	if err != nil {
		if callCtx.Err() != nil {
			c.metrics.RecordRequestTimeout()
		} else {
			c.metrics.RecordRequestDone(elapsed.Seconds())
		}
		return zero, fmt.Errorf("liteclient: query to %s: %w", pickedID, err)
	}
	c.metrics.RecordRequestDone(elapsed.Seconds())

	d, err := parseReply(answer)
	if err != nil {
		return zero, err
	}
	return decode(d)
}

func lsapiErrorConstructor() uint32 {
	return lsapi.LiteServer_Error{}.ConstructorNumber()
}

// wrapQuery serializes request and wraps it in the liteServer.query
// envelope every lite-server request travels in (itself carried as the
// byte-string payload of the multiplexer's adnl.message.query).
func wrapQuery(request Request) []byte {
	inner := tl.NewSerializer()
	request.Encode(inner)
	return wrapQueryBytes(inner.Bytes())
}

func wrapQueryBytes(data []byte) []byte {
	outer := tl.NewSerializer()
	lsapi.LiteServer_Query{Data: string(data)}.Encode(outer)
	return outer.Bytes()
}

// parseReply inspects a reply's leading constructor number. A
// liteServer.error reply is decoded and returned as the error; any other
// reply is returned with the constructor still pending in the peek
// register, so both bare-combinator decoders (via Expect) and boxed sum
// dispatchers (which consume the tag themselves) work on it.
func parseReply(answer []byte) (*tl.Deserializer, error) {
	d := tl.NewDeserializer(answer)
	ctor, err := d.PeekConstructor()
	if err != nil {
		return nil, err
	}
	if ctor == lsapiErrorConstructor() {
		d.ParseConstructor()
		lsErr, decErr := lsapi.DecodeLiteServer_Error(d)
		if decErr != nil {
			return nil, decErr
		}
		return nil, lsErr
	}
	return d, nil
}

// Expect adapts one generated combinator decoder into a reply decoder:
// it checks the reply's constructor number against the expected
// combinator before decoding the body, surfacing any other tag as a
// recoverable schema mismatch.
func Expect[T interface{ ConstructorNumber() uint32 }](decode func(*tl.Deserializer) (T, error)) func(*tl.Deserializer) (T, error) {
	return func(d *tl.Deserializer) (T, error) {
		var zero T
		ctor, err := d.ParseConstructor()
		if err != nil {
			return zero, err
		}
		if want := zero.ConstructorNumber(); ctor != want {
			return zero, &tl.UnknownConstructorError{Constructor: ctor}
		}
		return decode(d)
	}
}

func (c *Client) routeCandidates(route router.Route) []router.Candidate {
	c.lock()
	defer c.unlock()
	out := make([]router.Candidate, 0, len(c.servers))
	for id, srv := range c.servers {
		out = append(out, router.Candidate{ServerID: id, Reg: srv.reg})
	}
	return out
}

// DiscoverStream subscribes ch to fleet membership changes (servers
// gained via Connect or AttachDiscovery, servers lost on disconnect).
// Callers should Unsubscribe via the returned func once done.
func (c *Client) DiscoverStream(ch chan<- discovery.Change) (unsubscribe func()) {
	c.discovery.Subscribe(ch)
	return func() { c.discovery.Unsubscribe(ch) }
}

// AttachDiscovery consumes src's change events until ctx is cancelled:
// an Insert dials the endpoint and adds it to the fleet, a Remove tears
// its connection down. Request handling never blocks on this consumer;
// it runs on its own goroutine and applies changes as they arrive.
func (c *Client) AttachDiscovery(ctx context.Context, src *discovery.Source) {
	ch := make(chan discovery.Change, 16)
	src.Subscribe(ch)
	go func() {
		defer src.Unsubscribe(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case change := <-ch:
				switch change.Type {
				case discovery.Insert:
					if err := c.Connect(ctx, change.Endpoint); err != nil {
						c.log.Warn("discovered server connect failed",
							logging.KeyServerID, change.Endpoint.Address, logging.KeyError, err)
					}
				case discovery.Remove:
					c.Disconnect(change.Endpoint.Address)
				}
			}
		}
	}()
}

// Disconnect tears down the connection to the server with the given id
// (its dial address), cancelling its trackers and read loop. A no-op if
// the server is not connected.
func (c *Client) Disconnect(id string) {
	c.lock()
	srv, ok := c.servers[id]
	c.unlock()
	if ok {
		srv.cancel()
	}
}

// Close tears down every connected server's background goroutines.
func (c *Client) Close() {
	c.lock()
	servers := make([]*server, 0, len(c.servers))
	for _, srv := range c.servers {
		servers = append(servers, srv)
	}
	c.unlock()
	for _, srv := range servers {
		srv.cancel()
	}
}

// lsapiQuerier adapts a Multiplexer to the tracker package's
// MasterchainQuerier/ShardQuerier/BlockChecker/HeadWaiter interfaces
// using the generated lsapi request/response types.
type lsapiQuerier struct {
	mux *adnl.Multiplexer
}

// waitHeadTimeout is how long a server is asked to hold a
// waitMasterchainSeqno-prefixed query before replying with its
// wait-timeout code.
const waitHeadTimeout = 10 * time.Second

func (q *lsapiQuerier) MasterchainHead(ctx context.Context) (uint32, error) {
	answer, err := q.mux.Query(ctx, wrapQuery(lsapi.LiteServer_GetMasterchainInfo{}))
	if err != nil {
		return 0, err
	}
	return decodeHead(answer)
}

// WaitMasterchainHead asks the server to hold the reply until its
// masterchain tip reaches nextSeqno, by writing the
// liteServer.waitMasterchainSeqno prefix immediately before the query
// inside the same envelope.
func (q *lsapiQuerier) WaitMasterchainHead(ctx context.Context, nextSeqno uint32) (uint32, error) {
	s := tl.NewSerializer()
	lsapi.LiteServer_WaitMasterchainSeqno{
		Seqno:     int32(nextSeqno),
		TimeoutMs: int32(waitHeadTimeout / time.Millisecond),
	}.Encode(s)
	lsapi.LiteServer_GetMasterchainInfo{}.Encode(s)

	waitCtx, cancel := context.WithTimeout(ctx, waitHeadTimeout+3*time.Second)
	defer cancel()
	answer, err := q.mux.Query(waitCtx, wrapQueryBytes(s.Bytes()))
	if err != nil {
		return 0, err
	}
	return decodeHead(answer)
}

func decodeHead(answer []byte) (uint32, error) {
	d, err := parseReply(answer)
	if err != nil {
		return 0, err
	}
	info, err := Expect(lsapi.DecodeLiteServer_MasterchainInfo)(d)
	if err != nil {
		return 0, err
	}
	return uint32(info.Last.Seqno), nil
}

func (q *lsapiQuerier) HasBlock(ctx context.Context, seqno uint32) (bool, error) {
	return q.HasShardBlock(ctx, -1, 1<<63, seqno)
}

func (q *lsapiQuerier) HasShardBlock(ctx context.Context, workchain int32, shard uint64, seqno uint32) (bool, error) {
	request := lsapi.LiteServer_GetBlockHeader{
		Id:   lsapi.TonNode_BlockIdExt{Workchain: workchain, Shard: int64(shard), Seqno: int32(seqno)},
		Mode: 0,
	}

	answer, err := q.mux.Query(ctx, wrapQuery(request))
	if err != nil {
		return false, err
	}
	if _, err := parseReply(answer); err != nil {
		var lsErr lsapi.LiteServer_Error
		if errors.As(err, &lsErr) && lsErr.Code == lsapi.CodeBlockNotInHistory {
			return false, nil
		}
		// Any other server reply is a real failure: the first-block
		// search treats it as fatal rather than as a missing block.
		return false, err
	}
	return true, nil
}

// ShardsAt fetches the shard configuration as of masterSeqno and decodes
// its BoC-encoded cell payload (a TL-B `HashmapE 32 ^(BinTree
// ShardDescr)` value) via shardconfig, so every reported workchain
// shard gets a registry entry, not just the masterchain.
func (q *lsapiQuerier) ShardsAt(ctx context.Context, masterSeqno uint32) ([]tracker.ShardInfo, error) {
	request := lsapi.LiteServer_GetAllShardsInfo{
		Id: lsapi.TonNode_BlockIdExt{Workchain: -1, Seqno: int32(masterSeqno)},
	}

	answer, err := q.mux.Query(ctx, wrapQuery(request))
	if err != nil {
		return nil, err
	}
	d, err := parseReply(answer)
	if err != nil {
		return nil, err
	}
	info, err := Expect(lsapi.DecodeLiteServer_AllShardsInfo)(d)
	if err != nil {
		return nil, err
	}

	entries, err := shardconfig.DecodeShardHashes([]byte(info.Data))
	if err != nil {
		return nil, fmt.Errorf("liteclient: decoding shard config at seqno %d: %w", masterSeqno, err)
	}

	out := make([]tracker.ShardInfo, len(entries))
	for i, e := range entries {
		out[i] = tracker.ShardInfo{
			Workchain: e.Workchain,
			Shard:     e.Shard,
			Seqno:     e.Seqno,
			Lt:        e.EndLt,
			HaveLt:    true,
		}
	}
	return out, nil
}
