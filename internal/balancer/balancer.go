// Package balancer picks among a set of route-eligible lite-servers
// using a peak-EWMA latency estimate and power-of-two-choices
// selection, and gates outstanding concurrency per server with
// golang.org/x/time/rate to shape outbound request pacing.
package balancer

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tonfleet/liteclient/internal/metrics"
	"golang.org/x/time/rate"
)

// LoadSample is one completed request's observed latency, fed back into
// a server's peak-EWMA estimator after the request finishes.
type LoadSample struct {
	ServerID string
	Latency  time.Duration
}

// DefaultDecayHalfLife and DefaultRTT are the peak-EWMA load metric's
// defaults: a 1-second decay half-life, and a 70ms baseline cost for a
// server with no latency samples yet, so a cold server isn't treated
// as infinitely cheap (bare inFlight count) or penalized relative to
// warmed-up peers.
const (
	DefaultDecayHalfLife = time.Second
	DefaultRTT           = 70 * time.Millisecond
)

type serverLoad struct {
	mu         sync.Mutex
	ewma       float64 // nanoseconds
	peak       float64 // nanoseconds
	lastUpdate time.Time
	inFlight   int64

	decayHalfLife time.Duration
	defaultRTT    float64 // nanoseconds

	// sem caps concurrent in-flight requests to this server; limiter
	// paces how fast new requests are admitted even when a concurrency
	// slot is free, smoothing bursts a pure semaphore would let through.
	sem     chan struct{}
	limiter *rate.Limiter
}

func newServerLoad(maxConcurrent int, decayHalfLife, defaultRTT time.Duration) *serverLoad {
	sl := &serverLoad{decayHalfLife: decayHalfLife, defaultRTT: float64(defaultRTT)}
	if maxConcurrent > 0 {
		sl.sem = make(chan struct{}, maxConcurrent)
		sl.limiter = rate.NewLimiter(rate.Limit(maxConcurrent*4), maxConcurrent)
	}
	return sl
}

// cost returns the server's current weighted cost: the decayed peak
// latency scaled by (inFlight+1), so a server already juggling several
// outstanding requests looks worse than its raw latency alone suggests.
func (s *serverLoad) cost(now time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	peak := s.decayedPeak(now)
	inFlight := float64(s.inFlight + 1)
	if peak == 0 {
		// No samples yet: cost from the configured default RTT rather
		// than bare in-flight count, so a cold server competes on a
		// realistic baseline instead of looking free.
		return s.defaultRTT * inFlight
	}
	return peak * inFlight
}

func (s *serverLoad) decayedPeak(now time.Time) float64 {
	if s.lastUpdate.IsZero() {
		return s.peak
	}
	elapsed := now.Sub(s.lastUpdate)
	decay := math.Exp(-float64(elapsed) / float64(s.decayHalfLife) * math.Ln2)
	return s.peak*decay + s.ewma*(1-decay)
}

func (s *serverLoad) record(sample time.Duration, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latency := float64(sample)
	const alpha = 0.3
	if s.ewma == 0 {
		s.ewma = latency
	} else {
		s.ewma = alpha*latency + (1-alpha)*s.ewma
	}

	decayedPeak := s.decayedPeak(now)
	if latency > decayedPeak {
		s.peak = latency
	} else {
		s.peak = decayedPeak
	}
	s.lastUpdate = now
}

// Balancer selects among a set of candidate server IDs using
// power-of-two-choices over each server's peak-EWMA cost.
type Balancer struct {
	mu      sync.Mutex
	servers map[string]*serverLoad

	maxConcurrentPerServer int
	decayHalfLife          time.Duration
	defaultRTT             time.Duration
	rng                    *rand.Rand

	metrics *metrics.Metrics
}

// Option configures a Balancer at construction time.
type Option func(*Balancer)

// WithDecayHalfLife overrides DefaultDecayHalfLife.
func WithDecayHalfLife(d time.Duration) Option {
	return func(b *Balancer) { b.decayHalfLife = d }
}

// WithDefaultRTT overrides DefaultRTT.
func WithDefaultRTT(d time.Duration) Option {
	return func(b *Balancer) { b.defaultRTT = d }
}

// WithMetrics publishes each server's peak-EWMA cost to m after every
// recorded sample.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Balancer) { b.metrics = m }
}

// SetMetrics attaches m after construction, for callers that rebuild the
// balancer via an Option after the client's metrics instance is settled.
func (b *Balancer) SetMetrics(m *metrics.Metrics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics = m
}

// New creates a Balancer. maxConcurrentPerServer <= 0 disables the
// per-server concurrency gate. Decay half-life and default RTT default
// to DefaultDecayHalfLife and DefaultRTT unless overridden via options.
func New(maxConcurrentPerServer int, opts ...Option) *Balancer {
	b := &Balancer{
		servers:                make(map[string]*serverLoad),
		maxConcurrentPerServer: maxConcurrentPerServer,
		decayHalfLife:          DefaultDecayHalfLife,
		defaultRTT:             DefaultRTT,
		rng:                    rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Balancer) serverFor(id string) *serverLoad {
	b.mu.Lock()
	defer b.mu.Unlock()
	sl, ok := b.servers[id]
	if !ok {
		sl = newServerLoad(b.maxConcurrentPerServer, b.decayHalfLife, b.defaultRTT)
		b.servers[id] = sl
	}
	return sl
}

// Pick chooses one of candidates via power-of-two-choices: sample two
// distinct candidates at random and return whichever has the lower
// current cost. With fewer than two candidates it returns the only
// (or zero) option directly.
func (b *Balancer) Pick(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	b.mu.Lock()
	i := b.rng.Intn(len(candidates))
	j := b.rng.Intn(len(candidates) - 1)
	b.mu.Unlock()
	if j >= i {
		j++
	}

	now := time.Now()
	a, bb := candidates[i], candidates[j]
	if b.serverFor(a).cost(now) <= b.serverFor(bb).cost(now) {
		return a, true
	}
	return bb, true
}

// Acquire blocks until serverID has spare concurrency (if a limit was
// configured), then marks one request in flight. The returned release
// func must be called exactly once, typically via defer, when the
// request completes.
func (b *Balancer) Acquire(ctx context.Context, serverID string) (release func(), err error) {
	sl := b.serverFor(serverID)
	if sl.limiter != nil {
		if err := sl.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if sl.sem != nil {
		select {
		case sl.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sl.mu.Lock()
	sl.inFlight++
	sl.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sl.mu.Lock()
			sl.inFlight--
			sl.mu.Unlock()
			if sl.sem != nil {
				<-sl.sem
			}
		})
	}, nil
}

// Record feeds a completed request's latency into the server's
// peak-EWMA estimator.
func (b *Balancer) Record(sample LoadSample) {
	now := time.Now()
	sl := b.serverFor(sample.ServerID)
	sl.record(sample.Latency, now)
	if b.metrics != nil {
		b.metrics.SetServerLoad(sample.ServerID, sl.cost(now)/float64(time.Second))
	}
}
