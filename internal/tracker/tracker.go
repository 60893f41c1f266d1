// Package tracker periodically polls a lite-server for its current
// masterchain head and, via binary search, the oldest masterchain block
// it still serves, feeding both into a registry.Registry so the router
// can decide whether a requested block is retrievable.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonfleet/liteclient/internal/logging"
	"github.com/tonfleet/liteclient/internal/metrics"
	"github.com/tonfleet/liteclient/internal/registry"
)

// MasterchainQuerier is the subset of the lite-server client a tracker
// needs: fetch the current head seqno, and check whether a given seqno
// is still retrievable (used by the binary search in FirstMasterchainTracker).
type MasterchainQuerier interface {
	MasterchainHead(ctx context.Context) (seqno uint32, err error)
	BlockChecker
}

// BlockChecker answers whether a specific seqno is still retrievable on
// some chain. MasterchainQuerier satisfies it for the masterchain; the
// shard tracker uses a chain-bound adapter to satisfy it per shard, so
// both feed the same BinarySearchFirst.
type BlockChecker interface {
	HasBlock(ctx context.Context, seqno uint32) (bool, error)
}

// HeadWaiter is optionally implemented by queriers that can ask the
// server to block until the masterchain tip reaches nextSeqno instead of
// busy-polling. A server that gives up waiting replies with its
// wait-timeout code, which the tip tracker consumes as "tip unchanged".
type HeadWaiter interface {
	WaitMasterchainHead(ctx context.Context, nextSeqno uint32) (uint32, error)
}

// masterchainKey is the registry key trackers use for the masterchain
// itself (workchain -1, the single masterchain shard).
var masterchainKey = registry.MasterchainKey

// LastMasterchainTracker watches a server's masterchain head: a plain
// poll for the first observation, then a server-side wait for the next
// tip when the querier supports it. Each newly observed tip is recorded
// as the registry's announced seqno and, once its block is confirmed
// fetchable, as the right bound.
type LastMasterchainTracker struct {
	q        MasterchainQuerier
	reg      *registry.Registry
	interval time.Duration
	log      *slog.Logger

	metrics  *metrics.Metrics
	serverID string

	lastSeen uint32
	onUpdate func(seqno uint32)
}

// NewLastMasterchainTracker creates a tracker that polls q every interval
// and records results into reg.
func NewLastMasterchainTracker(q MasterchainQuerier, reg *registry.Registry, interval time.Duration, log *slog.Logger) *LastMasterchainTracker {
	return &LastMasterchainTracker{q: q, reg: reg, interval: interval, log: logging.Component(log, "tracker.last")}
}

// SetMetrics attaches m as the destination for this tracker's seqno
// gauges and error counters, labeled by serverID.
func (t *LastMasterchainTracker) SetMetrics(m *metrics.Metrics, serverID string) {
	t.metrics = m
	t.serverID = serverID
}

// OnUpdate registers a callback invoked whenever the tracked head
// advances, with the newly observed seqno. Used by ShardsTracker to
// chain its own polls off the masterchain head instead of polling
// independently.
func (t *LastMasterchainTracker) OnUpdate(fn func(seqno uint32)) {
	t.onUpdate = fn
}

// Run polls until ctx is done.
func (t *LastMasterchainTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

func (t *LastMasterchainTracker) poll(ctx context.Context) {
	var (
		seqno uint32
		err   error
	)
	// Once a head is known, prefer a server-side wait for the next one
	// over re-asking for the same tip every tick.
	if w, ok := t.q.(HeadWaiter); ok && t.lastSeen > 0 {
		seqno, err = w.WaitMasterchainHead(ctx, t.lastSeen+1)
		if hasServerCode(err, codeWaitTimeout) {
			t.log.Debug("masterchain tip unchanged within server wait window", logging.KeySeqno, t.lastSeen)
			return
		}
	} else {
		seqno, err = t.q.MasterchainHead(ctx)
	}
	if err != nil {
		t.log.Warn("masterchain head poll failed", logging.KeyError, err)
		if t.metrics != nil {
			t.metrics.RecordTrackerError("masterchain_head")
		}
		return
	}
	if t.lastSeen > 0 && seqno <= t.lastSeen {
		return
	}

	// The tip is announced before its block is fetched: record the bare
	// seqno first, then confirm the block is actually retrievable before
	// promoting it to the fully-known right bound. On a failed fetch
	// lastSeen stays put, so the next tick retries the same tip.
	t.reg.UpsertRightSeqno(masterchainKey, seqno)
	if has, err := t.q.HasBlock(ctx, seqno); err != nil || !has {
		if err != nil {
			t.log.Warn("announced masterchain tip not yet fetchable", logging.KeySeqno, seqno, logging.KeyError, err)
		}
		return
	}
	t.lastSeen = seqno
	t.reg.UpsertRight(masterchainKey, registry.Header{Seqno: seqno})
	t.log.Debug("masterchain head updated", logging.KeySeqno, seqno)
	t.publishSeqno()
	if t.onUpdate != nil {
		t.onUpdate(seqno)
	}
}

func (t *LastMasterchainTracker) publishSeqno() {
	if t.metrics == nil {
		return
	}
	snap := t.reg.Lookup(masterchainKey)
	var first, last int32
	if snap.Left != nil {
		first = int32(snap.Left.Seqno)
	}
	if snap.Right != nil {
		last = int32(snap.Right.Seqno)
	}
	t.metrics.SetTrackerSeqno(t.serverID, shardLabel(masterchainKey), last, first)
}

// shardLabel renders a registry key as the metrics "shard" label value.
func shardLabel(key registry.Key) string {
	return fmt.Sprintf("%d:%x", key.Workchain, key.Shard)
}

// FirstMasterchainTracker discovers the oldest masterchain block the
// lite-server still retains by binary search, with an early exit once
// the search window narrows to at most five seqnos. It refreshes this bound
// periodically since a server can prune older blocks between
// refreshes.
type FirstMasterchainTracker struct {
	q        MasterchainQuerier
	reg      *registry.Registry
	interval time.Duration
	log      *slog.Logger

	metrics  *metrics.Metrics
	serverID string
}

// NewFirstMasterchainTracker creates a tracker that rediscovers the
// first retrievable masterchain block every interval.
func NewFirstMasterchainTracker(q MasterchainQuerier, reg *registry.Registry, interval time.Duration, log *slog.Logger) *FirstMasterchainTracker {
	return &FirstMasterchainTracker{q: q, reg: reg, interval: interval, log: logging.Component(log, "tracker.first")}
}

// SetMetrics attaches m as the destination for this tracker's seqno
// gauges and error counters, labeled by serverID.
func (t *FirstMasterchainTracker) SetMetrics(m *metrics.Metrics, serverID string) {
	t.metrics = m
	t.serverID = serverID
}

// Run polls until ctx is done.
func (t *FirstMasterchainTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

func (t *FirstMasterchainTracker) poll(ctx context.Context) {
	head, err := t.q.MasterchainHead(ctx)
	if err != nil {
		t.log.Warn("first-block discovery: head poll failed", logging.KeyError, err)
		if t.metrics != nil {
			t.metrics.RecordTrackerError("masterchain_head")
		}
		return
	}

	first, err := BinarySearchFirst(ctx, t.q, 1, head)
	if err != nil {
		t.log.Warn("first-block discovery failed", logging.KeyError, err)
		if t.metrics != nil {
			t.metrics.RecordTrackerError("first_block")
		}
		return
	}
	t.reg.UpsertLeft(masterchainKey, registry.Header{Seqno: first})
	t.log.Debug("first retrievable masterchain block updated", logging.KeySeqno, first)
	if t.metrics != nil {
		snap := t.reg.Lookup(masterchainKey)
		var last int32
		if snap.Right != nil {
			last = int32(snap.Right.Seqno)
		}
		t.metrics.SetTrackerSeqno(t.serverID, shardLabel(masterchainKey), last, int32(first))
	}
}

// BinarySearchFirst finds the smallest seqno in [low, high] for which
// q.HasBlock reports true, assuming retrievability is
// monotonic (once a block is gone, every older one is gone too). The
// search exits early once high-low narrows to 4 or less (at most five
// candidates),
// reporting the lowest present bound found in that window by a final
// linear scan — cheap since the window is already tiny, and it avoids
// one extra round trip the last few halvings would otherwise cost.
func BinarySearchFirst(ctx context.Context, q BlockChecker, low, high uint32) (uint32, error) {
	const (
		earlyExitWindow = 4
		// Most servers retain roughly this much recent history, so the
		// first probe lands near the real boundary instead of wasting
		// the first several halvings of a [1, tip] range.
		initialProbeOffset = 200000
	)

	hasHigh, err := q.HasBlock(ctx, high)
	if err != nil {
		return 0, err
	}
	if !hasHigh {
		return 0, ErrNoRetrievableBlock
	}

	if high > low && high-low > initialProbeOffset {
		cur := high - initialProbeOffset
		has, err := q.HasBlock(ctx, cur)
		if err != nil {
			return 0, err
		}
		if has {
			high = cur
		} else {
			low = cur + 1
		}
	}

	for high-low > earlyExitWindow {
		mid := low + (high-low)/2
		has, err := q.HasBlock(ctx, mid)
		if err != nil {
			return 0, err
		}
		if has {
			high = mid
		} else {
			low = mid + 1
		}
	}

	for seqno := low; seqno <= high; seqno++ {
		has, err := q.HasBlock(ctx, seqno)
		if err != nil {
			return 0, err
		}
		if has {
			return seqno, nil
		}
	}
	return high, nil
}
