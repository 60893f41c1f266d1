package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tonfleet/liteclient/internal/logging"
	"github.com/tonfleet/liteclient/internal/metrics"
	"github.com/tonfleet/liteclient/internal/registry"
)

// ShardQuerier fetches the current set of workchain shard descriptions
// as of a given masterchain seqno, and checks whether a specific shard
// block is still retrievable (used by the per-shard first-block
// trackers ShardsTracker spawns).
type ShardQuerier interface {
	ShardsAt(ctx context.Context, masterSeqno uint32) ([]ShardInfo, error)
	HasShardBlock(ctx context.Context, workchain int32, shard uint64, seqno uint32) (bool, error)
}

// ShardInfo is one workchain shard's head as reported at a masterchain
// seqno. Lt/HaveLt carry the shard block's end_lt, when the querier's
// decoder can recover it, so LogicalTime routing criteria can be
// answered for non-masterchain shards too.
type ShardInfo struct {
	Workchain int32
	Shard     uint64
	Seqno     uint32
	Lt        uint64
	HaveLt    bool
}

// shardFirstInterval is how often each per-shard first-block tracker
// rediscovers its shard's oldest retrievable block, mirroring
// FirstMasterchainTracker's own rediscovery cadence.
const shardFirstInterval = 5 * time.Minute

// ShardsTracker chains off LastMasterchainTracker's updates: whenever a
// new masterchain head is observed, it fetches that head's shard
// configuration and records each shard's head seqno into the registry,
// reacting to one component's update rather than polling independently
// on its own timer. The first time it sees a given (workchain, shard)
// pair, it also spawns a dedicated first-block tracker for that shard,
// mirroring FirstMasterchainTracker's binary search but scoped to the
// shard instead of the masterchain.
type ShardsTracker struct {
	ctx context.Context
	q   ShardQuerier
	reg *registry.Registry
	log *slog.Logger

	metrics  *metrics.Metrics
	serverID string

	mu      sync.Mutex
	running bool
	seen    map[registry.Key]bool
}

// NewShardsTracker creates a tracker that records shard heads into reg.
// The per-shard first-block trackers it spawns are bound to ctx and
// stop when ctx is cancelled, same as every other tracker attached to a
// server connection.
func NewShardsTracker(ctx context.Context, q ShardQuerier, reg *registry.Registry, log *slog.Logger) *ShardsTracker {
	return &ShardsTracker{ctx: ctx, q: q, reg: reg, log: logging.Component(log, "tracker.shards"), seen: make(map[registry.Key]bool)}
}

// SetMetrics attaches m as the destination for this tracker's error
// counters and the per-shard first-block trackers it spawns, labeled by
// serverID.
func (st *ShardsTracker) SetMetrics(m *metrics.Metrics, serverID string) {
	st.metrics = m
	st.serverID = serverID
}

// AttachTo registers st as an update listener on parent, so every
// successful masterchain head poll triggers a shard refresh.
func (st *ShardsTracker) AttachTo(parent *LastMasterchainTracker) {
	parent.OnUpdate(st.onMasterchainUpdate)
}

func (st *ShardsTracker) onMasterchainUpdate(masterSeqno uint32) {
	st.mu.Lock()
	if st.running {
		st.mu.Unlock()
		return
	}
	st.running = true
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.running = false
		st.mu.Unlock()
	}()

	shards, err := st.q.ShardsAt(st.ctx, masterSeqno)
	if err != nil {
		st.log.Warn("shard refresh failed", logging.KeySeqno, masterSeqno, logging.KeyError, err)
		if st.metrics != nil {
			st.metrics.RecordTrackerError("shards")
		}
		return
	}

	for _, s := range shards {
		key := registry.Key{Workchain: s.Workchain, Shard: s.Shard}
		st.reg.UpsertRightSeqno(key, s.Seqno)
		st.reg.UpsertRight(key, registry.Header{Seqno: s.Seqno, Lt: s.Lt, HaveLt: s.HaveLt})
		st.spawnFirstTrackerOnce(key)
		if st.metrics != nil {
			var first int32
			if snap := st.reg.Lookup(key); snap.Left != nil {
				first = int32(snap.Left.Seqno)
			}
			st.metrics.SetTrackerSeqno(st.serverID, shardLabel(key), int32(s.Seqno), first)
		}
	}
	st.log.Debug("shards updated", logging.KeySeqno, masterSeqno, logging.KeyCount, len(shards))
}

func (st *ShardsTracker) spawnFirstTrackerOnce(key registry.Key) {
	st.mu.Lock()
	if st.seen[key] {
		st.mu.Unlock()
		return
	}
	st.seen[key] = true
	st.mu.Unlock()

	checker := shardBlockChecker{q: st.q, workchain: key.Workchain, shard: key.Shard}
	go runShardFirstTracker(st.ctx, checker, st.reg, key, shardFirstInterval, st.log, st.metrics, st.serverID)
}

// shardBlockChecker adapts ShardQuerier.HasShardBlock to BlockChecker
// for one fixed (workchain, shard), so BinarySearchFirst can run against
// a specific shard the same way FirstMasterchainTracker runs it against
// the masterchain.
type shardBlockChecker struct {
	q         ShardQuerier
	workchain int32
	shard     uint64
}

func (c shardBlockChecker) HasBlock(ctx context.Context, seqno uint32) (bool, error) {
	return c.q.HasShardBlock(ctx, c.workchain, c.shard, seqno)
}

// runShardFirstTracker periodically binary-searches key's oldest
// retrievable block, against the most recently observed head for that
// shard, and records the result as the registry's left bound. It exits
// when ctx is cancelled.
func runShardFirstTracker(ctx context.Context, checker shardBlockChecker, reg *registry.Registry, key registry.Key, interval time.Duration, log *slog.Logger, m *metrics.Metrics, serverID string) {
	poll := func() {
		snap := reg.Lookup(key)
		if snap.Right == nil {
			return
		}
		first, err := BinarySearchFirst(ctx, checker, 1, snap.Right.Seqno)
		if err != nil {
			log.Warn("shard first-block discovery failed", logging.KeyWorkchain, key.Workchain, logging.KeyShard, key.Shard, logging.KeyError, err)
			if m != nil {
				m.RecordTrackerError("shard_first_block")
			}
			return
		}
		reg.UpsertLeft(key, registry.Header{Seqno: first})
		log.Debug("shard first retrievable block updated", logging.KeyWorkchain, key.Workchain, logging.KeyShard, key.Shard, logging.KeySeqno, first)
		if m != nil {
			m.SetTrackerSeqno(serverID, shardLabel(key), int32(snap.Right.Seqno), int32(first))
		}
	}

	poll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
