package shardconfig

import (
	"errors"
	"fmt"
	"math/bits"
)

// ShardEntry is one shard's current head as read out of a decoded
// ShardHashes value.
type ShardEntry struct {
	Workchain int32
	Shard     uint64
	Seqno     uint32
	StartLt   uint64
	EndLt     uint64
}

// DecodeShardHashes parses a BoC-encoded `liteServer.allShardsInfo`
// Data payload, whose root cell carries a TL-B
// `HashmapE 32 ^(BinTree ShardDescr)` value (see block.tlb's
// ShardHashes), into a flat list of shard heads.
//
// Grounded on the field layout in
// ton-liteserver-client/src/tlb/{shard_hashes,shard_descr,future_split_merge}.rs:
// the hashmap keys are workchain ids, each leaf is a ref to a BinTree
// whose own leaves are ShardDescr records, one per shard of that
// workchain.
func DecodeShardHashes(data []byte) ([]ShardEntry, error) {
	roots, err := ParseBOC(data)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, errors.New("shardconfig: boc has no root cell")
	}

	root := roots[0]
	r := newBitReader(root)
	present, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil // hme_empty$0: no shards reported
	}
	if len(root.refs) < 1 {
		return nil, errors.New("shardconfig: hashmap root missing ref")
	}

	leaves := make(map[uint32]*Cell)
	if err := parseHashmapNode(root.refs[0], 32, 0, leaves); err != nil {
		return nil, fmt.Errorf("shardconfig: parsing shard hashmap: %w", err)
	}

	var out []ShardEntry
	for wc, binTreeRoot := range leaves {
		var entries []shardEntry
		if err := parseBinTree(binTreeRoot, uint64(1)<<63, 0, &entries); err != nil {
			return nil, fmt.Errorf("shardconfig: workchain %d: %w", wc, err)
		}
		for _, e := range entries {
			out = append(out, ShardEntry{
				Workchain: int32(wc),
				Shard:     e.Shard,
				Seqno:     e.Descr.SeqNo,
				StartLt:   e.Descr.StartLt,
				EndLt:     e.Descr.EndLt,
			})
		}
	}
	return out, nil
}

// parseHashmapNode walks one `Hashmap m X` node (TL-B hm_edge): a label
// (one of hml_short/hml_long/hml_same) followed by either a leaf value
// (when the label consumes all m remaining key bits) or two child refs.
// prefix accumulates the key bits read so far; on a leaf, prefix holds
// the full 32-bit workchain id.
func parseHashmapNode(cell *Cell, m int, prefix uint32, out map[uint32]*Cell) error {
	r := newBitReader(cell)
	value, length, err := parseLabel(r, m)
	if err != nil {
		return err
	}
	newPrefix := prefix
	if length > 0 {
		newPrefix = (prefix << uint(length)) | uint32(value)
	}
	m2 := m - length

	if m2 == 0 {
		if len(cell.refs) < 1 {
			return errors.New("hashmap leaf missing value ref")
		}
		out[newPrefix] = cell.refs[0]
		return nil
	}
	if len(cell.refs) < 2 {
		return errors.New("hashmap fork missing child refs")
	}
	if err := parseHashmapNode(cell.refs[0], m2-1, newPrefix<<1, out); err != nil {
		return err
	}
	return parseHashmapNode(cell.refs[1], m2-1, (newPrefix<<1)|1, out)
}

// parseLabel decodes one HmLabel ~n m value, returning its bits packed
// into value (n-wide) and its length n.
func parseLabel(r *bitReader, m int) (value uint64, length int, err error) {
	first, err := r.ReadBit()
	if err != nil {
		return 0, 0, err
	}
	if !first {
		// hml_short$0 len:(Unary ~n) s:(n * Bit)
		n, err := readUnary(r)
		if err != nil {
			return 0, 0, err
		}
		v, err := r.ReadBits(n)
		if err != nil {
			return 0, 0, err
		}
		return v, n, nil
	}

	second, err := r.ReadBit()
	if err != nil {
		return 0, 0, err
	}
	nBits := bitsForLen(m)

	if !second {
		// hml_long$10 n:(#<= m) s:(n * Bit)
		n64, err := r.ReadBits(nBits)
		if err != nil {
			return 0, 0, err
		}
		n := int(n64)
		v, err := r.ReadBits(n)
		if err != nil {
			return 0, 0, err
		}
		return v, n, nil
	}

	// hml_same$11 v:Bit n:(#<= m)
	v, err := r.ReadBit()
	if err != nil {
		return 0, 0, err
	}
	n64, err := r.ReadBits(nBits)
	if err != nil {
		return 0, 0, err
	}
	n := int(n64)
	var value2 uint64
	if v {
		if n >= 64 {
			value2 = ^uint64(0)
		} else {
			value2 = (uint64(1) << uint(n)) - 1
		}
	}
	return value2, n, nil
}

func readUnary(r *bitReader) (int, error) {
	n := 0
	for {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if !b {
			return n, nil
		}
		n++
	}
}

// bitsForLen returns the bit width of a `#<= m` field: the minimum
// number of bits that can represent every integer in [0, m].
func bitsForLen(m int) int { return bits.Len(uint(m)) }

type shardDescrData struct {
	SeqNo   uint32
	StartLt uint64
	EndLt   uint64
}

type shardEntry struct {
	Shard uint64
	Descr shardDescrData
}

// parseBinTree walks one `BinTree ShardDescr` cell: bt_leaf$0 holds a
// ShardDescr inline, bt_fork$1 holds two refs each continuing a BinTree
// one level deeper. shard/depth track the shard prefix being built, per
// descendLeft/descendRight.
func parseBinTree(cell *Cell, shard uint64, depth int, out *[]shardEntry) error {
	r := newBitReader(cell)
	isFork, err := r.ReadBit()
	if err != nil {
		return err
	}
	if !isFork {
		descr, err := parseShardDescr(r)
		if err != nil {
			return err
		}
		*out = append(*out, shardEntry{Shard: shard, Descr: descr})
		return nil
	}
	if len(cell.refs) < 2 {
		return errors.New("bintree fork missing child refs")
	}
	if err := parseBinTree(cell.refs[0], descendLeft(shard, depth), depth+1, out); err != nil {
		return err
	}
	return parseBinTree(cell.refs[1], descendRight(shard, depth), depth+1, out)
}

// descendLeft and descendRight compute a child shard id from its
// parent's id and tree depth, following TON's shard-prefix convention:
// a shard id is its binary prefix followed by a single marker '1' bit
// then zeros. Descending left appends a 0 prefix bit, right appends a 1,
// and the marker shifts one position right either way.
func descendLeft(shard uint64, depth int) uint64 {
	mp := 63 - depth
	return (shard &^ (uint64(1) << uint(mp))) | (uint64(1) << uint(mp-1))
}

func descendRight(shard uint64, depth int) uint64 {
	mp := 63 - depth
	return shard | (uint64(1) << uint(mp-1))
}

// parseShardDescr reads a ShardDescr record (tags shard_descr_new#a /
// shard_descr#b) far enough to recover the fields the registry needs —
// seq_no, start_lt, end_lt — then the split_merge_at discriminator, so
// the bit cursor ends up correctly positioned even though nothing past
// it (next_catchain_seqno and later, fees_collected, funds_created) is
// read. The two tags differ only in whether fees/funds are stored
// inline or behind a ref, which doesn't affect anything read here.
func parseShardDescr(r *bitReader) (shardDescrData, error) {
	if _, err := r.ReadBits(4); err != nil { // tag
		return shardDescrData{}, err
	}
	seqNo, err := r.ReadBits(32)
	if err != nil {
		return shardDescrData{}, err
	}
	if _, err := r.ReadBits(32); err != nil { // reg_mc_seqno
		return shardDescrData{}, err
	}
	startLt, err := r.ReadBits(64)
	if err != nil {
		return shardDescrData{}, err
	}
	endLt, err := r.ReadBits(64)
	if err != nil {
		return shardDescrData{}, err
	}
	// root_hash, file_hash (256 bits each), before_split/before_merge/
	// want_split/want_merge/nx_cc_updated (5 bits), flags (3 bits),
	// next_catchain_seqno (32), next_validator_shard (64),
	// min_ref_mc_seqno (32), gen_utime (32).
	if err := r.Skip(256 + 256 + 5 + 3 + 32 + 64 + 32 + 32); err != nil {
		return shardDescrData{}, err
	}
	hasSplitMerge, err := r.ReadBit()
	if err != nil {
		return shardDescrData{}, err
	}
	if hasSplitMerge {
		if _, err := r.ReadBit(); err != nil { // fsm_split$10 vs fsm_merge$11
			return shardDescrData{}, err
		}
		if err := r.Skip(64); err != nil { // split_utime/merge_utime + interval
			return shardDescrData{}, err
		}
	}
	return shardDescrData{SeqNo: uint32(seqNo), StartLt: startLt, EndLt: endLt}, nil
}
