package lsapi

import (
	"testing"

	"github.com/tonfleet/liteclient/tl"
)

func TestBlockIdExtRoundTrip(t *testing.T) {
	want := TonNode_BlockIdExt{
		Workchain: -1,
		Shard:     -9223372036854775808,
		Seqno:     123456,
		RootHash:  [32]byte{1, 2, 3},
		FileHash:  [32]byte{4, 5, 6},
	}

	s := tl.NewSerializer()
	want.Encode(s)

	d := tl.NewDeserializer(s.Bytes())
	ctor, err := d.ParseConstructor()
	if err != nil {
		t.Fatalf("ParseConstructor() error = %v", err)
	}
	if ctor != want.ConstructorNumber() {
		t.Fatalf("ConstructorNumber on wire = %x, want %x", ctor, want.ConstructorNumber())
	}

	got, err := DecodeTonNode_BlockIdExt(d)
	if err != nil {
		t.Fatalf("DecodeTonNode_BlockIdExt() error = %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestMasterchainInfoRoundTrip(t *testing.T) {
	want := LiteServer_MasterchainInfo{
		Last: TonNode_BlockIdExt{Workchain: -1, Shard: 1, Seqno: 10},
		Init: TonNode_BlockId{Workchain: -1, Shard: 1, Seqno: 0},
	}

	s := tl.NewSerializer()
	want.Encode(s)

	d := tl.NewDeserializer(s.Bytes())
	if _, err := d.ParseConstructor(); err != nil {
		t.Fatalf("ParseConstructor() error = %v", err)
	}
	got, err := DecodeLiteServer_MasterchainInfo(d)
	if err != nil {
		t.Fatalf("DecodeLiteServer_MasterchainInfo() error = %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestQueryEnvelopeConstructorNumber(t *testing.T) {
	// The reference value for "liteServer.query data:bytes = Object",
	// written big-endian on the wire ahead of the wrapped request.
	if liteServerQueryNumber != 0xDF068C79 {
		t.Fatalf("liteServer.query constructor = %#08x, want 0xDF068C79", liteServerQueryNumber)
	}
}

func TestWaitMasterchainSeqnoEncodesAsPrefix(t *testing.T) {
	s := tl.NewSerializer()
	LiteServer_WaitMasterchainSeqno{Seqno: 100, TimeoutMs: 10000}.Encode(s)
	LiteServer_GetMasterchainInfo{}.Encode(s)

	d := tl.NewDeserializer(s.Bytes())
	ctor, err := d.ParseConstructor()
	if err != nil {
		t.Fatalf("ParseConstructor() error = %v", err)
	}
	if ctor != liteServerWaitMasterchainSeqnoNumber {
		t.Fatalf("prefix constructor = %x, want waitMasterchainSeqno", ctor)
	}
	if seqno, _ := d.ParseInt32(); seqno != 100 {
		t.Fatalf("prefix seqno = %d, want 100", seqno)
	}
	if timeoutMs, _ := d.ParseInt32(); timeoutMs != 10000 {
		t.Fatalf("prefix timeout_ms = %d, want 10000", timeoutMs)
	}
	ctor, err = d.ParseConstructor()
	if err != nil {
		t.Fatalf("ParseConstructor() after prefix error = %v", err)
	}
	if ctor != liteServerGetMasterchainInfoNumber {
		t.Fatalf("wrapped constructor = %x, want getMasterchainInfo", ctor)
	}
	if d.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", d.Remaining())
	}
}

func TestConstructorNumbersAreDistinct(t *testing.T) {
	numbers := []uint32{
		tonNodeBlockIdNumber, tonNodeBlockIdExtNumber, liteServerMasterchainInfoNumber,
		liteServerBlockDataNumber, liteServerBlockHeaderNumber, liteServerSendMsgStatusNumber,
		liteServerAccountIdNumber, liteServerAccountStateNumber, liteServerAccountStatePrunedNumber,
		liteServerRunMethodResultNumber,
		liteServerShardInfoNumber, liteServerAllShardsInfoNumber, liteServerErrorNumber,
		liteServerGetMasterchainInfoNumber, liteServerGetBlockNumber, liteServerGetBlockHeaderNumber,
		liteServerSendMessageNumber, liteServerGetAccountStateNumber, liteServerRunSmcMethodNumber,
		liteServerGetShardInfoNumber, liteServerGetAllShardsInfoNumber, liteServerLookupBlockNumber,
		liteServerQueryNumber, liteServerWaitMasterchainSeqnoNumber,
	}
	seen := make(map[uint32]bool, len(numbers))
	for _, n := range numbers {
		if seen[n] {
			t.Fatalf("duplicate constructor number %x", n)
		}
		seen[n] = true
	}
}

func TestBoxedAccountStateDispatchesBothVariants(t *testing.T) {
	full := LiteServer_AccountState{
		Id:    TonNode_BlockIdExt{Workchain: -1, Seqno: 7},
		State: "deadbeef",
	}
	pruned := LiteServer_AccountStatePruned{
		Id:    TonNode_BlockIdExt{Workchain: -1, Seqno: 8},
		Proof: "proofbytes",
	}

	for _, want := range []BoxedLiteServer_AccountState{full, pruned} {
		s := tl.NewSerializer()
		want.Encode(s)

		got, err := DecodeBoxedLiteServer_AccountState(tl.NewDeserializer(s.Bytes()))
		if err != nil {
			t.Fatalf("DecodeBoxedLiteServer_AccountState() error = %v", err)
		}
		if got != want {
			t.Fatalf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestBoxedAccountStateRejectsUnknownConstructor(t *testing.T) {
	s := tl.NewSerializer()
	LiteServer_Error{Code: 1, Message: "nope"}.Encode(s)

	if _, err := DecodeBoxedLiteServer_AccountState(tl.NewDeserializer(s.Bytes())); err == nil {
		t.Fatalf("expected error for mismatched constructor, got nil")
	}
}

func TestGetShardInfoEncodesExactAsBool(t *testing.T) {
	req := LiteServer_GetShardInfo{Exact: true}
	s := tl.NewSerializer()
	req.Encode(s)

	d := tl.NewDeserializer(s.Bytes())
	if _, err := d.ParseConstructor(); err != nil {
		t.Fatalf("ParseConstructor() error = %v", err)
	}
	if _, err := DecodeTonNode_BlockIdExt(d); err != nil {
		t.Fatalf("DecodeTonNode_BlockIdExt() error = %v", err)
	}
	if _, err := d.ParseInt32(); err != nil { // workchain
		t.Fatalf("ParseInt32() workchain error = %v", err)
	}
	if _, err := d.ParseInt64(); err != nil { // shard
		t.Fatalf("ParseInt64() shard error = %v", err)
	}
	exact, err := d.ParseInt32()
	if err != nil {
		t.Fatalf("ParseInt32() exact error = %v", err)
	}
	if exact != 1 {
		t.Fatalf("Exact encoded as %d, want 1", exact)
	}
}
