package tlschema

import "testing"

const sampleSchema = `
// lite-server ping/pong
---types---
tcp.ping random_id:long = tcp.Pong;
tcp.pong random_id:long = tcp.Pong;

liteServer.blockData id:tonNode.blockIdExt data:bytes = liteServer.BlockData;

/* account state, with optional proof */
liteServer.accountState#51 id:tonNode.blockIdExt shardblk:tonNode.blockIdExt
  shard_proof:bytes proof:bytes state:bytes = liteServer.AccountState;

---functions---
liteServer.getBlock id:tonNode.blockIdExt = liteServer.BlockData;
liteServer.getAccountState mode:# id:tonNode.blockIdExt account:liteServer.accountId = liteServer.AccountState;
`

func TestParseSchema(t *testing.T) {
	schema, err := Parse(sampleSchema)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(schema.Types) != 4 {
		t.Fatalf("len(Types) = %d, want 4", len(schema.Types))
	}
	if len(schema.Functions) != 2 {
		t.Fatalf("len(Functions) = %d, want 2", len(schema.Functions))
	}

	ping := schema.Types[0]
	if ping.FullName() != "tcp.ping" {
		t.Fatalf("Types[0].FullName() = %q, want tcp.ping", ping.FullName())
	}
	if ping.Namespace != "tcp" || ping.Name != "ping" {
		t.Fatalf("Types[0] namespace/name = %q/%q", ping.Namespace, ping.Name)
	}
	if ping.Explicit {
		t.Fatal("Types[0].Explicit = true, want false (no #hex given)")
	}
	if len(ping.Params) != 1 || ping.Params[0].Name != "random_id" || ping.Params[0].Type != "long" {
		t.Fatalf("Types[0].Params = %+v", ping.Params)
	}

	accState := schema.Types[3]
	if !accState.Explicit || accState.Number != 0x51 {
		t.Fatalf("Types[3] explicit/number = %v/%x, want true/0x51", accState.Explicit, accState.Number)
	}
	if len(accState.Params) != 5 {
		t.Fatalf("Types[3].Params len = %d, want 5", len(accState.Params))
	}

	getAcc := schema.Functions[1]
	if getAcc.Result != "liteServer.AccountState" {
		t.Fatalf("Functions[1].Result = %q", getAcc.Result)
	}
	if len(getAcc.Params) != 3 {
		t.Fatalf("Functions[1].Params len = %d, want 3", len(getAcc.Params))
	}
}

func TestParseConditionalField(t *testing.T) {
	schema, err := Parse(`
---functions---
liteServer.runSmcMethod mode:# id:tonNode.blockIdExt account:liteServer.accountId
  method_id:long params:bytes proof:mode.0?bytes = liteServer.RunMethodResult;
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(schema.Functions) != 1 {
		t.Fatalf("len(Functions) = %d, want 1", len(schema.Functions))
	}
	p := schema.Functions[0].Params[5]
	if !p.Optional || p.FlagsField != "mode" || p.FlagsBit != 0 || p.Type != "bytes" {
		t.Fatalf("proof param = %+v, want Optional=true FlagsField=mode FlagsBit=0 Type=bytes", p)
	}
}

func TestParseVectorField(t *testing.T) {
	schema, err := Parse(`
---types---
liteServer.allShardsInfo id:tonNode.blockIdExt proof:bytes shard_hashes:vector<tonNode.blockIdExt> = liteServer.AllShardsInfo;
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := schema.Types[0].Params[2]
	if !p.Vector || p.Elem != "tonNode.blockIdExt" {
		t.Fatalf("shard_hashes param = %+v, want Vector=true Elem=tonNode.blockIdExt", p)
	}
}

func TestParseMissingResultIsError(t *testing.T) {
	_, err := Parse(`---types---
tcp.ping random_id:long;
`)
	if err == nil {
		t.Fatal("Parse() expected error for missing '=' result")
	}
}

func TestCanonicalFormAndConstructorNumber(t *testing.T) {
	c := Combinator{
		Namespace: "tcp",
		Name:      "ping",
		Params:    []Param{{Name: "random_id", Type: "long"}},
		Result:    "tcp.Pong",
	}
	form := CanonicalForm(c)
	want := "tcp.ping random_id:long = tcp.Pong"
	if form != want {
		t.Fatalf("CanonicalForm() = %q, want %q", form, want)
	}

	// The known reference value for this combinator: the byte-reversed
	// CRC-32 (IEEE) of the canonical form above.
	if got := ConstructorNumber(c); got != 0x9A2B084D {
		t.Fatalf("ConstructorNumber() = %#08x, want 0x9A2B084D", got)
	}

	explicit := c
	explicit.Explicit = true
	explicit.Number = 0xdeadbeef
	if got := ResolveNumber(explicit); got != 0xdeadbeef {
		t.Fatalf("ResolveNumber() on explicit combinator = %x, want 0xdeadbeef", got)
	}
	if got := ResolveNumber(c); got != ConstructorNumber(c) {
		t.Fatalf("ResolveNumber() on implicit combinator = %x, want computed %x", got, ConstructorNumber(c))
	}
}

func TestCanonicalFormWithConditionalAndVectorFields(t *testing.T) {
	c := Combinator{
		Name: "example",
		Params: []Param{
			{Name: "mode", Type: "#"},
			{Name: "shards", Vector: true, Elem: "tonNode.blockIdExt"},
		},
		Result: "example.Result",
	}
	form := CanonicalForm(c)
	want := "example mode:# shards:vector<tonNode.blockIdExt> = example.Result"
	if form != want {
		t.Fatalf("CanonicalForm() = %q, want %q", form, want)
	}
}
