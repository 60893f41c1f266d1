package tlschema

import "testing"

func TestResultGroups(t *testing.T) {
	schema, err := Parse(sampleSchema)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	groups := schema.ResultGroups()

	pong := groups["tcp.Pong"]
	if len(pong) != 2 {
		t.Fatalf("ResultGroups()[tcp.Pong] len = %d, want 2 (tcp.ping and tcp.pong)", len(pong))
	}

	blockData := groups["liteServer.BlockData"]
	if len(blockData) != 1 {
		t.Fatalf("ResultGroups()[liteServer.BlockData] len = %d, want 1", len(blockData))
	}

	// ResultGroups only considers non-functional combinators: a result
	// type produced solely by a function never appears in Types' groups.
	if _, ok := groups["liteServer.RunMethodResult"]; ok {
		t.Fatalf("ResultGroups() should not see liteServer.RunMethodResult, it has no entries under ---types---")
	}
}
