package main

import (
	"strings"
	"testing"

	"github.com/tonfleet/liteclient/internal/tlschema"
)

const sumTypeSchema = `
---types---
tcp.ping random_id:long = tcp.Pong;
tcp.pong random_id:long = tcp.Pong;
liteServer.blockData id:tonNode.blockIdExt data:bytes = liteServer.BlockData;
tonNode.blockIdExt workchain:int shard:long seqno:int root_hash:int256 file_hash:int256 = tonNode.BlockIdExt;
`

func TestBuildFileViewEmitsSumTypeForMultiConstructorResult(t *testing.T) {
	schema, err := tlschema.Parse(sumTypeSchema)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fv := buildFileView("sumtype.tl", "lsapi", schema)

	if len(fv.SumTypes) != 1 {
		t.Fatalf("len(SumTypes) = %d, want 1", len(fv.SumTypes))
	}
	st := fv.SumTypes[0]
	if st.GoName != "BoxedTcp_Pong" {
		t.Fatalf("SumTypes[0].GoName = %q, want BoxedTcp_Pong", st.GoName)
	}
	if st.MarkerName != "isBoxedTcp_Pong" {
		t.Fatalf("SumTypes[0].MarkerName = %q, want isBoxedTcp_Pong", st.MarkerName)
	}
	if len(st.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(st.Variants))
	}

	var markers int
	for _, cv := range fv.Combinators {
		if cv.GoName == "Tcp_Ping" || cv.GoName == "Tcp_Pong" {
			if cv.SumMarker != "isBoxedTcp_Pong" {
				t.Fatalf("%s.SumMarker = %q, want isBoxedTcp_Pong", cv.GoName, cv.SumMarker)
			}
			markers++
		}
		if cv.GoName == "LiteServer_BlockData" && cv.SumMarker != "" {
			t.Fatalf("LiteServer_BlockData.SumMarker = %q, want empty (single-combinator result)", cv.SumMarker)
		}
	}
	if markers != 2 {
		t.Fatalf("found %d marked variants, want 2", markers)
	}
}

func TestRenderConditionalFieldsGateOnFlagsBit(t *testing.T) {
	schema, err := tlschema.Parse(`
---types---
liteServer.blockLink mode:# seqno:int signature:mode.0?bytes lt:mode.1?long = liteServer.BlockLink;
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := Render("cond.tl", "lsapi", schema)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	src := string(out)
	for _, want := range []string{
		// decode reads an optional field only when its bit is set
		"if v.Mode&(1<<0) != 0 {",
		"if v.Mode&(1<<1) != 0 {",
		// encode computes the effective flags value from field presence
		"ModeBits := v.Mode",
		"ModeBits |= 1 << 0",
		"ModeBits |= 1 << 1",
		"s.WriteNatural(ModeBits)",
		// a present optional field encodes its dereferenced value
		"if v.Signature != nil {",
		"if v.Lt != nil {",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("rendered source missing %q\n---\n%s", want, src)
		}
	}
}

func TestRenderProducesValidGoSourceWithSumType(t *testing.T) {
	schema, err := tlschema.Parse(sumTypeSchema)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := Render("sumtype.tl", "lsapi", schema)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	src := string(out)
	for _, want := range []string{
		`"fmt"`,
		"type BoxedTcp_Pong interface",
		"func DecodeBoxedTcp_Pong(d *tl.Deserializer) (BoxedTcp_Pong, error)",
		"func (v Tcp_Ping) isBoxedTcp_Pong() {}",
		"func (v Tcp_Pong) isBoxedTcp_Pong() {}",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("rendered source missing %q\n---\n%s", want, src)
		}
	}
}
