package tlschema

import (
	"fmt"
	"hash/crc32"
	"math/bits"
	"strings"
)

// CanonicalForm builds the canonical textual form of a combinator used to
// derive its constructor number, grounded on the TL reference parser's
// constructor_number_form(): "name field:type ... = Result".
//
// Conditional fields are rendered with their flags.N? condition; vector
// fields are rendered as "vector<Elem>" regardless of how they were
// written in the source schema, since both spellings are equivalent TL.
func CanonicalForm(c Combinator) string {
	var b strings.Builder
	b.WriteString(c.FullName())
	for _, p := range c.Params {
		b.WriteByte(' ')
		b.WriteString(p.Name)
		b.WriteByte(':')
		if p.FlagsField != "" {
			fmt.Fprintf(&b, "%s.%d?", p.FlagsField, p.FlagsBit)
		}
		if p.Vector {
			fmt.Fprintf(&b, "vector<%s>", p.Elem)
		} else {
			b.WriteString(p.Type)
		}
	}
	b.WriteString(" = ")
	b.WriteString(c.Result)
	return b.String()
}

// ConstructorNumber computes a combinator's wire constructor number: the
// CRC-32 (IEEE polynomial) of the canonical form, byte-reversed. The
// checksum's little-endian byte serialization is what appears first on
// the wire, and constructor numbers are written big-endian, so the
// number itself is the byte-swapped checksum (tcp.ping's checksum
// 0x4D082B9A yields constructor number 0x9A2B084D).
func ConstructorNumber(c Combinator) uint32 {
	return bits.ReverseBytes32(crc32.ChecksumIEEE([]byte(CanonicalForm(c))))
}

// ResolveNumber returns c.Number if it was declared explicitly with #hex,
// otherwise the computed constructor number.
func ResolveNumber(c Combinator) uint32 {
	if c.Explicit {
		return c.Number
	}
	return ConstructorNumber(c)
}
