package tl

import (
	"encoding/binary"
	"math"
)

// Serializer appends TL-encoded values to an internal byte buffer.
type Serializer struct {
	buf []byte
}

// NewSerializer creates an empty Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Bytes returns the accumulated, 4-byte-aligned buffer.
func (s *Serializer) Bytes() []byte {
	return s.buf
}

// WriteInt32 writes a signed 32-bit little-endian integer.
func (s *Serializer) WriteInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	s.buf = append(s.buf, b[:]...)
}

// WriteInt64 writes a signed 64-bit little-endian integer.
func (s *Serializer) WriteInt64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	s.buf = append(s.buf, b[:]...)
}

// WriteNatural writes a 31-bit natural (top bit cleared) as a little-endian
// uint32. It panics if v has the top bit set, since that is a programmer
// error, not a wire condition.
func (s *Serializer) WriteNatural(v uint32) {
	if v&0x8000_0000 != 0 {
		panic(ErrBadNatural)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

// WriteInt256 writes a 256-bit (32-byte) fixed array verbatim.
func (s *Serializer) WriteInt256(v [32]byte) {
	s.buf = append(s.buf, v[:]...)
}

// WriteDouble writes an IEEE-754 double, little-endian.
func (s *Serializer) WriteDouble(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	s.buf = append(s.buf, b[:]...)
}

// WriteBytes writes a length-delimited byte string per the TL encoding:
// short form (L<=253) is one length byte followed by the bytes and
// zero-padding to a 4-byte boundary; long form (L>253) is a 0xFE marker,
// three little-endian length bytes, the bytes, and zero-padding.
func (s *Serializer) WriteBytes(v []byte) {
	l := len(v)
	if l <= 253 {
		s.buf = append(s.buf, byte(l))
		s.buf = append(s.buf, v...)
		pad := padLen(l + 1)
		s.buf = append(s.buf, make([]byte, pad)...)
		return
	}

	s.buf = append(s.buf, 0xFE, byte(l), byte(l>>8), byte(l>>16))
	s.buf = append(s.buf, v...)
	pad := padLen(l + 4)
	s.buf = append(s.buf, make([]byte, pad)...)
}

// WriteString writes a UTF-8 string using the byte-string encoding.
func (s *Serializer) WriteString(v string) {
	s.WriteBytes([]byte(v))
}

// WriteConstructor writes a 4-byte big-endian constructor number.
func (s *Serializer) WriteConstructor(number uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], number)
	s.buf = append(s.buf, b[:]...)
}

// padLen returns the number of zero bytes needed to round prefixedLen up
// to a 4-byte boundary, per the TL byte-string encoding rule.
func padLen(prefixedLen int) int {
	rem := prefixedLen % 4
	if rem == 0 {
		return 0
	}
	return 4 - rem
}
