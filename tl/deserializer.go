package tl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Deserializer consumes TL-encoded values from a byte buffer. It keeps a
// one-slot peek register so a caller can read a constructor number, decide
// which variant to dispatch to, and have that same number consumed as part
// of the variant's own decode — or left unconsumed if the caller backs out.
type Deserializer struct {
	buf    []byte
	pos    int
	peeked *uint32
}

// NewDeserializer wraps buf for reading. buf is not copied; callers must
// not mutate it while decoding is in progress.
func NewDeserializer(buf []byte) *Deserializer {
	return &Deserializer{buf: buf}
}

// Remaining returns the number of unconsumed bytes.
func (d *Deserializer) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Deserializer) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ParseInt32 reads a signed 32-bit little-endian integer.
func (d *Deserializer) ParseInt32() (int32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ParseInt64 reads a signed 64-bit little-endian integer.
func (d *Deserializer) ParseInt64() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// ParseNatural reads a 31-bit natural (top bit cleared). A set top bit is
// a malformed-wire condition, reported as ErrBadNatural.
func (d *Deserializer) ParseNatural() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b)
	if v&0x8000_0000 != 0 {
		return 0, ErrBadNatural
	}
	return v, nil
}

// ParseInt256 reads a 256-bit (32-byte) fixed array.
func (d *Deserializer) ParseInt256() ([32]byte, error) {
	var out [32]byte
	b, err := d.take(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ParseDouble reads an IEEE-754 double, little-endian.
func (d *Deserializer) ParseDouble() (float64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ParseBytes reads a length-delimited byte string, consuming any
// trailing zero-pad.
func (d *Deserializer) ParseBytes() ([]byte, error) {
	lenByte, err := d.take(1)
	if err != nil {
		return nil, err
	}

	if lenByte[0] != 0xFE {
		l := int(lenByte[0])
		data, err := d.take(l)
		if err != nil {
			return nil, err
		}
		out := append([]byte(nil), data...)
		if _, err := d.take(padLen(l + 1)); err != nil {
			return nil, err
		}
		return out, nil
	}

	lenBytes, err := d.take(3)
	if err != nil {
		return nil, err
	}
	l := int(lenBytes[0]) | int(lenBytes[1])<<8 | int(lenBytes[2])<<16

	data, err := d.take(l)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), data...)
	if _, err := d.take(padLen(l + 4)); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseString reads a UTF-8 string using the byte-string encoding.
func (d *Deserializer) ParseString() (string, error) {
	b, err := d.ParseBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PeekConstructor reads the next 4-byte big-endian constructor number
// without consuming it from the stream on subsequent reads: a later call
// to ParseConstructor returns the same peeked value and advances the
// position exactly once, as if the peek had not happened.
func (d *Deserializer) PeekConstructor() (uint32, error) {
	if d.peeked != nil {
		return *d.peeked, nil
	}
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(b)
	d.peeked = &v
	return v, nil
}

// ParseConstructor reads the next 4-byte big-endian constructor number,
// consuming a previously peeked value if one is pending instead of reading
// again.
func (d *Deserializer) ParseConstructor() (uint32, error) {
	if d.peeked != nil {
		v := *d.peeked
		d.peeked = nil
		return v, nil
	}
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
