package tl

import (
	"bytes"
	"testing"
)

func TestWriteBytesLongForm(t *testing.T) {
	// The 255-byte value [0x01]*255 encodes long-form: FE FF 00 00, the
	// bytes, then one zero-pad byte to the 4-byte boundary.
	v := bytes.Repeat([]byte{0x01}, 255)

	s := NewSerializer()
	s.WriteBytes(v)

	want := append([]byte{0xFE, 0xFF, 0x00, 0x00}, v...)
	want = append(want, 0x00)

	if !bytes.Equal(s.Bytes(), want) {
		t.Fatalf("WriteBytes(255 bytes) = %x, want %x", s.Bytes(), want)
	}

	d := NewDeserializer(want)
	got, err := d.ParseBytes()
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if !bytes.Equal(got, v) {
		t.Fatalf("ParseBytes() = %x, want %x", got, v)
	}
}

func TestByteStringRoundTripLengths(t *testing.T) {
	lengths := []int{0, 1, 253, 254, 255, 65535, 100000}

	for _, l := range lengths {
		v := make([]byte, l)
		for i := range v {
			v[i] = byte(i)
		}

		s := NewSerializer()
		s.WriteBytes(v)

		encoded := s.Bytes()
		if len(encoded)%4 != 0 {
			t.Errorf("length %d: encoded length %d is not a multiple of 4", l, len(encoded))
		}

		d := NewDeserializer(encoded)
		got, err := d.ParseBytes()
		if err != nil {
			t.Fatalf("length %d: ParseBytes() error = %v", l, err)
		}
		if !bytes.Equal(got, v) {
			t.Fatalf("length %d: round trip mismatch", l)
		}
		if d.Remaining() != 0 {
			t.Errorf("length %d: %d bytes left unconsumed", l, d.Remaining())
		}
	}
}

func TestPrimitivesRoundTrip(t *testing.T) {
	s := NewSerializer()
	s.WriteInt32(-12345)
	s.WriteInt64(0x1122334455667788)
	s.WriteNatural(0x7FFFFFFF)
	var fixed [32]byte
	for i := range fixed {
		fixed[i] = byte(i)
	}
	s.WriteInt256(fixed)
	s.WriteDouble(3.14159265)
	s.WriteString("hello, lite-server")

	d := NewDeserializer(s.Bytes())

	i32, err := d.ParseInt32()
	if err != nil || i32 != -12345 {
		t.Fatalf("ParseInt32() = %d, %v", i32, err)
	}
	i64, err := d.ParseInt64()
	if err != nil || i64 != 0x1122334455667788 {
		t.Fatalf("ParseInt64() = %d, %v", i64, err)
	}
	nat, err := d.ParseNatural()
	if err != nil || nat != 0x7FFFFFFF {
		t.Fatalf("ParseNatural() = %d, %v", nat, err)
	}
	gotFixed, err := d.ParseInt256()
	if err != nil || gotFixed != fixed {
		t.Fatalf("ParseInt256() mismatch, err = %v", err)
	}
	dbl, err := d.ParseDouble()
	if err != nil || dbl != 3.14159265 {
		t.Fatalf("ParseDouble() = %v, %v", dbl, err)
	}
	str, err := d.ParseString()
	if err != nil || str != "hello, lite-server" {
		t.Fatalf("ParseString() = %q, %v", str, err)
	}
}

func TestParseNaturalRejectsTopBit(t *testing.T) {
	s := NewSerializer()
	s.buf = append(s.buf, 0x00, 0x00, 0x00, 0x80) // top bit set, little-endian

	d := NewDeserializer(s.Bytes())
	if _, err := d.ParseNatural(); err == nil {
		t.Fatal("expected ErrBadNatural for a natural with the top bit set")
	}
}

func TestConstructorPeekThenParseConsumesOnce(t *testing.T) {
	s := NewSerializer()
	s.WriteConstructor(0x9A2B084D)
	s.WriteInt64(42)

	d := NewDeserializer(s.Bytes())

	peeked, err := d.PeekConstructor()
	if err != nil {
		t.Fatalf("PeekConstructor() error = %v", err)
	}
	if peeked != 0x9A2B084D {
		t.Fatalf("PeekConstructor() = %x, want %x", peeked, 0x9A2B084D)
	}

	parsed, err := d.ParseConstructor()
	if err != nil {
		t.Fatalf("ParseConstructor() error = %v", err)
	}
	if parsed != peeked {
		t.Fatalf("ParseConstructor() = %x, want peeked value %x", parsed, peeked)
	}

	v, err := d.ParseInt64()
	if err != nil || v != 42 {
		t.Fatalf("ParseInt64() after constructor = %d, %v", v, err)
	}
}
