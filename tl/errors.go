// Package tl implements the TL binary serialization used to carry
// lite-server requests and responses: primitives, length-delimited byte
// strings, bare structs, and boxed (constructor-tagged) variants.
package tl

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when a read runs past the end of the buffer.
var ErrUnexpectedEOF = errors.New("tl: unexpected end of buffer")

// ErrBadNatural is returned when a 31-bit natural's top bit is set.
var ErrBadNatural = errors.New("tl: natural value has top bit set")

// UnknownConstructorError is returned when a sum-type dispatch encounters a
// constructor number none of its variants declare. It is recoverable at
// the caller: the observed tag is preserved for diagnostics.
type UnknownConstructorError struct {
	Constructor uint32
}

func (e *UnknownConstructorError) Error() string {
	return fmt.Sprintf("tl: unknown constructor number 0x%08x", e.Constructor)
}
