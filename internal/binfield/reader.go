// Package binfield reads fixed-offset little-endian fields out of a record
// header without reinterpreting memory. Every read is bounds-checked and
// returns an owned value.
package binfield

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a read falls outside the buffer.
var ErrShortBuffer = errors.New("buffer too short")

// Reader reads fields at absolute offsets. The first failed read is sticky:
// later reads return zero values and Err reports the first failure, so a
// decoder can read a whole layout and check once.
type Reader struct {
	buf []byte
	err error
}

// NewReader returns a Reader over buf. buf is not copied; it must not be
// modified while the Reader is in use.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the buffer length.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Require checks that the buffer holds at least n bytes.
func (r *Reader) Require(n int) error {
	if n < 0 || len(r.buf) < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n, len(r.buf))
	}
	return nil
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) span(off, n int) []byte {
	if r.err != nil {
		return nil
	}
	if off < 0 || n < 0 || off > len(r.buf)-n {
		r.err = fmt.Errorf("%w: %d bytes at offset 0x%X, have %d", ErrShortBuffer, n, off, len(r.buf))
		return nil
	}
	return r.buf[off : off+n]
}

// U8 reads one byte at off.
func (r *Reader) U8(off int) uint8 {
	b := r.span(off, 1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U16 reads a little-endian uint16 at off.
func (r *Reader) U16(off int) uint16 {
	b := r.span(off, 2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads a little-endian uint32 at off.
func (r *Reader) U32(off int) uint32 {
	b := r.span(off, 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64 reads a little-endian uint64 at off.
func (r *Reader) U64(off int) uint64 {
	b := r.span(off, 8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Uint reads an unsigned integer of width 1, 2, 4 or 8 bytes at off.
func (r *Reader) Uint(off, width int) uint64 {
	switch width {
	case 1:
		return uint64(r.U8(off))
	case 2:
		return uint64(r.U16(off))
	case 4:
		return uint64(r.U32(off))
	case 8:
		return r.U64(off)
	default:
		if r.err == nil {
			r.err = fmt.Errorf("binfield: unsupported field width %d", width)
		}
		return 0
	}
}

// Bytes returns a copy of n bytes at off.
func (r *Reader) Bytes(off, n int) []byte {
	b := r.span(off, n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
