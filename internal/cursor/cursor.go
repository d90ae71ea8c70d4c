// Package cursor provides a sticky-error, little-endian byte cursor used to
// decode the engine's fixed-layout binary formats (RSZ blocks, USER headers,
// message tables). Unlike a general-purpose wire-format reader there is no
// varint or tag framing here: every primitive has a fixed width and the
// caller always knows, from the schema, what to read next.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

// Sentinel errors. Check with errors.Is.
var (
	// ErrUnexpectedEOF indicates a read ran past the end of the buffer.
	ErrUnexpectedEOF = errors.New("cursor: unexpected end of data")

	// ErrSeekMismatch indicates a SeekNoop/SeekAssertAlignUp target did not
	// match the expected position. This means there is undiscovered data
	// between where the cursor is and where the caller expected it to be.
	ErrSeekMismatch = errors.New("cursor: seek target mismatch")

	// ErrNegativeLength indicates a negative length was requested for a read.
	ErrNegativeLength = errors.New("cursor: negative length")
)

// Cursor reads little-endian primitives from a fixed byte buffer.
//
// The first error encountered latches: subsequent reads become no-ops that
// return the zero value, so decode call sites can chain many reads and check
// Err() once at the end, exactly as callers of a protocol reader would.
type Cursor struct {
	data []byte
	pos  int
	err  error
}

// New creates a Cursor over data, starting at offset 0.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Err returns the first error encountered, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Offset returns the current read position.
func (c *Cursor) Offset() int {
	return c.pos
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}
	return len(c.data) - c.pos
}

// Data returns the underlying buffer.
func (c *Cursor) Data() []byte {
	return c.data
}

func (c *Cursor) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Cursor) ensure(n int) bool {
	if c.err != nil {
		return false
	}
	if n < 0 {
		c.setErr(ErrNegativeLength)
		return false
	}
	if c.pos+n > len(c.data) {
		c.setErr(fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEOF, n, c.pos, c.Remaining()))
		return false
	}
	return true
}

// U8 reads an unsigned 8-bit integer.
func (c *Cursor) U8() uint8 {
	if !c.ensure(1) {
		return 0
	}
	v := c.data[c.pos]
	c.pos++
	return v
}

// I8 reads a signed 8-bit integer.
func (c *Cursor) I8() int8 {
	return int8(c.U8())
}

// Bool reads a single byte; any nonzero value is true.
func (c *Cursor) Bool() bool {
	return c.U8() != 0
}

// U16 reads a little-endian unsigned 16-bit integer.
func (c *Cursor) U16() uint16 {
	if !c.ensure(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v
}

// I16 reads a little-endian signed 16-bit integer.
func (c *Cursor) I16() int16 {
	return int16(c.U16())
}

// U32 reads a little-endian unsigned 32-bit integer.
func (c *Cursor) U32() uint32 {
	if !c.ensure(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v
}

// I32 reads a little-endian signed 32-bit integer.
func (c *Cursor) I32() int32 {
	return int32(c.U32())
}

// U64 reads a little-endian unsigned 64-bit integer.
func (c *Cursor) U64() uint64 {
	if !c.ensure(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v
}

// I64 reads a little-endian signed 64-bit integer.
func (c *Cursor) I64() int64 {
	return int64(c.U64())
}

// F32 reads a little-endian IEEE-754 32-bit float.
func (c *Cursor) F32() float32 {
	return math.Float32frombits(c.U32())
}

// F64 reads a little-endian IEEE-754 64-bit float.
func (c *Cursor) F64() float64 {
	return math.Float64frombits(c.U64())
}

// F16Bits reads a 16-bit float as its raw bit pattern. The engine's half
// floats are carried through undecoded (see Value.F16Bits in pkg/rsz).
func (c *Cursor) F16Bits() uint16 {
	return c.U16()
}

// RawBytes reads exactly n bytes and returns a copy.
func (c *Cursor) RawBytes(n int) []byte {
	if !c.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+n])
	c.pos += n
	return out
}

// UTF16NUL reads UTF-16 code units (little-endian) until a zero unit,
// consuming the terminator, and returns the decoded string. It does not
// itself read a length prefix; callers that have one (String/Resource
// fields) read it first with U32 and use UTF16Units instead.
func (c *Cursor) UTF16NUL() string {
	if c.err != nil {
		return ""
	}
	var units []uint16
	for {
		if !c.ensure(2) {
			return ""
		}
		u := binary.LittleEndian.Uint16(c.data[c.pos:])
		c.pos += 2
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// UTF16Units reads exactly n UTF-16 code units (little-endian) and decodes
// them. A zero final unit is the terminator and is dropped; any other NUL
// units that are part of n are kept.
// Used for length-prefixed String/Resource fields where the count read off
// the wire already includes the terminator.
func (c *Cursor) UTF16Units(n int) string {
	if n < 0 {
		c.setErr(ErrNegativeLength)
		return ""
	}
	if !c.ensure(n * 2) {
		return ""
	}
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = binary.LittleEndian.Uint16(c.data[c.pos:])
		c.pos += 2
	}
	// The count includes exactly one NUL terminator; trim it. Any further
	// trailing zero units are content and kept.
	if len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units))
}

// AlignTo advances the cursor to the next offset that is a multiple of n.
// The skipped bytes are not inspected. n must be a power of two in {1,2,4,
// 8,16}; smaller values are a no-op.
func (c *Cursor) AlignTo(n int) {
	if c.err != nil || n <= 1 {
		return
	}
	target := alignUp(c.pos, n)
	if target > len(c.data) {
		c.setErr(fmt.Errorf("%w: align to %d from %d overruns buffer of length %d", ErrUnexpectedEOF, n, c.pos, len(c.data)))
		return
	}
	c.pos = target
}

// SeekTo jumps the cursor to an arbitrary absolute offset, forward or
// backward, without any alignment or "already there" assertion. Used by
// formats that carry explicit absolute offsets to every field (the message
// table's entry/content pointers) rather than the RSZ block's
// forward-only, alignment-disciplined layout.
func (c *Cursor) SeekTo(off int) {
	if c.err != nil {
		return
	}
	if off < 0 || off > len(c.data) {
		c.setErr(fmt.Errorf("%w: seek to %d overruns buffer of length %d", ErrUnexpectedEOF, off, len(c.data)))
		return
	}
	c.pos = off
}

// SeekNoop asserts the cursor is already positioned at off.
func (c *Cursor) SeekNoop(off int) {
	if c.err != nil {
		return
	}
	if c.pos != off {
		c.setErr(fmt.Errorf("%w: at %d, expected exactly %d (undiscovered data)", ErrSeekMismatch, c.pos, off))
	}
}

// SeekAssertAlignUp asserts that aligning the current position up to a
// multiple of n equals off, then advances to off.
func (c *Cursor) SeekAssertAlignUp(off, n int) {
	if c.err != nil {
		return
	}
	if alignUp(c.pos, n) != off {
		c.setErr(fmt.Errorf("%w: align_up(%d, %d) != %d (undiscovered data)", ErrSeekMismatch, c.pos, n, off))
		return
	}
	c.pos = off
}

// Skip advances the cursor by n bytes without inspecting them.
func (c *Cursor) Skip(n int) {
	if !c.ensure(n) {
		return
	}
	c.pos += n
}

// Slice returns a new Cursor over the next n bytes of this cursor's buffer,
// without copying, and advances this cursor past them.
func (c *Cursor) Slice(n int) *Cursor {
	if !c.ensure(n) {
		return nil
	}
	sub := &Cursor{data: c.data[c.pos : c.pos+n]}
	c.pos += n
	return sub
}

func alignUp(off, n int) int {
	if n <= 1 {
		return off
	}
	return (off + n - 1) &^ (n - 1)
}
