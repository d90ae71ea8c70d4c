package rsz

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions. Check with errors.Is.
var (
	// ErrBadMagic indicates the block did not start with "RSZ\0".
	ErrBadMagic = errors.New("rsz: bad magic")

	// ErrBadVersion indicates the block's version word was not 0x10.
	ErrBadVersion = errors.New("rsz: unsupported version")

	// ErrBadPadding indicates the mandatory zero-padding word was nonzero.
	ErrBadPadding = errors.New("rsz: non-zero padding")

	// ErrBadSentinelDescriptor indicates the first type descriptor was not
	// (0, 0).
	ErrBadSentinelDescriptor = errors.New("rsz: first type descriptor is not a sentinel")

	// ErrExternHashMismatch indicates an extern slot's hash did not match
	// its type descriptor's hash.
	ErrExternHashMismatch = errors.New("rsz: extern hash mismatch")

	// ErrExternPathSuffix indicates an extern slot's path did not end in
	// ".user".
	ErrExternPathSuffix = errors.New("rsz: extern path missing .user suffix")

	// ErrUnknownTypeHash indicates a descriptor's type hash was not found
	// in the type catalog.
	ErrUnknownTypeHash = errors.New("rsz: unknown type hash")

	// ErrUnknownTypeTag indicates a field schema named a type tag outside
	// the closed vocabulary.
	ErrUnknownTypeTag = errors.New("rsz: unknown type tag")

	// ErrUnresolvedOriginalType indicates an Object/UserData/RuntimeType
	// field's original_type did not resolve to any schema in the catalog.
	ErrUnresolvedOriginalType = errors.New("rsz: original_type does not resolve to a known schema")

	// ErrRefOutOfBounds indicates an ObjectRef's record index was not a
	// valid index into the record table during serialization.
	ErrRefOutOfBounds = errors.New("rsz: object reference out of bounds")

	// ErrRefUnresolved indicates an ObjectRef's target record could not be
	// dereferenced during serialization because its slot holds no record
	// (as with the sentinel at index 0).
	ErrRefUnresolved = errors.New("rsz: object reference could not be dereferenced")

	// ErrBadEnumUnderlying indicates a Kind == KindEnum value's Inner was
	// neither an integer nor an ObjectRef, or was an ObjectRef that is null,
	// points at an extern marker, or points at a record whose first value
	// is not an integer.
	ErrBadEnumUnderlying = errors.New("rsz: enum value has unsupported underlying shape")
)

// DecodeError carries positional diagnostics for a structural or schema
// error encountered while decoding a container.
type DecodeError struct {
	Offset      int    // byte offset into the RSZ block (Parse) or its data segment (Decode), or -1 if not applicable
	RecordIndex int    // descriptor/record index being processed, or -1
	Field       string // field name, or "" if not applicable
	Message     string
	Cause       error
}

func (e *DecodeError) Error() string {
	msg := "rsz: " + e.Message
	if e.RecordIndex >= 0 {
		msg = fmt.Sprintf("%s (record %d", msg, e.RecordIndex)
		if e.Field != "" {
			msg = fmt.Sprintf("%s, field %q", msg, e.Field)
		}
		if e.Offset >= 0 {
			msg = fmt.Sprintf("%s, offset 0x%x", msg, e.Offset)
		}
		msg += ")"
	} else if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (offset 0x%x)", msg, e.Offset)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Warning is an advisory condition that does not abort decoding: a CRC
// mismatch, leftover trailing bytes, or a missing enum symbol. Warnings
// accumulate on a Container/decode rather than being returned as errors.
type Warning struct {
	RecordIndex int // -1 if not applicable
	Message     string
}

func (w Warning) String() string {
	if w.RecordIndex >= 0 {
		return fmt.Sprintf("rsz: warning: record %d: %s", w.RecordIndex, w.Message)
	}
	return "rsz: warning: " + w.Message
}
