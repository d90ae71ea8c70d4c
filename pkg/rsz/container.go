package rsz

import (
	"fmt"

	"github.com/thornberry/rszkit/internal/cursor"
)

const (
	blockMagic   = "RSZ\x00"
	blockVersion = 0x10
)

// Container is a parsed RSZ block: its header fields plus the raw data
// segment the struct decoder consumes. Parse produces a Container with
// Descriptors and Externs populated but Records still empty; Decode fills
// in Records.
type Container struct {
	Roots       []uint32
	Descriptors []TypeDescriptor
	Externs     map[uint32]ExternSlot
	Records     []Record

	data            []byte
	warnings        []Warning
	collectWarnings bool
}

// Warnings returns the advisory conditions accumulated while parsing and
// decoding this container, in the order they were observed.
func (c *Container) Warnings() []Warning {
	return c.warnings
}

func (c *Container) warn(recordIndex int, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{RecordIndex: recordIndex, Message: fmt.Sprintf(format, args...)})
}

// Parse reads an RSZ block starting at the beginning of src, per the
// on-wire layout: magic, version, counts, offsets, root indices, type
// descriptors, extern slot table, then the data segment. All offsets in
// the header are relative to the start of src.
func Parse(src []byte) (*Container, error) {
	cur := cursor.New(src)

	magic := cur.RawBytes(4)
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated header", Cause: cur.Err()}
	}
	if string(magic) != blockMagic {
		return nil, &DecodeError{Offset: 0, RecordIndex: -1, Message: fmt.Sprintf("bad magic %q", magic), Cause: ErrBadMagic}
	}

	version := cur.U32()
	if version != blockVersion {
		return nil, &DecodeError{Offset: 4, RecordIndex: -1, Message: fmt.Sprintf("version 0x%x", version), Cause: ErrBadVersion}
	}

	rootCount := cur.U32()
	descriptorCount := cur.U32()
	externCount := cur.U32()
	padding := cur.U32()
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated counts", Cause: cur.Err()}
	}
	if padding != 0 {
		return nil, &DecodeError{Offset: 20, RecordIndex: -1, Message: "padding word", Cause: ErrBadPadding}
	}

	descriptorOffset := cur.U64()
	dataOffset := cur.U64()
	stringTableOffset := cur.U64()
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated offsets", Cause: cur.Err()}
	}

	roots := make([]uint32, rootCount)
	for i := range roots {
		roots[i] = cur.U32()
	}
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated root list", Cause: cur.Err()}
	}

	cur.SeekNoop(int(descriptorOffset))
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "undiscovered data before type descriptor table", Cause: cur.Err()}
	}

	descriptors := make([]TypeDescriptor, descriptorCount)
	for i := range descriptors {
		hash := cur.U32()
		crc := cur.U32()
		descriptors[i] = TypeDescriptor{TypeHash: hash, CRC: crc}
	}
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated type descriptor table", Cause: cur.Err()}
	}
	if len(descriptors) == 0 || descriptors[0] != (TypeDescriptor{}) {
		return nil, &DecodeError{Offset: int(descriptorOffset), RecordIndex: 0, Message: "first type descriptor is not (0,0)", Cause: ErrBadSentinelDescriptor}
	}

	cur.SeekAssertAlignUp(int(stringTableOffset), 16)
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "undiscovered data before string table", Cause: cur.Err()}
	}

	type externTriple struct {
		slot, hash uint32
		strOffset  uint64
	}
	triples := make([]externTriple, externCount)
	for i := range triples {
		triples[i] = externTriple{slot: cur.U32(), hash: cur.U32(), strOffset: cur.U64()}
	}
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated extern slot table", Cause: cur.Err()}
	}

	externs := make(map[uint32]ExternSlot, len(triples))
	for _, t := range triples {
		cur.SeekNoop(int(t.strOffset))
		if cur.Err() != nil {
			return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "undiscovered data in string table", Cause: cur.Err()}
		}
		path := cur.UTF16NUL()
		if cur.Err() != nil {
			return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "truncated extern path", Cause: cur.Err()}
		}
		if len(path) < 5 || path[len(path)-5:] != ".user" {
			return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: int(t.slot), Message: fmt.Sprintf("extern path %q missing .user suffix", path), Cause: ErrExternPathSuffix}
		}
		if int(t.slot) >= len(descriptors) {
			return nil, &DecodeError{Offset: -1, RecordIndex: int(t.slot), Message: "extern slot out of bounds"}
		}
		if descriptors[t.slot].TypeHash != t.hash {
			return nil, &DecodeError{Offset: -1, RecordIndex: int(t.slot), Message: "extern hash mismatch", Cause: ErrExternHashMismatch}
		}
		externs[t.slot] = ExternSlot{SlotIndex: t.slot, TypeHash: t.hash, Path: path}
	}

	cur.SeekAssertAlignUp(int(dataOffset), 16)
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), RecordIndex: -1, Message: "undiscovered data before data segment", Cause: cur.Err()}
	}

	return &Container{
		Roots:       roots,
		Descriptors: descriptors,
		Externs:     externs,
		data:        cur.Data()[cur.Offset():],
	}, nil
}
