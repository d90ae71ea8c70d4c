package rsz

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/thornberry/rszkit/pkg/catalog"
)

// externSpec describes one extern slot for buildRSZ.
type externSpec struct {
	slot, hash uint32
	path       string
}

func alignUpTest(off, n int) int {
	if n <= 1 {
		return off
	}
	return (off + n - 1) &^ (n - 1)
}

// buildRSZ assembles a complete RSZ block byte-for-byte per the on-wire
// layout, for use as literal test fixtures. descriptors are (hash, crc)
// pairs; descriptors[0] is always forced to (0,0).
func buildRSZ(roots []uint32, descriptors [][2]uint32, externs []externSpec, data []byte) []byte {
	if len(descriptors) == 0 || descriptors[0] != [2]uint32{0, 0} {
		panic("test fixture must start with the (0,0) sentinel descriptor")
	}

	var rootsBytes []byte
	for _, r := range roots {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], r)
		rootsBytes = append(rootsBytes, b[:]...)
	}

	var descBytes []byte
	for _, d := range descriptors {
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], d[0])
		binary.LittleEndian.PutUint32(b[4:8], d[1])
		descBytes = append(descBytes, b[:]...)
	}

	descOffset := 48 + len(rootsBytes)
	posAfterDesc := descOffset + len(descBytes)
	stringTableOffset := alignUpTest(posAfterDesc, 16)
	pad1 := make([]byte, stringTableOffset-posAfterDesc)

	externTableSize := 16 * len(externs)
	stringsStart := stringTableOffset + externTableSize

	var stringsBytes []byte
	var tripleBytes []byte
	cursor := stringsStart
	for _, e := range externs {
		units := utf16.Encode([]rune(e.path))
		strBytes := make([]byte, 0, (len(units)+1)*2)
		for _, u := range units {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], u)
			strBytes = append(strBytes, b[:]...)
		}
		strBytes = append(strBytes, 0, 0) // NUL terminator

		var t [16]byte
		binary.LittleEndian.PutUint32(t[0:4], e.slot)
		binary.LittleEndian.PutUint32(t[4:8], e.hash)
		binary.LittleEndian.PutUint64(t[8:16], uint64(cursor))
		tripleBytes = append(tripleBytes, t[:]...)

		stringsBytes = append(stringsBytes, strBytes...)
		cursor += len(strBytes)
	}

	posAfterStrings := stringsStart + len(stringsBytes)
	dataOffset := alignUpTest(posAfterStrings, 16)
	pad2 := make([]byte, dataOffset-posAfterStrings)

	header := make([]byte, 48)
	copy(header[0:4], "RSZ\x00")
	binary.LittleEndian.PutUint32(header[4:8], 0x10)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(roots)))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(descriptors)))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(externs)))
	binary.LittleEndian.PutUint32(header[20:24], 0)
	binary.LittleEndian.PutUint64(header[24:32], uint64(descOffset))
	binary.LittleEndian.PutUint64(header[32:40], uint64(dataOffset))
	binary.LittleEndian.PutUint64(header[40:48], uint64(stringTableOffset))

	out := append([]byte{}, header...)
	out = append(out, rootsBytes...)
	out = append(out, descBytes...)
	out = append(out, pad1...)
	out = append(out, tripleBytes...)
	out = append(out, stringsBytes...)
	out = append(out, pad2...)
	out = append(out, data...)
	return out
}

func mustLoadCatalog(t interface{ Fatalf(string, ...any) }, dump string) *catalog.TypeCatalog {
	cat, err := catalog.LoadTypeCatalog(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadTypeCatalog: %v", err)
	}
	return cat
}

func mustLoadEnums(t interface{ Fatalf(string, ...any) }, dump string) *catalog.EnumCatalog {
	cat, err := catalog.LoadEnumCatalog(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadEnumCatalog: %v", err)
	}
	return cat
}
