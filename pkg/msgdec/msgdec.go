// Package msgdec decodes the engine's localized-message table format
// (".msg.N" files): a header of entry/type/language offsets followed by an
// XOR-obfuscated data block holding every entry's name and per-language
// content strings.
package msgdec

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/thornberry/rszkit/internal/cursor"
)

// obfuscationKey is the fixed 16-byte XOR key the engine uses to obscure
// message content. Indexed by (position & 0xF).
var obfuscationKey = [16]byte{
	207, 206, 251, 248, 236, 10, 51, 102, 147, 169, 29, 147, 80, 57, 95, 9,
}

// ErrTruncated indicates the header's data offset points past the end of
// the file. Other truncated reads return a DecodeError whose Cause is the
// cursor's own error.
var ErrTruncated = errors.New("msgdec: truncated message file")

// DecodeError wraps a structural failure with the byte offset at which it
// was detected.
type DecodeError struct {
	Offset  int
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("msgdec: %s (offset 0x%x)", e.Message, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Entry is one decoded message table row. The entry header's "unkn" word
// and raw attributes bitfield are parsed, to keep the cursor aligned with
// the file layout, but not exposed; nothing downstream consumes them.
type Entry struct {
	GUID    string   `json:"guid"`
	Name    string   `json:"name"`
	Hash    uint32   `json:"hash"`
	Content []string `json:"content"`
}

// Msg is a fully decoded message table.
type Msg struct {
	Entries []Entry
}

// Decode parses data as a ".msg.N" message table.
func Decode(data []byte) (*Msg, error) {
	cur := cursor.New(data)

	_ = cur.U32() // version
	magic := cur.RawBytes(4)
	_ = cur.U64() // header_offset, unused by content decoding
	entryCount := cur.U32()
	typeCount := cur.U32()
	langCount := cur.U32()
	_ = cur.U32() // mandatory null
	dataOffset := cur.U64()
	pOffset := cur.U64()
	langOffset := cur.U64()
	typeOffset := cur.U64()
	typeNameOffset := cur.U64()
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), Message: "truncated header", Cause: cur.Err()}
	}
	_ = magic // varies across engine revisions, not validated

	baseEntryOffset := cur.Offset()

	if int(dataOffset) > len(data) {
		return nil, &DecodeError{Offset: int(dataOffset), Message: "data offset past end of file", Cause: ErrTruncated}
	}
	block := append([]byte(nil), data[dataOffset:]...)
	deobfuscate(block)

	cur.SeekTo(int(langOffset))
	languages := make([]uint32, langCount)
	for i := range languages {
		languages[i] = cur.U32()
	}
	if cur.Err() != nil {
		return nil, &DecodeError{Offset: cur.Offset(), Message: "truncated language table", Cause: cur.Err()}
	}

	// p_offset points at a single u64 with no known meaning; read and
	// discarded.
	cur.SeekTo(int(pOffset))
	_ = cur.U64()

	// type_offset and type_name_offset are relative jumps from the current
	// position, not absolute file offsets. The attribute-type tables they
	// reach are never read back by entry decoding.
	cur.SeekTo(cur.Offset() + int(typeOffset))
	for i := uint32(0); i < typeCount; i++ {
		cur.U32()
	}
	cur.SeekTo(cur.Offset() + int(typeNameOffset))
	for i := uint32(0); i < typeCount; i++ {
		cur.U32()
	}

	entries := make([]Entry, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		entryPtr := cursor.New(data)
		entryPtr.SeekTo(baseEntryOffset + int(i)*8)
		entryOffset := entryPtr.U64()
		if entryPtr.Err() != nil {
			return nil, &DecodeError{Offset: entryPtr.Offset(), Message: "truncated entry pointer table", Cause: entryPtr.Err()}
		}

		ec := cursor.New(data)
		ec.SeekTo(int(entryOffset))
		guidBytes := ec.RawBytes(16)
		_ = ec.U32() // unkn
		hash := ec.U32()
		nameOffset := ec.U64()
		_ = ec.U64() // attributes
		if ec.Err() != nil {
			return nil, &DecodeError{Offset: ec.Offset(), Message: "truncated entry header", Cause: ec.Err()}
		}

		// A truncated or missing content offset degrades to the empty
		// string rather than aborting the file: the sticky cursor keeps
		// returning 0 for every remaining offset once one read fails, and
		// readBlockString treats an out-of-range offset as "".
		content := make([]string, langCount)
		for l := uint32(0); l < langCount; l++ {
			off := ec.U64()
			content[l] = readBlockString(block, int(off)-int(dataOffset))
		}

		var guid GUID
		copy(guid[:], guidBytes)

		entries[i] = Entry{
			GUID:    guid.String(),
			Name:    readBlockString(block, int(nameOffset)-int(dataOffset)),
			Hash:    hash,
			Content: content,
		}
	}

	return &Msg{Entries: entries}, nil
}

// readBlockString decodes a UTF-16 NUL-terminated string at byte offset
// off within block, returning "" if off is out of range.
func readBlockString(block []byte, off int) string {
	if off < 0 || off > len(block) {
		return ""
	}
	sub := cursor.New(block)
	sub.SeekTo(off)
	s := sub.UTF16NUL()
	if sub.Err() != nil {
		return ""
	}
	return s
}

// deobfuscate reverses the engine's rolling XOR cipher in place:
// plain[i] = cipher[i-1] ^ cipher[i] ^ key[i & 0xF], with cipher[-1]
// treated as 0. The chain runs over ciphertext bytes, not the
// already-decoded output.
func deobfuscate(data []byte) {
	var prevOrig byte
	for i, cur := range data {
		data[i] = prevOrig ^ cur ^ obfuscationKey[i&0xF]
		prevOrig = cur
	}
}

// GUID is a 16-byte UUID whose first three fields are stored little-endian
// on the wire: String renders those byte-swapped, the last two as-is.
type GUID [16]byte

func (g GUID) String() string {
	swap := func(b []byte) string {
		r := make([]byte, len(b))
		for i, v := range b {
			r[len(b)-1-i] = v
		}
		return hex.EncodeToString(r)
	}
	return swap(g[0:4]) + "-" + swap(g[4:6]) + "-" + swap(g[6:8]) + "-" +
		hex.EncodeToString(g[8:10]) + "-" + hex.EncodeToString(g[10:16])
}
