package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// excelUserDataSentinel is the original_type value the dump uses for a
// generic user-data column array. The engine family that defines
// ExcelUserData is different from the one being cataloged here, so this
// string is rewritten to "<StructName>.cData[]" at load time — a piece of
// input cleanup that belongs in the loader, not in decode logic.
const excelUserDataSentinel = "ace.user_data.ExcelUserData.cData[]"

// rawStructEntry mirrors one value in the type dump's top-level object.
type rawStructEntry struct {
	Name   string          `json:"name"`
	CRC    string          `json:"crc"`
	Fields []rawFieldEntry `json:"fields"`
}

type rawFieldEntry struct {
	Align        uint32 `json:"align"`
	Array        bool   `json:"array"`
	Name         string `json:"name"`
	Native       bool   `json:"native"`
	OriginalType string `json:"original_type"`
	Size         uint32 `json:"size"`
	TypeTag      string `json:"type"`
}

// LoadTypeCatalog parses the external type-dump JSON into an immutable
// TypeCatalog. The dump is a stream of top-level JSON objects (the engine's
// own dumper writes it this way; a single object is the common case), each
// keyed by an 8-hex-digit type hash. Entries are decoded one top-level
// object at a time into a typed map rather than buffered into a single
// generic document, since dumps commonly carry on the order of ten
// thousand struct definitions.
func LoadTypeCatalog(r io.Reader) (*TypeCatalog, error) {
	dec := json.NewDecoder(r)

	byHash := make(map[uint32]*StructSchema)
	byName := make(map[string]*StructSchema)

	for {
		var obj map[string]rawStructEntry
		if err := dec.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("catalog: decode type dump: %w", err)
		}

		for hexKey, entry := range obj {
			hash, err := parseHexUint32(hexKey)
			if err != nil {
				return nil, &LoadError{Entry: hexKey, Message: "key is not an 8-hex-digit type hash", Cause: ErrInvalidTypeHashKey}
			}

			crc, err := parseHexUint32(strings.TrimPrefix(entry.CRC, "0x"))
			if err != nil {
				return nil, &LoadError{Entry: entry.Name, Message: "invalid crc " + strconv.Quote(entry.CRC), Cause: ErrInvalidCRC}
			}

			schema := &StructSchema{
				Name:     entry.Name,
				TypeHash: hash,
				CRC:      crc,
				Fields:   make([]FieldSchema, len(entry.Fields)),
			}
			for i, f := range entry.Fields {
				originalType := f.OriginalType
				if originalType == excelUserDataSentinel {
					originalType = entry.Name + ".cData[]"
				}
				schema.Fields[i] = FieldSchema{
					Align:        f.Align,
					Array:        f.Array,
					Name:         f.Name,
					Native:       f.Native,
					OriginalType: originalType,
					Size:         f.Size,
					TypeTag:      f.TypeTag,
				}
			}

			if _, exists := byHash[hash]; exists {
				return nil, &LoadError{Entry: hexKey, Message: "type hash already loaded", Cause: ErrDuplicateTypeHash}
			}
			byHash[hash] = schema
			byName[schema.Name] = schema
		}
	}

	return &TypeCatalog{byHash: byHash, byName: byName}, nil
}

func parseHexUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
