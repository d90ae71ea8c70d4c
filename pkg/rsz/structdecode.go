package rsz

import (
	"github.com/thornberry/rszkit/internal/cursor"
	"github.com/thornberry/rszkit/pkg/catalog"
)

// Decode walks the container's type descriptors in order, starting at
// index 1 (index 0 is always the sentinel (0,0) and gets an empty
// placeholder record so record-table indices line up with descriptor
// indices), consulting types for each descriptor's field layout, and fills
// in c.Records. Externs are recorded without field decoding.
func (c *Container) Decode(types *catalog.TypeCatalog, opts Options) error {
	if opts.Limits.MaxRecords > 0 && len(c.Descriptors) > opts.Limits.MaxRecords {
		return &DecodeError{Offset: -1, RecordIndex: -1, Message: "descriptor count exceeds limit"}
	}

	c.collectWarnings = opts.CollectWarnings

	cur := cursor.New(c.data)
	records := make([]Record, len(c.Descriptors))

	for i := 1; i < len(c.Descriptors); i++ {
		desc := c.Descriptors[i]

		if ext, ok := c.Externs[uint32(i)]; ok {
			if ext.TypeHash != desc.TypeHash {
				return &DecodeError{Offset: -1, RecordIndex: i, Message: "extern hash mismatch", Cause: ErrExternHashMismatch}
			}
			ext := ext
			schema, _ := types.ByHash(desc.TypeHash)
			records[i] = Record{Schema: schema, Extern: &ext}
			continue
		}

		schema, ok := types.ByHash(desc.TypeHash)
		if !ok {
			return &DecodeError{Offset: cur.Offset(), RecordIndex: i, Message: "type hash not in catalog", Cause: ErrUnknownTypeHash}
		}
		if schema.CRC != desc.CRC && c.collectWarnings {
			c.warn(i, "crc mismatch: descriptor has 0x%x, schema %s has 0x%x", desc.CRC, schema.Name, schema.CRC)
		}

		values := make([]Value, len(schema.Fields))
		for fi, field := range schema.Fields {
			v, err := decodeField(cur, types, field, opts.Limits)
			if err != nil {
				if de, ok := err.(*DecodeError); ok {
					de.RecordIndex = i
				}
				return err
			}
			values[fi] = v
		}
		records[i] = Record{Schema: schema, Values: values}
	}

	if cur.Remaining() > 0 && c.collectWarnings {
		c.warn(-1, "%d residual bytes after decoding data segment", cur.Remaining())
	}

	c.Records = records
	return nil
}

// Decode is a convenience entry point: parse src as an RSZ block and decode
// its records using types.
func Decode(src []byte, types *catalog.TypeCatalog, opts Options) (*Container, error) {
	c, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if err := c.Decode(types, opts); err != nil {
		return nil, err
	}
	return c, nil
}
