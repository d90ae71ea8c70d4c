package catalog

// FieldSchema describes one field of a StructSchema, exactly as recorded in
// the external type dump. It is immutable once loaded.
type FieldSchema struct {
	// Align is the byte alignment the field decoder must seek up to before
	// reading this field (or, for an array, before reading each element).
	// One of 1, 2, 4, 8, 16.
	Align uint32

	// Array marks this field as a length-prefixed sequence of elements.
	Array bool

	// Name is the field's identifier, used as the serialized output key.
	Name string

	// Native is carried through from the dump but not interpreted by the
	// decoder; it is almost always false.
	Native bool

	// OriginalType is the engine's fully qualified dotted type name for
	// this field, possibly suffixed "[]". It drives Object-reference
	// resolution and enum detection.
	OriginalType string

	// Size is the exact byte width of OBB/Data blobs. Unused for all other
	// type tags.
	Size uint32

	// TypeTag is one of the closed vocabulary of wire type tags (S8, U32,
	// String, Object, AABB, ...).
	TypeTag string
}

// StructSchema describes one record type, keyed by its type hash in the
// engine's binary container format. It is immutable once loaded.
type StructSchema struct {
	// Name is the struct's fully qualified name, e.g. "app.ItemDef".
	Name string

	// TypeHash identifies this schema in an RSZ type descriptor.
	TypeHash uint32

	// CRC is the schema version stamp. Decoding checks it only advisorily
	// against the type descriptor's CRC (see pkg/rsz).
	CRC uint32

	// Fields lists this struct's fields in on-wire order.
	Fields []FieldSchema
}

// TypeCatalog is an immutable, process-wide set of StructSchemas, indexed
// two ways: by type hash (as it appears in an RSZ type descriptor) and by
// fully qualified name (as it appears in a field's OriginalType, used to
// resolve Object/UserData/RuntimeType references).
type TypeCatalog struct {
	byHash map[uint32]*StructSchema
	byName map[string]*StructSchema
}

// ByHash looks up a schema by its type hash.
func (c *TypeCatalog) ByHash(hash uint32) (*StructSchema, bool) {
	s, ok := c.byHash[hash]
	return s, ok
}

// ByName looks up a schema by its fully qualified name. A trailing "[]"
// array-suffix, if present, is stripped before lookup — Object fields that
// point at an array-typed struct still resolve to the element schema.
func (c *TypeCatalog) ByName(name string) (*StructSchema, bool) {
	s, ok := c.byName[trimArraySuffix(name)]
	return s, ok
}

// Len returns the number of schemas in the catalog.
func (c *TypeCatalog) Len() int {
	return len(c.byHash)
}

func trimArraySuffix(name string) string {
	if len(name) >= 2 && name[len(name)-2:] == "[]" {
		return name[:len(name)-2]
	}
	return name
}
