// Package rsz implements the schema-driven deserializer for the engine's
// typed record container format ("RSZ"). Record layout is not carried
// in-band: a container only holds type hashes and version CRCs, and the
// actual field layout for each type comes from a catalog loaded by
// pkg/catalog. Values are decoded into a tagged union rather than native Go
// structs, since the catalog this deserializer runs against has on the
// order of ten thousand entries and changes across engine versions.
package rsz

import "github.com/thornberry/rszkit/pkg/catalog"

// Kind discriminates the variants of Value.
type Kind int

const (
	KindInt8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat8  // raw bits, undecoded; engine never defines its layout
	KindFloat16 // raw half-float bits, undecoded
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindGUID
	KindVec2
	KindVec3
	KindVec4
	KindMat4
	KindRange  // (u32, u32)
	KindRangeI // (i32, i32)
	KindUint2
	KindUint3
	KindUint4
	KindInt2
	KindInt3
	KindInt4
	KindFloat2
	KindFloat3
	KindFloat4
	KindAABB
	KindCapsule
	KindRect
	KindOBB  // opaque blob
	KindData // opaque blob
	KindObjectRef
	KindArray
	KindEnum
)

// GUID is a 16-byte engine GUID, stored in the byte order read off the
// wire.
type GUID [16]byte

// Vec2, Vec3, Vec4 are f32 tuples.
type Vec2 [2]float32
type Vec3 [3]float32
type Vec4 [4]float32

// Mat4 is a 4x4 matrix of f32, stored row-major in wire order.
type Mat4 [16]float32

// Range is an unsigned integer pair.
type Range [2]uint32

// RangeI is a signed integer pair.
type RangeI [2]int32

type Uint2 [2]uint32
type Uint3 [3]uint32
type Uint4 [4]uint32
type Int2 [2]int32
type Int3 [3]int32
type Int4 [4]int32
type Float2 [2]float32
type Float3 [3]float32
type Float4 [4]float32

// AABB is an axis-aligned bounding box: min then max.
type AABB struct {
	Min, Max Vec3
}

// Capsule is a swept sphere between two points with a radius-bearing third
// vector, per the engine's on-wire layout.
type Capsule struct {
	P0, P1, P2 Vec3
}

// Rect is a four-component unsigned rectangle.
type Rect [4]uint32

// ObjectRef is a backward-only reference into a Container's record table.
// Index 0 is the null reference. TargetSchema is the schema the field's
// original_type resolved to at decode time, independent of whatever schema
// the referenced record actually turns out to carry.
type ObjectRef struct {
	TargetSchema *catalog.StructSchema
	RecordIndex  uint32
}

// Value is a tagged union holding one decoded field value. Exactly one of
// the typed accessor fields is meaningful, selected by Kind; callers should
// switch on Kind rather than guessing from which fields are non-zero.
type Value struct {
	Kind Kind

	I8  int8
	I16 int16
	I32 int32
	I64 int64
	U8  uint8
	U16 uint16
	U32 uint32
	U64 uint64

	F8Bits  uint8
	F16Bits uint16
	F32     float32
	F64     float64

	Bool bool
	Str  string
	GUID GUID

	Vec2    Vec2
	Vec3    Vec3
	Vec4    Vec4
	Mat4    Mat4
	Range   Range
	RangeI  RangeI
	Uint2   Uint2
	Uint3   Uint3
	Uint4   Uint4
	Int2    Int2
	Int3    Int3
	Int4    Int4
	Float2  Float2
	Float3  Float3
	Float4  Float4
	AABB    AABB
	Capsule Capsule
	Rect    Rect

	// Blob backs OBB and Data, both opaque blobs of schema.size bytes.
	Blob []byte

	Ref ObjectRef

	// Array holds the decoded elements when Kind == KindArray.
	Array []Value

	// Enum wraps an underlying integer or ObjectRef value together with the
	// original_type name used to resolve it to a symbol at serialization
	// time. Only Inner.Kind one of the integer kinds or KindObjectRef is
	// valid input to the serializer; anything else is a serialization
	// error.
	Enum *EnumValue
}

// EnumValue is the payload of a Kind == KindEnum Value.
type EnumValue struct {
	Inner *Value
	Name  string // original_type, not yet normalized
}

// Record is one decoded struct instance: a schema plus its field values in
// schema field order.
type Record struct {
	Schema *catalog.StructSchema
	Values []Value

	// Extern is non-nil when this record's descriptor slot was an extern
	// reference rather than an in-file struct; Values is empty in that
	// case.
	Extern *ExternSlot
}

// ExternSlot names a record whose payload lives in another file, referenced
// by a resource path ending in ".user".
type ExternSlot struct {
	SlotIndex uint32
	TypeHash  uint32
	Path      string
}

// TypeDescriptor is the (type_hash, crc) pair recorded per record slot in
// an RSZ block.
type TypeDescriptor struct {
	TypeHash uint32
	CRC      uint32
}
