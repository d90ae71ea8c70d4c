package rsz

import (
	"strings"

	"github.com/thornberry/rszkit/internal/cursor"
	"github.com/thornberry/rszkit/pkg/catalog"
)

// decodeField reads one field's value from cur, per field's schema. It
// handles the array wrapper (count prefix, per-element alignment) and the
// enum post-processing wrap; the scalar read itself is decodeScalar.
func decodeField(cur *cursor.Cursor, types *catalog.TypeCatalog, field catalog.FieldSchema, limits Limits) (Value, error) {
	switch field.TypeTag {
	case "Data", "OBB":
		if limits.MaxBlobSize > 0 && int(field.Size) > limits.MaxBlobSize {
			return Value{}, &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "blob size exceeds limit"}
		}
	}

	if !field.Array {
		v, err := decodeScalar(cur, types, field)
		if err != nil {
			return Value{}, err
		}
		return wrapEnum(v, field), nil
	}

	cur.AlignTo(4)
	count := cur.U32()
	if cur.Err() != nil {
		return Value{}, &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "truncated array count", Cause: cur.Err()}
	}
	if limits.MaxArrayLength > 0 && int(count) > limits.MaxArrayLength {
		return Value{}, &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "array length exceeds limit"}
	}

	elems := make([]Value, count)
	for i := range elems {
		v, err := decodeScalar(cur, types, field)
		if err != nil {
			return Value{}, err
		}
		elems[i] = wrapEnum(v, field)
	}
	return Value{Kind: KindArray, Array: elems}, nil
}

// wrapEnum wraps v in an Enum value when field's original_type marks it as
// a named enum, per the "_Serializable"/"_Fixed" (possibly array-suffixed)
// naming convention the engine uses for enum-backed fields.
func wrapEnum(v Value, field catalog.FieldSchema) Value {
	if !isEnumOriginalType(field.OriginalType) {
		return v
	}
	inner := v
	return Value{Kind: KindEnum, Enum: &EnumValue{Inner: &inner, Name: field.OriginalType}}
}

func isEnumOriginalType(name string) bool {
	name = strings.TrimSuffix(name, "[]")
	return strings.HasSuffix(name, "_Serializable") || strings.HasSuffix(name, "_Fixed")
}

// decodeScalar reads a single, non-array instance of field's type tag. It is
// invoked once per scalar field and once per element of an array field.
func decodeScalar(cur *cursor.Cursor, types *catalog.TypeCatalog, field catalog.FieldSchema) (Value, error) {
	cur.AlignTo(int(field.Align))

	switch field.TypeTag {
	case "S8":
		return Value{Kind: KindInt8, I8: cur.I8()}, checkErr(cur, field)
	case "S16":
		return Value{Kind: KindInt16, I16: cur.I16()}, checkErr(cur, field)
	case "S32":
		return Value{Kind: KindInt32, I32: cur.I32()}, checkErr(cur, field)
	case "S64":
		return Value{Kind: KindInt64, I64: cur.I64()}, checkErr(cur, field)
	case "U8":
		return Value{Kind: KindUint8, U8: cur.U8()}, checkErr(cur, field)
	case "U16":
		return Value{Kind: KindUint16, U16: cur.U16()}, checkErr(cur, field)
	case "U32":
		return Value{Kind: KindUint32, U32: cur.U32()}, checkErr(cur, field)
	case "U64":
		return Value{Kind: KindUint64, U64: cur.U64()}, checkErr(cur, field)
	case "F8":
		return Value{Kind: KindFloat8, F8Bits: cur.U8()}, checkErr(cur, field)
	case "F16":
		return Value{Kind: KindFloat16, F16Bits: cur.F16Bits()}, checkErr(cur, field)
	case "F32":
		return Value{Kind: KindFloat32, F32: cur.F32()}, checkErr(cur, field)
	case "F64":
		return Value{Kind: KindFloat64, F64: cur.F64()}, checkErr(cur, field)
	case "Bool":
		return Value{Kind: KindBool, Bool: cur.Bool()}, checkErr(cur, field)

	case "String", "Resource":
		n := cur.U32()
		s := cur.UTF16Units(int(n))
		return Value{Kind: KindString, Str: s}, checkErr(cur, field)

	case "Guid":
		b := cur.RawBytes(16)
		if cur.Err() != nil {
			return Value{}, checkErr(cur, field)
		}
		var g GUID
		copy(g[:], b)
		return Value{Kind: KindGUID, GUID: g}, nil

	case "Object", "UserData", "RuntimeType":
		idx := cur.U32()
		if cur.Err() != nil {
			return Value{}, checkErr(cur, field)
		}
		schema, ok := types.ByName(field.OriginalType)
		if !ok {
			return Value{}, &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "original_type " + field.OriginalType + " not found in catalog", Cause: ErrUnresolvedOriginalType}
		}
		return Value{Kind: KindObjectRef, Ref: ObjectRef{TargetSchema: schema, RecordIndex: idx}}, nil

	case "Data":
		b := cur.RawBytes(int(field.Size))
		return Value{Kind: KindData, Blob: b}, checkErr(cur, field)
	case "OBB":
		b := cur.RawBytes(int(field.Size))
		return Value{Kind: KindOBB, Blob: b}, checkErr(cur, field)

	case "UInt2":
		return Value{Kind: KindUint2, Uint2: Uint2{cur.U32(), cur.U32()}}, checkErr(cur, field)
	case "UInt3":
		return Value{Kind: KindUint3, Uint3: Uint3{cur.U32(), cur.U32(), cur.U32()}}, checkErr(cur, field)
	case "UInt4":
		return Value{Kind: KindUint4, Uint4: Uint4{cur.U32(), cur.U32(), cur.U32(), cur.U32()}}, checkErr(cur, field)
	case "Int2":
		return Value{Kind: KindInt2, Int2: Int2{cur.I32(), cur.I32()}}, checkErr(cur, field)
	case "Int3":
		return Value{Kind: KindInt3, Int3: Int3{cur.I32(), cur.I32(), cur.I32()}}, checkErr(cur, field)
	case "Int4":
		return Value{Kind: KindInt4, Int4: Int4{cur.I32(), cur.I32(), cur.I32(), cur.I32()}}, checkErr(cur, field)
	case "Float2":
		return Value{Kind: KindFloat2, Float2: Float2{cur.F32(), cur.F32()}}, checkErr(cur, field)
	case "Float3":
		return Value{Kind: KindFloat3, Float3: Float3{cur.F32(), cur.F32(), cur.F32()}}, checkErr(cur, field)
	case "Float4":
		return Value{Kind: KindFloat4, Float4: Float4{cur.F32(), cur.F32(), cur.F32(), cur.F32()}}, checkErr(cur, field)

	case "Vec2":
		return Value{Kind: KindVec2, Vec2: Vec2{cur.F32(), cur.F32()}}, checkErr(cur, field)
	case "Vec3":
		return Value{Kind: KindVec3, Vec3: readVec3(cur)}, checkErr(cur, field)
	case "Vec4":
		return Value{Kind: KindVec4, Vec4: Vec4{cur.F32(), cur.F32(), cur.F32(), cur.F32()}}, checkErr(cur, field)
	case "Mat4":
		var m Mat4
		for i := range m {
			m[i] = cur.F32()
		}
		return Value{Kind: KindMat4, Mat4: m}, checkErr(cur, field)

	case "Range":
		return Value{Kind: KindRange, Range: Range{cur.U32(), cur.U32()}}, checkErr(cur, field)
	case "RangeI":
		return Value{Kind: KindRangeI, RangeI: RangeI{cur.I32(), cur.I32()}}, checkErr(cur, field)

	case "AABB":
		min := readVec3(cur)
		max := readVec3(cur)
		return Value{Kind: KindAABB, AABB: AABB{Min: min, Max: max}}, checkErr(cur, field)
	case "Capsule":
		p0 := readVec3(cur)
		p1 := readVec3(cur)
		p2 := readVec3(cur)
		return Value{Kind: KindCapsule, Capsule: Capsule{P0: p0, P1: p1, P2: p2}}, checkErr(cur, field)
	case "Rect":
		return Value{Kind: KindRect, Rect: Rect{cur.U32(), cur.U32(), cur.U32(), cur.U32()}}, checkErr(cur, field)

	default:
		return Value{}, &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "unknown type tag " + field.TypeTag, Cause: ErrUnknownTypeTag}
	}
}

func readVec3(cur *cursor.Cursor) Vec3 {
	return Vec3{cur.F32(), cur.F32(), cur.F32()}
}

func checkErr(cur *cursor.Cursor, field catalog.FieldSchema) error {
	if cur.Err() == nil {
		return nil
	}
	return &DecodeError{Offset: cur.Offset(), Field: field.Name, Message: "truncated field " + field.TypeTag, Cause: cur.Err()}
}
