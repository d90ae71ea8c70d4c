package rsz

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/thornberry/rszkit/pkg/catalog"
)

// Serialize walks c.Roots, resolving ObjectRefs through c.Records, and
// produces a tree keyed by each root's schema name. A root whose
// reference graph cannot be fully resolved (out-of-bounds index, an
// unresolvable dereference, or a malformed enum wrapper) is logged as a
// warning and omitted; the remaining roots still serialize.
func (c *Container) Serialize(enums *catalog.EnumCatalog) (map[string]any, error) {
	out := make(map[string]any, len(c.Roots))
	for _, root := range c.Roots {
		rec, err := c.recordAt(root)
		if err != nil {
			c.warn(-1, "root %d: %v", root, err)
			continue
		}
		name := externOrSchemaName(rec)
		val, err := c.serializeRecord(rec, enums)
		if err != nil {
			if isRootLevelError(err) {
				c.warn(-1, "root %d: %v", root, err)
				continue
			}
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

func isRootLevelError(err error) bool {
	return errors.Is(err, ErrRefOutOfBounds) || errors.Is(err, ErrRefUnresolved) || errors.Is(err, ErrBadEnumUnderlying)
}

func externOrSchemaName(r *Record) string {
	if r.Schema != nil {
		return r.Schema.Name
	}
	return fmt.Sprintf("extern_%08x", r.Extern.TypeHash)
}

func (c *Container) recordAt(idx uint32) (*Record, error) {
	if int(idx) >= len(c.Records) {
		return nil, fmt.Errorf("%w: index %d", ErrRefOutOfBounds, idx)
	}
	r := &c.Records[idx]
	if r.Schema == nil && r.Extern == nil {
		return nil, fmt.Errorf("%w: index %d is unpopulated", ErrRefUnresolved, idx)
	}
	return r, nil
}

func (c *Container) serializeRecord(r *Record, enums *catalog.EnumCatalog) (any, error) {
	if r.Extern != nil {
		return map[string]any{"__extern__": r.Extern.Path}, nil
	}

	obj := make(map[string]any, len(r.Schema.Fields))
	for i, field := range r.Schema.Fields {
		v, err := c.serializeValue(r.Values[i], enums)
		if err != nil {
			return nil, err
		}
		obj[field.Name] = v
	}
	return obj, nil
}

func (c *Container) serializeValue(v Value, enums *catalog.EnumCatalog) (any, error) {
	switch v.Kind {
	case KindInt8:
		return v.I8, nil
	case KindInt16:
		return v.I16, nil
	case KindInt32:
		return v.I32, nil
	case KindInt64:
		return v.I64, nil
	case KindUint8:
		return v.U8, nil
	case KindUint16:
		return v.U16, nil
	case KindUint32:
		return v.U32, nil
	case KindUint64:
		return v.U64, nil
	case KindFloat8:
		return v.F8Bits, nil
	case KindFloat16:
		return v.F16Bits, nil
	case KindFloat32:
		return v.F32, nil
	case KindFloat64:
		return v.F64, nil
	case KindBool:
		return v.Bool, nil
	case KindString:
		return v.Str, nil
	case KindGUID:
		return formatGUID(v.GUID), nil

	case KindVec2:
		return v.Vec2, nil
	case KindVec3:
		return v.Vec3, nil
	case KindVec4:
		return v.Vec4, nil
	case KindMat4:
		return v.Mat4, nil
	case KindRange:
		return v.Range, nil
	case KindRangeI:
		return v.RangeI, nil
	case KindUint2:
		return v.Uint2, nil
	case KindUint3:
		return v.Uint3, nil
	case KindUint4:
		return v.Uint4, nil
	case KindInt2:
		return v.Int2, nil
	case KindInt3:
		return v.Int3, nil
	case KindInt4:
		return v.Int4, nil
	case KindFloat2:
		return v.Float2, nil
	case KindFloat3:
		return v.Float3, nil
	case KindFloat4:
		return v.Float4, nil
	case KindAABB:
		return v.AABB, nil
	case KindCapsule:
		return v.Capsule, nil
	case KindRect:
		return v.Rect, nil
	case KindOBB, KindData:
		return v.Blob, nil

	case KindArray:
		elems := make([]any, len(v.Array))
		for i, e := range v.Array {
			ev, err := c.serializeValue(e, enums)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return elems, nil

	case KindObjectRef:
		if v.Ref.RecordIndex == 0 {
			return nil, nil
		}
		rec, err := c.recordAt(v.Ref.RecordIndex)
		if err != nil {
			return nil, err
		}
		return c.serializeRecord(rec, enums)

	case KindEnum:
		return c.serializeEnum(v.Enum, enums)
	}

	return nil, fmt.Errorf("rsz: unhandled value kind %d", v.Kind)
}

func (c *Container) serializeEnum(e *EnumValue, enums *catalog.EnumCatalog) (any, error) {
	decimal, ok := integerDecimal(*e.Inner)
	if !ok {
		if e.Inner.Kind != KindObjectRef {
			return nil, fmt.Errorf("%w: %s", ErrBadEnumUnderlying, e.Name)
		}
		if e.Inner.Ref.RecordIndex == 0 {
			return nil, fmt.Errorf("%w: %s: null reference", ErrBadEnumUnderlying, e.Name)
		}
		rec, err := c.recordAt(e.Inner.Ref.RecordIndex)
		if err != nil {
			return nil, err
		}
		if rec.Extern != nil || len(rec.Values) == 0 {
			return nil, fmt.Errorf("%w: %s: target has no underlying field", ErrBadEnumUnderlying, e.Name)
		}
		decimal, ok = integerDecimal(rec.Values[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadEnumUnderlying, e.Name)
		}
	}

	if enums != nil {
		if symbol, found := enums.Lookup(e.Name, decimal); found {
			return symbol, nil
		}
	}
	if c.collectWarnings {
		c.warn(-1, "enum value %s not found in map %s", decimal, catalog.Normalize(e.Name))
	}
	return fmt.Sprintf("%s // Could not find enum value in map %s", decimal, e.Name), nil
}

// integerDecimal returns the decimal-string representation of v if v holds
// one of the integer kinds, as used to key an enum lookup.
func integerDecimal(v Value) (string, bool) {
	switch v.Kind {
	case KindInt8:
		return strconv.FormatInt(int64(v.I8), 10), true
	case KindInt16:
		return strconv.FormatInt(int64(v.I16), 10), true
	case KindInt32:
		return strconv.FormatInt(int64(v.I32), 10), true
	case KindInt64:
		return strconv.FormatInt(v.I64, 10), true
	case KindUint8:
		return strconv.FormatUint(uint64(v.U8), 10), true
	case KindUint16:
		return strconv.FormatUint(uint64(v.U16), 10), true
	case KindUint32:
		return strconv.FormatUint(uint64(v.U32), 10), true
	case KindUint64:
		return strconv.FormatUint(v.U64, 10), true
	default:
		return "", false
	}
}

// formatGUID renders the standard 8-4-4-4-12 form. The first three fields
// are stored little-endian on the wire, so they are byte-swapped before
// hex-encoding; the last two are emitted as-is.
func formatGUID(g GUID) string {
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
