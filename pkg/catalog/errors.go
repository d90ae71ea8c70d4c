// Package catalog loads the two external catalogs the RSZ deserializer
// depends on: the type dump (type-hash -> field layout) and the enum dump
// (enum name -> numeric value -> symbol). Both are treated as process-wide,
// load-once, read-only data, per the engine's out-of-band schema design.
package catalog

import "errors"

// Sentinel errors for catalog loading. Check with errors.Is.
var (
	// ErrDuplicateTypeHash indicates two entries in a type dump share a hash.
	ErrDuplicateTypeHash = errors.New("catalog: duplicate type hash")

	// ErrInvalidCRC indicates a struct's crc field was not valid hex.
	ErrInvalidCRC = errors.New("catalog: invalid crc")

	// ErrInvalidTypeHashKey indicates a top-level JSON key was not an
	// 8-hex-digit type hash.
	ErrInvalidTypeHashKey = errors.New("catalog: invalid type hash key")

	// ErrMalformedDump names a type or enum dump whose JSON structure does
	// not match the documented shape. The loaders do not wrap it: they
	// return the encoding/json error itself behind a "catalog: decode"
	// prefix.
	ErrMalformedDump = errors.New("catalog: malformed dump")
)

// LoadError wraps a catalog loading failure with the offending entry name,
// mirroring the decode diagnostics the rest of this module produces.
type LoadError struct {
	Entry   string // type-hash key or struct name of the type-dump entry being parsed
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Entry != "" {
		return "catalog: " + e.Entry + ": " + e.Message
	}
	return "catalog: " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
