package rsz

// Limits bounds the resources a single container decode may consume,
// guarding against a corrupt or hostile file driving the decoder into
// unbounded work.
type Limits struct {
	// MaxArrayLength is the maximum element count accepted for a single
	// Array field. A value of 0 means no limit.
	MaxArrayLength int

	// MaxBlobSize is the maximum byte size accepted for a single OBB or
	// Data field. A value of 0 means no limit.
	MaxBlobSize int

	// MaxRecords is the maximum number of type descriptors (and therefore
	// records) a single container may declare. A value of 0 means no
	// limit.
	MaxRecords int

	// MaxObjectDepth is carried as configuration only. Neither Decode nor
	// Serialize reads it: the serializer follows every ObjectRef chain to
	// its end, with no depth bound.
	MaxObjectDepth int
}

// DefaultLimits are generous limits suitable for trusted game data.
var DefaultLimits = Limits{
	MaxArrayLength: 1_000_000,
	MaxBlobSize:    64 * 1024 * 1024,
	MaxRecords:     1_000_000,
	MaxObjectDepth: 1_000,
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxArrayLength: 10_000,
	MaxBlobSize:    1 * 1024 * 1024,
	MaxRecords:     50_000,
	MaxObjectDepth: 200,
}

// NoLimits disables all resource limits. Use with caution - only for
// trusted input.
var NoLimits = Limits{}

// Options configures container decoding and serialization.
type Options struct {
	// Limits specifies resource limits.
	Limits Limits

	// CollectWarnings controls whether advisory conditions (CRC mismatch,
	// leftover bytes, missing enum symbol) are recorded on the Container.
	// When false, advisory conditions are silently ignored.
	CollectWarnings bool
}

// DefaultOptions is the default configuration: generous limits, warnings
// collected.
var DefaultOptions = Options{
	Limits:          DefaultLimits,
	CollectWarnings: true,
}

// SecureOptions are conservative options for untrusted input.
var SecureOptions = Options{
	Limits:          SecureLimits,
	CollectWarnings: true,
}
