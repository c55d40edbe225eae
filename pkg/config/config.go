package config

// Config holds the parameters for one mine-and-persist invocation.
// All knobs have explicit defaults; there is no ambient state.
type Config struct {
	// Data is the opaque payload hashed into every candidate message.
	Data string

	// Zeros is the required count of leading zero bits in the digest.
	Zeros uint64

	// IncludeTimestamp selects the data+timestamp+nonce message variant.
	// Both historical variants exist; miner and verifier must agree.
	IncludeTimestamp bool

	// OutputPath is where the mined record is written as JSON.
	OutputPath string

	// ArchiveDir, when set, additionally appends the record to a BadgerDB
	// archive at that directory.
	ArchiveDir string

	// Workers is the number of parallel search goroutines (1 = sequential).
	Workers int

	// MaxNonce, when nonzero, bounds the search instead of letting it run
	// indefinitely.
	MaxNonce uint64
}

// Default returns the reference configuration: sequential search over the
// data+nonce variant at 16 leading zero bits, writing block.json.
func Default() Config {
	return Config{
		Data:       "abc",
		Zeros:      16,
		OutputPath: "block.json",
		Workers:    1,
	}
}
