package consensus

import "github.com/hashforge/hfd/pkg/core/types"

// Hasher computes proof-of-work digests over candidate messages.
// The engine ships with SHA256Hasher; the interface exists so callers can
// wrap it (e.g. tests throttling the hash rate) or swap in another 256-bit
// hash function.
type Hasher interface {
	// Hash computes the digest of the given candidate message bytes.
	Hash(message []byte) (types.Hash, error)

	// Close releases any resources held by the hasher.
	Close()
}

// MeetsDifficulty checks whether a digest has at least the required number of
// leading zero bits, scanning from the most significant bit of the first byte.
// zeros=0 means any digest passes; zeros=8 means the first byte must be 0x00;
// zeros beyond the digest's bit length can never be satisfied.
func MeetsDifficulty(digest types.Hash, zeros uint64) bool {
	if zeros == 0 {
		return true
	}
	if zeros > types.HashSize*8 {
		return false
	}

	fullBytes := zeros / 8
	remainBits := zeros % 8

	// Check full zero bytes.
	for i := uint64(0); i < fullBytes; i++ {
		if digest[i] != 0 {
			return false
		}
	}

	// Check remaining bits in the next byte.
	if remainBits > 0 && fullBytes < types.HashSize {
		mask := byte(0xFF << (8 - remainBits))
		if digest[fullBytes]&mask != 0 {
			return false
		}
	}

	return true
}
