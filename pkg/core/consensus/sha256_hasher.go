package consensus

import (
	"crypto/sha256"

	"github.com/hashforge/hfd/pkg/core/types"
)

// SHA256Hasher implements Hasher using a single SHA-256 pass, the canonical
// digest for mined records.
type SHA256Hasher struct{}

var _ Hasher = (*SHA256Hasher)(nil)

// NewSHA256Hasher returns a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash computes SHA256(message).
func (h *SHA256Hasher) Hash(message []byte) (types.Hash, error) {
	return sha256.Sum256(message), nil
}

// Close is a no-op for SHA256Hasher.
func (h *SHA256Hasher) Close() {}
