package verify

import (
	"log"

	"github.com/hashforge/hfd/pkg/core/consensus"
	"github.com/hashforge/hfd/pkg/core/types"
	"github.com/hashforge/hfd/pkg/store"
)

// Verifier re-executes the proof-of-work digest over a record's fields and
// checks it against the stored hash. It is symmetric to the miner's hash
// computation and never mutates its input.
type Verifier struct {
	hasher        consensus.Hasher
	withTimestamp bool
}

// New returns a Verifier. withTimestamp selects the message variant and must
// match the setting the record was mined with.
func New(hasher consensus.Hasher, withTimestamp bool) *Verifier {
	return &Verifier{hasher: hasher, withTimestamp: withTimestamp}
}

// Record reports whether rec's stored hash matches the digest recomputed
// from its fields. Structural problems (missing or malformed hash) are
// logged and reported as invalid rather than returned as errors.
func (v *Verifier) Record(rec *types.Record) bool {
	if rec == nil {
		log.Printf("Verify: nil record")
		return false
	}
	if err := rec.Validate(); err != nil {
		log.Printf("Verify: malformed record: %v", err)
		return false
	}

	message := consensus.BuildMessage(rec.Data, rec.Timestamp, v.withTimestamp, rec.Nonce)
	digest, err := v.hasher.Hash(message)
	if err != nil {
		log.Printf("Verify: hasher error: %v", err)
		return false
	}
	return digest.Hex() == rec.Hash
}

// File loads a record from path and verifies it. A missing, unreadable, or
// malformed file is logged and treated as invalid, never propagated.
func (v *Verifier) File(path string) bool {
	rec, err := store.ReadFile(path)
	if err != nil {
		log.Printf("Verify: cannot load record from %s: %v", path, err)
		return false
	}
	return v.Record(rec)
}
