package types

import (
	"fmt"
)

// Record is the persisted output of one proof-of-work search: the opaque
// payload, the winning nonce, the timestamp snapshot (when the timestamp
// message variant is in use), and the resulting digest in lowercase hex.
// A Record is constructed once by the miner and never mutated afterward.
type Record struct {
	Hash      string `json:"hash"`
	Data      string `json:"data"`
	Nonce     uint64 `json:"nonce"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Digest decodes the stored hex hash into its raw 32-byte form.
func (r *Record) Digest() (Hash, error) {
	return HashFromHex(r.Hash)
}

// Validate checks the structural requirements of the persisted format:
// the hash field must decode to a full-length digest.
func (r *Record) Validate() error {
	if r.Hash == "" {
		return fmt.Errorf("record has empty hash field")
	}
	if _, err := HashFromHex(r.Hash); err != nil {
		return fmt.Errorf("record hash: %w", err)
	}
	return nil
}
