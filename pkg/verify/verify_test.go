package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashforge/hfd/pkg/core/consensus"
	"github.com/hashforge/hfd/pkg/core/types"
	"github.com/hashforge/hfd/pkg/miner"
	"github.com/hashforge/hfd/pkg/store"
)

func mustMine(t *testing.T, hasher consensus.Hasher, data string, zeros uint64, withTimestamp bool) *types.Record {
	t.Helper()
	m := miner.New(hasher, miner.Options{IncludeTimestamp: withTimestamp})
	rec, err := m.CreateBlock(context.Background(), data, zeros)
	if err != nil {
		t.Fatalf("mining failed: %v", err)
	}
	return rec
}

func TestVerifier_ValidRecord(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	rec := mustMine(t, hasher, "hello proof of work", 8, false)
	v := New(hasher, false)
	if !v.Record(rec) {
		t.Fatal("freshly mined record must verify")
	}
}

func TestVerifier_ValidRecordWithTimestamp(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	rec := mustMine(t, hasher, "hello proof of work", 8, true)
	v := New(hasher, true)
	if !v.Record(rec) {
		t.Fatal("freshly mined timestamped record must verify")
	}
}

func TestVerifier_TamperDetection(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	valid := mustMine(t, hasher, "tamper me", 8, false)
	v := New(hasher, false)

	tests := []struct {
		name   string
		mutate func(r *types.Record)
	}{
		{
			name:   "data changed",
			mutate: func(r *types.Record) { r.Data = "tamper ME" },
		},
		{
			name:   "nonce changed",
			mutate: func(r *types.Record) { r.Nonce++ },
		},
		{
			name: "hash changed",
			mutate: func(r *types.Record) {
				b := []byte(r.Hash)
				if b[0] == 'f' {
					b[0] = '0'
				} else {
					b[0] = 'f'
				}
				r.Hash = string(b)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := *valid
			tt.mutate(&rec)
			if v.Record(&rec) {
				t.Error("tampered record must not verify")
			}
		})
	}
}

func TestVerifier_VariantMismatch(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	// Mined without a timestamp, checked with the timestamp variant: the
	// recomputed message differs, so verification must fail.
	rec := mustMine(t, hasher, "variant", 8, false)
	v := New(hasher, true)
	if v.Record(rec) {
		t.Fatal("mixed message variants must not verify")
	}
}

func TestVerifier_MalformedRecord(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	v := New(hasher, false)
	if v.Record(nil) {
		t.Error("nil record must not verify")
	}
	if v.Record(&types.Record{Data: "x", Nonce: 1}) {
		t.Error("record without hash must not verify")
	}
	if v.Record(&types.Record{Hash: "zz", Data: "x", Nonce: 1}) {
		t.Error("record with non-hex hash must not verify")
	}
}

func TestVerifier_File(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	rec := mustMine(t, hasher, "persisted", 8, false)
	path := filepath.Join(t.TempDir(), "block.json")
	if err := store.WriteFile(path, rec); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	v := New(hasher, false)
	if !v.File(path) {
		t.Fatal("persisted record must verify after reload")
	}
}

func TestVerifier_File_Missing(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	v := New(hasher, false)
	if v.File(filepath.Join(t.TempDir(), "absent.json")) {
		t.Fatal("missing file must report invalid, not panic or error out")
	}
}

func TestVerifier_File_Malformed(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	path := filepath.Join(t.TempDir(), "junk.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	v := New(hasher, false)
	if v.File(path) {
		t.Fatal("malformed file must report invalid")
	}
}

func TestVerifier_File_MissingField(t *testing.T) {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	// Well-formed JSON, but the nonce field is absent.
	path := filepath.Join(t.TempDir(), "partial.json")
	doc := `{"hash":"00e7bb7e37975aa4dfff848b0c57807f59f24ba465ac93e0d67addc15bed0b53","data":"abc"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	v := New(hasher, false)
	if v.File(path) {
		t.Fatal("record missing a required field must report invalid")
	}
}
