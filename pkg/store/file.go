package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashforge/hfd/pkg/core/types"
)

// DefaultPath is the record file written when no path is configured.
const DefaultPath = "block.json"

// requiredFields are the JSON keys every persisted record must carry.
// timestamp is optional (absent in the data+nonce message variant).
var requiredFields = []string{"hash", "data", "nonce"}

// WriteFile persists a record as JSON at path, replacing any existing
// content. The write goes through a temp file in the same directory and a
// rename, so a reader never observes a partial record.
func WriteFile(path string, rec *types.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// ReadFile loads a record from path, parsing the full document before field
// extraction and rejecting documents that omit a required field.
func ReadFile(path string) (*types.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("record missing required field %q", name)
		}
	}

	var rec types.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &rec, nil
}
