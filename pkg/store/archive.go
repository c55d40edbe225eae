package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/hashforge/hfd/pkg/core/types"
)

var (
	// ErrRecordNotFound is returned when no record exists under the given key.
	ErrRecordNotFound = errors.New("record not found in archive")

	// ErrArchiveEmpty is returned by Latest on an archive with no records.
	ErrArchiveEmpty = errors.New("archive holds no records")
)

// Archive is an append-only history of mined records backed by BadgerDB,
// keyed by digest hex with a sequence index for iteration order. The JSON
// file written by WriteFile stays the canonical interchange format; the
// archive keeps every result a process has ever mined.
type Archive struct {
	db *badger.DB
}

// Keys:
// Record by hash:  "record:hash:<hex>" -> gob-encoded record
// Record by seq:   "record:seq:<n>" -> hash hex
// Latest pointer:  "archive:latest" -> hash hex
// Sequence count:  "archive:seq" -> decimal count

// OpenArchive creates or opens an archive at the given directory.
// If path is empty, it opens an in-memory archive (for testing).
func OpenArchive(path string) (*Archive, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Reduce logging noise
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRecord appends a mined record to the archive and moves the latest
// pointer to it. Saving the same record twice overwrites in place but still
// consumes a sequence slot.
func (a *Archive) SaveRecord(rec *types.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	encoded := buf.Bytes()

	return a.db.Update(func(txn *badger.Txn) error {
		seq, err := nextSeq(txn)
		if err != nil {
			return err
		}

		hashKey := fmt.Sprintf("record:hash:%s", rec.Hash)
		if err := txn.Set([]byte(hashKey), encoded); err != nil {
			return err
		}

		seqKey := fmt.Sprintf("record:seq:%d", seq)
		if err := txn.Set([]byte(seqKey), []byte(rec.Hash)); err != nil {
			return err
		}

		if err := txn.Set([]byte("archive:latest"), []byte(rec.Hash)); err != nil {
			return err
		}
		return txn.Set([]byte("archive:seq"), []byte(fmt.Sprintf("%d", seq+1)))
	})
}

// GetRecord fetches a record by its hex digest.
func (a *Archive) GetRecord(hash string) (*types.Record, error) {
	var rec types.Record
	err := a.db.View(func(txn *badger.Txn) error {
		key := fmt.Sprintf("record:hash:%s", hash)
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrRecordNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Latest returns the most recently saved record.
func (a *Archive) Latest() (*types.Record, error) {
	var hash string
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("archive:latest"))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrArchiveEmpty
			}
			return err
		}
		return item.Value(func(val []byte) error {
			hash = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return a.GetRecord(hash)
}

// Len returns the number of records appended so far.
func (a *Archive) Len() (uint64, error) {
	var n uint64
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("archive:seq"))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			_, err := fmt.Sscanf(string(val), "%d", &n)
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// nextSeq reads the running sequence counter inside txn.
func nextSeq(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte("archive:seq"))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		_, err := fmt.Sscanf(string(val), "%d", &n)
		return err
	})
	return n, err
}
