package miner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hashforge/hfd/pkg/core/consensus"
	"github.com/hashforge/hfd/pkg/core/types"
)

// ErrSearchExhausted is returned when the configured nonce bound is reached
// before a satisfying digest is found. It is distinct from a verification
// failure: the search simply ran out of room.
var ErrSearchExhausted = errors.New("nonce search exhausted before difficulty was met")

// Options controls a Miner's search behavior. The zero value is the
// reference behavior: sequential search, data+nonce message variant,
// unbounded nonce space.
type Options struct {
	// IncludeTimestamp switches the hashed message from data+nonce to
	// data+timestamp+nonce. The verifier must use the same setting.
	IncludeTimestamp bool

	// Workers is the number of concurrent search goroutines. Values below 1
	// are treated as 1 (sequential reference behavior).
	Workers int

	// MaxNonce, when nonzero, bounds the search: nonces above it are not
	// tried and the search fails with ErrSearchExhausted.
	MaxNonce uint64
}

// Miner searches the nonce space for a digest meeting a leading-zero-bits
// difficulty target.
type Miner struct {
	hasher consensus.Hasher
	opts   Options
}

// New returns a Miner using the given hasher.
func New(hasher consensus.Hasher, opts Options) *Miner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Miner{hasher: hasher, opts: opts}
}

// solution is one satisfying (nonce, digest) pair found by a search worker.
type solution struct {
	nonce  uint64
	digest types.Hash
}

// CreateBlock searches nonces from 0 upward until the digest of the candidate
// message has at least zeros leading zero bits, then returns the immutable
// Record. The timestamp snapshot, when enabled, is taken once before the
// search starts and held fixed for every candidate.
//
// The search blocks until a nonce is found, ctx is cancelled, or the
// configured MaxNonce bound is exhausted.
func (m *Miner) CreateBlock(ctx context.Context, data string, zeros uint64) (*types.Record, error) {
	var timestamp int64
	if m.opts.IncludeTimestamp {
		timestamp = time.Now().UnixMilli()
	}

	var sol solution
	var err error
	if m.opts.Workers == 1 {
		sol, err = m.solveSequential(ctx, data, timestamp, zeros)
	} else {
		sol, err = m.solveParallel(ctx, data, timestamp, zeros)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Mined block: nonce=%d hash=%s", sol.nonce, sol.digest.Hex())

	rec := &types.Record{
		Hash:  sol.digest.Hex(),
		Data:  data,
		Nonce: sol.nonce,
	}
	if m.opts.IncludeTimestamp {
		rec.Timestamp = timestamp
	}
	return rec, nil
}

// solveSequential is the reference search loop: one candidate per cycle,
// nonce incremented by 1, single exit test.
func (m *Miner) solveSequential(ctx context.Context, data string, timestamp int64, zeros uint64) (solution, error) {
	for nonce := uint64(0); ; nonce++ {
		if m.opts.MaxNonce > 0 && nonce > m.opts.MaxNonce {
			return solution{}, ErrSearchExhausted
		}
		select {
		case <-ctx.Done():
			return solution{}, ctx.Err()
		default:
		}

		message := consensus.BuildMessage(data, timestamp, m.opts.IncludeTimestamp, nonce)
		digest, err := m.hasher.Hash(message)
		if err != nil {
			return solution{}, err
		}
		if consensus.MeetsDifficulty(digest, zeros) {
			return solution{nonce, digest}, nil
		}
	}
}

// solveParallel stripes the nonce space across Workers goroutines: worker w
// tries nonces w, w+Workers, w+2*Workers, ... All workers share the same data
// and timestamp snapshot. The first satisfying nonce wins; if several workers
// find one concurrently, the lowest nonce is kept. Losing workers are
// cancelled best-effort.
func (m *Miner) solveParallel(ctx context.Context, data string, timestamp int64, zeros uint64) (solution, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan solution, m.opts.Workers)
	var wg sync.WaitGroup
	for w := 0; w < m.opts.Workers; w++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			step := uint64(m.opts.Workers)
			for nonce := start; ; nonce += step {
				if m.opts.MaxNonce > 0 && nonce > m.opts.MaxNonce {
					return
				}
				select {
				case <-searchCtx.Done():
					return
				default:
				}

				message := consensus.BuildMessage(data, timestamp, m.opts.IncludeTimestamp, nonce)
				digest, err := m.hasher.Hash(message)
				if err != nil {
					log.Printf("Miner hasher error: %v", err)
					return
				}
				if consensus.MeetsDifficulty(digest, zeros) {
					results <- solution{nonce, digest}
					return
				}
			}
		}(uint64(w))
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var best *solution
	for sol := range results {
		if best == nil || sol.nonce < best.nonce {
			best = &sol
		}
		// A winner exists; stop the remaining workers and drain any
		// concurrent finds so ties resolve to the lowest nonce.
		cancel()
	}

	if best == nil {
		if err := ctx.Err(); err != nil {
			return solution{}, err
		}
		return solution{}, ErrSearchExhausted
	}
	return *best, nil
}
