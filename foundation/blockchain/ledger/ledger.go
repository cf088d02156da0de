// Package ledger is the core engine for the proof of work blockchain. It
// maintains the in memory chain of blocks, hashes blocks, performs the proof
// of work search, and validates the chain.
package ledger

import (
	"context"
	"fmt"
	"sync"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Difficulty  int          // Zero means DefaultDifficulty.
	MaxAttempts uint64       // Zero means the proof search is unbounded.
	EvHandler   EventHandler // Optional.
}

// Ledger manages the chain of blocks. The zero value is not initialized and
// rejects every operation with ErrNotInitialized.
type Ledger struct {
	mu          sync.RWMutex
	difficulty  int
	maxAttempts uint64
	evHandler   EventHandler
	chain       []Block
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) (*Ledger, error) {
	difficulty, err := searchDifficulty(cfg.Difficulty)
	if err != nil {
		return nil, err
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	genesis := newBlock(1, GenesisProof, GenesisHash)

	l := Ledger{
		difficulty:  difficulty,
		maxAttempts: cfg.MaxAttempts,
		evHandler:   ev,
		chain:       []Block{genesis},
	}

	ev("ledger: New: genesis: hash[%s]", genesis.Hash())

	return &l, nil
}

// Difficulty returns the number of leading '0' characters the puzzle
// requires for this ledger.
func (l *Ledger) Difficulty() int {
	if l.difficulty == 0 {
		return DefaultDifficulty
	}
	return l.difficulty
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// LatestBlock returns the last block in the chain.
func (l *Ledger) LatestBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return Block{}, ErrNotInitialized
	}

	return l.chain[len(l.chain)-1], nil
}

// Blocks returns a copy of the full chain.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]Block, len(l.chain))
	copy(chain, l.chain)
	return chain
}

// CreateBlock appends a new block with the specified proof and previous
// hash. The previous hash must match the hash of the last block and the
// proof must solve the puzzle against the last block's proof.
func (l *Ledger) CreateBlock(proof int64, previousHash string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chain) == 0 {
		return Block{}, ErrNotInitialized
	}

	return l.appendBlock(proof, previousHash)
}

// Mine performs the proof of work against the last block and appends the
// resulting block. The search runs without holding the lock. If another
// block was appended while searching, the proof is stale and the search
// restarts from the new last block.
func (l *Ledger) Mine(ctx context.Context) (Block, error) {
	for {
		latest, err := l.LatestBlock()
		if err != nil {
			return Block{}, err
		}

		proof, err := ProofOfWork(ctx, latest.Proof, l.search())
		if err != nil {
			return Block{}, fmt.Errorf("mining block[%d]: %w", latest.Index+1, err)
		}

		block, stale, err := l.appendIfLatest(latest, proof)
		if stale {
			l.evHandler("ledger: Mine: blk[%d]: proof is stale, restarting", latest.Index+1)
			continue
		}

		return block, err
	}
}

// IsValid reports whether the ledger's own chain is valid.
func (l *Ledger) IsValid() bool {
	return l.Validate() == nil
}

// Validate walks the ledger's own chain and returns the first problem found.
func (l *Ledger) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return ErrNotInitialized
	}

	return ValidateChain(l.chain, l.Difficulty())
}

// =============================================================================

// appendIfLatest appends the block only when latest is still the last block.
func (l *Ledger) appendIfLatest(latest Block, proof int64) (Block, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// The chain never shrinks or reorders, so an unchanged length means an
	// unchanged last block.
	if int64(len(l.chain)) != latest.Index {
		return Block{}, true, nil
	}

	block, err := l.appendBlock(proof, latest.Hash())
	return block, false, err
}

// appendBlock validates and appends the next block. The caller must hold the
// write lock.
func (l *Ledger) appendBlock(proof int64, previousHash string) (Block, error) {
	latest := l.chain[len(l.chain)-1]

	if exp := latest.Hash(); previousHash != exp {
		return Block{}, fmt.Errorf("%w: got %s, exp %s", ErrPreviousHash, previousHash, exp)
	}

	if !IsPuzzleSolved(latest.Proof, proof, l.Difficulty()) {
		return Block{}, fmt.Errorf("%w: proof %d, previous proof %d", ErrInvalidProof, proof, latest.Proof)
	}

	block := newBlock(latest.Index+1, proof, previousHash)
	l.chain = append(l.chain, block)

	l.evHandler("ledger: CreateBlock: blk[%d]: appended: proof[%d]: prevHash[%s]", block.Index, block.Proof, block.PreviousHash)

	return block, nil
}

func (l *Ledger) search() Search {
	return Search{
		Difficulty:  l.Difficulty(),
		MaxAttempts: l.maxAttempts,
		EvHandler:   l.evHandler,
	}
}
