package ledger

import (
	"errors"
	"fmt"
)

// Set of error variables for the ledger engine.
var (
	ErrNotInitialized    = errors.New("ledger not initialized")
	ErrPreviousHash      = errors.New("previous hash doesn't match the last block")
	ErrInvalidProof      = errors.New("proof doesn't solve the puzzle")
	ErrSearchExhausted   = errors.New("proof of work search exhausted")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// ChainError is returned by ValidateChain to identify the block that broke
// the chain and why.
type ChainError struct {
	Position int   // Zero-based position of the block in the chain.
	Index    int64 // Index recorded in the block.
	Err      error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("block[%d] at position %d: %s", ce.Index, ce.Position, ce.Err)
}

// Unwrap provides access to the underlying error for errors.Is.
func (ce *ChainError) Unwrap() error {
	return ce.Err
}
