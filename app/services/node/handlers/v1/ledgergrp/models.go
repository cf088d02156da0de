package ledgergrp

import (
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/validate"
)

type block struct {
	Index        int64     `json:"index"`
	TimeStamp    time.Time `json:"timestamp"`
	Proof        int64     `json:"proof"`
	PreviousHash string    `json:"previous_hash"`
	Hash         string    `json:"hash"`
}

func toBlock(b ledger.Block) block {
	return block{
		Index:        b.Index,
		TimeStamp:    b.TimeStamp,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
		Hash:         b.Hash(),
	}
}

func toBlocks(chain []ledger.Block) []block {
	blocks := make([]block, len(chain))
	for i, b := range chain {
		blocks[i] = toBlock(b)
	}
	return blocks
}

type mined struct {
	Message string `json:"message"`
	Block   block  `json:"block"`
}

type chain struct {
	Length int     `json:"length"`
	Chain  []block `json:"chain"`
}

type validity struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================

type submitBlock struct {
	Index        int64     `json:"index" validate:"gte=1"`
	TimeStamp    time.Time `json:"timestamp"`
	Proof        int64     `json:"proof"`
	PreviousHash string    `json:"previous_hash" validate:"required"`
}

type submitChain struct {
	Chain      []submitBlock `json:"chain" validate:"required,dive"`
	Difficulty int           `json:"difficulty" validate:"omitempty,min=1,max=64"`
}

// Validate checks the data in the model is considered clean.
func (sc submitChain) Validate() error {
	return validate.Check(sc)
}

func (sc submitChain) toLedgerChain() []ledger.Block {
	chain := make([]ledger.Block, len(sc.Chain))
	for i, sb := range sc.Chain {
		chain[i] = ledger.Block{
			Index:        sb.Index,
			TimeStamp:    sb.TimeStamp,
			Proof:        sb.Proof,
			PreviousHash: sb.PreviousHash,
		}
	}
	return chain
}
