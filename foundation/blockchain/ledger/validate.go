package ledger

// IsChainValid reports whether every block from the second onward links to
// its predecessor's hash and solves the puzzle against its predecessor's
// proof. Chains of zero or one block are valid.
func IsChainValid(chain []Block, difficulty int) bool {
	return ValidateChain(chain, difficulty) == nil
}

// ValidateChain walks the chain and returns a *ChainError for the first
// block that fails a check. A difficulty of zero means DefaultDifficulty.
func ValidateChain(chain []Block, difficulty int) error {
	difficulty, err := searchDifficulty(difficulty)
	if err != nil {
		return err
	}

	for i := 1; i < len(chain); i++ {
		prev, block := chain[i-1], chain[i]

		if block.PreviousHash != prev.Hash() {
			return &ChainError{Position: i, Index: block.Index, Err: ErrPreviousHash}
		}

		if !IsPuzzleSolved(prev.Proof, block.Proof, difficulty) {
			return &ChainError{Position: i, Index: block.Index, Err: ErrInvalidProof}
		}
	}

	return nil
}
