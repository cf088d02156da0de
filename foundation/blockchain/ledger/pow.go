package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// DefaultDifficulty is the number of leading '0' hex characters a puzzle
// hash needs when no difficulty is configured.
const DefaultDifficulty = 5

// MaxDifficulty is the length of a hex encoded SHA-256 digest.
const MaxDifficulty = sha256.Size * 2

// maxSquareRoot is the largest magnitude whose square fits in an int64.
const maxSquareRoot = 3037000499

// progressInterval is how often a running search reports its attempts.
const progressInterval = 1_000_000

// Search represents the settings for a proof of work search.
type Search struct {
	Difficulty  int          // Leading '0' hex characters required. Zero means DefaultDifficulty.
	MaxAttempts uint64       // Candidates to try before giving up. Zero means unbounded.
	EvHandler   EventHandler // Optional receiver of progress events.
}

// ProofOfWork searches for the smallest candidate, starting at 1, whose
// puzzle hash against the previous proof starts with the configured number
// of '0' characters. The context is checked once per candidate.
func ProofOfWork(ctx context.Context, previousProof int64, s Search) (int64, error) {
	difficulty, err := searchDifficulty(s.Difficulty)
	if err != nil {
		return 0, err
	}

	ev := s.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("ledger: ProofOfWork: MINING: started: prevProof[%d]: difficulty[%d]", previousProof, difficulty)

	var attempts uint64
	for candidate := int64(1); ; candidate++ {
		attempts++
		if attempts%progressInterval == 0 {
			ev("ledger: ProofOfWork: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("ledger: ProofOfWork: MINING: CANCELLED: attempts[%d]", attempts)
			return 0, ctx.Err()
		}

		if IsPuzzleSolved(previousProof, candidate, difficulty) {
			ev("ledger: ProofOfWork: MINING: SOLVED: proof[%d]: attempts[%d]", candidate, attempts)
			return candidate, nil
		}

		if (s.MaxAttempts > 0 && attempts >= s.MaxAttempts) || candidate == math.MaxInt64 {
			ev("ledger: ProofOfWork: MINING: EXHAUSTED: attempts[%d]", attempts)
			return 0, fmt.Errorf("%w: after %d attempts", ErrSearchExhausted, attempts)
		}
	}
}

// IsPuzzleSolved reports whether the proof solves the puzzle relative to the
// previous proof at the specified difficulty.
func IsPuzzleSolved(previousProof int64, proof int64, difficulty int) bool {
	if difficulty < 1 || difficulty > MaxDifficulty {
		return false
	}

	return isHashSolved(difficulty, PuzzleHash(previousProof, proof))
}

// PuzzleHash returns the lowercase hex SHA-256 of the signed decimal string
// of proof² − previousProof².
func PuzzleHash(previousProof int64, proof int64) string {
	hash := sha256.Sum256([]byte(PuzzleInput(previousProof, proof)))
	return hex.EncodeToString(hash[:])
}

// PuzzleInput returns proof² − previousProof² in base 10 with a leading '-'
// when negative. The arithmetic is exact for every int64 input.
func PuzzleInput(previousProof int64, proof int64) string {
	if fitsSquare(proof) && fitsSquare(previousProof) {
		return strconv.FormatInt(proof*proof-previousProof*previousProof, 10)
	}

	p := big.NewInt(proof)
	p.Mul(p, p)

	pp := big.NewInt(previousProof)
	pp.Mul(pp, pp)

	return p.Sub(p, pp).String()
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if len(hash) != MaxDifficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

// searchDifficulty applies the default and checks the bounds.
func searchDifficulty(difficulty int) (int, error) {
	if difficulty == 0 {
		return DefaultDifficulty, nil
	}

	if difficulty < 1 || difficulty > MaxDifficulty {
		return 0, fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidDifficulty, difficulty, MaxDifficulty)
	}

	return difficulty, nil
}

func fitsSquare(v int64) bool {
	return v >= -maxSquareRoot && v <= maxSquareRoot
}
