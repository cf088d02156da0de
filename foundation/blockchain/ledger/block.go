package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// GenesisHash is the previous hash recorded by the genesis block.
const GenesisHash = "0"

// GenesisProof is the proof recorded by the genesis block.
const GenesisProof int64 = 1

// Block represents one link in the chain.
type Block struct {
	Index        int64     `json:"index"`         // 1-based position in the chain.
	TimeStamp    time.Time `json:"timestamp"`     // Time the block was created. Not validated.
	Proof        int64     `json:"proof"`         // Solution to the puzzle against the previous proof.
	PreviousHash string    `json:"previous_hash"` // Hash of the previous block's canonical encoding.
}

// canonicalBlock fixes the field order of the encoding used for hashing.
// Fields must stay sorted by their json name.
type canonicalBlock struct {
	Index        int64  `json:"index"`
	PreviousHash string `json:"previous_hash"`
	Proof        int64  `json:"proof"`
	TimeStamp    string `json:"timestamp"`
}

// CanonicalEncode produces the deterministic byte encoding of the block that
// is used as the hash input. The encoding is a compact JSON object with its
// keys in alphabetical order and the timestamp in RFC 3339 (nanosecond) UTC.
func CanonicalEncode(b Block) []byte {
	cb := canonicalBlock{
		Index:        b.Index,
		PreviousHash: b.PreviousHash,
		Proof:        b.Proof,
		TimeStamp:    b.TimeStamp.UTC().Format(time.RFC3339Nano),
	}

	// A struct of strings and integers can't fail to marshal.
	data, _ := json.Marshal(cb)
	return data
}

// Hash returns the lowercase hex SHA-256 digest of the block's canonical
// encoding.
func Hash(b Block) string {
	hash := sha256.Sum256(CanonicalEncode(b))
	return hex.EncodeToString(hash[:])
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return Hash(b)
}

// IsGenesis reports whether the block carries the genesis sentinel values.
func (b Block) IsGenesis() bool {
	return b.Index == 1 && b.Proof == GenesisProof && b.PreviousHash == GenesisHash
}

// newBlock constructs the block for the specified position in the chain.
func newBlock(index int64, proof int64, previousHash string) Block {
	return Block{
		Index:        index,
		TimeStamp:    time.Now().UTC(),
		Proof:        proof,
		PreviousHash: previousHash,
	}
}
