package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// testDifficulty keeps mining fast in tests that don't depend on the
// default difficulty.
const testDifficulty = 3

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a ledger with a genesis block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen constructing a new ledger.", testID)
		{
			l, err := ledger.New(ledger.Config{})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct a ledger.", success, testID)

			chain := l.Blocks()
			if len(chain) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have exactly one block, got %d.", failed, testID, len(chain))
			}
			t.Logf("\t%s\tTest %d:\tShould have exactly one block.", success, testID)

			exp := ledger.Block{Index: 1, Proof: 1, PreviousHash: "0"}
			if diff := cmp.Diff(exp, chain[0], cmpopts.IgnoreFields(ledger.Block{}, "TimeStamp")); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould have the genesis values. Diff:\n%s", failed, testID, diff)
			}
			t.Logf("\t%s\tTest %d:\tShould have the genesis values.", success, testID)

			if !chain[0].IsGenesis() {
				t.Fatalf("\t%s\tTest %d:\tShould report the block as genesis.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the block as genesis.", success, testID)

			if l.Difficulty() != ledger.DefaultDifficulty {
				t.Fatalf("\t%s\tTest %d:\tShould use the default difficulty, got %d.", failed, testID, l.Difficulty())
			}
			t.Logf("\t%s\tTest %d:\tShould use the default difficulty.", success, testID)

			if !l.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid single block chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid single block chain.", success, testID)
		}
	}
}

func Test_InvalidDifficulty(t *testing.T) {
	t.Log("Given the need to reject configurations with a bad difficulty.")
	{
		for testID, difficulty := range []int{-1, ledger.MaxDifficulty + 1} {
			t.Logf("\tTest %d:\tWhen using difficulty %d.", testID, difficulty)
			{
				_, err := ledger.New(ledger.Config{Difficulty: difficulty})
				if !errors.Is(err, ledger.ErrInvalidDifficulty) {
					t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty, got %v.", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty.", success, testID)
			}
		}
	}
}

func Test_NotInitialized(t *testing.T) {
	t.Log("Given the need to protect a ledger that was never initialized.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen using the zero value.", testID)
		{
			var l ledger.Ledger

			if _, err := l.LatestBlock(); !errors.Is(err, ledger.ErrNotInitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould fail LatestBlock, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail LatestBlock.", success, testID)

			if _, err := l.CreateBlock(1, ledger.GenesisHash); !errors.Is(err, ledger.ErrNotInitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould fail CreateBlock, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail CreateBlock.", success, testID)

			if _, err := l.Mine(context.Background()); !errors.Is(err, ledger.ErrNotInitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould fail Mine, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail Mine.", success, testID)

			if l.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould not report an empty ledger as valid.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not report an empty ledger as valid.", success, testID)
		}
	}
}

func Test_CreateBlock(t *testing.T) {
	t.Log("Given the need to append blocks with verified inputs.")
	{
		l, err := ledger.New(ledger.Config{Difficulty: testDifficulty})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
		}

		genesis, err := l.LatestBlock()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to get the genesis block: %v", failed, err)
		}

		proof, err := ledger.ProofOfWork(context.Background(), genesis.Proof, ledger.Search{Difficulty: testDifficulty})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to find a proof: %v", failed, err)
		}

		badProof := proof + 1
		for ledger.IsPuzzleSolved(genesis.Proof, badProof, testDifficulty) {
			badProof++
		}

		tt := []struct {
			name  string
			proof int64
			hash  string
			err   error
		}{
			{"bad-hash", proof, "0", ledger.ErrPreviousHash},
			{"bad-proof", badProof, genesis.Hash(), ledger.ErrInvalidProof},
			{"accepted", proof, genesis.Hash(), nil},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen appending with the %s case.", testID, tst.name)
			{
				f := func(t *testing.T) {
					before := l.Length()

					block, err := l.CreateBlock(tst.proof, tst.hash)
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get the expected error, got %v, exp %v.", failed, testID, err, tst.err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected error.", success, testID)

					if tst.err != nil {
						if l.Length() != before {
							t.Fatalf("\t%s\tTest %d:\tShould not append a rejected block.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould not append a rejected block.", success, testID)
						return
					}

					if block.Index != int64(before)+1 {
						t.Fatalf("\t%s\tTest %d:\tShould get the next index, got %d, exp %d.", failed, testID, block.Index, before+1)
					}
					t.Logf("\t%s\tTest %d:\tShould get the next index.", success, testID)

					latest, _ := l.LatestBlock()
					if diff := cmp.Diff(block, latest); diff != "" {
						t.Fatalf("\t%s\tTest %d:\tShould have the new block as latest. Diff:\n%s", failed, testID, diff)
					}
					t.Logf("\t%s\tTest %d:\tShould have the new block as latest.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MonotonicAppend(t *testing.T) {
	t.Log("Given the need to grow the chain one block at a time.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining several blocks.", testID)
		{
			l, err := ledger.New(ledger.Config{Difficulty: 2})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
			}

			const blocks = 6
			for i := 0; i < blocks; i++ {
				if _, err := l.Mine(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine block: %v", failed, testID, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine %d blocks.", success, testID, blocks)

			for i, block := range l.Blocks() {
				if block.Index != int64(i+1) {
					t.Fatalf("\t%s\tTest %d:\tShould have index %d at position %d, got %d.", failed, testID, i+1, i, block.Index)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have contiguous indices starting at 1.", success, testID)

			if !l.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, l.Validate())
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}
	}
}

func Test_ConcurrentMining(t *testing.T) {
	t.Log("Given the need to mine from many goroutines at once.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen miners and readers share the ledger.", testID)
		{
			l, err := ledger.New(ledger.Config{Difficulty: 2})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
			}

			const miners = 4
			const perMiner = 3

			var wg sync.WaitGroup
			wg.Add(miners * 2)

			errs := make(chan error, miners*perMiner)
			for i := 0; i < miners; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < perMiner; j++ {
						if _, err := l.Mine(context.Background()); err != nil {
							errs <- err
						}
					}
				}()

				go func() {
					defer wg.Done()
					for j := 0; j < perMiner; j++ {
						l.Blocks()
						l.IsValid()
					}
				}()
			}

			wg.Wait()
			close(errs)

			for err := range errs {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine concurrently: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine concurrently.", success, testID)

			if exp := miners*perMiner + 1; l.Length() != exp {
				t.Fatalf("\t%s\tTest %d:\tShould have %d blocks, got %d.", failed, testID, exp, l.Length())
			}
			t.Logf("\t%s\tTest %d:\tShould have every mined block.", success, testID)

			if !l.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, l.Validate())
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}
	}
}

func Test_MineFirstBlock(t *testing.T) {
	t.Log("Given the need to mine the first block at the default difficulty.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining on top of genesis.", testID)
		{
			l, err := ledger.New(ledger.Config{})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %v", failed, testID, err)
			}

			genesis, _ := l.LatestBlock()

			block, err := l.Mine(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine.", success, testID)

			exp := ledger.Block{Index: 2, Proof: 632238, PreviousHash: genesis.Hash()}
			if diff := cmp.Diff(exp, block, cmpopts.IgnoreFields(ledger.Block{}, "TimeStamp")); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould get the expected block. Diff:\n%s", failed, testID, diff)
			}
			t.Logf("\t%s\tTest %d:\tShould get the expected block.", success, testID)

			chain := l.Blocks()
			if !ledger.IsChainValid(chain, ledger.DefaultDifficulty) {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)

			chain[1].PreviousHash = flip(chain[1].PreviousHash)
			if ledger.IsChainValid(chain, ledger.DefaultDifficulty) {
				t.Fatalf("\t%s\tTest %d:\tShould detect a flipped previous hash character.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould detect a flipped previous hash character.", success, testID)

			if !l.IsValid() {
				t.Fatalf("\t%s\tTest %d:\tShould not let callers mutate the ledger's blocks.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not let callers mutate the ledger's blocks.", success, testID)
		}
	}
}

// =============================================================================

// flip changes the first character of a hex string.
func flip(s string) string {
	b := []byte(s)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}
	return string(b)
}
