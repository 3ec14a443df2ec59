package spn

import (
	"crypto/sha256"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chessperm/chessperm-go/internal/bitseq"
)

// Derive pads bits into blocks, runs every block through the round
// schedule, and folds the results. bits must not be empty.
func Derive(bits bitseq.Sequence, workers int) [bitseq.BlockBytes]byte {
	blocks := bitseq.Pad(bits)
	each(blocks, workers, Process)
	return Fold(blocks)
}

// Robust is Derive hardened with salted iteration. After the initial pass,
// each of the iterations XORs every block with the salt bits (cyclically
// repeated to 256 bits, skipped when salt is empty) and runs the full round
// schedule again. The folded value is compressed with SHA-256.
func Robust(bits bitseq.Sequence, salt []byte, iterations, workers int) [bitseq.BlockBytes]byte {
	var mask bitseq.Block
	salted := len(salt) > 0
	if salted {
		copy(mask[:], bitseq.FromBytes(salt).Repeat(bitseq.BlockBits))
	}

	blocks := bitseq.Pad(bits)
	// Blocks never interact before the fold, so each block runs its whole
	// iteration chain independently.
	each(blocks, workers, func(b *bitseq.Block) {
		Process(b)
		for n := 0; n < iterations; n++ {
			if salted {
				for i := range b {
					b[i] ^= mask[i]
				}
			}
			Process(b)
		}
	})

	folded := Fold(blocks)
	return sha256.Sum256(folded[:])
}

// each applies fn to every block using at most workers goroutines.
// workers <= 0 means GOMAXPROCS.
func each(blocks []bitseq.Block, workers int, fn func(*bitseq.Block)) {
	if len(blocks) == 1 {
		fn(&blocks[0])
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range blocks {
		g.Go(func() error {
			fn(&blocks[i])
			return nil
		})
	}
	_ = g.Wait()
}
