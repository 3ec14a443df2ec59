package spn

import (
	"slices"

	"github.com/chessperm/chessperm-go/internal/bitseq"
)

// Rounds is the number of rounds applied to each block.
const Rounds = 16

const side = bitseq.GridSide

// sbox is the pawn substitution table, indexed by nibble value.
const sbox = "\x06\x0b\x0c\x00\x05\x07\x0a\x0d\x01\x0f\x03\x09\x0e\x08\x04\x02"

// Process runs the full round schedule over b in place.
func Process(b *bitseq.Block) {
	for r := 0; r < Rounds; r++ {
		Round(b, r)
	}
}

// Round applies one round with the given 0-based round index.
func Round(b *bitseq.Block, round int) {
	knightJump(b)
	pawnSubstitution(b)
	rookSweep(b)
	promotionFlip(b, round)
}

// knightJump visits indices in ascending order. Later writes overwrite
// earlier ones, but reads always come from the round-start snapshot.
func knightJump(b *bitseq.Block) {
	snap := *b
	for idx := range snap {
		r, c := idx/side, idx%side
		j := ((r+2)%side)*side + (c+1)%side
		b[idx], b[j] = snap[j], snap[idx]
	}
}

func pawnSubstitution(b *bitseq.Block) {
	for i := 0; i < bitseq.BlockBits; i += 4 {
		s := sbox[b[i]<<3|b[i+1]<<2|b[i+2]<<1|b[i+3]]
		b[i], b[i+1], b[i+2], b[i+3] = s>>3&1, s>>2&1, s>>1&1, s&1
	}
}

// rookSweep rotates all rows first, then all columns of the row-rotated grid.
func rookSweep(b *bitseq.Block) {
	for r := 0; r < side; r++ {
		row := b[r*side : (r+1)*side]
		rotateLeft(row, popcount(row)%side)
	}

	var col [side]byte
	for c := 0; c < side; c++ {
		for r := range col {
			col[r] = b[r*side+c]
		}
		rotateLeft(col[:], popcount(col[:])%side)
		for r, v := range col {
			b[r*side+c] = v
		}
	}
}

func promotionFlip(b *bitseq.Block, round int) {
	b[round%bitseq.BlockBits] ^= 1
}

// rotateLeft moves s[n] to s[0], so out[i] = in[(i+n) mod len].
func rotateLeft(s []byte, n int) {
	if n == 0 {
		return
	}
	slices.Reverse(s[:n])
	slices.Reverse(s[n:])
	slices.Reverse(s)
}

func popcount(s []byte) int {
	n := 0
	for _, v := range s {
		n += int(v)
	}
	return n
}
