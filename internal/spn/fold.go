package spn

import (
	"github.com/holiman/uint256"

	"github.com/chessperm/chessperm-go/internal/bitseq"
)

// Fold XORs all blocks together and returns the packed 32-byte result.
// Order does not matter.
func Fold(blocks []bitseq.Block) [bitseq.BlockBytes]byte {
	var acc, v uint256.Int
	for i := range blocks {
		p := bitseq.Pack(&blocks[i])
		v.SetBytes32(p[:])
		acc.Xor(&acc, &v)
	}
	return acc.Bytes32()
}
