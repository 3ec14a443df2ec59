package game

import (
	"github.com/chessperm/chessperm-go/internal/bitseq"
	"github.com/chessperm/chessperm-go/internal/rules"
)

// MaxHalfmoveClock is the largest halfmove clock the serializer can encode.
const MaxHalfmoveClock = 127

// Serialize encodes a position into a 256-bit key. Fields, in order:
//
//   - 64 occupancy bits, a1 first, h8 last
//   - a nibble (color<<3 | type) per occupied square, same order
//   - side to move (white = 0)
//   - castling rights: white kingside, black kingside, white queenside,
//     black queenside
//   - en-passant target square in 6 bits, 0 when there is none
//   - halfmove clock in 7 bits, clamped to 127
//
// The encoding is repeated from its start until it fills 256 bits, then
// truncated to 256.
func Serialize(s rules.Snapshot) [bitseq.BlockBytes]byte {
	return bitseq.PackSequence(Bits(s).Repeat(bitseq.BlockBits))
}

// Bits returns the unrepeated field encoding of s.
func Bits(s rules.Snapshot) bitseq.Sequence {
	out := make(bitseq.Sequence, 0, bitseq.BlockBits)
	for _, p := range s.Board {
		out = append(out, boolBit(!p.Empty()))
	}
	for _, p := range s.Board {
		if p.Empty() {
			continue
		}
		out = bitseq.AppendUint(out, uint(p.Color)<<3|uint(p.Type)&7, 4)
	}

	out = append(out, byte(s.Turn))
	out = append(out,
		boolBit(s.WhiteKingside),
		boolBit(s.BlackKingside),
		boolBit(s.WhiteQueenside),
		boolBit(s.BlackQueenside),
	)

	var ep uint
	if s.EnPassant != rules.NoSquare {
		ep = uint(s.EnPassant)
	}
	out = bitseq.AppendUint(out, ep, 6)

	hmc := min(max(s.HalfmoveClock, 0), MaxHalfmoveClock)
	return bitseq.AppendUint(out, uint(hmc), 7)
}

func boolBit(v bool) byte {
	if v {
		return 1
	}
	return 0
}
