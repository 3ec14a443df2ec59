// Package spn implements the chess-themed substitution-permutation network
// used by the block engine.
//
// A 256-bit block is viewed as a 16x16 grid and put through 16 rounds. Each
// round runs four stages in a fixed order:
//
//   - knight jump: every cell swaps with the cell two rows down and one column
//     right (wrapping), both operands read from the block as it stood at the
//     start of the round.
//   - pawn substitution: each 4-bit nibble is replaced through a fixed S-box.
//   - rook sweep: each row rotates left by its popcount mod 16, then each
//     column rotates up by its popcount mod 16.
//   - promotion flip: the bit at index round mod 256 is inverted.
//
// Every detail above is part of the output contract; changing any of them
// yields a different key for every input. The construction is unaudited and
// structurally weak, which is why [Robust] finishes with SHA-256.
package spn
