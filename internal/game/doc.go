// Package game implements the game-simulation derivation engine.
//
// The input bits steer a legal chess game from the standard starting
// position: at ply i the 6-bit window starting at bit (6*i) mod len selects a
// move. For seven plies out of every ten the choice is restricted to
// irreversible moves (captures, en-passant, promotions, castling) when any
// exist. The final position is serialized into a 256-bit key by [Serialize].
//
// The engine is strictly sequential. Every ply depends on the position left
// by the previous one.
package game
