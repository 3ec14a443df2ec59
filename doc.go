// Package chessperm derives deterministic 256-bit keys from chess move
// transcripts or passwords, and seals messages under those keys inside
// images.
//
// Two independent derivation engines are available:
//
//   - EngineSPN (default): the input bits are split into 256-bit blocks, each
//     block runs 16 rounds of a chess-themed substitution-permutation network
//     (knight-jump permutation, pawn S-box, rook sweep, promotion flip), and
//     the blocks are XOR-folded.
//   - EngineGame: the input bits steer a legal chess game for up to 100 plies
//     and the final position is serialized into the key.
//
// DeriveRobust hardens EngineSPN with salted iteration (1000 rounds of the
// network by default) and a final SHA-256 compression.
//
// The network is unaudited. Use DeriveRobust when the key protects anything
// of value.
//
// Basic usage:
//
//	key, err := chessperm.DeriveFromTranscript("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(key.Hex())
//
// Sealing a message into a cover image:
//
//	env, err := chessperm.Seal(transcript, "meet at dawn", coverPNG)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	archive, err := env.Archive() // zip with stego.png and private_key.txt
//
//	msg, err := chessperm.Open(archive, env.SecretKeyHex, transcript)
//
// A [Client] performs the same operations against a running service.
package chessperm
