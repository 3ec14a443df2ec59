// Package crypto seals messages under a ChessPerm master key.
//
// # Algorithm Suite
//
//   - ML-KEM-768 (NIST FIPS 203): post-quantum key encapsulation. A fresh
//     keypair is generated for every sealed message.
//
//   - XOR combination: the KEM shared secret XOR the 32-byte master key is
//     the transport key. Neither half alone opens the message.
//
//   - ChaCha20-Poly1305 (RFC 8439): authenticated encryption of the
//     message under the transport key with a random 12-byte nonce.
//
// # Wire Format
//
// A sealed [Payload] is the concatenation
//
//	KEM ciphertext (1088) || nonce (12) || tag (16) || ciphertext
//
// which is what gets embedded into a cover image.
//
// # Key Management
//
// The secret key contains an embedded copy of the public key at offset 1152,
// which [KeypairFromSecretKey] extracts. Secret keys travel as lowercase hex.
// They should never be logged in full.
package crypto
