package chessperm

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/chessperm/chessperm-go/internal/bitseq"
	"github.com/chessperm/chessperm-go/internal/game"
	"github.com/chessperm/chessperm-go/internal/spn"
)

// KeySize is the length of a master key in bytes.
const KeySize = bitseq.BlockBytes

// MasterKey is a derived 256-bit key.
type MasterKey [KeySize]byte

// Hex returns the key as lowercase hex.
func (k MasterKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the key.
func (k MasterKey) Bytes() []byte {
	return append([]byte(nil), k[:]...)
}

// ParseMasterKey decodes a 64-character hex key.
func ParseMasterKey(s string) (MasterKey, error) {
	var k MasterKey
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, err
	}
	if len(b) != KeySize {
		return k, fmt.Errorf("master key is %d bytes, want %d", len(b), KeySize)
	}
	copy(k[:], b)
	return k, nil
}

// DeriveFromTranscript derives a key from a chess move transcript such as
// "1. e4 e5 2. Nf3 Nc6". Tokens that are not legal moves are skipped; if no
// move is accepted the raw text is used instead.
func DeriveFromTranscript(text string, opts ...DeriveOption) (MasterKey, error) {
	return derive(ModeTranscript, text, newDeriveConfig(opts))
}

// DeriveFromPassword derives a key from the raw bytes of password.
func DeriveFromPassword(password string, opts ...DeriveOption) (MasterKey, error) {
	return derive(ModePassword, password, newDeriveConfig(opts))
}

// DeriveRobust derives a key with salted iteration and a final SHA-256
// compression. input is treated as a transcript, falling back to its raw
// bytes.
func DeriveRobust(input string, opts ...DeriveOption) (MasterKey, error) {
	cfg := newDeriveConfig(opts)
	cfg.robust = true
	return derive(ModeTranscript, input, cfg)
}

// DeriveContext runs a derivation as a unit of work bounded by ctx. The
// computation itself is not interruptible; when ctx ends first the call
// returns ctx.Err() and the result is discarded.
func DeriveContext(ctx context.Context, mode Mode, input string, opts ...DeriveOption) (MasterKey, error) {
	if err := ctx.Err(); err != nil {
		return MasterKey{}, err
	}

	type result struct {
		key MasterKey
		err error
	}
	done := make(chan result, 1)
	cfg := newDeriveConfig(opts)
	go func() {
		k, err := derive(mode, input, cfg)
		done <- result{k, err}
	}()

	select {
	case <-ctx.Done():
		return MasterKey{}, ctx.Err()
	case r := <-done:
		return r.key, r.err
	}
}

func derive(mode Mode, input string, cfg *deriveConfig) (MasterKey, error) {
	enc := bitseq.Encoder{Rules: cfg.rules, OnSkip: cfg.onSkip}
	bmode := bitseq.ModeTranscript
	if mode == ModePassword {
		bmode = bitseq.ModeRaw
	}

	bits, err := enc.Encode(bmode, input, cfg.salt)
	if err != nil {
		return MasterKey{}, err
	}

	switch {
	case cfg.robust:
		return spn.Robust(bits, cfg.salt, cfg.iterations, cfg.workers), nil
	case cfg.engine == EngineGame:
		return game.Derive(bits, cfg.plies, cfg.rules), nil
	default:
		return spn.Derive(bits, cfg.workers), nil
	}
}
