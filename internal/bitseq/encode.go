package bitseq

import (
	"strings"

	"github.com/chessperm/chessperm-go/internal/apierrors"
	"github.com/chessperm/chessperm-go/internal/rules"
)

// Mode selects how the primary input string is turned into bits.
type Mode int

const (
	// ModeTranscript replays the input as a chess move transcript and falls
	// back to raw bytes when no move is accepted.
	ModeTranscript Mode = iota
	// ModeRaw always encodes the raw input bytes.
	ModeRaw
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTranscript:
		return "transcript"
	case ModeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// SkipFunc observes transcript tokens that were rejected by the rules engine.
type SkipFunc func(token string, err error)

// Encoder produces the bit sequence for one derivation call.
type Encoder struct {
	// Rules creates the position transcripts are replayed against.
	// Defaults to rules.NewStandard.
	Rules rules.Factory
	// OnSkip, if set, is called for each token that failed to parse.
	OnSkip SkipFunc
}

// Encode builds the bit sequence for input followed by the salt bits.
// It returns apierrors.ErrInvalidInput only when input and salt are both empty.
func (e *Encoder) Encode(mode Mode, input string, salt []byte) (Sequence, error) {
	if input == "" && len(salt) == 0 {
		return nil, apierrors.ErrInvalidInput
	}

	var bits Sequence
	if mode == ModeTranscript {
		bits = e.Transcript(input)
	}
	if len(bits) == 0 {
		bits = appendBytes(bits, []byte(input))
	}
	return appendBytes(bits, salt), nil
}

// Transcript replays whitespace-separated SAN tokens from the initial
// position and encodes every accepted move as 12 bits: origin file, origin
// rank, destination file, destination rank, 3 bits each. Empty tokens and
// move-number labels ("1.", "12...") are ignored; tokens the rules engine
// rejects are skipped. It returns nil when no move was accepted.
func (e *Encoder) Transcript(text string) Sequence {
	newRules := e.Rules
	if newRules == nil {
		newRules = rules.NewStandard
	}
	pos := newRules()

	var bits Sequence
	for _, tok := range strings.Fields(text) {
		if strings.HasSuffix(tok, ".") {
			continue
		}
		m, err := pos.ParseSAN(tok)
		if err == nil {
			err = pos.Apply(m)
		}
		if err != nil {
			if e.OnSkip != nil {
				e.OnSkip(tok, err)
			}
			continue
		}
		bits = AppendUint(bits, uint(m.From.File()), 3)
		bits = AppendUint(bits, uint(m.From.Rank()), 3)
		bits = AppendUint(bits, uint(m.To.File()), 3)
		bits = AppendUint(bits, uint(m.To.Rank()), 3)
	}
	return bits
}
