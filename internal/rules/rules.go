// Package rules defines the chess rules capability that the derivation
// engines consume, and a standard-chess implementation of it.
//
// The engines never look inside a rules implementation: they enumerate legal
// moves, apply them, parse SAN tokens and read a Snapshot of the position.
// Anything satisfying [Rules] can be injected in place of [NewStandard].
//
// # Canonical move order
//
// LegalMoves must return moves sorted by origin square ascending, then
// destination square ascending, then promotion piece ascending (knight,
// bishop, rook, queen). Squares are numbered a1=0, b1=1, ..., h1=7, a2=8, ...,
// h8=63. Game simulation indexes into this list, so the order is part of the
// key-derivation contract. [SortCanonical] applies it.
package rules

import (
	"errors"
	"slices"
)

// ErrIllegalMove is returned by Apply when the move is not legal in the
// current position.
var ErrIllegalMove = errors.New("illegal move")

// Square is a board square, a1=0 through h8=63.
type Square int8

// NoSquare marks an absent square (for example, no en-passant target).
const NoSquare Square = -1

// File returns the 0-based file (a=0 ... h=7).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the 0-based rank (1st rank = 0 ... 8th rank = 7).
func (s Square) Rank() int { return int(s) / 8 }

// String returns the square in algebraic form, e.g. "e4", or "-" for NoSquare.
func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// PieceType identifies a kind of piece. Values 1-6 are stable and appear in
// serialized board keys.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Color identifies a side. White moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Piece is an occupant of a square. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// Empty reports whether the square holds no piece.
func (p Piece) Empty() bool { return p.Type == NoPieceType }

// Move is a legal move together with its classification.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes

	Capture   bool
	EnPassant bool
	Castle    bool
}

// Irreversible reports whether the move is a capture, en-passant capture,
// promotion or castling move.
func (m Move) Irreversible() bool {
	return m.Capture || m.EnPassant || m.Castle || m.Promotion != NoPieceType
}

// UCI returns the move in long algebraic form, e.g. "e2e4" or "a7a8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// Snapshot is a read-only view of a position.
type Snapshot struct {
	Board [64]Piece
	Turn  Color

	WhiteKingside  bool
	BlackKingside  bool
	WhiteQueenside bool
	BlackQueenside bool

	EnPassant     Square
	HalfmoveClock int
	Plies         int
}

// Rules is a live chess position that starts from the standard initial setup.
type Rules interface {
	// LegalMoves returns every legal move in canonical order. An empty result
	// means the position is terminal.
	LegalMoves() []Move

	// ParseSAN resolves a standard algebraic notation token against the
	// current position without applying it. Unparseable or illegal tokens
	// return an error wrapping apierrors.ErrUnsupportedNotation.
	ParseSAN(token string) (Move, error)

	// Apply plays a legal move.
	Apply(m Move) error

	// Undo takes back the last applied move. It reports false when there is
	// nothing to undo.
	Undo() bool

	// Snapshot returns the current position.
	Snapshot() Snapshot

	// History returns the moves applied so far, in play order.
	History() []Move
}

// Factory creates a fresh Rules at the standard initial position.
type Factory func() Rules

// SortCanonical sorts moves into canonical order in place.
func SortCanonical(moves []Move) {
	slices.SortFunc(moves, compareMoves)
}

func compareMoves(a, b Move) int {
	if a.From != b.From {
		return int(a.From) - int(b.From)
	}
	if a.To != b.To {
		return int(a.To) - int(b.To)
	}
	return int(a.Promotion) - int(b.Promotion)
}
