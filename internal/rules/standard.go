package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"

	"github.com/chessperm/chessperm-go/internal/apierrors"
)

// standard adapts github.com/notnil/chess to Rules.
type standard struct {
	pos     *chess.Position
	stack   []*chess.Position
	history []Move
}

// NewStandard returns orthodox chess rules at the initial position.
func NewStandard() Rules {
	return &standard{pos: chess.NewGame().Position()}
}

func (s *standard) LegalMoves() []Move {
	valid := s.pos.ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, m := range valid {
		out = append(out, fromLibrary(m))
	}
	SortCanonical(out)
	return out
}

// sanPattern matches loose SAN: optional piece letter, optional origin file
// and rank, an optional '-' or 'x', the destination, an optional promotion
// with or without '=', and a check marker.
var sanPattern = regexp.MustCompile(`^([NBKRQ])?([a-h])?([1-8])?[-x]?([a-h][1-8])(=?[nbrqNBRQ])?[+#]?$`)

// ParseSAN accepts strict SAN plus the common hand-typed variants: zero
// castling (0-0, 0-0-0), hyphenated or fully specified moves (N-f3, e2-e4,
// Ng1f3) and promotions without '='.
func (s *standard) ParseSAN(token string) (Move, error) {
	tok := normalizeCastling(token)
	m, err := chess.AlgebraicNotation{}.Decode(s.pos, tok)
	if err == nil {
		return fromLibrary(m), nil
	}
	if lm, ok := s.matchLoose(tok); ok {
		return fromLibrary(lm), nil
	}
	return Move{}, fmt.Errorf("%w: %q: %v", apierrors.ErrUnsupportedNotation, token, err)
}

func normalizeCastling(tok string) string {
	base := strings.TrimRight(tok, "+#")
	switch base {
	case "0-0":
		return "O-O" + tok[len(base):]
	case "0-0-0":
		return "O-O-O" + tok[len(base):]
	}
	return tok
}

// matchLoose resolves tok against the legal moves. Ambiguous tokens do not
// match.
func (s *standard) matchLoose(tok string) (*chess.Move, bool) {
	g := sanPattern.FindStringSubmatch(tok)
	if g == nil {
		return nil, false
	}
	piece := pieceFromLetter(g[1])
	promo := chess.NoPieceType
	if p := strings.TrimPrefix(g[5], "="); p != "" {
		promo = pieceFromLetter(strings.ToUpper(p))
	}

	var found *chess.Move
	board := s.pos.Board()
	for _, m := range s.pos.ValidMoves() {
		from := Square(m.S1()).String()
		switch {
		case Square(m.S2()).String() != g[4],
			board.Piece(m.S1()).Type() != piece,
			g[2] != "" && from[0] != g[2][0],
			g[3] != "" && from[1] != g[3][0],
			m.Promo() != promo:
			continue
		}
		if found != nil {
			return nil, false
		}
		found = m
	}
	return found, found != nil
}

func pieceFromLetter(l string) chess.PieceType {
	switch l {
	case "N":
		return chess.Knight
	case "B":
		return chess.Bishop
	case "R":
		return chess.Rook
	case "Q":
		return chess.Queen
	case "K":
		return chess.King
	default:
		return chess.Pawn
	}
}

func (s *standard) Apply(m Move) error {
	for _, cand := range s.pos.ValidMoves() {
		if int(cand.S1()) != int(m.From) || int(cand.S2()) != int(m.To) {
			continue
		}
		if promotionFromLibrary(cand.Promo()) != m.Promotion {
			continue
		}
		s.stack = append(s.stack, s.pos)
		s.pos = s.pos.Update(cand)
		s.history = append(s.history, fromLibrary(cand))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
}

func (s *standard) Undo() bool {
	if len(s.stack) == 0 {
		return false
	}
	s.pos = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.history = s.history[:len(s.history)-1]
	return true
}

func (s *standard) Snapshot() Snapshot {
	snap, err := ParseFEN(s.pos.String())
	if err != nil {
		// The library only emits well-formed FEN.
		panic(fmt.Sprintf("rules: %v", err))
	}
	snap.Plies = len(s.history)
	return snap
}

func (s *standard) History() []Move {
	out := make([]Move, len(s.history))
	copy(out, s.history)
	return out
}

func fromLibrary(m *chess.Move) Move {
	return Move{
		From:      Square(m.S1()),
		To:        Square(m.S2()),
		Promotion: promotionFromLibrary(m.Promo()),
		Capture:   m.HasTag(chess.Capture),
		EnPassant: m.HasTag(chess.EnPassant),
		Castle:    m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle),
	}
}

func promotionFromLibrary(pt chess.PieceType) PieceType {
	switch pt {
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	default:
		return NoPieceType
	}
}
