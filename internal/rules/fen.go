package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN builds a Snapshot from a Forsyth-Edwards Notation string. The
// move-number field is optional; Plies is left at zero.
func ParseFEN(fen string) (Snapshot, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Snapshot{}, fmt.Errorf("fen: want at least 4 fields, got %d", len(fields))
	}

	var snap Snapshot
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Snapshot{}, fmt.Errorf("fen: want 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := pieceFromFEN(ch)
			if !ok {
				return Snapshot{}, fmt.Errorf("fen: bad piece %q", ch)
			}
			if file > 7 {
				return Snapshot{}, fmt.Errorf("fen: rank %d overflows", rank+1)
			}
			snap.Board[rank*8+file] = p
			file++
		}
		if file != 8 {
			return Snapshot{}, fmt.Errorf("fen: rank %d has %d files", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		snap.Turn = White
	case "b":
		snap.Turn = Black
	default:
		return Snapshot{}, fmt.Errorf("fen: bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				snap.WhiteKingside = true
			case 'Q':
				snap.WhiteQueenside = true
			case 'k':
				snap.BlackKingside = true
			case 'q':
				snap.BlackQueenside = true
			default:
				return Snapshot{}, fmt.Errorf("fen: bad castling flag %q", ch)
			}
		}
	}

	snap.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return Snapshot{}, err
		}
		snap.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return Snapshot{}, fmt.Errorf("fen: bad halfmove clock %q", fields[4])
		}
		snap.HalfmoveClock = n
	}
	return snap, nil
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("fen: bad square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

func pieceFromFEN(ch rune) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	var t PieceType
	switch ch {
	case 'P':
		t = Pawn
	case 'N':
		t = Knight
	case 'B':
		t = Bishop
	case 'R':
		t = Rook
	case 'Q':
		t = Queen
	case 'K':
		t = King
	default:
		return Piece{}, false
	}
	return Piece{Type: t, Color: color}, true
}
