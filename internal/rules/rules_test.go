package rules

import (
	"errors"
	"slices"
	"testing"

	"github.com/chessperm/chessperm-go/internal/apierrors"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestSquare(t *testing.T) {
	tests := []struct {
		sq   Square
		file int
		rank int
		str  string
	}{
		{0, 0, 0, "a1"},
		{7, 7, 0, "h1"},
		{12, 4, 1, "e2"},
		{28, 4, 3, "e4"},
		{63, 7, 7, "h8"},
		{NoSquare, -1, -1, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.sq.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if tt.sq == NoSquare {
				return
			}
			if got := tt.sq.File(); got != tt.file {
				t.Errorf("File() = %d, want %d", got, tt.file)
			}
			if got := tt.sq.Rank(); got != tt.rank {
				t.Errorf("Rank() = %d, want %d", got, tt.rank)
			}
		})
	}
}

func TestMove_Irreversible(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want bool
	}{
		{"quiet", Move{From: 12, To: 28}, false},
		{"capture", Move{From: 28, To: 35, Capture: true}, true},
		{"en passant", Move{From: 36, To: 43, EnPassant: true}, true},
		{"castle", Move{From: 4, To: 6, Castle: true}, true},
		{"promotion", Move{From: 52, To: 60, Promotion: Queen}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.move.Irreversible(); got != tt.want {
				t.Errorf("Irreversible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMove_UCI(t *testing.T) {
	if got := (Move{From: 12, To: 28}).UCI(); got != "e2e4" {
		t.Errorf("UCI() = %q, want e2e4", got)
	}
	if got := (Move{From: 48, To: 56, Promotion: Knight}).UCI(); got != "a7a8n" {
		t.Errorf("UCI() = %q, want a7a8n", got)
	}
}

func TestSortCanonical(t *testing.T) {
	moves := []Move{
		{From: 52, To: 60, Promotion: Queen},
		{From: 12, To: 28},
		{From: 52, To: 60, Promotion: Knight},
		{From: 6, To: 21},
		{From: 12, To: 20},
		{From: 52, To: 60, Promotion: Rook},
	}
	SortCanonical(moves)

	want := []string{"g1f3", "e2e3", "e2e4", "e7e8n", "e7e8r", "e7e8q"}
	got := make([]string, len(moves))
	for i, m := range moves {
		got[i] = m.UCI()
	}
	if !slices.Equal(got, want) {
		t.Errorf("SortCanonical() = %v, want %v", got, want)
	}
}

func TestParseFEN_Start(t *testing.T) {
	snap, err := ParseFEN(startFEN)
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}

	if snap.Board[0] != (Piece{Type: Rook, Color: White}) {
		t.Errorf("a1 = %+v, want white rook", snap.Board[0])
	}
	if snap.Board[4] != (Piece{Type: King, Color: White}) {
		t.Errorf("e1 = %+v, want white king", snap.Board[4])
	}
	if snap.Board[59] != (Piece{Type: Queen, Color: Black}) {
		t.Errorf("d8 = %+v, want black queen", snap.Board[59])
	}
	if !snap.Board[28].Empty() {
		t.Errorf("e4 = %+v, want empty", snap.Board[28])
	}
	if snap.Turn != White {
		t.Errorf("Turn = %v, want White", snap.Turn)
	}
	if !snap.WhiteKingside || !snap.WhiteQueenside || !snap.BlackKingside || !snap.BlackQueenside {
		t.Errorf("castling = %+v, want all rights", snap)
	}
	if snap.EnPassant != NoSquare {
		t.Errorf("EnPassant = %v, want NoSquare", snap.EnPassant)
	}
	if snap.HalfmoveClock != 0 {
		t.Errorf("HalfmoveClock = %d, want 0", snap.HalfmoveClock)
	}
}

func TestParseFEN_Fields(t *testing.T) {
	snap, err := ParseFEN("4k3/8/8/3pP3/8/8/8/4K2R w K d6 17 40")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	if snap.EnPassant != 43 {
		t.Errorf("EnPassant = %d, want 43 (d6)", snap.EnPassant)
	}
	if snap.HalfmoveClock != 17 {
		t.Errorf("HalfmoveClock = %d, want 17", snap.HalfmoveClock)
	}
	if !snap.WhiteKingside || snap.WhiteQueenside || snap.BlackKingside || snap.BlackQueenside {
		t.Errorf("castling = K only, got %+v", snap)
	}
}

func TestParseFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"seven ranks", "8/8/8/8/8/8/8 w - -"},
		{"bad piece", "8/8/8/8/8/8/8/7X w - -"},
		{"short rank", "8/8/8/8/8/8/8/7 w - -"},
		{"bad side", "8/8/8/8/8/8/8/8 x - -"},
		{"bad castling", "8/8/8/8/8/8/8/8 w Z -"},
		{"bad en passant", "8/8/8/8/8/8/8/8 w - z9"},
		{"bad clock", "8/8/8/8/8/8/8/8 w - - -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFEN(tt.fen); err == nil {
				t.Errorf("ParseFEN(%q) expected error", tt.fen)
			}
		})
	}
}

func TestStandard_InitialMoves(t *testing.T) {
	r := NewStandard()
	moves := r.LegalMoves()
	if len(moves) != 20 {
		t.Fatalf("len(LegalMoves()) = %d, want 20", len(moves))
	}
	if !slices.IsSortedFunc(moves, compareMoves) {
		t.Error("LegalMoves() not in canonical order")
	}
	// b1 is the lowest origin square with a legal move: Nb1-a3 then Nb1-c3.
	if moves[0].UCI() != "b1a3" || moves[1].UCI() != "b1c3" {
		t.Errorf("first moves = %s %s, want b1a3 b1c3", moves[0].UCI(), moves[1].UCI())
	}
	for _, m := range moves {
		if m.Irreversible() {
			t.Errorf("initial move %s classified irreversible", m.UCI())
		}
	}
}

func TestStandard_ParseSAN(t *testing.T) {
	r := NewStandard()

	m, err := r.ParseSAN("e4")
	if err != nil {
		t.Fatalf("ParseSAN(e4) error = %v", err)
	}
	if m.From != 12 || m.To != 28 {
		t.Errorf("ParseSAN(e4) = %s, want e2e4", m.UCI())
	}

	// Parsing must not move the position.
	if got := r.Snapshot().Plies; got != 0 {
		t.Errorf("Plies after ParseSAN = %d, want 0", got)
	}

	for _, tok := range []string{"Ke2", "e5", "xyz", "", "♘f3"} {
		if _, err := r.ParseSAN(tok); !errors.Is(err, apierrors.ErrUnsupportedNotation) {
			t.Errorf("ParseSAN(%q) error = %v, want ErrUnsupportedNotation", tok, err)
		}
	}
}

func TestStandard_ParseSANVariants(t *testing.T) {
	tests := []struct {
		name     string
		prefix   []string
		token    string
		from, to Square
	}{
		{"hyphen knight", nil, "N-f3", 6, 21},
		{"long knight", nil, "Ng1-f3", 6, 21},
		{"long knight no hyphen", nil, "Ng1f3", 6, 21},
		{"hyphen pawn", nil, "e2-e4", 12, 28},
		{"letter castling", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}, "O-O", 4, 6},
		{"zero castling", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}, "0-0", 4, 6},
		{"zero castling check marker", []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}, "0-0+", 4, 6},
		{"zero long castling", []string{"d4", "d5", "Nc3", "Nc6", "Bf4", "Bf5", "Qd2", "Qd7"}, "0-0-0", 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStandard()
			for _, tok := range tt.prefix {
				m, err := r.ParseSAN(tok)
				if err != nil {
					t.Fatalf("ParseSAN(%q) error = %v", tok, err)
				}
				if err := r.Apply(m); err != nil {
					t.Fatalf("Apply(%s) error = %v", m.UCI(), err)
				}
			}
			m, err := r.ParseSAN(tt.token)
			if err != nil {
				t.Fatalf("ParseSAN(%q) error = %v", tt.token, err)
			}
			if m.From != tt.from || m.To != tt.to {
				t.Errorf("ParseSAN(%q) = %s, want %s%s", tt.token, m.UCI(), tt.from, tt.to)
			}
		})
	}
}

func TestStandard_ParseSANLooseRejects(t *testing.T) {
	r := NewStandard()
	for _, tok := range []string{"0-0", "N-f4", "e2-e5", "Nb1-d2", "0-0-0+"} {
		if _, err := r.ParseSAN(tok); !errors.Is(err, apierrors.ErrUnsupportedNotation) {
			t.Errorf("ParseSAN(%q) error = %v, want ErrUnsupportedNotation", tok, err)
		}
	}
}

func TestStandard_ApplyUndo(t *testing.T) {
	r := NewStandard()
	for _, tok := range []string{"e4", "e5", "Nf3"} {
		m, err := r.ParseSAN(tok)
		if err != nil {
			t.Fatalf("ParseSAN(%q) error = %v", tok, err)
		}
		if err := r.Apply(m); err != nil {
			t.Fatalf("Apply(%s) error = %v", m.UCI(), err)
		}
	}

	snap := r.Snapshot()
	if snap.Turn != Black {
		t.Errorf("Turn = %v, want Black", snap.Turn)
	}
	if snap.Plies != 3 {
		t.Errorf("Plies = %d, want 3", snap.Plies)
	}
	if snap.HalfmoveClock != 1 {
		t.Errorf("HalfmoveClock = %d, want 1", snap.HalfmoveClock)
	}
	if got := snap.Board[21]; got != (Piece{Type: Knight, Color: White}) {
		t.Errorf("f3 = %+v, want white knight", got)
	}

	hist := r.History()
	if len(hist) != 3 || hist[2].UCI() != "g1f3" {
		t.Errorf("History() = %v, want 3 moves ending g1f3", hist)
	}

	if !r.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if got := r.Snapshot().Board[6]; got != (Piece{Type: Knight, Color: White}) {
		t.Errorf("g1 after undo = %+v, want white knight", got)
	}
	r.Undo()
	r.Undo()
	if r.Undo() {
		t.Error("Undo() on initial position = true, want false")
	}
}

func TestStandard_ApplyIllegal(t *testing.T) {
	r := NewStandard()
	err := r.Apply(Move{From: 12, To: 36}) // e2e5
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Apply(e2e5) error = %v, want ErrIllegalMove", err)
	}
}

func TestStandard_Classification(t *testing.T) {
	r := NewStandard()
	play := func(toks ...string) {
		t.Helper()
		for _, tok := range toks {
			m, err := r.ParseSAN(tok)
			if err != nil {
				t.Fatalf("ParseSAN(%q) error = %v", tok, err)
			}
			if err := r.Apply(m); err != nil {
				t.Fatalf("Apply(%q) error = %v", tok, err)
			}
		}
	}

	play("e4", "d5")
	var capture bool
	for _, m := range r.LegalMoves() {
		if m.UCI() == "e4d5" {
			capture = m.Capture
		}
	}
	if !capture {
		t.Error("e4xd5 not classified as capture")
	}

	play("e5", "f5")
	var enPassant bool
	for _, m := range r.LegalMoves() {
		if m.UCI() == "e5f6" {
			enPassant = m.EnPassant
		}
	}
	if !enPassant {
		t.Error("e5xf6 not classified as en passant")
	}

	play("Nf3", "Nc6", "Be2", "Nh6")
	var castle bool
	for _, m := range r.LegalMoves() {
		if m.UCI() == "e1g1" {
			castle = m.Castle
		}
	}
	if !castle {
		t.Error("O-O not classified as castling")
	}
}

func TestStandard_Checkmate(t *testing.T) {
	r := NewStandard()
	for _, tok := range []string{"f3", "e5", "g4", "Qh4"} {
		m, err := r.ParseSAN(tok)
		if err != nil {
			t.Fatalf("ParseSAN(%q) error = %v", tok, err)
		}
		if err := r.Apply(m); err != nil {
			t.Fatalf("Apply(%q) error = %v", tok, err)
		}
	}
	if moves := r.LegalMoves(); len(moves) != 0 {
		t.Errorf("LegalMoves() after fool's mate = %d moves, want 0", len(moves))
	}
}
