package chessperm

import "github.com/chessperm/chessperm-go/internal/rules"

// Rules is the chess capability the derivation consumes: canonical legal
// move enumeration, SAN parsing, move application and a position snapshot.
// Implementations start from the standard initial position.
type Rules = rules.Rules

// RulesFactory creates a fresh Rules at the initial position.
type RulesFactory = rules.Factory

// Types used by Rules implementations.
type (
	Move      = rules.Move
	Snapshot  = rules.Snapshot
	Square    = rules.Square
	Piece     = rules.Piece
	PieceType = rules.PieceType
	Color     = rules.Color
)

// NewStandardRules returns the standard chess rules.
func NewStandardRules() Rules {
	return rules.NewStandard()
}
