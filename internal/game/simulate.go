package game

import (
	"github.com/chessperm/chessperm-go/internal/bitseq"
	"github.com/chessperm/chessperm-go/internal/rules"
)

// DefaultPlies is the ply budget used when callers do not choose one.
const DefaultPlies = 100

const (
	selectorBits = 6
	cycle        = 10
	// Plies 0..irreversibleSpan-1 of every cycle prefer irreversible moves.
	irreversibleSpan = 7
)

// Result is the outcome of a simulation.
type Result struct {
	// Final is the position after the last ply.
	Final rules.Snapshot
	// Played is the number of plies actually played. It is less than the
	// budget when the game reached a position with no legal moves.
	Played int
	// Moves lists the moves chosen, in play order.
	Moves []rules.Move
}

// Exhausted reports whether the game ended before the ply budget.
func (r Result) Exhausted(plies int) bool { return r.Played < plies }

// Simulate plays up to plies moves on pos, choosing each one from bits.
// pos must be at the position the game should start from; it is mutated.
// bits must not be empty.
func Simulate(bits bitseq.Sequence, plies int, pos rules.Rules) Result {
	var res Result
	for i := 0; i < plies; i++ {
		legal := pos.LegalMoves()
		if len(legal) == 0 {
			break
		}

		pool := legal
		if i%cycle < irreversibleSpan {
			if irr := irreversible(legal); len(irr) > 0 {
				pool = irr
			}
		}

		sel := bits.Window(i*selectorBits, selectorBits)
		m := pool[sel%uint(len(pool))]
		if err := pos.Apply(m); err != nil {
			// A rules implementation rejecting its own legal move is broken.
			panic("game: rules rejected legal move " + m.UCI() + ": " + err.Error())
		}
		res.Moves = append(res.Moves, m)
		res.Played++
	}
	res.Final = pos.Snapshot()
	return res
}

// irreversible filters moves preserving canonical order.
func irreversible(moves []rules.Move) []rules.Move {
	var out []rules.Move
	for _, m := range moves {
		if m.Irreversible() {
			out = append(out, m)
		}
	}
	return out
}

// Derive runs a simulation on a fresh position from newRules and serializes
// the final position. bits must not be empty.
func Derive(bits bitseq.Sequence, plies int, newRules rules.Factory) [bitseq.BlockBytes]byte {
	res := Simulate(bits, plies, newRules())
	return Serialize(res.Final)
}
