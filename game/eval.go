package game

// EvaluateHeuristic scores an undecided position with the engine's own
// heuristic: goal occupation and immobility, from player one's perspective.
func EvaluateHeuristic(gs *GameState) float64 {
	return gs.Score()
}

// EvaluateGoalDistance adds a small pull towards the goal zone to the
// heuristic, so that quiet positions are not all scored alike.
func EvaluateGoalDistance(gs *GameState) float64 {
	score := gs.Score()
	for _, p := range []PlayerID{PlayerOne, PlayerTwo} {
		sign := 1.0
		if p == PlayerTwo {
			sign = -1.0
		}
		goal := startZone(p.Opponent())
		for _, c := range gs.PieceCells(p) {
			score -= sign * 0.1 * float64(gs.distance(c, goal))
		}
	}
	return score
}

// distance is the number of diagonal steps to the nearest goal cell, ignoring other pieces
func (gs *GameState) distance(c Cell, goal []Cell) int {
	row, col := gs.Board.Position(c)
	best := 2 * Size
	for _, g := range goal {
		gr, gc := gs.Board.Position(g)
		dr, dc := abs(gr-row), abs(gc-col)
		if (dr+dc)%2 != 0 {
			continue // other colour, unreachable diagonally
		}
		if d := max(dr, dc); d < best {
			best = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
