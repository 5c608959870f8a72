package agent

import (
	"fmt"
	"time"

	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays uniformly random legal moves.
// It serves as a baseline opponent in experiments.
func NewRandomAgent(seed uint64) Agent {
	return randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a randomAgent) FindMove(state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	if _, won := state.Winner(); won {
		return game.Move{}, metrics.SearchMetric{}, game.ErrGameOver
	}
	start := time.Now()
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("%w for %s", searcher.ErrNoMoves, state.Turn)
	}
	move := moves[a.rng.Intn(len(moves))]
	return move, metrics.SearchMetric{Duration: time.Since(start), Score: state.Score()}, nil
}
