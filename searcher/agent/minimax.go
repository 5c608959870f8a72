package agent

import (
	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/meta"
	"hopper/searcher"
)

type minimaxAgent struct {
	search *searcher.Minimax
	depths [2]int // Indexed by PlayerID-1
}

// NewMinimaxAgent returns an agent that searches playerOneDepth plies when
// moving as player one and playerTwoDepth plies as player two.
func NewMinimaxAgent(search *searcher.Minimax, playerOneDepth, playerTwoDepth int) Agent {
	return minimaxAgent{search: search, depths: [2]int{playerOneDepth, playerTwoDepth}}
}

// NewDefaultAgent returns a minimax agent with the standard asymmetric depths.
func NewDefaultAgent() Agent {
	return NewMinimaxAgent(searcher.NewMinimax(searcher.WithMetrics()), meta.PLAYER_ONE_DEPTH, meta.PLAYER_TWO_DEPTH)
}

func (a minimaxAgent) FindMove(state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	depth := a.depths[state.Turn-1]
	return a.search.SelectMove(state, depth, state.Turn == game.PlayerOne)
}
