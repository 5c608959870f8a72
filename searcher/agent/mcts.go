package agent

import (
	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/searcher"
)

type mctsAgent struct {
	search *searcher.MCTS
}

// NewMCTSAgent returns an agent that plays the most visited move of a tree search.
func NewMCTSAgent(search *searcher.MCTS) Agent {
	return mctsAgent{search: search}
}

func (a mctsAgent) FindMove(state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	return a.search.SelectMove(state)
}
