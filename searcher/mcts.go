package searcher

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type MCTSOption func(m *MCTS)

// MCTS selects moves by Monte Carlo tree search. Goroutines share one tree
// and use virtual loss to spread over it. Rollouts play random moves up to
// the cutoff, then score the position with the evaluation function.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   game.Evaluate
	metrics    metrics.Collector
	seed       atomic.Uint64
}

// WithDuration searches for a fixed time instead of a fixed number of episodes.
func WithDuration(duration time.Duration) MCTSOption {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
			m.episodes = 0
		}
	}
}

func WithEpisodes(episodes int) MCTSOption {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
			m.duration = 0
		}
	}
}

func WithCutoff(depth int) MCTSOption {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithRolloutEvaluation(evaluate game.Evaluate) MCTSOption {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithTreeMetrics() MCTSOption {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func WithSeed(seed uint64) MCTSOption {
	return func(m *MCTS) {
		m.seed.Store(seed)
	}
}

func NewMCTS(goroutines int, options ...MCTSOption) *MCTS {
	if goroutines < 1 {
		panic("MCTS needs at least one goroutine")
	}
	m := &MCTS{ // Default values
		goroutines: goroutines,
		episodes:   meta.MCTS_EPISODES,
		cutoff:     meta.MCTS_CUTOFF,
		evaluate:   game.EvaluateHeuristic,
		metrics:    metrics.NewDummyCollector(),
	}
	m.seed.Store(uint64(time.Now().UnixNano()))
	for _, option := range options {
		option(m)
	}
	return m
}

// SelectMove searches from state and returns the most visited move. An
// immediately winning move is returned without searching. The metric score
// is the chosen child's mean reward for the player to move.
func (m *MCTS) SelectMove(state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	if _, won := state.Winner(); won {
		return game.Move{}, metrics.SearchMetric{}, game.ErrGameOver
	}
	root := newDecision(nil, game.NoPlayer, state)
	if len(root.moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("%w for %s", ErrNoMoves, state.Turn)
	}

	m.metrics.Start(0, 0)
	for _, move := range root.moves {
		if winner, _ := play(state, move).Winner(); winner == state.Turn {
			return move, m.metrics.Complete(WIN, false), nil
		}
	}

	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}

	move, child := root.bestChild()
	metric := m.metrics.Complete(child.mean(), false)
	log.Debug().
		Str("player", state.Turn.String()).
		Str("move", move.String()).
		Int("visits", child.value()).
		Float64("mean", metric.Score).
		Msg("selected move by tree search")
	return move, metric, nil
}

func (m *MCTS) iterate(root *decision, state *game.GameState) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rng := m.newRand()
			for range task {
				m.simulate(root, state, rng)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state *game.GameState) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rng := m.newRand()
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state, rng)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// newRand returns a generator for one goroutine
func (m *MCTS) newRand() *rand.Rand {
	return rand.New(rand.NewSource(m.seed.Add(1)))
}

func (m *MCTS) simulate(root *decision, state *game.GameState, rng *rand.Rand) {
	node, leaf := selectThenExpand(root, state)
	p1 := rollout(leaf, m.cutoff, m.evaluate, rng, m.metrics)
	backup(node, p1)
}

func selectThenExpand(root *decision, state *game.GameState) (*decision, *game.GameState) {
	node := root
	for {
		child, next, descend := node.selectOrExpand(state)
		if !descend {
			return child, next
		}
		node, state = child, next
	}
}

// rollout plays random moves from state and returns the probability of
// player one winning: 1 or 0 once decided, the squashed evaluation at the cutoff.
func rollout(state *game.GameState, cutoff int, evaluate game.Evaluate, rng *rand.Rand, metrics metrics.Collector) float64 {
	state = state.Copy()
	for depth := 0; depth < cutoff; depth++ {
		if _, won := state.Winner(); won {
			break
		}
		moves := state.LegalMoves()
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		state.ApplyMove(move.Target, move.Source)
	}

	if winner, won := state.Winner(); won {
		metrics.AddFullPlayout()
		if winner == game.PlayerOne {
			return WIN
		}
		return LOSS
	}
	return 1 / (1 + math.Exp(-evaluate(state)/game.GoalWeight))
}

func backup(node *decision, p1 float64) {
	for node != nil {
		node = node.backup(p1)
	}
}
