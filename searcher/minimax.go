package searcher

import (
	"errors"
	"fmt"
	"math"

	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/meta"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoMoves is returned when the player to move has no legal move.
	ErrNoMoves = errors.New("no legal moves")
	// ErrWrongSide is returned when the maximizing flag does not match the player to move.
	ErrWrongSide = errors.New("maximizing flag does not match the player to move")
)

type Option func(m *Minimax)

// Minimax selects moves by depth-limited minimax with alpha-beta pruning.
// Player one maximizes, player two minimizes. A Minimax is not safe for
// concurrent use; give every game its own.
type Minimax struct {
	window   int
	evaluate game.Evaluate
	metrics  metrics.Collector
}

// WithRepetitionWindow sets how many recent snapshots a candidate may not repeat.
// Zero disables the filter.
func WithRepetitionWindow(window int) Option {
	return func(m *Minimax) {
		if window >= 0 {
			m.window = window
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		window:   meta.REPETITION_WINDOW,
		evaluate: game.EvaluateHeuristic,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// SelectMove returns the best move for the player to move, searching depth
// plies including the move itself. Ties keep the first candidate in
// enumeration order. Candidates that repeat a recent snapshot never win the
// comparison; if every candidate repeats, the best of them is returned and
// the metric is flagged as a fallback.
func (m *Minimax) SelectMove(state *game.GameState, depth int, maximizing bool) (game.Move, metrics.SearchMetric, error) {
	if _, won := state.Winner(); won {
		return game.Move{}, metrics.SearchMetric{}, game.ErrGameOver
	}
	if maximizing != (state.Turn == game.PlayerOne) {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("%w: %s to move", ErrWrongSide, state.Turn)
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("%w for %s", ErrNoMoves, state.Turn)
	}
	if depth < 1 {
		depth = 1
	}

	m.metrics.Start(depth, m.window)

	var best, fallback candidate
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, move := range moves {
		child := play(state, move)
		score := m.Minimax(child, depth-1, alpha, beta, !maximizing)

		fallback.offer(move, score, maximizing)
		if repeats(child.History, m.window) {
			m.metrics.AddFiltered()
			continue
		}
		if best.offer(move, score, maximizing) {
			if maximizing {
				alpha = math.Max(alpha, score)
			} else {
				beta = math.Min(beta, score)
			}
		}
	}

	chosen, isFallback := best, false
	if !best.found {
		chosen, isFallback = fallback, true
		log.Warn().Msgf("every candidate for %s repeats a recent position, playing %s", state.Turn, chosen.move)
	}

	metric := m.metrics.Complete(chosen.score, isFallback)
	log.Debug().
		Str("player", state.Turn.String()).
		Str("move", chosen.move.String()).
		Float64("score", chosen.score).
		Int("depth", depth).
		Int("nodes", metric.Nodes).
		Msg("selected move")
	return chosen.move, metric, nil
}

// Minimax scores state by searching depth more plies. Decided positions
// score +Inf or -Inf, leaves use the evaluation function.
func (m *Minimax) Minimax(state *game.GameState, depth int, alpha, beta float64, maximizing bool) float64 {
	m.metrics.AddNode()

	if winner, won := state.Winner(); won {
		return terminalScore(winner)
	}
	if depth <= 0 {
		return m.evaluate(state)
	}

	player := game.PlayerTwo
	best := math.Inf(1)
	if maximizing {
		player = game.PlayerOne
		best = math.Inf(-1)
	}

	for _, move := range state.LegalMovesFor(player) {
		child := play(state, move)
		score := m.Minimax(child, depth-1, alpha, beta, !maximizing)

		if repeats(child.History, m.window) {
			m.metrics.AddFiltered()
		} else if maximizing && score > best {
			best = score
		} else if !maximizing && score < best {
			best = score
		}

		if maximizing {
			alpha = math.Max(alpha, best)
		} else {
			beta = math.Min(beta, best)
		}
		if alpha >= beta {
			m.metrics.AddCutoff()
			break
		}
	}
	return best
}

// play applies a generated move to a copy of state
func play(state *game.GameState, move game.Move) *game.GameState {
	child := state.Copy()
	if ok, err := child.ApplyMove(move.Target, move.Source); !ok || err != nil {
		panic(fmt.Sprintf("generated move %s was rejected: %v", move, err))
	}
	return child
}

func terminalScore(winner game.PlayerID) float64 {
	if winner == game.PlayerOne {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

type candidate struct {
	move  game.Move
	score float64
	found bool
}

// offer keeps the move if it is the first one or strictly better for the mover
func (c *candidate) offer(move game.Move, score float64, maximizing bool) bool {
	better := score > c.score
	if !maximizing {
		better = score < c.score
	}
	if c.found && !better {
		return false
	}
	c.move, c.score, c.found = move, score, true
	return true
}
