package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/meta"
	"hopper/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotHumanTurn = errors.New("a computer player is to move")
	ErrNotAITurn    = errors.New("a human player is to move")
	ErrTurnLimit    = errors.New("turn limit reached")
)

type Option func(s *Session)

// WithAgent sets the agent that moves for player. It only takes effect on
// computer-controlled seats.
func WithAgent(player game.PlayerID, a agent.Agent) Option {
	return func(s *Session) {
		if a != nil && (player == game.PlayerOne || player == game.PlayerTwo) {
			s.agents[player-1] = a
		}
	}
}

// WithComputer sets a for every computer-controlled seat.
func WithComputer(a agent.Agent) Option {
	return func(s *Session) {
		for _, p := range []game.PlayerID{game.PlayerOne, game.PlayerTwo} {
			WithAgent(p, a)(s)
		}
	}
}

// WithDelay sets the pause before each computer move.
func WithDelay(delay time.Duration) Option {
	return func(s *Session) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithAgentFactory sets how agents are built for computer seats left
// without one. Every session gets its own agents from the factory.
func WithAgentFactory(newAgent func() agent.Agent) Option {
	return func(s *Session) {
		if newAgent != nil {
			s.newAgent = newAgent
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(s *Session) {
		if turns > 0 {
			s.maxTurns = turns
		}
	}
}

// Session owns one game and the agents of its computer seats. Humans move
// through Move, computers through Step. A Session is not safe for
// concurrent use.
type Session struct {
	ID       uuid.UUID
	State    *game.GameState
	agents   [2]agent.Agent
	newAgent func() agent.Agent
	delay    time.Duration
	maxTurns int
	moves    []metrics.MoveMetric
}

// NewSession starts a game in the given mode. Computer seats without an
// agent get one from the agent factory, the default minimax agent unless
// configured otherwise.
func NewSession(mode game.Mode, options ...Option) *Session {
	return Resume(game.New(mode), options...)
}

// Resume wraps an existing state, e.g. a custom position.
func Resume(state *game.GameState, options ...Option) *Session {
	s := &Session{ // Default values
		ID:       uuid.New(),
		State:    state,
		newAgent: agent.NewDefaultAgent,
		delay:    meta.AI_DELAY,
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(s)
	}
	for i := range s.agents {
		if s.agents[i] == nil && state.IsAI(game.PlayerID(i+1)) {
			s.agents[i] = s.newAgent()
		}
	}
	return s
}

// Turns returns the number of moves played so far.
func (s *Session) Turns() int {
	return len(s.State.History)
}

// AITurn reports whether a computer player is to move in an undecided game.
func (s *Session) AITurn() bool {
	_, won := s.State.Winner()
	return !won && s.State.IsAI(s.State.Turn)
}

// Moves returns the metrics of every move played in this session.
func (s *Session) Moves() []metrics.MoveMetric {
	return append([]metrics.MoveMetric(nil), s.moves...)
}

// Move applies a human move. It reports false for an illegal move and fails
// when the game is over or a computer is to move.
func (s *Session) Move(target, source game.Cell) (bool, error) {
	if _, won := s.State.Winner(); won {
		return false, game.ErrGameOver
	}
	if s.State.IsAI(s.State.Turn) {
		return false, ErrNotHumanTurn
	}

	mover := s.State.Turn
	ok, err := s.State.ApplyMove(target, source)
	if err != nil || !ok {
		return ok, err
	}
	s.record(mover, game.Move{Source: source, Target: target}, metrics.SearchMetric{Score: s.State.Score()})
	return true, nil
}

// Step waits for the pacing delay, then lets the agent of the player to move
// play one move. Cancelling ctx only interrupts the delay.
func (s *Session) Step(ctx context.Context) (game.Move, error) {
	if _, won := s.State.Winner(); won {
		return game.Move{}, game.ErrGameOver
	}
	if !s.State.IsAI(s.State.Turn) {
		return game.Move{}, ErrNotAITurn
	}
	if s.Turns() >= s.maxTurns {
		return game.Move{}, fmt.Errorf("%w after %d moves", ErrTurnLimit, s.Turns())
	}

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return game.Move{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	mover := s.State.Turn
	move, metric, err := s.agents[mover-1].FindMove(s.State)
	if err != nil {
		return game.Move{}, fmt.Errorf("finding move for %s: %w", mover, err)
	}

	ok, err := s.State.ApplyMove(move.Target, move.Source)
	if err != nil || !ok {
		log.Warn().Msgf("agent for %s returned invalid move %s (%v), playing first legal move", mover, move, err)
		fallback := s.State.LegalMoves()
		if len(fallback) == 0 {
			return game.Move{}, fmt.Errorf("no legal moves for %s", mover)
		}
		move = fallback[0]
		if _, err := s.State.ApplyMove(move.Target, move.Source); err != nil {
			return game.Move{}, err
		}
	}

	s.record(mover, move, metric)
	return move, nil
}

// Advance steps computer moves until a human must move or the game ends.
func (s *Session) Advance(ctx context.Context) ([]game.Move, error) {
	var played []game.Move
	for s.AITurn() {
		move, err := s.Step(ctx)
		if err != nil {
			return played, err
		}
		played = append(played, move)
	}
	return played, nil
}

// Run plays a computer-only game to the end or the turn limit and returns
// the winner ("" when stopped at the limit).
func (s *Session) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	startingPlayer := s.State.Turn
	log.Info().Msgf("game %s: %s is starting", s.ID, startingPlayer)

	_, err := s.Advance(ctx)
	if err != nil && !errors.Is(err, ErrTurnLimit) {
		return "", metrics.GameMetric{}, nil, err
	}
	winner, won := s.State.Winner()
	if !won && err == nil {
		return "", metrics.GameMetric{}, nil, ErrNotAITurn
	}
	if !won {
		log.Info().Msgf("game %s: stopped after %d moves (no winner yet)", s.ID, s.Turns())
	}

	end := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(startingPlayer),
		Winner:         winner.String(),
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     s.Turns(),
	}
	return winner.String(), gameMetric, s.Moves(), nil
}

func (s *Session) record(mover game.PlayerID, move game.Move, metric metrics.SearchMetric) {
	s.moves = append(s.moves, metrics.MoveMetric{
		Step:         s.Turns(),
		Player:       int(mover),
		Move:         move.String(),
		SearchMetric: metric,
	})

	log.Debug().
		Str("game", s.ID.String()).
		Str("player", mover.String()).
		Str("move", move.String()).
		Int("step", s.Turns()).
		Msg("move applied")

	if winner, won := s.State.Winner(); won {
		log.Info().Msgf("game %s: %s won after %d moves", s.ID, winner, s.Turns())
	}
}
