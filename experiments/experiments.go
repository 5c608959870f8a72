package experiments

import (
	"context"
	"fmt"
	"sort"

	"hopper/engine"
	"hopper/experiments/metrics"
	"hopper/game"
	"hopper/meta"
	"hopper/searcher"
	"hopper/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	KindMinimax = "minimax"
	KindRandom  = "random"
	KindMCTS    = "mcts"

	EvaluationHeuristic    = "heuristic"
	EvaluationGoalDistance = "goal-distance"
)

// Experiment pits agent configurations against each other. Every match-up
// plays Options.Games games with the two agents swapping seats each game.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

type Options struct {
	Games    int    // Per match-up
	Workers  int    // Games played concurrently
	MaxTurns int    // Per game
	OutDir   string // Root directory of the CSV output
}

func DefaultOptions() Options {
	return Options{
		Games:    meta.GAMES,
		Workers:  meta.WORKERS,
		MaxTurns: meta.MAX_TURNS,
		OutDir:   "experiments",
	}
}

var standard = metrics.AgentConfig{
	ID:             0,
	Kind:           KindMinimax,
	PlayerOneDepth: meta.PLAYER_ONE_DEPTH,
	PlayerTwoDepth: meta.PLAYER_TWO_DEPTH,
	Window:         meta.REPETITION_WINDOW,
	Evaluation:     EvaluationHeuristic,
}

// Depth compares symmetric search depths against the standard agent.
func Depth() Experiment {
	configs := []metrics.AgentConfig{standard}
	for i, depth := range []int{1, 2, 3, 4} {
		configs = append(configs, metrics.AgentConfig{
			ID:             i + 1,
			Kind:           KindMinimax,
			PlayerOneDepth: depth,
			PlayerTwoDepth: depth,
			Window:         meta.REPETITION_WINDOW,
			Evaluation:     EvaluationHeuristic,
		})
	}
	return against("depth", configs)
}

// Baseline measures minimax agents against uniformly random play.
func Baseline() Experiment {
	goalDistance := standard
	goalDistance.ID = 1
	goalDistance.Evaluation = EvaluationGoalDistance
	random := metrics.AgentConfig{ID: 2, Kind: KindRandom, Seed: 1}

	return Experiment{
		Name:     "baseline",
		Configs:  []metrics.AgentConfig{standard, goalDistance, random},
		MatchUps: [][2]metrics.AgentConfig{{standard, random}, {goalDistance, random}},
	}
}

// Tree pits the standard agent against tree search of growing budgets.
func Tree() Experiment {
	configs := []metrics.AgentConfig{standard}
	for i, episodes := range []int{250, 1000, 4000} {
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Kind:       KindMCTS,
			Evaluation: EvaluationHeuristic,
			Goroutines: meta.MCTS_GOROUTINES,
			Episodes:   episodes,
			Cutoff:     meta.MCTS_CUTOFF,
			Seed:       uint64(i + 1),
		})
	}
	return against("tree", configs)
}

// Window varies the repetition window, including a disabled filter.
func Window() Experiment {
	configs := []metrics.AgentConfig{standard}
	for i, window := range []int{0, 4, 10} {
		config := standard
		config.ID = i + 1
		config.Window = window
		configs = append(configs, config)
	}
	return against("window", configs)
}

// against pairs configs[0] with every other config
func against(name string, configs []metrics.AgentConfig) Experiment {
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{configs[0], config})
	}
	return Experiment{Name: name, Configs: configs, MatchUps: matchUps}
}

var registry = map[string]func() Experiment{
	"depth":    Depth,
	"baseline": Baseline,
	"window":   Window,
	"tree":     Tree,
}

// Names lists the registered experiments.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the registered experiment called name.
func Lookup(name string) (Experiment, error) {
	build, ok := registry[name]
	if !ok {
		return Experiment{}, fmt.Errorf("unknown experiment %q (available: %v)", name, Names())
	}
	return build(), nil
}

type result struct {
	winner string
	game   metrics.GameMetric
	moves  []metrics.MoveMetric
	agent1 int
	agent2 int
}

// Run plays every game of the experiment and writes agent configs, game
// records and move records as CSV. It returns the output directory.
func (e Experiment) Run(ctx context.Context, opts Options) (string, error) {
	total := len(e.MatchUps) * opts.Games
	results := make([]result, total)

	log.Info().Msgf("starting %s experiment: %d match-ups, %d games each", e.Name, len(e.MatchUps), opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	for mi, matchUp := range e.MatchUps {
		for i := 0; i < opts.Games; i++ {
			// Alternate seats so neither config always moves first
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}
			index := mi*opts.Games + i
			mi, i := mi, i
			g.Go(func() error {
				winner, gameMetric, moveMetrics, err := runGame(ctx, first, second, uint64(index), opts.MaxTurns)
				if err != nil {
					return fmt.Errorf("match-up %d game %d: %w", mi+1, i+1, err)
				}
				results[index] = result{winner, gameMetric, moveMetrics, first.ID, second.ID}
				log.Info().Msgf("completed match-up %d of %d game %d with winner: %q", mi+1, len(e.MatchUps), i+1, winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	log.Info().Msgf("completed %s experiment", e.Name)

	gameRecords := make([]metrics.GameRecord, 0, total)
	moveRecords := []metrics.MoveRecord{}
	for i, r := range results {
		id := i + 1
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Agent1:     r.agent1,
			Agent2:     r.agent2,
			GameMetric: r.game,
		})
		for _, mm := range r.moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}
	}

	writer, err := metrics.NewWriter(opts.OutDir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays a computer game between two agents and returns the winner
func runGame(ctx context.Context, config1, config2 metrics.AgentConfig, seed uint64, maxTurns int) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	a1, err := NewAgent(config1, seed)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	a2, err := NewAgent(config2, seed)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}

	s := engine.NewSession(game.ComputerVsComputer,
		engine.WithAgent(game.PlayerOne, a1),
		engine.WithAgent(game.PlayerTwo, a2),
		engine.WithDelay(0),
		engine.WithMaxTurns(maxTurns),
	)
	return s.Run(ctx)
}

// NewAgent builds the agent described by config. seed is mixed into the
// seed of randomized agents so that games differ.
func NewAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(config.Seed + seed), nil
	case KindMinimax:
		evaluate, err := Evaluation(config.Evaluation)
		if err != nil {
			return nil, err
		}
		search := searcher.NewMinimax(
			searcher.WithRepetitionWindow(config.Window),
			searcher.WithEvaluationFn(evaluate),
			searcher.WithMetrics(),
		)
		return agent.NewMinimaxAgent(search, config.PlayerOneDepth, config.PlayerTwoDepth), nil
	case KindMCTS:
		evaluate, err := Evaluation(config.Evaluation)
		if err != nil {
			return nil, err
		}
		search := searcher.NewMCTS(max(1, config.Goroutines),
			searcher.WithEpisodes(config.Episodes),
			searcher.WithCutoff(config.Cutoff),
			searcher.WithRolloutEvaluation(evaluate),
			searcher.WithSeed(config.Seed+seed),
			searcher.WithTreeMetrics(),
		)
		return agent.NewMCTSAgent(search), nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}

// Evaluation resolves an evaluation function by name. The empty name is the
// standard heuristic.
func Evaluation(name string) (game.Evaluate, error) {
	switch name {
	case "", EvaluationHeuristic:
		return game.EvaluateHeuristic, nil
	case EvaluationGoalDistance:
		return game.EvaluateGoalDistance, nil
	default:
		return nil, fmt.Errorf("unknown evaluation %q", name)
	}
}
