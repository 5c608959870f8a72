package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"hopper/experiments/metrics"
	"hopper/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExperimentRun(t *testing.T) {
	shallow := metrics.AgentConfig{ID: 1, Kind: KindMinimax, PlayerOneDepth: 1, PlayerTwoDepth: 1, Window: 4}
	random := metrics.AgentConfig{ID: 2, Kind: KindRandom, Seed: 5}
	e := Experiment{
		Name:     "test",
		Configs:  []metrics.AgentConfig{shallow, random},
		MatchUps: [][2]metrics.AgentConfig{{shallow, random}},
	}
	opts := Options{Games: 3, Workers: 2, MaxTurns: 6, OutDir: t.TempDir()}

	dir, err := e.Run(context.Background(), opts)
	require.NoError(t, err)

	t.Run("writing every agent config", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
		require.Len(t, rows, 3)
	})

	t.Run("swapping seats between games", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, "game_records.csv"))
		require.Len(t, rows, 4)
		require.Equal(t, []string{"1", "1", "2"}, rows[1][:3])
		require.Equal(t, []string{"2", "2", "1"}, rows[2][:3])
		require.Equal(t, []string{"3", "1", "2"}, rows[3][:3])
	})

	t.Run("recording every move", func(t *testing.T) {
		games := readCSV(t, filepath.Join(dir, "game_records.csv"))
		moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
		total := 0
		for _, row := range games[1:] {
			n, err := strconv.Atoi(row[8])
			require.NoError(t, err)
			require.LessOrEqual(t, n, 6)
			total += n
		}
		require.Len(t, moves, total+1)
	})
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		e, err := Lookup(name)
		require.NoError(t, err)
		require.Equal(t, name, e.Name)
		require.NotEmpty(t, e.MatchUps)
		for _, matchUp := range e.MatchUps {
			require.Contains(t, e.Configs, matchUp[0])
			require.Contains(t, e.Configs, matchUp[1])
		}
	}

	_, err := Lookup("speedup")
	require.Error(t, err)
}

func TestNewAgent(t *testing.T) {
	t.Run("building a playable minimax agent", func(t *testing.T) {
		a, err := NewAgent(metrics.AgentConfig{Kind: KindMinimax, PlayerOneDepth: 2, PlayerTwoDepth: 1, Evaluation: EvaluationGoalDistance}, 0)
		require.NoError(t, err)
		gs := game.New(game.ComputerVsComputer)

		move, metric, err := a.FindMove(gs)

		require.NoError(t, err)
		require.Contains(t, gs.LegalMoves(), move)
		require.Equal(t, 2, metric.Depth)
	})

	t.Run("building a playable tree search agent", func(t *testing.T) {
		a, err := NewAgent(metrics.AgentConfig{Kind: KindMCTS, Goroutines: 2, Episodes: 50, Cutoff: 10}, 0)
		require.NoError(t, err)
		gs := game.New(game.ComputerVsComputer)

		move, metric, err := a.FindMove(gs)

		require.NoError(t, err)
		require.Contains(t, gs.LegalMoves(), move)
		require.Equal(t, 50, metric.Episodes)
	})

	t.Run("failing on an unknown kind", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{Kind: "alphazero"}, 0)
		require.Error(t, err)
	})

	t.Run("failing on an unknown evaluation", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{Kind: KindMinimax, Evaluation: "material"}, 0)
		require.Error(t, err)
	})
}
