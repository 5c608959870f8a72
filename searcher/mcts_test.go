package searcher

import (
	"testing"
	"time"

	"hopper/game"

	"github.com/stretchr/testify/require"
)

func TestMCTSSelectMove(t *testing.T) {
	t.Run("taking an immediate win without searching", func(t *testing.T) {
		gs := nearWin(t)
		m := NewMCTS(4, WithSeed(1), WithTreeMetrics())

		move, metric, err := m.SelectMove(gs)

		require.NoError(t, err)
		require.Equal(t, game.Move{Source: 14, Target: 10}, move)
		require.Equal(t, WIN, metric.Score)
		require.Zero(t, metric.Episodes)
	})

	t.Run("taking an immediate win for player two", func(t *testing.T) {
		gs, err := game.NewPosition(game.ComputerVsComputer,
			[]game.Cell{1, 3, 5, 7, 9, 11, 13},
			[]game.Cell{12, 20, 21, 22, 23, 24, 25}, game.PlayerTwo)
		require.NoError(t, err)

		move, _, err := NewMCTS(2, WithSeed(2)).SelectMove(gs)

		require.NoError(t, err)
		require.Equal(t, game.Move{Source: 12, Target: 16}, move)
	})

	t.Run("running every episode", func(t *testing.T) {
		gs := game.New(game.ComputerVsComputer)
		m := NewMCTS(4, WithEpisodes(300), WithCutoff(20), WithSeed(3), WithTreeMetrics())

		move, metric, err := m.SelectMove(gs)

		require.NoError(t, err)
		require.Contains(t, gs.LegalMoves(), move)
		require.Equal(t, 300, metric.Episodes)
		require.GreaterOrEqual(t, metric.Score, 0.0)
		require.LessOrEqual(t, metric.Score, 1.0)
	})

	t.Run("searching for a fixed duration", func(t *testing.T) {
		gs := game.New(game.ComputerVsComputer)
		m := NewMCTS(2, WithDuration(20*time.Millisecond), WithCutoff(10), WithTreeMetrics())

		move, metric, err := m.SelectMove(gs)

		require.NoError(t, err)
		require.Contains(t, gs.LegalMoves(), move)
		require.Greater(t, metric.Episodes, 0)
	})

	t.Run("does not modify the searched state", func(t *testing.T) {
		gs := game.New(game.ComputerVsComputer)
		before := gs.Copy()

		_, _, err := NewMCTS(4, WithEpisodes(200)).SelectMove(gs)

		require.NoError(t, err)
		require.Equal(t, before, gs)
	})

	t.Run("failing on a decided game", func(t *testing.T) {
		gs := nearWin(t)
		_, err := gs.ApplyMove(10, 14)
		require.NoError(t, err)

		_, _, err = NewMCTS(1).SelectMove(gs)

		require.ErrorIs(t, err, game.ErrGameOver)
	})

	t.Run("panicking without goroutines", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(0) })
	})
}

func TestRollout(t *testing.T) {
	t.Run("scoring a decided game", func(t *testing.T) {
		gs := nearWin(t)
		_, err := gs.ApplyMove(10, 14)
		require.NoError(t, err)

		p1 := rollout(gs, 10, game.EvaluateHeuristic, NewMCTS(1).newRand(), NewMCTS(1).metrics)

		require.Equal(t, WIN, p1)
	})

	t.Run("squashing the evaluation at the cutoff", func(t *testing.T) {
		gs := game.New(game.HumanVsHuman)
		even := func(*game.GameState) float64 { return 0 }

		p1 := rollout(gs, 1, even, NewMCTS(1).newRand(), NewMCTS(1).metrics)

		require.Equal(t, 0.5, p1)
		require.Empty(t, gs.History, "Rollout should play on a copy")
	})
}
