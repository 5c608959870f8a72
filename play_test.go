package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"hopper/engine"
	"hopper/game"

	"github.com/stretchr/testify/require"
)

func TestParseCells(t *testing.T) {
	t.Run("reading a move", func(t *testing.T) {
		for _, line := range []string{"16 12", "16-12", " 16,12 "} {
			cells, err := parseCells(line)
			require.NoError(t, err)
			require.Equal(t, []game.Cell{16, 12}, cells)
		}
	})

	t.Run("reading a single cell", func(t *testing.T) {
		cells, err := parseCells("16")
		require.NoError(t, err)
		require.Equal(t, []game.Cell{16}, cells)
	})

	t.Run("rejecting garbage", func(t *testing.T) {
		for _, line := range []string{"", "a b", "1 2 3"} {
			_, err := parseCells(line)
			require.ErrorIs(t, err, errBadInput)
		}
	})

	t.Run("quitting", func(t *testing.T) {
		_, err := parseCells("QUIT")
		require.ErrorIs(t, err, io.EOF)
	})
}

func TestPlay(t *testing.T) {
	t.Run("playing human moves until the input ends", func(t *testing.T) {
		s := engine.NewSession(game.HumanVsHuman, engine.WithDelay(0))
		var out bytes.Buffer

		err := play(context.Background(), s, strings.NewReader("16 12\n4 8\n"), &out)

		require.NoError(t, err)
		require.Equal(t, 2, s.Turns())
		require.Contains(t, out.String(), "Player 1 move")
	})

	t.Run("reporting bad input and carrying on", func(t *testing.T) {
		s := engine.NewSession(game.HumanVsHuman, engine.WithDelay(0))
		var out bytes.Buffer

		err := play(context.Background(), s, strings.NewReader("16 13\n13 9\nhello\n16\nquit\n16 12\n"), &out)

		require.NoError(t, err)
		require.Equal(t, 0, s.Turns())
		require.Contains(t, out.String(), "illegal move 16-13")
		require.Contains(t, out.String(), "unknown piece")
		require.Contains(t, out.String(), "16 can move to [12]")
	})

	t.Run("letting the computer answer", func(t *testing.T) {
		s := engine.NewSession(game.HumanVsComputer, engine.WithDelay(0))
		var out bytes.Buffer

		err := play(context.Background(), s, strings.NewReader("16 12\n"), &out)

		require.NoError(t, err)
		require.Equal(t, 2, s.Turns())
		require.Contains(t, out.String(), "Player2 plays")
	})

	t.Run("announcing the winner", func(t *testing.T) {
		gs, err := game.NewPosition(game.HumanVsHuman,
			[]game.Cell{1, 2, 3, 4, 5, 6, 14},
			[]game.Cell{7, 9, 17, 19, 21, 23, 25}, game.PlayerOne)
		require.NoError(t, err)
		var out bytes.Buffer

		err = play(context.Background(), engine.Resume(gs), strings.NewReader("14 10\n"), &out)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Player 1 won the game!")
	})
}
