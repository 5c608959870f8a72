package render

import (
	"bytes"
	"strings"
	"testing"

	"hopper/game"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Run("drawing the starting position", func(t *testing.T) {
		out := Text(game.New(game.HumanVsHuman))

		require.Equal(t, strings.Join([]string{
			"2 2 2 2 2",
			"2 . . . 2",
			". . . . .",
			"1 . . . 1",
			"1 1 1 1 1",
			"Player 1 move",
			"",
		}, "\n"), out)
	})

	t.Run("announcing the winner", func(t *testing.T) {
		gs, err := game.NewPosition(game.HumanVsHuman,
			[]game.Cell{1, 2, 3, 4, 5, 6, 14},
			[]game.Cell{7, 9, 17, 19, 21, 23, 25}, game.PlayerOne)
		require.NoError(t, err)
		_, err = gs.ApplyMove(10, 14)
		require.NoError(t, err)

		require.True(t, strings.HasSuffix(Text(gs), "Player 1 won the game!\n"))
	})
}

func TestLegend(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(Legend()), "\n")

	require.Len(t, lines, game.Size)
	require.Equal(t, " 1  2  3  4  5", lines[0])
	require.Equal(t, "21 22 23 24 25", lines[4])
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer

	SVG(&buf, game.New(game.HumanVsHuman))

	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "</svg>")
	require.Equal(t, 2*game.PiecesPerPlayer, strings.Count(out, "<circle"))
	require.Contains(t, out, "Player 1 move")
}
