package render

import (
	"fmt"
	"strings"

	"hopper/game"
)

// Text draws the board as five rows of "1", "2" or "." followed by a status line.
func Text(gs *game.GameState) string {
	var sb strings.Builder
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			c, _ := gs.Board.At(row, col)
			switch gs.Occupant(c) {
			case game.PlayerOne:
				sb.WriteByte('1')
			case game.PlayerTwo:
				sb.WriteByte('2')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(Status(gs))
	sb.WriteByte('\n')
	return sb.String()
}

// Status describes whose turn it is, or who won.
func Status(gs *game.GameState) string {
	if winner, won := gs.Winner(); won {
		return fmt.Sprintf("Player %d won the game!", int(winner))
	}
	return fmt.Sprintf("Player %d move", int(gs.Turn))
}

// Legend numbers the cells the way moves are entered.
func Legend() string {
	board := game.NewBoard()
	var sb strings.Builder
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			c, _ := board.At(row, col)
			fmt.Fprintf(&sb, "%2d", int(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
