package render

import (
	"io"
	"strconv"

	"hopper/game"

	svg "github.com/ajstarks/svgo"
)

const (
	cellSize = 80
	margin   = 10
	radius   = 28
)

var pieceFill = map[game.PlayerID]string{
	game.PlayerOne: "fill:#c0392b;stroke:black",
	game.PlayerTwo: "fill:#2c3e50;stroke:black",
}

// SVG draws the board with cell ids, a disc per piece and the status line.
func SVG(w io.Writer, gs *game.GameState) {
	side := 2*margin + game.Size*cellSize
	canvas := svg.New(w)
	canvas.Start(side, side+cellSize/2)
	canvas.Rect(0, 0, side, side+cellSize/2, "fill:white")

	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			x, y := margin+col*cellSize, margin+row*cellSize
			shade := "fill:#f5e6c8;stroke:#7f6a4d"
			if (row+col)%2 == 1 {
				shade = "fill:#d9bf8c;stroke:#7f6a4d"
			}
			canvas.Rect(x, y, cellSize, cellSize, shade)

			c, _ := gs.Board.At(row, col)
			canvas.Text(x+4, y+14, strconv.Itoa(int(c)), "font-size:12px;fill:#555")
			if owner := gs.Occupant(c); owner != game.NoPlayer {
				canvas.Circle(x+cellSize/2, y+cellSize/2, radius, pieceFill[owner])
			}
		}
	}

	canvas.Text(margin, side+cellSize/3, Status(gs), "font-size:18px;font-family:sans-serif")
	canvas.End()
}
