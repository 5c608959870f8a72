package game

// Size is the number of rows and columns on the board.
const Size = 5

// Cell identifies a board square, numbered 1..25 in row-major order.
type Cell int

// Board translates between cell ids and zero-based coordinates. It is never
// mutated after construction, so every GameState shares the same instance.
type Board struct {
	grid [Size][Size]Cell
}

var standardBoard = NewBoard()

// NewBoard creates and returns the 5x5 board.
func NewBoard() *Board {
	b := &Board{}
	id := Cell(1)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			b.grid[row][col] = id
			id++
		}
	}
	return b
}

// Contains reports whether the zero-based coordinates lie on the board.
func (b *Board) Contains(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Valid reports whether the cell id exists on the board.
func (b *Board) Valid(c Cell) bool {
	return c >= 1 && c <= Size*Size
}

// At returns the cell at the given coordinates, or false when off board.
func (b *Board) At(row, col int) (Cell, bool) {
	if !b.Contains(row, col) {
		return 0, false
	}
	return b.grid[row][col], true
}

// Position returns the zero-based row and column of a cell.
func (b *Board) Position(c Cell) (row, col int) {
	return int(c-1) / Size, int(c-1) % Size
}

// diagonal offsets in enumeration order: up-left, up-right, down-left, down-right
var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// Diagonals returns the on-board diagonal neighbours of a cell.
func (b *Board) Diagonals(c Cell) []Cell {
	row, col := b.Position(c)
	cells := make([]Cell, 0, len(diagonals))
	for _, d := range diagonals {
		if n, ok := b.At(row+d[0], col+d[1]); ok {
			cells = append(cells, n)
		}
	}
	return cells
}
