package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// PiecesPerPlayer is the number of pieces each player owns for the whole game.
const PiecesPerPlayer = 7

// Heuristic weights.
const (
	GoalWeight    = 10.0
	BlockedWeight = 1.0
)

// Start zones, sorted ascending. One player's start zone is the other's goal.
var (
	playerOneStart = []Cell{16, 20, 21, 22, 23, 24, 25}
	playerTwoStart = []Cell{1, 2, 3, 4, 5, 6, 10}
)

// StartZone returns the cells a player's pieces occupy at the beginning of a game.
func StartZone(p PlayerID) []Cell {
	switch p {
	case PlayerOne:
		return slices.Clone(playerOneStart)
	case PlayerTwo:
		return slices.Clone(playerTwoStart)
	default:
		return nil
	}
}

func startZone(p PlayerID) []Cell {
	if p == PlayerOne {
		return playerOneStart
	}
	return playerTwoStart
}

// Piece is a player's token. Cell changes as it moves, Owner never does.
type Piece struct {
	Cell  Cell
	Owner PlayerID
}

// GameState is the full position of one game. A copy made with Copy shares
// nothing mutable with its source.
type GameState struct {
	Board   *Board    // Shared, immutable
	Mode    Mode      // Mode the game was created with
	Players [2]Player // Indexed by PlayerID-1
	Turn    PlayerID  // Player to move
	Won     PlayerID  // NoPlayer until the game is decided
	History []string  // Snapshot after every applied move

	pieces   [2 * PiecesPerPlayer]Piece
	occupant [Size*Size + 1]PlayerID // Indexed by cell id
	score    float64
}

// New sets up the standard starting position with player one to move.
func New(mode Mode) *GameState {
	gs := newState(mode)
	n := 0
	for c := Cell(1); c <= Size*Size; c++ {
		var owner PlayerID
		switch {
		case slices.Contains(playerOneStart, c):
			owner = PlayerOne
		case slices.Contains(playerTwoStart, c):
			owner = PlayerTwo
		default:
			continue
		}
		gs.place(n, c, owner)
		n++
	}
	gs.updateScore()
	return gs
}

// NewPosition sets up an arbitrary position, e.g. for puzzles and tests.
// Each player needs exactly PiecesPerPlayer distinct on-board cells. A position
// that already satisfies a win condition is returned as decided.
func NewPosition(mode Mode, playerOne, playerTwo []Cell, turn PlayerID) (*GameState, error) {
	if len(playerOne) != PiecesPerPlayer || len(playerTwo) != PiecesPerPlayer {
		return nil, fmt.Errorf("%w: each player needs %d pieces", ErrInvalidPosition, PiecesPerPlayer)
	}
	if turn != PlayerOne && turn != PlayerTwo {
		return nil, fmt.Errorf("%w: unknown player to move %d", ErrInvalidPosition, turn)
	}

	gs := newState(mode)
	gs.Turn = turn
	owners := map[Cell]PlayerID{}
	for _, seat := range []struct {
		cells []Cell
		owner PlayerID
	}{{playerOne, PlayerOne}, {playerTwo, PlayerTwo}} {
		for _, c := range seat.cells {
			if !gs.Board.Valid(c) {
				return nil, fmt.Errorf("%w: cell %d is off the board", ErrInvalidPosition, c)
			}
			if _, taken := owners[c]; taken {
				return nil, fmt.Errorf("%w: cell %d is occupied twice", ErrInvalidPosition, c)
			}
			owners[c] = seat.owner
		}
	}

	n := 0
	for c := Cell(1); c <= Size*Size; c++ {
		if owner, ok := owners[c]; ok {
			gs.place(n, c, owner)
			n++
		}
	}
	gs.EvaluateWinner()
	gs.updateScore()
	return gs, nil
}

func newState(mode Mode) *GameState {
	return &GameState{
		Board: standardBoard,
		Mode:  mode,
		Players: [2]Player{
			{ID: PlayerOne, AI: mode == ComputerVsComputer},
			{ID: PlayerTwo, AI: mode != HumanVsHuman},
		},
		Turn: PlayerOne,
	}
}

func (gs *GameState) place(i int, c Cell, owner PlayerID) {
	gs.pieces[i] = Piece{Cell: c, Owner: owner}
	gs.occupant[c] = owner
}

// Copy returns an independent deep copy of the state.
func (gs GameState) Copy() *GameState {
	c := gs
	c.History = slices.Clone(gs.History)
	return &c
}

// Player returns the seat data of p.
func (gs *GameState) Player(p PlayerID) *Player {
	return &gs.Players[p-1]
}

// IsAI reports whether p is computer-controlled.
func (gs *GameState) IsAI(p PlayerID) bool {
	if p != PlayerOne && p != PlayerTwo {
		return false
	}
	return gs.Players[p-1].AI
}

// Occupant returns the owner of the piece on c, or NoPlayer.
func (gs *GameState) Occupant(c Cell) PlayerID {
	if !gs.Board.Valid(c) {
		return NoPlayer
	}
	return gs.occupant[c]
}

func (gs *GameState) IsOccupied(c Cell) bool {
	return gs.Occupant(c) != NoPlayer
}

// Piece returns the piece standing on c.
func (gs *GameState) Piece(c Cell) (Piece, error) {
	i, err := gs.pieceIndex(c)
	if err != nil {
		return Piece{}, err
	}
	return gs.pieces[i], nil
}

func (gs *GameState) pieceIndex(c Cell) (int, error) {
	if gs.IsOccupied(c) {
		for i, p := range gs.pieces {
			if p.Cell == c {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: no piece on cell %d", ErrUnknownPiece, c)
}

// PieceCells returns the cells of p's pieces in piece order.
func (gs *GameState) PieceCells(p PlayerID) []Cell {
	cells := make([]Cell, 0, PiecesPerPlayer)
	for _, piece := range gs.pieces {
		if piece.Owner == p {
			cells = append(cells, piece.Cell)
		}
	}
	return cells
}

// LegalDestinations returns the empty diagonal neighbours of the piece on c.
func (gs *GameState) LegalDestinations(c Cell) ([]Cell, error) {
	if _, err := gs.pieceIndex(c); err != nil {
		return nil, err
	}
	return gs.destinations(c), nil
}

func (gs *GameState) destinations(c Cell) []Cell {
	cells := gs.Board.Diagonals(c)
	free := cells[:0]
	for _, n := range cells {
		if gs.occupant[n] == NoPlayer {
			free = append(free, n)
		}
	}
	return free
}

func (gs *GameState) mobile(c Cell) bool {
	for _, n := range gs.Board.Diagonals(c) {
		if gs.occupant[n] == NoPlayer {
			return true
		}
	}
	return false
}

// MovablePieceIDs returns the cells of p's pieces that have at least one legal destination.
func (gs *GameState) MovablePieceIDs(p PlayerID) []Cell {
	var cells []Cell
	for _, piece := range gs.pieces {
		if piece.Owner == p && gs.mobile(piece.Cell) {
			cells = append(cells, piece.Cell)
		}
	}
	return cells
}

// LegalMoves returns the moves of the player to move, pieces first then destinations.
func (gs *GameState) LegalMoves() []Move {
	return gs.LegalMovesFor(gs.Turn)
}

func (gs *GameState) LegalMovesFor(p PlayerID) []Move {
	var moves []Move
	for _, source := range gs.MovablePieceIDs(p) {
		for _, target := range gs.destinations(source) {
			moves = append(moves, Move{Source: source, Target: target})
		}
	}
	return moves
}

// ApplyMove moves the piece on source to target. It reports false without
// touching the state when the move is illegal, out of turn or the game is
// already decided. An empty source cell is an ErrUnknownPiece.
func (gs *GameState) ApplyMove(target, source Cell) (bool, error) {
	i, err := gs.pieceIndex(source)
	if err != nil {
		return false, err
	}
	mover := gs.pieces[i].Owner
	if gs.Won != NoPlayer || mover != gs.Turn || target == source {
		return false, nil
	}
	if !slices.Contains(gs.destinations(source), target) {
		return false, nil
	}

	before := gs.score
	gs.occupant[source] = NoPlayer
	gs.occupant[target] = mover
	gs.pieces[i].Cell = target

	if !gs.EvaluateWinner() {
		gs.Turn = mover.Opponent()
	}
	gs.updateScore()
	if gs.Won == NoPlayer {
		swing := gs.score - before
		if mover == PlayerTwo {
			swing = -swing
		}
		gs.Player(mover).Score += swing
	}

	gs.History = append(gs.History, gs.Snapshot())
	return true, nil
}

// EvaluateWinner decides the game if a win condition holds and reports
// whether the game has a winner. Player one is checked first.
func (gs *GameState) EvaluateWinner() bool {
	if gs.Won != NoPlayer {
		return true
	}
	switch {
	case gs.wins(PlayerOne):
		gs.Won = PlayerOne
	case gs.wins(PlayerTwo):
		gs.Won = PlayerTwo
	default:
		return false
	}
	return true
}

// p wins when the opponent cannot move or p fills the opponent's start zone
func (gs *GameState) wins(p PlayerID) bool {
	return len(gs.MovablePieceIDs(p.Opponent())) == 0 || gs.occupiesGoal(p)
}

func (gs *GameState) occupiesGoal(p PlayerID) bool {
	cells := gs.PieceCells(p)
	slices.Sort(cells)
	return slices.Equal(cells, startZone(p.Opponent()))
}

// Winner returns the winning player, if any.
func (gs *GameState) Winner() (PlayerID, bool) {
	return gs.Won, gs.Won != NoPlayer
}

// Score returns the heuristic value of the position: +Inf or -Inf once
// decided, otherwise goal occupation minus immobility from player one's view.
func (gs *GameState) Score() float64 {
	return gs.score
}

func (gs *GameState) updateScore() {
	switch gs.Won {
	case PlayerOne:
		gs.score = math.Inf(1)
		return
	case PlayerTwo:
		gs.score = math.Inf(-1)
		return
	}

	score := 0.0
	for _, piece := range gs.pieces {
		sign := 1.0
		if piece.Owner == PlayerTwo {
			sign = -1.0
		}
		if slices.Contains(startZone(piece.Owner.Opponent()), piece.Cell) {
			score += sign * GoalWeight
		}
		if !gs.mobile(piece.Cell) {
			score -= sign * BlockedWeight
		}
	}
	gs.score = score
}

// Snapshot encodes both players' piece sets independently of piece order,
// e.g. "16,20,21,22,23,24,25|1,2,3,4,5,6,10".
func (gs *GameState) Snapshot() string {
	var sb strings.Builder
	for i, p := range []PlayerID{PlayerOne, PlayerTwo} {
		if i > 0 {
			sb.WriteByte('|')
		}
		cells := gs.PieceCells(p)
		slices.Sort(cells)
		for j, c := range cells {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(c)))
		}
	}
	return sb.String()
}
