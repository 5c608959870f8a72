package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPiece is returned when a cell id does not hold a piece of either player.
	ErrUnknownPiece = errors.New("unknown piece")
	// ErrGameOver is returned by operations that need a game still in progress.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidPosition is returned when a custom setup breaks the placement invariants.
	ErrInvalidPosition = errors.New("invalid position")
)

// PlayerID tags one of the two seats. NoPlayer marks empty cells and undecided games.
type PlayerID int

const (
	NoPlayer PlayerID = iota
	PlayerOne
	PlayerTwo
)

func (p PlayerID) Opponent() PlayerID {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return NoPlayer
	}
}

func (p PlayerID) String() string {
	if p == NoPlayer {
		return ""
	}
	return fmt.Sprintf("Player%d", int(p))
}

// Player holds per-seat data. Score accumulates the heuristic swing produced
// by this player's own moves.
type Player struct {
	ID    PlayerID
	AI    bool
	Score float64
}

// Mode selects which seats are computer-controlled.
type Mode int

const (
	HumanVsHuman Mode = iota
	HumanVsComputer
	ComputerVsComputer
)

var modeNames = map[Mode]string{
	HumanVsHuman:       "pvp",
	HumanVsComputer:    "pvc",
	ComputerVsComputer: "cvc",
}

func (m Mode) String() string {
	return modeNames[m]
}

// ParseMode accepts "pvp", "pvc" or "cvc".
func ParseMode(s string) (Mode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}

// Evaluates a position that has no winner. Positive values favour player one.
type Evaluate func(*GameState) float64
