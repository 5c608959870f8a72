package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"hopper/engine"
	"hopper/game"
	"hopper/render"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type createRequest struct {
	Mode string `json:"mode"`
}

type stateView struct {
	ID        string      `json:"id"`
	Mode      string      `json:"mode"`
	Turn      int         `json:"turn"`
	Winner    int         `json:"winner"` // 0 while undecided
	Status    string      `json:"status"`
	Board     [][]int     `json:"board"` // Occupant per cell, row by row
	PlayerOne []game.Cell `json:"player_one"`
	PlayerTwo []game.Cell `json:"player_two"`
	Movable   []game.Cell `json:"movable"`
	Score     *float64    `json:"score,omitempty"` // Omitted once infinite
	Moves     int         `json:"moves"`
	AITurn    bool        `json:"ai_turn"`
	Played    []game.Move `json:"played,omitempty"` // Moves applied by this request
}

type destinationsView struct {
	Cell         game.Cell   `json:"cell"`
	Destinations []game.Cell `json:"destinations"`
}

func newStateView(s *engine.Session, played []game.Move) stateView {
	gs := s.State
	view := stateView{
		ID:        s.ID.String(),
		Mode:      gs.Mode.String(),
		Turn:      int(gs.Turn),
		Winner:    int(gs.Won),
		Status:    render.Status(gs),
		PlayerOne: gs.PieceCells(game.PlayerOne),
		PlayerTwo: gs.PieceCells(game.PlayerTwo),
		Movable:   gs.MovablePieceIDs(gs.Turn),
		Moves:     s.Turns(),
		AITurn:    s.AITurn(),
		Played:    played,
	}
	if _, won := gs.Winner(); won {
		view.Movable = nil
	}
	if score := gs.Score(); !math.IsInf(score, 0) {
		view.Score = &score
	}
	for row := 0; row < game.Size; row++ {
		line := make([]int, game.Size)
		for col := range line {
			c, _ := gs.Board.At(row, col)
			line[col] = int(gs.Occupant(c))
		}
		view.Board = append(view.Board, line)
	}
	return view
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	mode, err := game.ParseMode(payload.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	session := engine.NewSession(mode, s.options...)
	s.add(session)
	log.Info().Msgf("created %s game %s", mode, session.ID)
	writeJSON(w, http.StatusCreated, newStateView(session, nil))
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, newStateView(e.session, nil))
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.remove(e.session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// postMove applies a human move, then lets computer seats reply.
func (s *Server) postMove(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var move game.Move
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ok, err := e.session.Move(move.Target, move.Source)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("illegal move %s", move))
		return
	}

	played := []game.Move{move}
	replies, err := e.session.Advance(r.Context())
	played = append(played, replies...)
	if err != nil && !errors.Is(err, engine.ErrTurnLimit) {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(e.session, played))
}

// postStep plays a single computer move.
func (s *Server) postStep(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	move, err := e.session.Step(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(e.session, []game.Move{move}))
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	render.SVG(w, e.session.State)
}

func (s *Server) getDestinations(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	cell, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid cell %q", chi.URLParam(r, "cell")))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	destinations, err := e.session.State.LegalDestinations(game.Cell(cell))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, destinationsView{Cell: game.Cell(cell), Destinations: destinations})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownPiece):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, engine.ErrNotHumanTurn),
		errors.Is(err, engine.ErrNotAITurn),
		errors.Is(err, engine.ErrTurnLimit):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownGame):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
