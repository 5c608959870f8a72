package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hopper/engine"
	"hopper/game"

	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func create(t *testing.T, h http.Handler, mode string) stateView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/games", `{"mode":"`+mode+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[stateView](t, rec)
}

func TestPing(t *testing.T) {
	h := New().Routes()

	rec := do(t, h, http.MethodGet, "/api/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestCreateGame(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()

	t.Run("returning the starting position", func(t *testing.T) {
		view := create(t, h, "pvp")

		require.NotEmpty(t, view.ID)
		require.Equal(t, "pvp", view.Mode)
		require.Equal(t, 1, view.Turn)
		require.Equal(t, 0, view.Winner)
		require.Equal(t, "Player 1 move", view.Status)
		require.ElementsMatch(t, game.StartZone(game.PlayerOne), view.PlayerOne)
		require.ElementsMatch(t, game.StartZone(game.PlayerTwo), view.PlayerTwo)
		require.Equal(t, []int{2, 2, 2, 2, 2}, view.Board[0])
		require.NotNil(t, view.Score)
	})

	t.Run("rejecting an unknown mode", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games", `{"mode":"chess"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, decode[map[string]string](t, rec)["error"], "unknown game mode")
	})

	t.Run("rejecting a malformed payload", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/games", `{`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetGame(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()
	view := create(t, h, "pvp")

	t.Run("finding a created game", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/"+view.ID, "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, view.ID, decode[stateView](t, rec).ID)
	})

	t.Run("failing on an unknown id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/00000000-0000-0000-0000-000000000000", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("failing on a malformed id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/nope", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forgetting a deleted game", func(t *testing.T) {
		other := create(t, h, "pvp")

		rec := do(t, h, http.MethodDelete, "/api/games/"+other.ID, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/games/"+other.ID, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostMove(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()

	t.Run("applying a human move", func(t *testing.T) {
		view := create(t, h, "pvp")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/moves", `{"source":16,"target":12}`)

		require.Equal(t, http.StatusOK, rec.Code)
		after := decode[stateView](t, rec)
		require.Equal(t, 2, after.Turn)
		require.Equal(t, 1, after.Moves)
		require.Equal(t, []game.Move{{Source: 16, Target: 12}}, after.Played)
	})

	t.Run("answering with the computer move", func(t *testing.T) {
		view := create(t, h, "pvc")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/moves", `{"source":16,"target":12}`)

		require.Equal(t, http.StatusOK, rec.Code)
		after := decode[stateView](t, rec)
		require.Equal(t, 1, after.Turn)
		require.Equal(t, 2, after.Moves)
		require.Len(t, after.Played, 2)
		require.False(t, after.AITurn)
	})

	t.Run("rejecting an illegal move", func(t *testing.T) {
		view := create(t, h, "pvp")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/moves", `{"source":16,"target":13}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejecting an empty source", func(t *testing.T) {
		view := create(t, h, "pvp")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/moves", `{"source":13,"target":9}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, decode[map[string]string](t, rec)["error"], "unknown piece")
	})

	t.Run("rejecting a move in a computer game", func(t *testing.T) {
		view := create(t, h, "cvc")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/moves", `{"source":16,"target":12}`)

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestPostStep(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()

	t.Run("advancing a computer game by one move", func(t *testing.T) {
		view := create(t, h, "cvc")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/step", "")

		require.Equal(t, http.StatusOK, rec.Code)
		after := decode[stateView](t, rec)
		require.Equal(t, 2, after.Turn)
		require.Len(t, after.Played, 1)
	})

	t.Run("refusing to move for a human", func(t *testing.T) {
		view := create(t, h, "pvp")

		rec := do(t, h, http.MethodPost, "/api/games/"+view.ID+"/step", "")

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetBoard(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()
	view := create(t, h, "pvp")

	rec := do(t, h, http.MethodGet, "/api/games/"+view.ID+"/board.svg", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "<svg")
}

func TestGetDestinations(t *testing.T) {
	h := New(engine.WithDelay(0)).Routes()
	view := create(t, h, "pvp")

	t.Run("listing the free diagonals of a piece", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/"+view.ID+"/pieces/16/destinations", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, destinationsView{Cell: 16, Destinations: []game.Cell{12}}, decode[destinationsView](t, rec))
	})

	t.Run("failing on an empty cell", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/"+view.ID+"/pieces/13/destinations", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("failing on a malformed cell", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/games/"+view.ID+"/pieces/x/destinations", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
