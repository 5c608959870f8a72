package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hopper/engine"
	"hopper/game"
	"hopper/render"
)

var errBadInput = errors.New(`enter "source target", a single cell to list its moves, or "quit"`)

// play runs a game on a terminal. Humans type moves, computer seats move on
// their own. It returns when the game is decided, the input ends or the
// player quits.
func play(ctx context.Context, s *engine.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Cells:\n%s\n", render.Legend())
	fmt.Fprint(out, render.Text(s.State))

	for {
		if _, won := s.State.Winner(); won {
			return nil
		}

		if s.AITurn() {
			mover := s.State.Turn
			move, err := s.Step(ctx)
			if errors.Is(err, engine.ErrTurnLimit) {
				fmt.Fprintln(out, err)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s plays %s\n", mover, move)
			fmt.Fprint(out, render.Text(s.State))
			continue
		}

		fmt.Fprintf(out, "%s> ", s.State.Turn)
		if !scanner.Scan() {
			return scanner.Err()
		}
		cells, err := parseCells(scanner.Text())
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintln(out, err)
			continue
		}

		if len(cells) == 1 {
			destinations, err := s.State.LegalDestinations(cells[0])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "%d can move to %v\n", cells[0], destinations)
			continue
		}

		ok, err := s.Move(cells[1], cells[0])
		switch {
		case err != nil:
			fmt.Fprintln(out, err)
		case !ok:
			fmt.Fprintf(out, "illegal move %d-%d\n", cells[0], cells[1])
		default:
			fmt.Fprint(out, render.Text(s.State))
		}
	}
}

// parseCells reads one or two cell ids separated by spaces, dashes or
// commas. "quit" reports io.EOF.
func parseCells(line string) ([]game.Cell, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == ','
	})
	if len(fields) == 1 && strings.EqualFold(fields[0], "quit") {
		return nil, io.EOF
	}
	if len(fields) == 0 || len(fields) > 2 {
		return nil, errBadInput
	}
	cells := make([]game.Cell, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errBadInput
		}
		cells = append(cells, game.Cell(n))
	}
	return cells, nil
}
