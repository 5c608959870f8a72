package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hopper/engine"
	"hopper/experiments"
	"hopper/game"
	"hopper/meta"
	"hopper/searcher"
	"hopper/searcher/agent"
	"hopper/server"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode       string
	serve      string
	experiment string
	games      int
	workers    int
	p1Depth    int
	p2Depth    int
	window     int
	maxTurns   int
	delay      time.Duration
	logLevel   string
	pretty     bool
	profile    string
	out        string
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.mode, "mode", "pvc", "game mode for terminal play: pvp, pvc or cvc")
	flag.StringVar(&c.serve, "serve", "", "serve the HTTP API on this address, e.g. :8080")
	flag.StringVar(&c.experiment, "experiment", "", fmt.Sprintf("run an experiment: %s", strings.Join(experiments.Names(), ", ")))
	flag.IntVar(&c.games, "games", meta.GAMES, "games per experiment match-up")
	flag.IntVar(&c.workers, "workers", meta.WORKERS, "experiment games played concurrently")
	flag.IntVar(&c.p1Depth, "p1-depth", meta.PLAYER_ONE_DEPTH, "search depth of a computer playing as player one")
	flag.IntVar(&c.p2Depth, "p2-depth", meta.PLAYER_TWO_DEPTH, "search depth of a computer playing as player two")
	flag.IntVar(&c.window, "window", meta.REPETITION_WINDOW, "recent positions a computer move may not repeat, 0 disables")
	flag.IntVar(&c.maxTurns, "max-turns", meta.MAX_TURNS, "moves after which a computer game is stopped")
	flag.DurationVar(&c.delay, "delay", meta.AI_DELAY, "pause before each computer move")
	flag.StringVar(&c.logLevel, "log-level", "info", "zerolog level: debug, info, warn, error")
	flag.BoolVar(&c.pretty, "pretty", false, "human readable log output")
	flag.StringVar(&c.profile, "profile", "", "write a profile: cpu, mem, block, mutex or trace")
	flag.StringVar(&c.out, "out", "experiments", "root directory of experiment results")
	flag.Parse()
	return c
}

func main() {
	c := parseFlags()
	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("hopper failed")
	}
}

func run(c config) error {
	if err := setupLogging(c.logLevel, c.pretty); err != nil {
		return err
	}
	if c.profile != "" {
		mode, err := profileMode(c.profile)
		if err != nil {
			return err
		}
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newAgent := func() agent.Agent {
		search := searcher.NewMinimax(searcher.WithRepetitionWindow(c.window), searcher.WithMetrics())
		return agent.NewMinimaxAgent(search, c.p1Depth, c.p2Depth)
	}
	options := []engine.Option{
		engine.WithAgentFactory(newAgent),
		engine.WithDelay(c.delay),
		engine.WithMaxTurns(c.maxTurns),
	}

	switch {
	case c.experiment != "":
		e, err := experiments.Lookup(c.experiment)
		if err != nil {
			return err
		}
		_, err = e.Run(ctx, experiments.Options{
			Games:    c.games,
			Workers:  c.workers,
			MaxTurns: c.maxTurns,
			OutDir:   c.out,
		})
		return err
	case c.serve != "":
		return server.New(options...).ListenAndServe(ctx, c.serve)
	default:
		mode, err := game.ParseMode(c.mode)
		if err != nil {
			return err
		}
		return play(ctx, engine.NewSession(mode, options...), os.Stdin, os.Stdout)
	}
}

func setupLogging(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch name {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "block":
		return profile.BlockProfile, nil
	case "mutex":
		return profile.MutexProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile %q", name)
	}
}
