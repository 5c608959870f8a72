package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one competitor of an experiment.
type AgentConfig struct {
	ID             int
	Kind           string // "minimax" or "random"
	PlayerOneDepth int
	PlayerTwoDepth int
	Window         int    // Repetition window, 0 disables the filter
	Evaluation     string // "heuristic" or "goal-distance"
	Seed           uint64
	Goroutines     int // Tree search only
	Episodes       int // Tree search only
	Cutoff         int // Tree search rollout length
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID of player one
	Agent2 int // AgentConfig.ID of player two
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold the experiment's files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "player_one_depth", "player_two_depth", "window", "evaluation", "seed", "goroutines", "episodes", "cutoff"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.PlayerOneDepth),
			strconv.Itoa(config.PlayerTwoDepth),
			strconv.Itoa(config.Window),
			config.Evaluation,
			strconv.FormatUint(config.Seed, 10),
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Cutoff),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.StartingPlayer),
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "depth", "window", "duration", "nodes", "cutoffs", "filtered", "score", "fallback", "episodes", "full_playouts"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Move,
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Window),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Cutoffs),
			strconv.Itoa(record.Filtered),
			strconv.FormatFloat(record.Score, 'g', -1, 64),
			strconv.FormatBool(record.Fallback),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
