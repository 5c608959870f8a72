package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth    int
	Window   int
	Duration time.Duration
	Nodes    int
	Cutoffs  int
	Filtered int     // Candidates dropped by the repetition filter
	Score    float64 // Score of the selected move
	Fallback bool    // Every candidate repeated, move chosen regardless

	Episodes     int // Tree searches only
	FullPlayouts int // Rollouts that reached a decided game
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int    // Player ID
	Winner         string // "" when stopped at the turn limit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(depth, window int)
	AddNode()
	AddCutoff()
	AddFiltered()
	AddEpisode()
	AddFullPlayout()
	Complete(score float64, fallback bool) SearchMetric
}

type collector struct {
	depth     int
	window    int
	startTime time.Time
	nodes     atomic.Int64
	cutoffs   atomic.Int64
	filtered  atomic.Int64
	episodes  atomic.Int64
	playouts  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth, window int) {
	m.startTime = time.Now()
	m.depth = depth
	m.window = window
	m.nodes.Store(0)
	m.cutoffs.Store(0)
	m.filtered.Store(0)
	m.episodes.Store(0)
	m.playouts.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddFiltered() {
	m.filtered.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.playouts.Add(1)
}

func (m *collector) Complete(score float64, fallback bool) SearchMetric {
	return SearchMetric{
		Depth:    m.depth,
		Window:   m.window,
		Duration: time.Since(m.startTime),
		Nodes:    int(m.nodes.Load()),
		Cutoffs:  int(m.cutoffs.Load()),
		Filtered: int(m.filtered.Load()),
		Score:    score,
		Fallback: fallback,

		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.playouts.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, window int) {}
func (m *dummyCollector) AddNode()                {}
func (m *dummyCollector) AddCutoff()              {}
func (m *dummyCollector) AddFiltered()            {}
func (m *dummyCollector) AddEpisode()             {}
func (m *dummyCollector) AddFullPlayout()         {}
func (m *dummyCollector) Complete(score float64, fallback bool) SearchMetric {
	return SearchMetric{Score: score, Fallback: fallback}
}
