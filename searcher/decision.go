package searcher

import (
	"math"
	"sync"

	"hopper/game"
)

const C_SQUARED = 2.0 // Exploration constant

const WIN = 1.0
const LOSS = 0.0

// decision is a search tree node. Rewards are kept from the perspective of
// mover, the player whose move led to the node, so a parent always picks
// the child with the highest value.
type decision struct {
	sync.Mutex
	parent   *decision
	mover    game.PlayerID
	moves    []game.Move // Expanded in order, children[i] follows moves[i]
	children []*decision
	rewards  float64
	visits   int
}

func newDecision(parent *decision, mover game.PlayerID, state *game.GameState) *decision {
	var moves []game.Move
	if _, won := state.Winner(); !won {
		moves = state.LegalMoves()
	}
	return &decision{
		parent:   parent,
		mover:    mover,
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// selectOrExpand returns the next node of the episode and its state. It
// expands the next unexplored move if there is one, otherwise it selects the
// child with the highest UCT value and reports that the descent goes on.
// Terminal nodes return themselves.
func (d *decision) selectOrExpand(state *game.GameState) (*decision, *game.GameState, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.children) < len(d.moves) { // Expandable node
		move := d.moves[len(d.children)]
		next := play(state, move)
		child := newDecision(d, state.Turn, next)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, next, false
	}

	// Fully expanded node
	i := d.pickChild()
	child := d.children[i]
	child.applyLoss()
	return child, play(state, d.moves[i]), true
}

func (d *decision) pickChild() int {
	normalizer := C_SQUARED * math.Log(float64(max(1, d.visits)))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(normalizer); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// applyLoss counts a pending visit as a loss so that concurrent episodes
// spread over different children.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) score(normalizer float64) float64 {
	d.Lock()
	defer d.Unlock()

	return uct(d.rewards, d.visits, normalizer)
}

// backup replaces the pending loss with the episode's outcome. p1 is the
// probability of player one winning.
func (d *decision) backup(p1 float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.rewards -= LOSS
		d.visits--
	}
	d.rewards += reward(d.mover, p1)
	d.visits++

	return d.parent
}

// bestChild returns the most visited child, the first one on ties.
func (d *decision) bestChild() (game.Move, *decision) {
	d.Lock()
	defer d.Unlock()

	best := 0
	for i, child := range d.children {
		if child.value() > d.children[best].value() {
			best = i
		}
	}
	return d.moves[best], d.children[best]
}

func (d *decision) value() int {
	d.Lock()
	defer d.Unlock()

	return d.visits
}

func (d *decision) mean() float64 {
	d.Lock()
	defer d.Unlock()

	if d.visits == 0 {
		return 0
	}
	return d.rewards / float64(d.visits)
}

func uct(rewards float64, visits int, c2LnN float64) float64 {
	if visits == 0 { // Prioritize unexplored nodes
		return math.Inf(1)
	}
	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

func reward(p game.PlayerID, p1 float64) float64 {
	switch p {
	case game.PlayerOne:
		return p1
	case game.PlayerTwo:
		return 1 - p1
	default:
		return 0
	}
}
