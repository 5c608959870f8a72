// meta/meta.go
package meta

import "time"

// PLAYER_ONE_DEPTH is the search depth of a computer playing as player one.
const PLAYER_ONE_DEPTH = 3

// PLAYER_TWO_DEPTH is the search depth of a computer playing as player two.
// The heuristic is tuned for player one, so the second seat looks one ply ahead.
const PLAYER_TWO_DEPTH = 1

// REPETITION_WINDOW is the number of recent snapshots a searched move may not repeat.
const REPETITION_WINDOW = 40

// AI_DELAY paces computer moves so that a viewer can follow them.
const AI_DELAY = 5 * time.Millisecond

// MAX_TURNS stops computer-only games that never reach a decision.
const MAX_TURNS = 300

// GAMES is the number of games per experiment match-up.
const GAMES = 20

// WORKERS bounds the number of experiment games played concurrently.
const WORKERS = 4

// MCTS_EPISODES is the number of tree search episodes per move.
const MCTS_EPISODES = 2000

// MCTS_GOROUTINES is the number of goroutines sharing one search tree.
const MCTS_GOROUTINES = 4

// MCTS_CUTOFF bounds rollout length before the position is evaluated.
const MCTS_CUTOFF = 40
