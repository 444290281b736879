package engine

import (
	"time"

	"github.com/lixenwraith/stacker/physics"
)

// GameState is the top-level run phase
type GameState int

const (
	StateIdle GameState = iota
	StatePlaying
	StateGameOver
)

// String returns the phase name
func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// RunState is the mutable session of one run
// Current is non-nil iff State is StatePlaying; len(Blocks) is placements + 1
type RunState struct {
	State           GameState
	Score           int
	Speed           float64
	TimeLeft        float64 // Seconds
	Paused          bool
	PerfectStreak   int
	Combos          int
	TotalBonusScore int
	Blocks          []physics.Block
	Debris          []physics.Debris
	Current         *physics.Block
	Direction       int
}

// Snapshot is a consistent copy of the run for renderers and tests
type Snapshot struct {
	RunState
	Committing bool    // Score commit in flight, actions are rejected
	ViewOffset float64 // Downward shift applied to stack coordinates to keep the top in view
}

// Placements returns the number of successful placements in the run
func (s Snapshot) Placements() int {
	if len(s.Blocks) == 0 {
		return 0
	}
	return len(s.Blocks) - 1
}

// NoticeKind classifies a user-facing notification
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a user-facing message about a score commit
type Notice struct {
	Kind    NoticeKind
	Message string
	Score   int
	At      time.Time
}

// viewOffset keeps the moving block within the upper part of the canvas once the stack is tall
func viewOffset(blocks int, blockHeight float64, scrollAfter int) float64 {
	rows := blocks - scrollAfter
	if rows <= 0 {
		return 0
	}
	return float64(rows) * blockHeight
}
