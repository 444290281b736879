package constant

import "time"

// Clock Intervals
const (
	// CountdownInterval is the placement deadline tick
	CountdownInterval = 100 * time.Millisecond

	// FrameInterval is the animation clock period (~60 FPS)
	FrameInterval = time.Second / 60

	// BaselineFrame is the nominal frame that motion speeds are expressed in
	// A frame of this length yields a frame scale of exactly 1
	BaselineFrame = time.Second / 60

	// MaxFrameScale caps the frame scale after a stalled frame so the block cannot tunnel
	MaxFrameScale = 4.0
)

// Host Timing
const (
	// RenderInterval is the terminal redraw period
	RenderInterval = 33 * time.Millisecond

	// NoticeDuration is how long a commit notice stays on the status line
	NoticeDuration = 3 * time.Second
)
