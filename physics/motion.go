package physics

import (
	"time"

	"github.com/lixenwraith/stacker/constant"
)

// FrameScale normalizes an elapsed frame to the 60 updates-per-second baseline
// Result is clamped to [0, MaxFrameScale]
func FrameScale(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	scale := float64(elapsed) / float64(constant.BaselineFrame)
	if scale > constant.MaxFrameScale {
		return constant.MaxFrameScale
	}
	return scale
}

// Advance moves the block horizontally and bounces it off the canvas edges
// Returns the moved block and the direction for the next frame
func Advance(b Block, direction int, speed, scale, canvasWidth float64) (Block, int) {
	b.X += speed * float64(direction) * scale

	if b.X <= 0 {
		b.X = 0
		direction = 1
	} else if b.Right() >= canvasWidth {
		b.X = canvasWidth - b.Width
		direction = -1
	}
	return b, direction
}
