package physics

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/stacker/constant"
)

// Block is one stacked platform, or the moving block before it is placed
// Position is the top-left corner in canvas pixels, y grows downward
type Block struct {
	X     float64
	Y     float64
	Width float64
	Color string
	Grow  bool // Perfect placement, renderers pulse it
}

// Right returns the right edge of the block
func (b Block) Right() float64 {
	return b.X + b.Width
}

// Debris is trimmed block material falling off the stack
type Debris struct {
	X        float64
	Y        float64
	Width    float64
	Color    string
	Velocity float64 // Lateral, sign follows the cut side
	Rotation float64 // Degrees
}

// BlockColor returns the hex color of the block at the given stack level
// Hue walks around the wheel so neighbouring levels stay distinguishable
func BlockColor(level int) string {
	hue := math.Mod(constant.BlockBaseHue+float64(level)*constant.BlockHueStep, 360)
	return colorful.Hsl(hue, constant.BlockSaturation, constant.BlockLightness).Hex()
}
