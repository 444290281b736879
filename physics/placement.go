package physics

import (
	"math"

	"github.com/lixenwraith/stacker/constant"
)

// Placement is the outcome of dropping the moving block onto the stack
type Placement struct {
	Block   Block   // Placed block, valid when Landed
	Landed  bool    // False when the blocks do not overlap
	Perfect bool    // Aligned within tolerance, no material lost
	Debris  *Debris // Trimmed material, nil when nothing was cut
}

// Place resolves the overlap between the moving block and the top of the stack
// The placed block keeps the moving block's row; zero or negative overlap is a miss
func Place(cur, top Block, tolerance float64) Placement {
	y := cur.Y

	if math.Abs(cur.X-top.X) < tolerance {
		return Placement{
			Block: Block{
				X:     top.X,
				Y:     y,
				Width: top.Width,
				Color: cur.Color,
				Grow:  true,
			},
			Landed:  true,
			Perfect: true,
		}
	}

	left := math.Max(cur.X, top.X)
	right := math.Min(cur.Right(), top.Right())
	width := right - left
	if width <= 0 {
		return Placement{}
	}

	p := Placement{
		Block: Block{
			X:     left,
			Y:     y,
			Width: width,
			Color: cur.Color,
		},
		Landed: true,
	}

	// Material hanging past either side of the stack falls off
	switch {
	case cur.X < top.X:
		p.Debris = &Debris{
			X:        cur.X,
			Y:        y,
			Width:    top.X - cur.X,
			Color:    cur.Color,
			Velocity: -constant.DebrisDrift,
		}
	case cur.Right() > top.Right():
		p.Debris = &Debris{
			X:        top.Right(),
			Y:        y,
			Width:    cur.Right() - top.Right(),
			Color:    cur.Color,
			Velocity: constant.DebrisDrift,
		}
	}
	return p
}
