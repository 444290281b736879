package physics

import "github.com/lixenwraith/stacker/constant"

// AgeDebris advances every particle by one frame and prunes those that left the view
// viewBottom is the canvas y (in stack coordinates) of the lowest visible row
// Order of the surviving particles is not preserved
func AgeDebris(list []Debris, scale, viewBottom, canvasWidth float64) []Debris {
	for i := 0; i < len(list); {
		d := &list[i]
		d.X += d.Velocity * scale
		d.Y += constant.DebrisFallSpeed * scale
		if d.Velocity < 0 {
			d.Rotation -= constant.DebrisSpin * scale
		} else {
			d.Rotation += constant.DebrisSpin * scale
		}

		if d.Y > viewBottom || d.X+d.Width < 0 || d.X > canvasWidth {
			// Swap-remove
			last := len(list) - 1
			list[i] = list[last]
			list = list[:last]
			continue
		}
		i++
	}
	return list
}
