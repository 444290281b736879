package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Fixed interface colors
var (
	RgbBackground  = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbFrame       = tcell.NewRGBColor(86, 95, 137)
	RgbText        = tcell.NewRGBColor(192, 202, 245)
	RgbDim         = tcell.NewRGBColor(120, 124, 153)
	RgbAccent      = tcell.NewRGBColor(255, 165, 0)
	RgbSuccess     = tcell.NewRGBColor(144, 238, 144)
	RgbError       = tcell.NewRGBColor(255, 80, 80)
	RgbPausedBg    = tcell.NewRGBColor(128, 0, 128)
	RgbFallbackHue = tcell.NewRGBColor(100, 150, 255)
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// Palette converts block hex colors to terminal colors, memoizing each variant
type Palette struct {
	mu    sync.Mutex
	cache map[paletteKey]tcell.Color
}

type paletteKey struct {
	hex     string
	variant uint8
}

const (
	variantSolid uint8 = iota
	variantPulse
	variantDebris
)

// NewPalette creates an empty palette
func NewPalette() *Palette {
	return &Palette{cache: make(map[paletteKey]tcell.Color)}
}

// Block returns the color for a stacked or moving block; perfect placements are lightened
func (p *Palette) Block(hex string, grow bool) tcell.Color {
	v := variantSolid
	if grow {
		v = variantPulse
	}
	return p.lookup(hex, v)
}

// Debris returns a darkened block color for falling trimmings
func (p *Palette) Debris(hex string) tcell.Color {
	return p.lookup(hex, variantDebris)
}

func (p *Palette) lookup(hex string, variant uint8) tcell.Color {
	key := paletteKey{hex: hex, variant: variant}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.cache[key]; ok {
		return c
	}

	base, err := colorful.Hex(hex)
	if err != nil {
		p.cache[key] = RgbFallbackHue
		return RgbFallbackHue
	}
	switch variant {
	case variantPulse:
		base = base.BlendLab(white, 0.35).Clamped()
	case variantDebris:
		base = base.BlendRgb(black, 0.45).Clamped()
	}
	c := toTcell(base)
	p.cache[key] = c
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// TimeColor fades from the text color to the warning color as the countdown runs out
func TimeColor(left, limit float64) tcell.Color {
	if limit <= 0 || left >= limit/2 {
		return RgbText
	}
	t := 1 - left/(limit/2)
	from := colorful.Color{R: 192.0 / 255, G: 202.0 / 255, B: 245.0 / 255}
	to := colorful.Color{R: 1, G: 120.0 / 255, B: 120.0 / 255}
	return toTcell(from.BlendRgb(to, t).Clamped())
}
