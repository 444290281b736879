package engine

import (
	"errors"
	"time"

	"github.com/lixenwraith/stacker/constant"
)

// Tuning holds the per-engine gameplay parameters
// Defaults come from the constant package; config may override them
type Tuning struct {
	CanvasWidth      float64
	CanvasHeight     float64
	BlockHeight      float64
	InitialWidth     float64
	InitialSpeed     float64
	MaxSpeed         float64
	TimeLimit        time.Duration
	PerfectTolerance float64
}

// DefaultTuning returns the standard game parameters
func DefaultTuning() Tuning {
	return Tuning{
		CanvasWidth:      constant.CanvasWidth,
		CanvasHeight:     constant.CanvasHeight,
		BlockHeight:      constant.BlockHeight,
		InitialWidth:     constant.InitialBlockWidth,
		InitialSpeed:     constant.InitialSpeed,
		MaxSpeed:         constant.MaxSpeed,
		TimeLimit:        constant.TimeLimit,
		PerfectTolerance: constant.PerfectTolerance,
	}
}

var (
	ErrInvalidCanvas = errors.New("canvas and block dimensions must be positive")
	ErrBlockTooWide  = errors.New("initial block width exceeds canvas width")
	ErrInvalidSpeed  = errors.New("speeds must be positive and initial speed must not exceed max speed")
	ErrInvalidLimit  = errors.New("time limit must be at least one countdown step")
)

// Validate reports the first inconsistent parameter
func (t Tuning) Validate() error {
	if t.CanvasWidth <= 0 || t.CanvasHeight <= 0 || t.BlockHeight <= 0 || t.InitialWidth <= 0 {
		return ErrInvalidCanvas
	}
	if t.InitialWidth > t.CanvasWidth {
		return ErrBlockTooWide
	}
	if t.InitialSpeed <= 0 || t.MaxSpeed < t.InitialSpeed {
		return ErrInvalidSpeed
	}
	if t.TimeLimit < constant.CountdownStep {
		return ErrInvalidLimit
	}
	return nil
}
