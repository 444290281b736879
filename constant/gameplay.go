package constant

import "time"

// Canvas Geometry (logical pixels)
const (
	// CanvasWidth is the horizontal extent the moving block oscillates within
	CanvasWidth = 400.0

	// CanvasHeight is the visible height of the stack view
	CanvasHeight = 600.0

	// BlockHeight is the height of a single platform
	BlockHeight = 30.0

	// InitialBlockWidth is the width of the base block and the first moving block
	InitialBlockWidth = 150.0

	// ScrollAfterRows is the stack height at which the view starts following the stack
	ScrollAfterRows = 8
)

// Speed Progression
const (
	InitialSpeed = 2.0
	MaxSpeed     = 8.0

	// PerfectSpeedIncrement is smaller than NormalSpeedIncrement: clean play escalates gently
	PerfectSpeedIncrement = 0.03
	NormalSpeedIncrement  = 0.1
)

// Placement Deadline
const (
	// TimeLimit is the full per-placement countdown
	TimeLimit = 5 * time.Second

	// CountdownStep is subtracted on every countdown tick
	CountdownStep = 100 * time.Millisecond

	// CountdownThreshold ends the run when the remaining time is at or below it
	CountdownThreshold = 100 * time.Millisecond
)

// Placement & Scoring
const (
	// PerfectTolerance is the exclusive pixel distance under which a placement is perfect
	PerfectTolerance = 4.0

	// BlockScore is awarded for every successful placement
	BlockScore = 1

	// ComboEvery is the perfect streak length that grants a bonus
	ComboEvery = 3

	MinBonus = 1
	MaxBonus = 5
)

// Debris Motion (per baseline frame)
const (
	DebrisDrift     = 1.5
	DebrisFallSpeed = 6.0
	DebrisSpin      = 5.0 // degrees
)

// Block Colors
const (
	BlockBaseHue    = 200.0
	BlockHueStep    = 14.0
	BlockSaturation = 0.65
	BlockLightness  = 0.55
)
