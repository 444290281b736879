package physics

import (
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/stacker/constant"
)

func TestFrameScale(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"baseline frame", constant.BaselineFrame, 1},
		{"double frame", 2 * constant.BaselineFrame, 2},
		{"half frame", constant.BaselineFrame / 2, 0.5},
		{"zero", 0, 0},
		{"negative", -time.Millisecond, 0},
		{"stall clamps", 5 * time.Second, constant.MaxFrameScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrameScale(tt.elapsed)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("FrameScale(%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestAdvanceMovesWithDirection(t *testing.T) {
	b := Block{X: 100, Width: 150}

	moved, dir := Advance(b, 1, 2, 1.5, constant.CanvasWidth)
	if moved.X != 103 || dir != 1 {
		t.Errorf("expected x=103 dir=1, got x=%v dir=%d", moved.X, dir)
	}

	moved, dir = Advance(b, -1, 2, 1, constant.CanvasWidth)
	if moved.X != 98 || dir != -1 {
		t.Errorf("expected x=98 dir=-1, got x=%v dir=%d", moved.X, dir)
	}
}

func TestAdvanceBouncesOffEdges(t *testing.T) {
	right := Block{X: 248, Width: 150}
	moved, dir := Advance(right, 1, 4, 1, constant.CanvasWidth)
	if moved.X != 250 || dir != -1 {
		t.Errorf("right edge: expected x=250 dir=-1, got x=%v dir=%d", moved.X, dir)
	}

	left := Block{X: 1, Width: 150}
	moved, dir = Advance(left, -1, 4, 1, constant.CanvasWidth)
	if moved.X != 0 || dir != 1 {
		t.Errorf("left edge: expected x=0 dir=1, got x=%v dir=%d", moved.X, dir)
	}
}

func TestAdvanceIndependentOfFrameRate(t *testing.T) {
	// 60 frames at 60 Hz and 30 frames at 30 Hz cover the same distance
	fast := Block{X: 10, Width: 50}
	dir := 1
	for i := 0; i < 60; i++ {
		fast, dir = Advance(fast, dir, 2, FrameScale(constant.BaselineFrame), 10000)
	}

	slow := Block{X: 10, Width: 50}
	dir = 1
	for i := 0; i < 30; i++ {
		slow, dir = Advance(slow, dir, 2, FrameScale(2*constant.BaselineFrame), 10000)
	}

	if diff := fast.X - slow.X; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("distance should not depend on refresh rate: %v vs %v", fast.X, slow.X)
	}
}

func TestBlockColorCycles(t *testing.T) {
	a := BlockColor(0)
	b := BlockColor(1)
	if a == b {
		t.Error("adjacent levels should differ in color")
	}
	if len(a) != 7 || a[0] != '#' {
		t.Errorf("expected #rrggbb, got %q", a)
	}
	for level := 0; level < 40; level++ {
		if _, err := colorful.Hex(BlockColor(level)); err != nil {
			t.Errorf("level %d: invalid color %q: %v", level, BlockColor(level), err)
		}
	}
}
