package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/stacker/constant"
)

func TestBonusClamp(t *testing.T) {
	tests := []struct {
		speed float64
		want  int
	}{
		{0, 1},
		{0.5, 1},
		{2.0, 1},
		{2.06, 2},
		{4.0, 2},
		{4.01, 3},
		{9.5, 5},
		{20, 5},
	}
	for _, tt := range tests {
		if got := Bonus(tt.speed); got != tt.want {
			t.Errorf("Bonus(%v) = %d, want %d", tt.speed, got, tt.want)
		}
	}
}

func TestStreakComboEveryThird(t *testing.T) {
	var s Streak
	speeds := []float64{2.0, 2.03, 2.06}

	var last Award
	for i, sp := range speeds {
		last = s.Record(true, sp)
		if i < 2 && last.Combo {
			t.Fatalf("placement %d should not trigger a combo", i+1)
		}
	}

	if !last.Combo || last.Bonus != 2 {
		t.Fatalf("third perfect at 2.06 should grant bonus 2, got %+v", last)
	}
	if last.Points != constant.BlockScore+2 {
		t.Errorf("expected points %d, got %d", constant.BlockScore+2, last.Points)
	}
	if s.Combos != 1 || s.BonusTotal != 2 || s.Perfect != 3 {
		t.Errorf("unexpected streak state %+v", s)
	}
}

func TestStreakImperfectResetsStreakKeepsCombos(t *testing.T) {
	var s Streak
	for i := 0; i < 3; i++ {
		s.Record(true, 2)
	}
	a := s.Record(false, 2)

	if a.Combo || a.Bonus != 0 || a.Points != constant.BlockScore {
		t.Errorf("imperfect placement earns only the base score, got %+v", a)
	}
	if s.Perfect != 0 {
		t.Errorf("streak should reset, got %d", s.Perfect)
	}
	if s.Combos != 1 {
		t.Errorf("earned combos must be kept, got %d", s.Combos)
	}

	// Chain restarts from zero
	s.Record(true, 2)
	s.Record(true, 2)
	if a := s.Record(true, 2); !a.Combo {
		t.Error("third perfect after a reset should combo again")
	}
	if s.Combos != 2 {
		t.Errorf("expected 2 combos, got %d", s.Combos)
	}
}

func TestStreakBonusIffMultipleOfThree(t *testing.T) {
	var s Streak
	for i := 1; i <= 12; i++ {
		a := s.Record(true, 3)
		want := s.Perfect > 0 && s.Perfect%constant.ComboEvery == 0
		if a.Combo != want {
			t.Fatalf("streak %d: combo=%v want %v", s.Perfect, a.Combo, want)
		}
	}
}

func TestNextSpeed(t *testing.T) {
	if got := NextSpeed(2, true, constant.MaxSpeed); math.Abs(got-2.03) > 1e-9 {
		t.Errorf("perfect: got %v", got)
	}
	if got := NextSpeed(2, false, constant.MaxSpeed); math.Abs(got-2.1) > 1e-9 {
		t.Errorf("normal: got %v", got)
	}
	if got := NextSpeed(constant.MaxSpeed-0.01, false, constant.MaxSpeed); got != constant.MaxSpeed {
		t.Errorf("expected cap at %v, got %v", constant.MaxSpeed, got)
	}
	if constant.PerfectSpeedIncrement >= constant.NormalSpeedIncrement {
		t.Error("perfect play must escalate speed more gently")
	}

	// Monotonic, never above cap
	speed := constant.InitialSpeed
	for i := 0; i < 500; i++ {
		next := NextSpeed(speed, i%3 == 0, constant.MaxSpeed)
		if next < speed || next > constant.MaxSpeed {
			t.Fatalf("step %d: %v -> %v", i, speed, next)
		}
		speed = next
	}
}
