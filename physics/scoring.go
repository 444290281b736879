package physics

import (
	"math"

	"github.com/lixenwraith/stacker/constant"
)

// Award is the score outcome of one successful placement
type Award struct {
	Points int  // BlockScore plus Bonus
	Bonus  int  // Non-zero only when a combo triggered
	Combo  bool // Streak reached a multiple of ComboEvery
}

// Streak tracks consecutive perfect placements and the combos they earned
// Zero value is a fresh run
type Streak struct {
	Perfect    int // Consecutive perfects since the last imperfect placement
	Combos     int // Combos earned this run, never reduced
	BonusTotal int // Sum of all bonuses this run
}

// Record applies one placement to the streak
// speed is the speed in effect for this placement, before NextSpeed
func (s *Streak) Record(perfect bool, speed float64) Award {
	a := Award{Points: constant.BlockScore}
	if !perfect {
		s.Perfect = 0
		return a
	}

	s.Perfect++
	if s.Perfect%constant.ComboEvery == 0 {
		a.Combo = true
		a.Bonus = Bonus(speed)
		a.Points += a.Bonus
		s.Combos++
		s.BonusTotal += a.Bonus
	}
	return a
}

// Bonus returns the combo bonus for the given speed: ceil(speed/2) clamped to [MinBonus, MaxBonus]
func Bonus(speed float64) int {
	b := int(math.Ceil(speed / 2))
	if b < constant.MinBonus {
		return constant.MinBonus
	}
	if b > constant.MaxBonus {
		return constant.MaxBonus
	}
	return b
}

// NextSpeed returns the speed after a placement, capped at maxSpeed
func NextSpeed(speed float64, perfect bool, maxSpeed float64) float64 {
	if perfect {
		speed += constant.PerfectSpeedIncrement
	} else {
		speed += constant.NormalSpeedIncrement
	}
	return math.Min(speed, maxSpeed)
}
