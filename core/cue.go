package core

// Cue identifies an audio cue raised by the game
type Cue int

const (
	CuePlace   Cue = iota // Imperfect placement
	CuePerfect            // Perfect placement without combo
	CueCombo              // Every third perfect in a streak
	CueFail               // Run ended
	CueCount
)

var cueNames = [CueCount]string{"place", "perfect", "combo", "fail"}

// String returns the cue name used in config and logs
func (c Cue) String() string {
	if c < 0 || c >= CueCount {
		return "unknown"
	}
	return cueNames[c]
}

// ParseCue maps a cue name back to its value
func ParseCue(name string) (Cue, bool) {
	for i, n := range cueNames {
		if n == name {
			return Cue(i), true
		}
	}
	return 0, false
}
