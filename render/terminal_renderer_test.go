package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stacker/engine"
	"github.com/lixenwraith/stacker/leaderboard"
	"github.com/lixenwraith/stacker/physics"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func screenText(screen tcell.Screen) string {
	_, h := screen.Size()
	var rows []string
	for y := 0; y < h; y++ {
		rows = append(rows, rowText(screen, y))
	}
	return strings.Join(rows, "\n")
}

func TestRenderIdle(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewTerminalRenderer(screen)

	r.RenderFrame(Frame{Tuning: engine.DefaultTuning()})

	text := screenText(screen)
	for _, want := range []string{"STACKER", "press SPACE to start", "LEADERBOARD", "no active season", "SPACE place"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestRenderBlocksScaleToCells(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewTerminalRenderer(screen)
	tuning := engine.DefaultTuning()

	base := physics.Block{X: 125, Y: 570, Width: 150, Color: physics.BlockColor(0)}
	snap := engine.Snapshot{RunState: engine.RunState{
		State:  engine.StatePlaying,
		Blocks: []physics.Block{base},
		Speed:  2,
	}}
	r.RenderFrame(Frame{Snapshot: snap, Tuning: tuning})

	// 80 columns leave 49 for the stack, 24 rows leave 22
	// x: 125..275 * 49/400 -> cells 15..32, y: 570 * 22/600 -> row 20
	want := NewPalette().Block(base.Color, false)
	for _, cell := range [][2]int{{15, 20}, {32, 20}, {24, 20}} {
		ch, _, style, _ := screen.GetContent(cell[0], cell[1])
		fg, _, _ := style.Decompose()
		if ch != runeBlock || fg != want {
			t.Errorf("cell %v = %q fg %v, want block fg %v", cell, ch, fg, want)
		}
	}
	for _, cell := range [][2]int{{14, 20}, {33, 20}, {20, 19}} {
		if ch, _, _, _ := screen.GetContent(cell[0], cell[1]); ch == runeBlock {
			t.Errorf("cell %v should be empty", cell)
		}
	}
}

func TestRenderAppliesViewOffset(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewTerminalRenderer(screen)

	// Above the canvas until shifted down by the view offset
	block := physics.Block{X: 0, Y: -60, Width: 400, Color: physics.BlockColor(3)}
	snap := engine.Snapshot{
		RunState:   engine.RunState{State: engine.StatePlaying, Blocks: []physics.Block{block}},
		ViewOffset: 300,
	}
	r.RenderFrame(Frame{Snapshot: snap, Tuning: engine.DefaultTuning()})

	// y 240..270 * 22/600 -> row 8
	if ch, _, _, _ := screen.GetContent(10, 8); ch != runeBlock {
		t.Errorf("expected shifted block on row 8, got %q", ch)
	}
}

func TestRenderPausedAndGameOver(t *testing.T) {
	tests := []struct {
		name string
		snap engine.Snapshot
		want []string
	}{
		{
			name: "paused",
			snap: engine.Snapshot{RunState: engine.RunState{State: engine.StatePlaying, Paused: true}},
			want: []string{"PAUSED", "press P to resume"},
		},
		{
			name: "game over committing",
			snap: engine.Snapshot{RunState: engine.RunState{State: engine.StateGameOver, Score: 12, Combos: 2}, Committing: true},
			want: []string{"GAME OVER", "score 12  combos 2", "saving score..."},
		},
		{
			name: "game over settled",
			snap: engine.Snapshot{RunState: engine.RunState{State: engine.StateGameOver, Score: 4}},
			want: []string{"GAME OVER", "press SPACE to play again"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newScreen(t, 80, 24)
			NewTerminalRenderer(screen).RenderFrame(Frame{Snapshot: tt.snap, Tuning: engine.DefaultTuning()})
			text := screenText(screen)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("screen missing %q", want)
				}
			}
		})
	}
}

func TestRenderLeaderboardPanel(t *testing.T) {
	screen := newScreen(t, 80, 30)
	r := NewTerminalRenderer(screen)

	view := leaderboard.View{
		Season: &leaderboard.Season{Number: 7},
		HighScores: []leaderboard.HighScore{
			{Player: "ada", Score: 42},
			{Player: "a-very-long-player-name", Score: 30},
		},
		History: []leaderboard.HighScore{{Season: 7, Score: 11, Combos: 1}},
		Winners: []leaderboard.Winner{{Season: 6, Player: "bo", Score: 99}},
		Stats:   &leaderboard.GameStats{TotalParticipants: 5, ActivePlayers24h: 2, TotalPlays: 40, TotalAltitude: 900},
	}
	r.RenderFrame(Frame{Tuning: engine.DefaultTuning(), Board: view})

	text := screenText(screen)
	for _, want := range []string{"season 7", " 1. ada", "42", "a-very-long-pla…", "YOUR RUNS", "WINNERS", "bo", "players 5", "plays 40", "season 7"} {
		if !strings.Contains(text, want) {
			t.Errorf("panel missing %q", want)
		}
	}
}

func TestRenderNarrowHidesPanel(t *testing.T) {
	screen := newScreen(t, 40, 20)
	NewTerminalRenderer(screen).RenderFrame(Frame{Tuning: engine.DefaultTuning()})
	text := screenText(screen)
	if strings.Contains(text, "LEADERBOARD") || strings.ContainsRune(text, runeRule) {
		t.Error("panel should be hidden on narrow screens")
	}
}

func TestRenderFooter(t *testing.T) {
	screen := newScreen(t, 80, 24)
	r := NewTerminalRenderer(screen)
	tuning := engine.DefaultTuning()
	snap := engine.Snapshot{RunState: engine.RunState{
		State: engine.StatePlaying, Score: 9, Speed: 2.5, TimeLeft: 3.2, PerfectStreak: 2, Combos: 1,
	}}

	notice := engine.Notice{Kind: engine.NoticeError, Message: "score 9 not saved: boom", At: time.Now()}
	r.RenderFrame(Frame{Snapshot: snap, Tuning: tuning, Notice: notice, HasNotice: true})

	status := rowText(screen, 22)
	for _, want := range []string{"time  3.2s", "score 9", "speed 2.50", "streak 2", "combos 1", "season -"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
	msg := rowText(screen, 23)
	if !strings.Contains(msg, "not saved") {
		t.Errorf("notice row = %q", msg)
	}
	_, _, style, _ := screen.GetContent(1, 23)
	if fg, _, _ := style.Decompose(); fg != RgbError {
		t.Errorf("error notice fg = %v", fg)
	}

	r.RenderFrame(Frame{Snapshot: snap, Tuning: tuning, Muted: true})
	if msg := rowText(screen, 23); !strings.Contains(msg, "[muted]") {
		t.Errorf("help row = %q", msg)
	}

	r.RenderFrame(Frame{Snapshot: snap, Tuning: tuning, Debug: "engine.frames=10"})
	if msg := rowText(screen, 23); !strings.Contains(msg, "engine.frames=10") {
		t.Errorf("debug row = %q", msg)
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		from, size, scale float64
		c0, c1            int
	}{
		{0, 10, 1, 0, 10},
		{2.5, 0.2, 1, 2, 3},
		{125, 150, 0.1225, 15, 33},
		{-20, 10, 1, -20, -10},
	}
	for _, tt := range tests {
		c0, c1 := span(tt.from, tt.size, tt.scale)
		if c0 != tt.c0 || c1 != tt.c1 {
			t.Errorf("span(%v, %v, %v) = %d, %d; want %d, %d", tt.from, tt.size, tt.scale, c0, c1, tt.c0, tt.c1)
		}
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette()
	hex := physics.BlockColor(2)

	solid := p.Block(hex, false)
	if p.Block(hex, false) != solid {
		t.Error("palette lookups should be stable")
	}
	if p.Block(hex, true) == solid {
		t.Error("perfect pulse should differ from the solid color")
	}
	if p.Debris(hex) == solid {
		t.Error("debris should differ from the solid color")
	}
	if got := p.Block("not-a-color", false); got != RgbFallbackHue {
		t.Errorf("invalid hex = %v, want fallback", got)
	}
}

func TestTimeColor(t *testing.T) {
	if got := TimeColor(5, 5); got != RgbText {
		t.Errorf("full time = %v, want text color", got)
	}
	if got := TimeColor(2.5, 5); got != RgbText {
		t.Errorf("half time = %v, want text color", got)
	}
	if got := TimeColor(0, 5); got != tcell.NewRGBColor(255, 120, 120) {
		t.Errorf("expired = %v, want warning color", got)
	}
}
