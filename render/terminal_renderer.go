package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stacker/engine"
	"github.com/lixenwraith/stacker/leaderboard"
)

const (
	sidePanelWidth    = 30
	sidePanelMinWidth = 60 // Narrower screens drop the leaderboard panel
	footerRows        = 2
	topScoreRows      = 8
	historyRows       = 5
	winnerRows        = 3
)

const (
	runeBlock  = '█'
	runeDebris = '▒'
	runeRule   = '│'
)

// Frame is everything drawn in one redraw
type Frame struct {
	Snapshot engine.Snapshot
	Tuning   engine.Tuning
	Board    leaderboard.View

	Notice    engine.Notice
	HasNotice bool

	Muted bool
	Debug string // Replaces the key help when set
}

// TerminalRenderer draws frames onto a tcell screen
type TerminalRenderer struct {
	screen  tcell.Screen
	palette *Palette
	base    tcell.Style
}

// NewTerminalRenderer creates a renderer for screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{
		screen:  screen,
		palette: NewPalette(),
		base:    tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText),
	}
}

// layout is the screen split for one frame
type layout struct {
	stackW, stackH int
	panelX         int // Zero when the panel is hidden
	footerY        int
}

func computeLayout(w, h int) layout {
	l := layout{stackW: w, stackH: h - footerRows, footerY: h - footerRows}
	if w >= sidePanelMinWidth {
		l.stackW = w - sidePanelWidth - 1
		l.panelX = l.stackW + 1
	}
	if l.stackH < 1 {
		l.stackH = 0
		l.footerY = 0
	}
	return l
}

// RenderFrame draws f and shows it
func (r *TerminalRenderer) RenderFrame(f Frame) {
	w, h := r.screen.Size()
	r.screen.Fill(' ', r.base)
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}
	l := computeLayout(w, h)

	if l.stackH > 0 {
		r.drawStack(l, f)
		r.drawOverlay(l, f)
	}
	if l.panelX > 0 {
		for y := 0; y < l.footerY; y++ {
			r.screen.SetContent(l.panelX-1, y, runeRule, nil, r.base.Foreground(RgbFrame))
		}
		r.drawBoard(l, f.Board)
	}
	r.drawFooter(l, w, h, f)
	r.screen.Show()
}

// Sync redraws the whole terminal after a resize
func (r *TerminalRenderer) Sync() {
	r.screen.Sync()
}

// scaler maps canvas pixels onto terminal cells
type scaler struct {
	sx, sy float64
	cols   int
	rows   int
}

func newScaler(l layout, t engine.Tuning) scaler {
	return scaler{
		sx:   float64(l.stackW) / t.CanvasWidth,
		sy:   float64(l.stackH) / t.CanvasHeight,
		cols: l.stackW,
		rows: l.stackH,
	}
}

// span converts [from, from+size) into a cell range of at least one cell
func span(from, size, scale float64) (int, int) {
	c0 := int(math.Floor(from * scale))
	c1 := int(math.Floor((from + size) * scale))
	if c1 <= c0 {
		c1 = c0 + 1
	}
	return c0, c1
}

func (r *TerminalRenderer) fill(s scaler, x, y, w, h float64, ch rune, style tcell.Style) {
	c0, c1 := span(x, w, s.sx)
	r0, r1 := span(y, h, s.sy)
	for row := max(r0, 0); row < min(r1, s.rows); row++ {
		for col := max(c0, 0); col < min(c1, s.cols); col++ {
			r.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawStack(l layout, f Frame) {
	s := newScaler(l, f.Tuning)
	snap := f.Snapshot
	bh := f.Tuning.BlockHeight

	for _, b := range snap.Blocks {
		style := r.base.Foreground(r.palette.Block(b.Color, b.Grow))
		r.fill(s, b.X, b.Y+snap.ViewOffset, b.Width, bh, runeBlock, style)
	}
	if snap.Current != nil {
		c := snap.Current
		style := r.base.Foreground(r.palette.Block(c.Color, false))
		r.fill(s, c.X, c.Y+snap.ViewOffset, c.Width, bh, runeBlock, style)
	}
	for _, d := range snap.Debris {
		style := r.base.Foreground(r.palette.Debris(d.Color))
		r.fill(s, d.X, d.Y+snap.ViewOffset, d.Width, bh, runeDebris, style)
	}
}

func (r *TerminalRenderer) drawOverlay(l layout, f Frame) {
	snap := f.Snapshot
	var lines []string
	accent := r.base.Foreground(RgbAccent).Bold(true)

	switch {
	case snap.State == engine.StateIdle:
		lines = []string{"STACKER", "", "press SPACE to start"}
	case snap.State == engine.StateGameOver:
		lines = []string{"GAME OVER", "", fmt.Sprintf("score %d  combos %d", snap.Score, snap.Combos)}
		if snap.Committing {
			lines = append(lines, "saving score...")
		} else {
			lines = append(lines, "press SPACE to play again")
		}
	case snap.Paused:
		lines = []string{"PAUSED", "", "press P to resume"}
		accent = r.base.Background(RgbPausedBg).Foreground(RgbText).Bold(true)
	default:
		return
	}

	top := l.stackH/2 - len(lines)/2
	for i, line := range lines {
		style := r.base
		if i == 0 {
			style = accent
		}
		x := (l.stackW - len([]rune(line))) / 2
		r.text(max(x, 0), top+i, l.stackW, line, style)
	}
}

func (r *TerminalRenderer) drawBoard(l layout, v leaderboard.View) {
	x := l.panelX + 1
	width := sidePanelWidth - 2
	y := 0
	head := r.base.Foreground(RgbAccent).Bold(true)
	dim := r.base.Foreground(RgbDim)

	line := func(s string, style tcell.Style) {
		if y < l.footerY {
			r.text(x, y, width, s, style)
		}
		y++
	}

	line("LEADERBOARD", head)
	if v.Season != nil {
		line("season "+strconv.Itoa(v.Season.Number), r.base)
	} else {
		line("no active season", dim)
	}
	y++

	line("TOP SCORES", head)
	if len(v.HighScores) == 0 {
		line("  none yet", dim)
	}
	for i, hs := range v.HighScores {
		if i >= topScoreRows {
			break
		}
		line(fmt.Sprintf("%2d. %-16s %6d", i+1, clip(hs.Player, 16), hs.Score), r.base)
	}
	y++

	if len(v.History) > 0 {
		line("YOUR RUNS", head)
		for i, hs := range v.History {
			if i >= historyRows {
				break
			}
			line(fmt.Sprintf("  S%-3d %6d  x%d", hs.Season, hs.Score, hs.Combos), r.base)
		}
		y++
	}

	if len(v.Winners) > 0 {
		line("WINNERS", head)
		for i, win := range v.Winners {
			if i >= winnerRows {
				break
			}
			line(fmt.Sprintf("  S%-3d %-14s %6d", win.Season, clip(win.Player, 14), win.Score), r.base)
		}
		y++
	}

	if v.Stats != nil {
		line("SEASON STATS", head)
		line(fmt.Sprintf("  players %d  active %d", v.Stats.TotalParticipants, v.Stats.ActivePlayers24h), r.base)
		line(fmt.Sprintf("  plays %d  altitude %d", v.Stats.TotalPlays, v.Stats.TotalAltitude), r.base)
	}
}

func (r *TerminalRenderer) drawFooter(l layout, w, h int, f Frame) {
	snap := f.Snapshot
	y := l.footerY
	if y >= h {
		return
	}

	season := "-"
	if f.Board.Season != nil {
		season = strconv.Itoa(f.Board.Season.Number)
	}
	status := fmt.Sprintf(" score %d  speed %.2f  streak %d  combos %d  season %s",
		snap.Score, snap.Speed, snap.PerfectStreak, snap.Combos, season)
	timeText := fmt.Sprintf(" time %4.1fs ", snap.TimeLeft)
	timeStyle := r.base.Foreground(TimeColor(snap.TimeLeft, f.Tuning.TimeLimit.Seconds())).Bold(true)

	r.text(0, y, w, timeText, timeStyle)
	r.text(len(timeText), y, w-len(timeText), status, r.base)

	if y+1 >= h {
		return
	}
	switch {
	case f.HasNotice:
		style := r.base.Foreground(RgbSuccess)
		if f.Notice.Kind == engine.NoticeError {
			style = r.base.Foreground(RgbError)
		}
		r.text(0, y+1, w, " "+f.Notice.Message, style)
	case f.Debug != "":
		r.text(0, y+1, w, " "+f.Debug, r.base.Foreground(RgbDim))
	default:
		help := " SPACE place  P pause  M mute  Q quit"
		if f.Muted {
			help += "  [muted]"
		}
		r.text(0, y+1, w, help, r.base.Foreground(RgbDim))
	}
}

// text writes s starting at (x, y), clipped to width cells
func (r *TerminalRenderer) text(x, y, width int, s string, style tcell.Style) {
	col := 0
	for _, ch := range s {
		if col >= width {
			return
		}
		r.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

func clip(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	if n <= 1 {
		return string(rs[:n])
	}
	return string(rs[:n-1]) + "…"
}
