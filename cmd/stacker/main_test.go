package main

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stacker/audio"
	"github.com/lixenwraith/stacker/config"
	"github.com/lixenwraith/stacker/engine"
	"github.com/lixenwraith/stacker/leaderboard"
	"github.com/lixenwraith/stacker/render"
	"github.com/lixenwraith/stacker/status"
)

func newTestHost(t *testing.T) (*host, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	eng, err := engine.NewEngine(engine.Options{Clocks: &engine.ManualClocks{}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })

	return &host{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen),
		engine:   eng,
		player:   audio.NewPlayer(&audio.Config{Enabled: false}, nil),
		views:    &board{},
		status:   status.NewRegistry(),
	}, screen
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestHostKeys(t *testing.T) {
	h, _ := newTestHost(t)

	if !h.handle(key(tcell.KeyRune, ' ')) {
		t.Fatal("space should not quit")
	}
	if got := h.engine.Snapshot().State; got != engine.StatePlaying {
		t.Fatalf("state after space = %v, want playing", got)
	}

	h.handle(key(tcell.KeyRune, 'p'))
	if !h.engine.Snapshot().Paused {
		t.Error("p should pause")
	}
	h.handle(key(tcell.KeyRune, 'P'))
	if h.engine.Snapshot().Paused {
		t.Error("P should resume")
	}

	h.handle(key(tcell.KeyEnter, 0))
	if got := h.engine.Snapshot().Placements(); got != 1 {
		t.Errorf("placements after enter = %d, want 1", got)
	}

	muted := h.player.IsMuted()
	h.handle(key(tcell.KeyRune, 'm'))
	if h.player.IsMuted() == muted {
		t.Error("m should toggle mute")
	}

	for _, ev := range []*tcell.EventKey{key(tcell.KeyRune, 'q'), key(tcell.KeyEscape, 0), key(tcell.KeyCtrlC, 0)} {
		if h.handle(ev) {
			t.Errorf("%v should quit", ev.Name())
		}
	}
}

func TestHostDrawShowsBoardAndDebug(t *testing.T) {
	h, screen := newTestHost(t)
	h.debug = true
	h.status.Ints.Get(status.EngineRuns).Store(3)
	h.views.set(leaderboard.View{Season: &leaderboard.Season{Number: 4}})

	h.draw()

	var b strings.Builder
	w, hgt := screen.Size()
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			ch, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	for _, want := range []string{"season 4", "engine.runs=3", "press SPACE to start"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestResolveSession(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	cfg := config.Default()
	sess := resolveSession(cfg, logger)
	if !sess.Anonymous() || sess.Player != "" {
		t.Errorf("empty token = %+v, want anonymous", sess)
	}

	cfg.SessionToken = "not-a-jwt"
	cfg.Player = "ada"
	sess = resolveSession(cfg, logger)
	if !sess.Anonymous() || sess.Player != "ada" {
		t.Errorf("bad token with player override = %+v", sess)
	}
}
