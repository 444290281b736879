package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stacker/audio"
	"github.com/lixenwraith/stacker/config"
	"github.com/lixenwraith/stacker/constant"
	"github.com/lixenwraith/stacker/core"
	"github.com/lixenwraith/stacker/engine"
	"github.com/lixenwraith/stacker/gateway"
	"github.com/lixenwraith/stacker/leaderboard"
	"github.com/lixenwraith/stacker/network"
	"github.com/lixenwraith/stacker/render"
	"github.com/lixenwraith/stacker/service"
	"github.com/lixenwraith/stacker/session"
	"github.com/lixenwraith/stacker/status"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "stacker: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg, log.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "stacker: %v\n", err)
		os.Exit(1)
	}
}

// resolveSession reads the player identity from the configured token
// A token that cannot be read leaves the session anonymous and is logged
func resolveSession(cfg *config.Config, logger *log.Logger) session.Session {
	sess, err := session.Parse(cfg.SessionToken)
	if err != nil {
		logger.Printf("session: %v, continuing anonymously", err)
		return session.WithPlayer(cfg.Player)
	}
	if cfg.Player != "" {
		sess.Player = cfg.Player
	}
	return sess
}

// board holds the latest leaderboard view pushed by the synchronizer
type board struct {
	mu   sync.Mutex
	view leaderboard.View
}

func (b *board) set(v leaderboard.View) {
	b.mu.Lock()
	b.view = v
	b.mu.Unlock()
}

func (b *board) get() leaderboard.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

func run(cfg *config.Config, logger *log.Logger) error {
	sess := resolveSession(cfg, logger)
	netCfg := cfg.Network()
	client := network.NewClient(netCfg, sess)
	reg := status.NewRegistry()
	views := &board{}

	hub := service.NewHub(logger)
	audioSvc := audio.NewService()
	realtimeSvc := network.NewService()
	if err := hub.Register(audioSvc); err != nil {
		return err
	}
	if err := hub.Register(realtimeSvc); err != nil {
		return err
	}

	var syncer *leaderboard.Synchronizer
	if netCfg.StoreURL != "" {
		var notifier leaderboard.Notifier
		if netCfg.RealtimeURL != "" {
			notifier = leaderboard.RealtimeNotifier{Source: realtimeSvc}
		}
		s, err := leaderboard.NewSynchronizer(leaderboard.Options{
			Game:     cfg.Game,
			Player:   sess.Player,
			Store:    leaderboard.NewHTTPStore(netCfg.StoreURL, client),
			Notifier: notifier,
			OnUpdate: views.set,
			Logger:   logger,
			Status:   reg,
		})
		if err != nil {
			return err
		}
		syncer = s
		if err := hub.Register(leaderboard.NewService(syncer)); err != nil {
			return err
		}
	} else {
		logger.Printf("leaderboard: no store endpoint, running offline")
	}

	if err := hub.InitAll(&cfg.Audio, netCfg, sess, logger); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mSTACKER CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	opts := engine.Options{
		Tuning: cfg.Tuning,
		Cues:   audioSvc.Player(),
		Logger: logger,
		Status: reg,
	}
	if netCfg.ScoreURL != "" {
		opts.Committer = gateway.New(netCfg.ScoreURL, client, logger)
	}
	if syncer != nil {
		opts.Seasons = syncer
		opts.OnCommitted = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := syncer.Refresh(ctx); err != nil {
				logger.Printf("leaderboard: refresh after commit: %v", err)
			}
		}
	}

	eng, err := engine.NewEngine(opts)
	if err != nil {
		return err
	}
	defer eng.Close()

	host := &host{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen),
		engine:   eng,
		player:   audioSvc.Player(),
		views:    views,
		status:   reg,
		debug:    cfg.Debug,
	}
	host.loop()
	return nil
}

// host owns the terminal: it forwards keys to the engine and redraws on a fixed interval
type host struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	engine   *engine.Engine
	player   *audio.Player
	views    *board
	status   *status.Registry
	debug    bool
}

func (h *host) loop() {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)

	core.Go(func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	ticker := time.NewTicker(constant.RenderInterval)
	defer ticker.Stop()

	h.draw()
	for {
		select {
		case ev := <-events:
			if !h.handle(ev) {
				return
			}
			h.draw()
		case <-ticker.C:
			h.draw()
		}
	}
}

// handle applies one terminal event, returning false to quit
func (h *host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			h.engine.HandleAction()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				h.engine.HandleAction()
			case 'p', 'P':
				h.engine.TogglePause()
			case 'm', 'M':
				if h.player != nil {
					h.player.ToggleMute()
				}
			case 'q', 'Q':
				return false
			}
		}
	case *tcell.EventResize:
		h.renderer.Sync()
	}
	return true
}

func (h *host) draw() {
	f := render.Frame{
		Snapshot: h.engine.Snapshot(),
		Tuning:   h.engine.Tuning(),
		Board:    h.views.get(),
	}
	if n, ok := h.engine.LastNotice(); ok && time.Since(n.At) < constant.NoticeDuration {
		f.Notice = n
		f.HasNotice = true
	}
	if h.player != nil {
		f.Muted = h.player.IsMuted()
	}
	if h.debug {
		f.Debug = h.status.Line()
	}
	h.renderer.RenderFrame(f)
}
