package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/stacker/constant"
	"github.com/lixenwraith/stacker/core"
	"github.com/lixenwraith/stacker/gateway"
	"github.com/lixenwraith/stacker/physics"
	"github.com/lixenwraith/stacker/status"
)

// CuePlayer plays short feedback sounds
type CuePlayer interface {
	// Play queues a cue and reports whether it was accepted
	Play(cue core.Cue) bool
	// Suspend releases the output device until the next Play
	Suspend() error
}

// Committer persists a finished run's score
type Committer interface {
	Submit(ctx context.Context, sub gateway.Submission) (*gateway.Receipt, error)
}

// SeasonSource reports the season scores are attributed to
type SeasonSource interface {
	SeasonNumber() (int, bool)
}

// Options configures an Engine; zero values select defaults
type Options struct {
	Tuning Tuning

	// Clock stamps animation frames, defaults to the monotonic clock
	Clock TimeProvider

	// Clocks drives CountdownTick and AnimationFrame; nil runs a real Scheduler
	Clocks Clocks

	Cues      CuePlayer
	Committer Committer
	Seasons   SeasonSource

	// OnCommitted runs after a successful commit, outside the engine lock
	OnCommitted func()

	// OnNotice receives commit outcomes, outside the engine lock
	OnNotice func(Notice)

	Logger        *log.Logger
	Status        *status.Registry
	CommitTimeout time.Duration
}

// effects are side effects collected under the lock and applied after it is released
type effects struct {
	cues   []core.Cue
	commit *gateway.Submission
}

// Engine is the game state machine
// All transitions are serialized by one mutex; clock goroutines, input and commit completions re-enter through it
type Engine struct {
	mu sync.Mutex

	tuning    Tuning
	clock     TimeProvider
	clocks    Clocks
	scheduler *Scheduler // Non-nil only when the engine owns its clocks

	cues          CuePlayer
	committer     Committer
	seasons       SeasonSource
	onCommitted   func()
	onNotice      func(Notice)
	logger        *log.Logger
	commitTimeout time.Duration

	run        RunState
	timeLeft   time.Duration
	streak     physics.Streak
	lastFrame  time.Time
	clockGen   uint64
	committing bool
	notice     *Notice
	closed     bool

	ctx     context.Context
	cancel  context.CancelFunc
	commits sync.WaitGroup

	frames     *atomic.Int64
	countdowns *atomic.Int64
	placements *atomic.Int64
	perfects   *atomic.Int64
	runs       *atomic.Int64
	committed  *atomic.Int64
	failures   *atomic.Int64
	speed      *status.AtomicFloat
}

// NewEngine creates an idle engine
func NewEngine(opts Options) (*Engine, error) {
	tuning := opts.Tuning
	if tuning == (Tuning{}) {
		tuning = DefaultTuning()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("engine tuning: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	timeout := opts.CommitTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		tuning:        tuning,
		clock:         clock,
		clocks:        opts.Clocks,
		cues:          opts.Cues,
		committer:     opts.Committer,
		seasons:       opts.Seasons,
		onCommitted:   opts.OnCommitted,
		onNotice:      opts.OnNotice,
		logger:        logger,
		commitTimeout: timeout,
		run:           RunState{State: StateIdle, Speed: tuning.InitialSpeed, Direction: 1},
		ctx:           ctx,
		cancel:        cancel,

		frames:     reg.Ints.Get(status.EngineFrames),
		countdowns: reg.Ints.Get(status.EngineCountdowns),
		placements: reg.Ints.Get(status.EnginePlacements),
		perfects:   reg.Ints.Get(status.EnginePerfects),
		runs:       reg.Ints.Get(status.EngineRuns),
		committed:  reg.Ints.Get(status.GatewayCommits),
		failures:   reg.Ints.Get(status.GatewayFailures),
		speed:      reg.Floats.Get(status.EngineSpeed),
	}
	e.timeLeft = tuning.TimeLimit
	e.run.TimeLeft = tuning.TimeLimit.Seconds()

	if e.clocks == nil {
		s := NewScheduler(constant.CountdownInterval, constant.FrameInterval, clock)
		s.SetHandlers(e.countdownFromClock, e.frameFromClock)
		e.scheduler = s
		e.clocks = s
	}

	return e, nil
}

// Tuning returns the engine's gameplay parameters
func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// StartGame discards the current run and begins a new one
// Not gated by an in-flight commit; the commit completes against the previous run's score
func (e *Engine) StartGame() {
	var fx effects
	e.mu.Lock()
	e.startLocked(&fx)
	e.mu.Unlock()
	e.apply(fx)
}

// HandleAction is the single player input
// Ignored while paused or while a commit is in flight; starts a run when none is active, otherwise places
// Returns false when the action was ignored
func (e *Engine) HandleAction() bool {
	var fx effects
	e.mu.Lock()
	if e.closed || e.run.Paused || e.committing {
		e.mu.Unlock()
		return false
	}

	switch e.run.State {
	case StateIdle, StateGameOver:
		e.startLocked(&fx)
	case StatePlaying:
		e.placeLocked(&fx)
	}
	e.mu.Unlock()

	e.apply(fx)
	return true
}

// TogglePause flips the pause flag while playing and reports whether it changed
// Pausing stops both clocks; resuming restarts them with a fresh frame baseline
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.run.State != StatePlaying {
		return false
	}

	e.run.Paused = !e.run.Paused
	if e.run.Paused {
		e.clocks.Stop()
		e.logger.Printf("engine: paused score=%d", e.run.Score)
	} else {
		e.lastFrame = time.Time{}
		e.clockGen = e.clocks.Start()
		e.logger.Printf("engine: resumed score=%d", e.run.Score)
	}
	return true
}

// CountdownTick consumes one countdown step, ending the run when the limit is reached
func (e *Engine) CountdownTick() {
	var fx effects
	e.mu.Lock()
	e.countdownLocked(&fx)
	e.mu.Unlock()
	e.apply(fx)
}

// AnimationFrame advances the moving block and the debris by the time elapsed since the previous frame
func (e *Engine) AnimationFrame(now time.Time) {
	e.mu.Lock()
	e.frameLocked(now)
	e.mu.Unlock()
}

func (e *Engine) countdownFromClock(gen uint64) {
	var fx effects
	e.mu.Lock()
	if gen == e.clockGen {
		e.countdownLocked(&fx)
	}
	e.mu.Unlock()
	e.apply(fx)
}

func (e *Engine) frameFromClock(gen uint64, now time.Time) {
	e.mu.Lock()
	if gen == e.clockGen {
		e.frameLocked(now)
	}
	e.mu.Unlock()
}

// Snapshot returns a deep copy of the run
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		RunState:   e.run,
		Committing: e.committing,
		ViewOffset: viewOffset(len(e.run.Blocks), e.tuning.BlockHeight, constant.ScrollAfterRows),
	}
	s.Blocks = append([]physics.Block(nil), e.run.Blocks...)
	s.Debris = append([]physics.Debris(nil), e.run.Debris...)
	if e.run.Current != nil {
		cur := *e.run.Current
		s.Current = &cur
	}
	return s
}

// LastNotice returns the latest commit outcome, if any
func (e *Engine) LastNotice() (Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notice == nil {
		return Notice{}, false
	}
	return *e.notice, true
}

// Committing reports whether a score commit is in flight
func (e *Engine) Committing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committing
}

// WaitCommits blocks until in-flight commits complete
func (e *Engine) WaitCommits() {
	e.commits.Wait()
}

// Close stops both clocks, cancels in-flight commits and releases the audio device
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.clocks.Stop()
	e.clockGen = 0
	e.mu.Unlock()

	e.cancel()
	if e.scheduler != nil {
		e.scheduler.Wait()
	}
	e.commits.Wait()

	if e.cues != nil {
		return e.cues.Suspend()
	}
	return nil
}

func (e *Engine) startLocked(fx *effects) {
	if e.closed {
		return
	}
	t := e.tuning

	base := physics.Block{
		X:     (t.CanvasWidth - t.InitialWidth) / 2,
		Y:     t.CanvasHeight - t.BlockHeight,
		Width: t.InitialWidth,
		Color: physics.BlockColor(0),
	}

	e.run = RunState{
		State:     StatePlaying,
		Speed:     t.InitialSpeed,
		Blocks:    []physics.Block{base},
		Direction: 1,
	}
	e.streak = physics.Streak{}
	e.timeLeft = t.TimeLimit
	e.run.TimeLeft = t.TimeLimit.Seconds()
	e.spawnLocked(base)

	e.lastFrame = time.Time{}
	e.clockGen = e.clocks.Start()

	e.runs.Add(1)
	e.speed.Set(e.run.Speed)
	e.logger.Printf("engine: run started")
}

// spawnLocked places the next moving block one row above top
// Odd levels enter from the left edge moving right, even levels from the right edge moving left
func (e *Engine) spawnLocked(top physics.Block) {
	level := len(e.run.Blocks)
	cur := physics.Block{
		Y:     top.Y - e.tuning.BlockHeight,
		Width: top.Width,
		Color: physics.BlockColor(level),
	}
	if level%2 == 1 {
		cur.X = 0
		e.run.Direction = 1
	} else {
		cur.X = e.tuning.CanvasWidth - cur.Width
		e.run.Direction = -1
	}
	e.run.Current = &cur
}

func (e *Engine) placeLocked(fx *effects) {
	top := e.run.Blocks[len(e.run.Blocks)-1]
	p := physics.Place(*e.run.Current, top, e.tuning.PerfectTolerance)
	if !p.Landed {
		e.gameOverLocked(fx, "missed the stack")
		return
	}

	award := e.streak.Record(p.Perfect, e.run.Speed)
	e.run.Score += award.Points
	e.run.PerfectStreak = e.streak.Perfect
	e.run.Combos = e.streak.Combos
	e.run.TotalBonusScore = e.streak.BonusTotal

	e.run.Blocks = append(e.run.Blocks, p.Block)
	if p.Debris != nil {
		e.run.Debris = append(e.run.Debris, *p.Debris)
	}

	e.run.Speed = physics.NextSpeed(e.run.Speed, p.Perfect, e.tuning.MaxSpeed)
	e.timeLeft = e.tuning.TimeLimit
	e.run.TimeLeft = e.timeLeft.Seconds()
	e.spawnLocked(p.Block)

	switch {
	case award.Combo:
		fx.cues = append(fx.cues, core.CueCombo)
	case p.Perfect:
		fx.cues = append(fx.cues, core.CuePerfect)
	default:
		fx.cues = append(fx.cues, core.CuePlace)
	}

	e.placements.Add(1)
	if p.Perfect {
		e.perfects.Add(1)
	}
	e.speed.Set(e.run.Speed)
}

func (e *Engine) countdownLocked(fx *effects) {
	if e.closed || e.run.State != StatePlaying || e.run.Paused {
		return
	}
	e.countdowns.Add(1)

	if e.timeLeft <= constant.CountdownThreshold {
		e.timeLeft = 0
		e.run.TimeLeft = 0
		e.gameOverLocked(fx, "time expired")
		return
	}
	e.timeLeft -= constant.CountdownStep
	e.run.TimeLeft = e.timeLeft.Seconds()
}

func (e *Engine) frameLocked(now time.Time) {
	if e.run.State != StatePlaying || e.run.Paused || e.run.Current == nil {
		return
	}

	scale := 1.0
	if !e.lastFrame.IsZero() {
		scale = physics.FrameScale(now.Sub(e.lastFrame))
	}
	e.lastFrame = now
	e.frames.Add(1)

	cur, dir := physics.Advance(*e.run.Current, e.run.Direction, e.run.Speed, scale, e.tuning.CanvasWidth)
	e.run.Current = &cur
	e.run.Direction = dir

	if len(e.run.Debris) > 0 {
		offset := viewOffset(len(e.run.Blocks), e.tuning.BlockHeight, constant.ScrollAfterRows)
		e.run.Debris = physics.AgeDebris(e.run.Debris, scale, e.tuning.CanvasHeight-offset, e.tuning.CanvasWidth)
	}
}

// gameOverLocked ends the run once; later calls are no-ops
func (e *Engine) gameOverLocked(fx *effects, reason string) {
	if e.run.State != StatePlaying {
		return
	}
	e.run.State = StateGameOver
	e.run.Current = nil
	e.run.Paused = false
	e.clocks.Stop()
	fx.cues = append(fx.cues, core.CueFail)

	e.logger.Printf("engine: game over (%s) score=%d combos=%d", reason, e.run.Score, e.run.Combos)

	if e.run.Score <= 0 || e.committer == nil {
		return
	}
	season, ok := 0, false
	if e.seasons != nil {
		season, ok = e.seasons.SeasonNumber()
	}
	if !ok {
		e.logger.Printf("engine: no active season, score=%d not submitted", e.run.Score)
		return
	}

	e.committing = true
	fx.commit = &gateway.Submission{
		Score:  e.run.Score,
		Season: season,
		Combos: e.run.Combos,
	}
}

func (e *Engine) apply(fx effects) {
	if e.cues != nil {
		for _, c := range fx.cues {
			e.cues.Play(c)
		}
	}
	if fx.commit != nil {
		e.commit(*fx.commit)
	}
}

// commit submits asynchronously and never retries; the score stays in the run either way
func (e *Engine) commit(sub gateway.Submission) {
	e.commits.Add(1)
	core.Go(func() {
		defer e.commits.Done()

		ctx, cancel := context.WithTimeout(e.ctx, e.commitTimeout)
		_, err := e.committer.Submit(ctx, sub)
		cancel()

		n := Notice{Kind: NoticeSuccess, Score: sub.Score, At: e.clock.Now()}
		if err != nil {
			n.Kind = NoticeError
			n.Message = fmt.Sprintf("score %d not saved: %v", sub.Score, err)
			e.failures.Add(1)
			e.logger.Printf("engine: commit failed: %v", err)
		} else {
			n.Message = fmt.Sprintf("score %d saved to season %d", sub.Score, sub.Season)
			e.committed.Add(1)
		}

		e.mu.Lock()
		e.committing = false
		e.notice = &n
		e.mu.Unlock()

		if err == nil && e.onCommitted != nil {
			e.onCommitted()
		}
		if e.onNotice != nil {
			e.onNotice(n)
		}
	})
}
