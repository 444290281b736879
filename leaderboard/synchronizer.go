package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/stacker/network"
	"github.com/lixenwraith/stacker/status"
)

var (
	ErrNoGame         = errors.New("game id required")
	ErrNoStore        = errors.New("leaderboard store required")
	ErrAlreadyMounted = errors.New("synchronizer already mounted")
)

// Options configures a Synchronizer
type Options struct {
	Game     string
	Player   string // History is skipped when empty
	Store    Store
	Notifier Notifier // Nil disables change notifications
	Cache    *Cache   // Nil creates a private cache

	// OnUpdate receives a copy of the view after every fetch
	OnUpdate func(View)

	FetchTimeout time.Duration
	Logger       *log.Logger
	Status       *status.Registry
}

// Synchronizer keeps the leaderboard view current for one game
// It holds at most one change subscription between Mount and Unmount
type Synchronizer struct {
	game     string
	player   string
	store    Store
	notifier Notifier
	cache    *Cache
	onUpdate func(View)
	timeout  time.Duration
	logger   *log.Logger

	mu      sync.RWMutex
	season  *Season
	view    View
	sub     Subscription
	mounted bool

	// Serializes fetch rounds so views are applied in request order
	fetchMu sync.Mutex

	refreshes *atomic.Int64
	changes   *atomic.Int64
	seasonTag *status.AtomicString
}

// NewSynchronizer creates an unmounted synchronizer
func NewSynchronizer(opts Options) (*Synchronizer, error) {
	if opts.Game == "" {
		return nil, ErrNoGame
	}
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Synchronizer{
		game:      opts.Game,
		player:    opts.Player,
		store:     opts.Store,
		notifier:  opts.Notifier,
		cache:     cache,
		onUpdate:  opts.OnUpdate,
		timeout:   timeout,
		logger:    logger,
		refreshes: reg.Ints.Get(status.SyncRefreshes),
		changes:   reg.Ints.Get(status.SyncChanges),
		seasonTag: reg.Strings.Get(status.SyncSeason),
	}, nil
}

// Mount resolves the season, loads every view and opens the change subscription
// Fetch failures are logged and leave the affected view empty; the returned error reports a failed subscription
func (s *Synchronizer) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	s.mu.Unlock()

	if _, err := s.ResolveSeason(ctx); err != nil {
		s.logger.Printf("leaderboard: season unresolved: %v", err)
	}
	if err := s.fetch(ctx, false); err != nil {
		s.logger.Printf("leaderboard: initial load: %v", err)
	}

	if s.notifier == nil {
		return nil
	}
	filter := network.Filter{Table: Table, Event: network.EventInsert, Game: s.game}
	sub, err := s.notifier.Subscribe(ctx, filter, s.onChange)
	if err != nil {
		s.logger.Printf("leaderboard: change notifications unavailable: %v", err)
		return fmt.Errorf("subscribe: %w", err)
	}

	s.mu.Lock()
	if !s.mounted {
		// Unmounted while subscribing
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Unmount releases the change subscription; safe to call repeatedly
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mounted = false
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// Subscribed reports whether a change subscription is held
func (s *Synchronizer) Subscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sub != nil
}

// ResolveSeason refetches the feed and updates the active season
// On failure the synchronizer has no active season and scores are not attributed
func (s *Synchronizer) ResolveSeason(ctx context.Context) (Season, error) {
	items, err := s.store.Feed(ctx, s.game)
	if err == nil {
		s.cache.Put(Key{Game: s.game, Query: QueryFeed}, items)
	}

	var season Season
	if err == nil {
		season, err = ResolveSeason(items)
	}

	s.mu.Lock()
	prev := s.season
	if err != nil {
		s.season = nil
	} else {
		s.season = &season
	}
	s.view.Season = s.season
	s.mu.Unlock()

	if prev != nil && (err != nil || prev.Number != season.Number) {
		s.invalidateSeason(prev.Number)
	}

	if err != nil {
		s.seasonTag.Store("")
		return Season{}, err
	}
	s.seasonTag.Store(strconv.Itoa(season.Number))
	s.logger.Printf("leaderboard: active season %d (%s)", season.Number, season.Item.Title)
	return season, nil
}

// invalidateSeason drops cached reads scoped to a season that is no longer active
func (s *Synchronizer) invalidateSeason(number int) {
	s.cache.Invalidate(Key{Game: s.game, Season: number, Query: QueryHighScores})
	s.cache.Invalidate(Key{Game: s.game, Season: number, Query: QueryStats})
}

// ActiveSeason returns the resolved season
func (s *Synchronizer) ActiveSeason() (Season, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.season == nil {
		return Season{}, false
	}
	return *s.season, true
}

// SeasonNumber returns the active season number for score attribution
func (s *Synchronizer) SeasonNumber() (int, bool) {
	season, ok := s.ActiveSeason()
	return season.Number, ok
}

// Refresh refetches every view bypassing the cache, used after a committed score
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.refreshes.Add(1)
	return s.fetch(ctx, true)
}

// View returns a copy of the current leaderboard state
func (s *Synchronizer) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.clone()
}

// Cache returns the read cache
func (s *Synchronizer) Cache() *Cache {
	return s.cache
}

// onChange handles one change notification on the subscription reader
func (s *Synchronizer) onChange(c network.Change) {
	s.changes.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.fetch(ctx, true); err != nil {
		s.logger.Printf("leaderboard: refetch after %s change: %v", c.Event, err)
	}
}

// fetch loads high scores, history, winners and season stats
// Successful reads replace their part of the view; failures keep the previous value
func (s *Synchronizer) fetch(ctx context.Context, fresh bool) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	season, hasSeason := s.ActiveSeason()
	var errs []error

	var (
		scores  []HighScore
		history []HighScore
		winners []Winner
		stats   GameStats
		gotHS   bool
		gotHist bool
		gotWin  bool
		gotStat bool
	)

	if hasSeason {
		key := Key{Game: s.game, Season: season.Number, Query: QueryHighScores}
		v, err := cached(ctx, s.cache, key, fresh, func(ctx context.Context) ([]HighScore, error) {
			return s.store.HighScores(ctx, s.game, season.Number)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("high scores: %w", err))
		} else {
			scores = append([]HighScore(nil), v...)
			SortHighScores(scores)
			gotHS = true
		}
	}

	if s.player != "" {
		key := Key{Game: s.game, Query: QueryHistory}
		v, err := cached(ctx, s.cache, key, fresh, func(ctx context.Context) ([]HighScore, error) {
			return s.store.History(ctx, s.game, s.player)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("history: %w", err))
		} else {
			history = append([]HighScore(nil), v...)
			sortHistory(history)
			gotHist = true
		}
	}

	won, err := cached(ctx, s.cache, Key{Game: s.game, Query: QueryWinners}, fresh, func(ctx context.Context) ([]Winner, error) {
		return s.store.Winners(ctx, s.game)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("winners: %w", err))
	} else {
		winners = append([]Winner(nil), won...)
		sortWinners(winners)
		gotWin = true
	}

	if hasSeason {
		key := Key{Game: s.game, Season: season.Number, Query: QueryStats}
		v, err := cached(ctx, s.cache, key, fresh, func(ctx context.Context) (GameStats, error) {
			return s.store.Stats(ctx, s.game, season.Number)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("stats: %w", err))
		} else {
			stats = v
			gotStat = true
		}
	}

	s.mu.Lock()
	if gotHS {
		s.view.HighScores = scores
	}
	if gotHist {
		s.view.History = history
	}
	if gotWin {
		s.view.Winners = winners
	}
	if gotStat {
		st := stats
		s.view.Stats = &st
	}
	if !hasSeason {
		s.view.HighScores = nil
		s.view.Stats = nil
	}
	s.view.UpdatedAt = time.Now()
	view := s.view.clone()
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(view)
	}
	return errors.Join(errs...)
}
