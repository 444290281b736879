package leaderboard

import (
	"context"
	"errors"

	"github.com/lixenwraith/stacker/network"
)

// Store is the read side of the external leaderboard service
type Store interface {
	Feed(ctx context.Context, game string) ([]FeedItem, error)
	HighScores(ctx context.Context, game string, season int) ([]HighScore, error)
	History(ctx context.Context, game, player string) ([]HighScore, error)
	Winners(ctx context.Context, game string) ([]Winner, error)
	Stats(ctx context.Context, game string, season int) (GameStats, error)
}

// Subscription is a held change feed
type Subscription interface {
	Close()
}

// Notifier opens change-notification subscriptions
type Notifier interface {
	Subscribe(ctx context.Context, filter network.Filter, handler func(network.Change)) (Subscription, error)
}

// RealtimeSource yields the realtime client once it exists; the realtime hub service satisfies it
type RealtimeSource interface {
	Realtime() *network.Realtime
}

var ErrNoNotifier = errors.New("realtime client not initialized")

// RealtimeNotifier adapts the websocket realtime client to Notifier
type RealtimeNotifier struct {
	Source RealtimeSource
}

// Subscribe implements Notifier
func (n RealtimeNotifier) Subscribe(ctx context.Context, filter network.Filter, handler func(network.Change)) (Subscription, error) {
	if n.Source == nil {
		return nil, ErrNoNotifier
	}
	rt := n.Source.Realtime()
	if rt == nil {
		return nil, ErrNoNotifier
	}
	sub, err := rt.Subscribe(ctx, filter, handler)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
