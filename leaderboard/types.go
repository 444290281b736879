// Package leaderboard keeps season-scoped leaderboard views in sync with the external store
package leaderboard

import (
	"sort"
	"time"
)

// Table is the store table score commits land in; change notifications are scoped to it
const Table = "game-leaderboard"

// FeedItem is one entry of the game's external feed
type FeedItem struct {
	Title       string
	CashoutTime int64
}

// Season is the active season resolved from the feed
type Season struct {
	Number int
	Item   FeedItem
}

// HighScore is one committed run
type HighScore struct {
	Player    string
	Score     int
	Combos    int
	Season    int
	CreatedAt time.Time
}

// Winner is the top player of a finished season
type Winner struct {
	Season int
	Player string
	Score  int
}

// GameStats aggregates one season
type GameStats struct {
	TotalParticipants int
	ActivePlayers24h  int
	TotalPlays        int
	TotalAltitude     int
}

// View is the synchronized leaderboard state handed to renderers
type View struct {
	Season     *Season
	HighScores []HighScore
	History    []HighScore
	Winners    []Winner
	Stats      *GameStats
	UpdatedAt  time.Time
}

// clone returns a deep copy
func (v View) clone() View {
	out := v
	if v.Season != nil {
		s := *v.Season
		out.Season = &s
	}
	if v.Stats != nil {
		st := *v.Stats
		out.Stats = &st
	}
	out.HighScores = append([]HighScore(nil), v.HighScores...)
	out.History = append([]HighScore(nil), v.History...)
	out.Winners = append([]Winner(nil), v.Winners...)
	return out
}

// SortHighScores orders by score descending, earlier runs first on ties
func SortHighScores(list []HighScore) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

// sortHistory orders a player's runs newest first
func sortHistory(list []HighScore) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// sortWinners orders by season, latest first
func sortWinners(list []Winner) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Season > list[j].Season
	})
}
