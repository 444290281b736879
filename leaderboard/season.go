package leaderboard

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var seasonPattern = regexp.MustCompile(`(?i)SEASON-(\d+)`)

var (
	ErrNoActiveSeason = errors.New("no active season in feed")
	ErrSeasonTitle    = errors.New("active feed item title does not name a season")
)

// ResolveSeason picks the first feed item with a positive cashout time and parses its season number
func ResolveSeason(items []FeedItem) (Season, error) {
	for _, item := range items {
		if item.CashoutTime <= 0 {
			continue
		}
		m := seasonPattern.FindStringSubmatch(item.Title)
		if m == nil {
			return Season{}, fmt.Errorf("%w: %q", ErrSeasonTitle, item.Title)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Season{}, fmt.Errorf("%w: %q: %v", ErrSeasonTitle, item.Title, err)
		}
		if n <= 0 {
			return Season{}, fmt.Errorf("%w: %q: season numbers start at 1", ErrSeasonTitle, item.Title)
		}
		return Season{Number: n, Item: item}, nil
	}
	return Season{}, ErrNoActiveSeason
}
