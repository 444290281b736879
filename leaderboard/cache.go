package leaderboard

import (
	"context"
	"sync"
)

// Query names one store read
type Query string

const (
	QueryFeed       Query = "feed"
	QueryHighScores Query = "highscores"
	QueryHistory    Query = "history"
	QueryWinners    Query = "winners"
	QueryStats      Query = "stats"
)

// Key identifies one memoized read
// Season is zero for queries that are not season-scoped
type Key struct {
	Game   string
	Season int
	Query  Query
}

// Cache memoizes store reads for the life of a session
// Created at process start and emptied with Clear; refetches overwrite entries in place
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]any
	hits    int64
	misses  int64
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

// Get returns the cached value for key
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores value under key
func (c *Cache) Put(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate drops one key
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]any)
}

// Len returns the number of cached reads
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// cached returns the memoized value for key, calling fetch on a miss or when fresh is set
// Failed fetches are not cached
func cached[T any](ctx context.Context, c *Cache, key Key, fresh bool, fetch func(context.Context) (T, error)) (T, error) {
	if !fresh {
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Put(key, v)
	return v, nil
}
