package network

import "time"

// Config holds collaborator endpoints and transport timing
type Config struct {
	// StoreURL is the base of the leaderboard read API
	StoreURL string

	// ScoreURL receives score submissions
	ScoreURL string

	// RealtimeURL is the websocket change-notification endpoint (ws:// or wss://)
	RealtimeURL string

	// Timing
	RequestTimeout    time.Duration
	ConnectTimeout    time.Duration
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int

	// UserAgent is sent on every HTTP request
	UserAgent string
}

// DefaultConfig returns production-safe timing with no endpoints
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:    4 * time.Second,
		ConnectTimeout:    5 * time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ReconnectDelay:    2 * time.Second,
		ReadBufferSize:    16 * 1024,
		WriteBufferSize:   16 * 1024,
		UserAgent:         "stacker/1",
	}
}

// DebugConfig returns config pointed at a local collaborator stack
func DebugConfig(base string) *Config {
	cfg := DefaultConfig()
	cfg.StoreURL = base + "/store"
	cfg.ScoreURL = base + "/score"
	cfg.RealtimeURL = "ws" + trimScheme(base) + "/realtime"
	cfg.HeartbeatInterval = time.Second
	cfg.ReconnectDelay = 100 * time.Millisecond
	return cfg
}

// trimScheme turns http://host into ://host so the websocket scheme can be prefixed
func trimScheme(base string) string {
	switch {
	case len(base) > 5 && base[:5] == "https":
		return "s" + base[5:]
	case len(base) > 4 && base[:4] == "http":
		return base[4:]
	}
	return "://" + base
}
