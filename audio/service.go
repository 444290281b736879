package audio

import (
	"io"
	"log"
	"sync"
)

// Service wraps Player as a hub-managed service
// Audio is optional: a missing device degrades to silent play, never to an error
type Service struct {
	mu     sync.Mutex
	player *Player
	cfg    *Config
	logger *log.Logger
}

// NewService creates an audio service
func NewService() *Service {
	return &Service{
		cfg:    DefaultConfig(),
		logger: log.New(io.Discard, "", 0),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Accepts *Config and *log.Logger in any order
func (s *Service) Init(args ...any) error {
	for _, arg := range args {
		switch v := arg.(type) {
		case *Config:
			if v != nil {
				s.cfg = v
			}
		case *log.Logger:
			if v != nil {
				s.logger = v
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = NewPlayer(s.cfg, s.logger)
	return nil
}

// Start implements service.Service
// The device is acquired on the first cue
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	p := s.player
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Suspend()
}

// Player returns the cue player, nil before Init
func (s *Service) Player() *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}
