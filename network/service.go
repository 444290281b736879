package network

import (
	"io"
	"log"
	"sync"

	"github.com/lixenwraith/stacker/session"
)

// Service wraps Realtime as a hub-managed service
type Service struct {
	config  *Config
	session session.Session
	logger  *log.Logger

	mu       sync.Mutex
	realtime *Realtime
}

// NewService creates a realtime service with default config
func NewService() *Service {
	return &Service{
		config: DefaultConfig(),
		logger: log.New(io.Discard, "", 0),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "realtime"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Accepts *Config, session.Session and *log.Logger in any order
func (s *Service) Init(args ...any) error {
	for _, arg := range args {
		switch v := arg.(type) {
		case *Config:
			if v != nil {
				s.config = v
			}
		case session.Session:
			s.session = v
		case *log.Logger:
			if v != nil {
				s.logger = v
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.realtime = NewRealtime(s.config, s.session, s.logger)
	return nil
}

// Start implements service.Service
// Subscriptions are opened by their owners, nothing is dialed here
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	rt := s.realtime
	s.mu.Unlock()
	if rt == nil {
		return nil
	}
	return rt.Close()
}

// Realtime returns the client, nil before Init
func (s *Service) Realtime() *Realtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realtime
}

// Enabled reports whether a realtime endpoint is configured
func (s *Service) Enabled() bool {
	return s.config.RealtimeURL != ""
}
