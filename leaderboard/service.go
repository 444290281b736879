package leaderboard

import (
	"context"
	"time"
)

// Service mounts a Synchronizer for the life of the hub
type Service struct {
	sync         *Synchronizer
	mountTimeout time.Duration
}

// NewService wraps sync as a hub-managed service
func NewService(sync *Synchronizer) *Service {
	return &Service{sync: sync, mountTimeout: 10 * time.Second}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "leaderboard"
}

// Dependencies implements service.Service
// Change notifications ride on the realtime client
func (s *Service) Dependencies() []string {
	return []string{"realtime"}
}

// Init implements service.Service
func (s *Service) Init(args ...any) error {
	return nil
}

// Start implements service.Service
// Leaderboard reads are best effort; a failed mount leaves the game playable
func (s *Service) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.mountTimeout)
	defer cancel()
	if err := s.sync.Mount(ctx); err != nil {
		s.sync.logger.Printf("leaderboard: mount: %v", err)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.sync.Unmount()
	return nil
}

// Synchronizer returns the wrapped synchronizer
func (s *Service) Synchronizer() *Synchronizer {
	return s.sync
}
