// Package service manages the lifecycle of the long-lived subsystems around the engine
package service

// Service is a long-lived subsystem: the audio player, the realtime client, the leaderboard synchronizer
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration handed to every service; each picks the types it understands
//  3. Start() - open connections, launch goroutines
//  4. [runtime operation]
//  5. Stop() - release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	Dependencies() []string

	// Init configures the service; unknown arg types are ignored
	Init(args ...any) error

	// Start begins service operation, called after every service initialized
	Start() error

	// Stop releases resources
	// Must be idempotent
	Stop() error
}
